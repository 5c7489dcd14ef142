package model

// AccountRecord is the flat, persistable form of a ledger account.
type AccountRecord struct {
	Name    string `json:"name"`
	Type    string `json:"account_type"`
	Balance string `json:"balance"` // exact decimal text
}
