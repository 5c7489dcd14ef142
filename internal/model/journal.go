package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side labels used in LineRecord.Side.
const (
	SideDebit  = "Debit"
	SideCredit = "Credit"
)

// EntryRecord is the flat, persistable form of a committed journal entry.
type EntryRecord struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	Description string       `json:"description"`
	Lines       []LineRecord `json:"lines"`
	Balanced    bool         `json:"is_balanced"`
}

// LineRecord is one posting of an EntryRecord.
type LineRecord struct {
	AccountName string `json:"account_name"`
	Amount      string `json:"amount"` // exact decimal text
	Side        string `json:"entry_type"`
}

// Totals sums the debit and credit sides of the record.
// Amounts that do not parse count as zero.
func (r EntryRecord) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range r.Lines {
		amt, err := decimal.NewFromString(l.Amount)
		if err != nil {
			continue
		}
		switch l.Side {
		case SideDebit:
			debits = debits.Add(amt)
		case SideCredit:
			credits = credits.Add(amt)
		}
	}
	return debits, credits
}
