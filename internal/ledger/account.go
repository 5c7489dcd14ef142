package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	Asset     AccountType = "Asset"
	Liability AccountType = "Liability"
	Equity    AccountType = "Equity"
	Income    AccountType = "Income"
	Expense   AccountType = "Expense"
)

// AccountTypes returns the closed set of account types in statement order.
func AccountTypes() []AccountType {
	return []AccountType{Asset, Liability, Equity, Income, Expense}
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	default:
		return false
	}
}

// DebitNormal reports whether a debit increases the balance of this type.
func (t AccountType) DebitNormal() bool {
	return t == Asset || t == Expense
}

func (t AccountType) String() string { return string(t) }

// ParseAccountType converts a label such as "asset" or "Income" to an AccountType.
func ParseAccountType(label string) (AccountType, error) {
	for _, t := range AccountTypes() {
		if strings.EqualFold(label, string(t)) {
			return t, nil
		}
	}
	// Older charts label income accounts "revenue".
	if strings.EqualFold(label, "revenue") {
		return Income, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, label)
}

// Account holds a signed balance whose direction of change is decided by its type.
type Account struct {
	name    string
	typ     AccountType
	balance decimal.Decimal
}

// NewAccount creates an account with an opening balance.
func NewAccount(name string, typ AccountType, opening decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidAccount)
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccountType, string(typ))
	}
	return &Account{name: name, typ: typ, balance: opening}, nil
}

// Name returns the account's unique name.
func (a *Account) Name() string { return a.name }

// Type returns the account type.
func (a *Account) Type() AccountType { return a.typ }

// Balance returns the current signed balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Debit applies a debit of amount. Assets and expenses go up, the rest go down.
func (a *Account) Debit(amount decimal.Decimal) error {
	return a.apply(amount, Debit)
}

// Credit applies a credit of amount. Liabilities, equity and income go up, the rest go down.
func (a *Account) Credit(amount decimal.Decimal) error {
	return a.apply(amount, Credit)
}

func (a *Account) apply(amount decimal.Decimal, side Side) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s must be non-negative", ErrInvalidAmount, amount)
	}
	a.post(amount, side)
	return nil
}

// post mutates the balance without validation. amount must already be checked.
func (a *Account) post(amount decimal.Decimal, side Side) {
	if (side == Debit) == a.typ.DebitNormal() {
		a.balance = a.balance.Add(amount)
	} else {
		a.balance = a.balance.Sub(amount)
	}
}

// Record returns the persistable form of the account.
func (a *Account) Record() model.AccountRecord {
	return model.AccountRecord{
		Name:    a.name,
		Type:    string(a.typ),
		Balance: a.balance.String(),
	}
}

func (a *Account) String() string {
	return fmt.Sprintf("%s (%s): %s", a.name, a.typ, a.balance.StringFixed(2))
}
