package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/model"
)

// Side is the side of a journal line.
type Side string

const (
	Debit  Side = model.SideDebit
	Credit Side = model.SideCredit
)

// Valid reports whether s is Debit or Credit.
func (s Side) Valid() bool { return s == Debit || s == Credit }

func (s Side) String() string { return string(s) }

// Line is one immutable posting of a journal entry.
type Line struct {
	account *Account
	amount  decimal.Decimal
	side    Side
}

// NewLine validates and builds a journal line.
func NewLine(account *Account, amount decimal.Decimal, side Side) (Line, error) {
	if err := checkLine(account, amount, side); err != nil {
		return Line{}, err
	}
	return Line{account: account, amount: amount, side: side}, nil
}

func checkLine(account *Account, amount decimal.Decimal, side Side) error {
	if account == nil {
		return fmt.Errorf("%w: account is required", ErrInvalidLine)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount %s for %s must be positive", ErrInvalidLine, amount, account.name)
	}
	if !side.Valid() {
		return fmt.Errorf("%w: side %q for %s", ErrInvalidLine, string(side), account.name)
	}
	return nil
}

func (l Line) Account() *Account       { return l.account }
func (l Line) Amount() decimal.Decimal { return l.amount }
func (l Line) Side() Side              { return l.side }

func (l Line) String() string {
	return fmt.Sprintf("%s %s %s", l.side, l.account.name, l.amount.StringFixed(2))
}

// JournalEntry is an ordered set of debit and credit lines that must balance
// before a Ledger will commit it.
type JournalEntry struct {
	id          string
	date        time.Time
	description string
	lines       []Line
	committed   bool
}

// NewJournalEntry creates an empty entry with a fresh unique ID.
func NewJournalEntry(date time.Time, description string) *JournalEntry {
	return &JournalEntry{
		id:          id.New(),
		date:        date,
		description: description,
	}
}

// AddLine appends a line. It does not check the entry balance.
func (e *JournalEntry) AddLine(account *Account, amount decimal.Decimal, side Side) error {
	if e.committed {
		return fmt.Errorf("%w: %s", ErrEntryCommitted, e.id)
	}
	line, err := NewLine(account, amount, side)
	if err != nil {
		return err
	}
	e.lines = append(e.lines, line)
	return nil
}

// IsBalanced reports whether total debits equal total credits exactly.
func (e *JournalEntry) IsBalanced() bool {
	debits, credits := e.Totals()
	return debits.Equal(credits)
}

// Totals returns the sum of the debit lines and the sum of the credit lines.
func (e *JournalEntry) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range e.lines {
		switch l.side {
		case Debit:
			debits = debits.Add(l.amount)
		case Credit:
			credits = credits.Add(l.amount)
		}
	}
	return debits, credits
}

func (e *JournalEntry) ID() string          { return e.id }
func (e *JournalEntry) Date() time.Time     { return e.date }
func (e *JournalEntry) Description() string { return e.description }

// Lines returns a copy of the entry's lines in insertion order.
func (e *JournalEntry) Lines() []Line {
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// Committed reports whether a ledger has recorded the entry.
func (e *JournalEntry) Committed() bool { return e.committed }

// Record returns the persistable form of the entry.
func (e *JournalEntry) Record() model.EntryRecord {
	lines := make([]model.LineRecord, len(e.lines))
	for i, l := range e.lines {
		lines[i] = model.LineRecord{
			AccountName: l.account.name,
			Amount:      l.amount.String(),
			Side:        string(l.side),
		}
	}
	return model.EntryRecord{
		ID:          e.id,
		Date:        e.date,
		Description: e.description,
		Lines:       lines,
		Balanced:    e.IsBalanced(),
	}
}

func (e *JournalEntry) String() string {
	return fmt.Sprintf("JournalEntry(id=%s, date=%s, description=%q, lines=%d, balanced=%t)",
		e.id, e.date.Format("2006-01-02"), e.description, len(e.lines), e.IsBalanced())
}
