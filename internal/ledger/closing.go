package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ClosingDescription is the description of entries built by ClosingEntry.
const ClosingDescription = "Closing entry"

// ClosingEntry builds, without recording, the entry that moves every income
// and expense balance into the retained earnings equity account. It returns
// nil when there is nothing to close.
func (l *Ledger) ClosingEntry(date time.Time, retainedEarnings string) (*JournalEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closingEntry(date, retainedEarnings)
}

// Close builds the closing entry and records it. It returns the recorded
// entry, or nil when every income and expense account is already zero.
func (l *Ledger) Close(date time.Time, retainedEarnings string) (*JournalEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, err := l.closingEntry(date, retainedEarnings)
	if err != nil || entry == nil {
		return nil, err
	}
	if err := l.commit(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (l *Ledger) closingEntry(date time.Time, retainedEarnings string) (*JournalEntry, error) {
	re, err := l.account(retainedEarnings)
	if err != nil {
		return nil, err
	}
	if re.typ != Equity {
		return nil, fmt.Errorf("%w: %q is %s, closing needs an equity account", ErrInvalidAccountType, re.name, re.typ)
	}

	entry := NewJournalEntry(date, ClosingDescription)
	net := decimal.Zero
	for _, name := range l.order {
		a := l.accounts[name]
		if a.typ != Income && a.typ != Expense {
			continue
		}
		if a.balance.IsZero() {
			continue
		}
		// Post the side that brings the balance back to zero.
		side := Debit
		if a.typ == Expense {
			side = Credit
		}
		amount := a.balance
		if amount.IsNegative() {
			side = opposite(side)
			amount = amount.Neg()
		}
		if err := entry.AddLine(a, amount, side); err != nil {
			return nil, err
		}
		if a.typ == Income {
			net = net.Add(a.balance)
		} else {
			net = net.Sub(a.balance)
		}
	}
	if len(entry.lines) == 0 {
		return nil, nil
	}

	switch {
	case net.IsPositive():
		err = entry.AddLine(re, net, Credit)
	case net.IsNegative():
		err = entry.AddLine(re, net.Neg(), Debit)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func opposite(s Side) Side {
	if s == Debit {
		return Credit
	}
	return Debit
}
