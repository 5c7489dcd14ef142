package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cleared-dev/books/internal/model"
)

// Ledger is the chart of accounts plus the append-only sequence of committed
// journal entries. It is the only path that mutates account balances while
// posting; a single mutex serialises posting and reads.
type Ledger struct {
	mu       sync.Mutex
	accounts map[string]*Account
	order    []string
	entries  []*JournalEntry
	entryIDs map[string]struct{}
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
		entryIDs: make(map[string]struct{}),
	}
}

// AddAccount registers an account. Names are unique.
func (l *Ledger) AddAccount(account *Account) error {
	if account == nil {
		return fmt.Errorf("%w: nil account", ErrInvalidAccount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.accounts[account.name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAccount, account.name)
	}
	l.accounts[account.name] = account
	l.order = append(l.order, account.name)
	return nil
}

// Account returns the account registered under name.
func (l *Ledger) Account(name string) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.account(name)
}

func (l *Ledger) account(name string) (*Account, error) {
	a, ok := l.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
	}
	return a, nil
}

// Accounts returns all accounts in registration order.
func (l *Ledger) Accounts() []*Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*Account, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.accounts[name])
	}
	return out
}

// AccountsByType returns all accounts of the given type in registration order.
func (l *Ledger) AccountsByType(typ AccountType) []*Account {
	var result []*Account
	for _, a := range l.Accounts() {
		if a.typ == typ {
			result = append(result, a)
		}
	}
	return result
}

// Entries returns the committed entries in commit order.
func (l *Ledger) Entries() []*JournalEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*JournalEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// RecordEntry validates entry and, only if every check passes, applies all of
// its lines and appends it to the committed sequence.
func (l *Ledger) RecordEntry(entry *JournalEntry) error {
	return l.RecordEntries(entry)
}

// RecordEntries commits several entries as one unit: every entry is validated
// before any balance is touched, so either all of them are applied or none.
func (l *Ledger) RecordEntries(entries ...*JournalEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit(entries...)
}

func (l *Ledger) commit(entries ...*JournalEntry) error {
	batch := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := l.validate(e, batch); err != nil {
			return err
		}
	}

	for _, e := range entries {
		for _, line := range e.lines {
			line.account.post(line.amount, line.side)
		}
		e.committed = true
		l.entries = append(l.entries, e)
		l.entryIDs[e.id] = struct{}{}
	}
	return nil
}

func (l *Ledger) validate(e *JournalEntry, batch map[string]struct{}) error {
	if e == nil {
		return errors.New("nil journal entry")
	}
	if _, dup := l.entryIDs[e.id]; dup || e.committed {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, e.id)
	}
	if _, dup := batch[e.id]; dup {
		return fmt.Errorf("%w: %s appears twice", ErrDuplicateEntry, e.id)
	}
	batch[e.id] = struct{}{}

	if len(e.lines) == 0 {
		return fmt.Errorf("%w: entry %s has no lines", ErrInvalidLine, e.id)
	}
	if !e.IsBalanced() {
		debits, credits := e.Totals()
		return fmt.Errorf("%w: entry %s debits (%s) != credits (%s)",
			ErrUnbalancedEntry, e.id, debits.StringFixed(2), credits.StringFixed(2))
	}
	for i, line := range e.lines {
		if err := checkLine(line.account, line.amount, line.side); err != nil {
			return fmt.Errorf("entry %s line %d: %w", e.id, i+1, err)
		}
		registered, err := l.account(line.account.name)
		if err != nil {
			return fmt.Errorf("entry %s line %d: %w", e.id, i+1, err)
		}
		if registered != line.account {
			return fmt.Errorf("entry %s line %d: %w: %q is not this ledger's account",
				e.id, i+1, ErrAccountNotFound, line.account.name)
		}
	}
	return nil
}

// Snapshot returns the persistable records of every account and committed entry.
func (l *Ledger) Snapshot() ([]model.AccountRecord, []model.EntryRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]model.EntryRecord, 0, len(l.entries))
	for _, e := range l.entries {
		entries = append(entries, e.Record())
	}
	return l.accountRecords(), entries
}

// AccountRecords returns the persistable record of every account in
// registration order.
func (l *Ledger) AccountRecords() []model.AccountRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accountRecords()
}

func (l *Ledger) accountRecords() []model.AccountRecord {
	out := make([]model.AccountRecord, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.accounts[name].Record())
	}
	return out
}

func (l *Ledger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fmt.Sprintf("Ledger(accounts=%d, entries=%d)", len(l.accounts), len(l.entries))
}
