package csvstore

import (
	"context"
	"fmt"

	"github.com/cleared-dev/books/internal/model"
)

const accountsFile = "accounts.csv"

var accountsHeader = []string{"name", "account_type", "balance"}

// SaveAccounts upserts accounts by name, keeping first-saved order.
func (s *Store) SaveAccounts(_ context.Context, accounts []model.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readAccounts()
	if err != nil {
		return err
	}

	index := make(map[string]int, len(existing))
	for i, a := range existing {
		index[a.Name] = i
	}
	for _, a := range accounts {
		if i, ok := index[a.Name]; ok {
			existing[i] = a
			continue
		}
		index[a.Name] = len(existing)
		existing = append(existing, a)
	}

	rows := make([][]string, len(existing))
	for i, a := range existing {
		rows[i] = []string{a.Name, a.Type, a.Balance}
	}
	return rewriteRows(s.path(accountsFile), accountsHeader, rows)
}

// Accounts reads ledger/accounts.csv.
func (s *Store) Accounts() ([]model.AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAccounts()
}

func (s *Store) readAccounts() ([]model.AccountRecord, error) {
	rows, err := readRows(s.path(accountsFile), len(accountsHeader))
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	out := make([]model.AccountRecord, len(rows))
	for i, r := range rows {
		out[i] = model.AccountRecord{Name: r[0], Type: r[1], Balance: r[2]}
	}
	return out, nil
}
