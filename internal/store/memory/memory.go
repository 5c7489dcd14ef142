// Package memory keeps persisted orders in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/cleared-dev/books/internal/model"
)

// Store is an in-memory orders.Store.
type Store struct {
	mu       sync.Mutex
	accounts map[string]model.AccountRecord
	order    []string
	entries  []model.EntryRecord
	entryIDs map[string]struct{}
	orders   []model.OrderRecord
}

// New returns an empty store.
func New() *Store {
	return &Store{
		accounts: make(map[string]model.AccountRecord),
		entryIDs: make(map[string]struct{}),
	}
}

// SaveAccounts upserts accounts by name.
func (s *Store) SaveAccounts(_ context.Context, accounts []model.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		if _, ok := s.accounts[a.Name]; !ok {
			s.order = append(s.order, a.Name)
		}
		s.accounts[a.Name] = a
	}
	return nil
}

// SaveEntries appends entries not saved before.
func (s *Store) SaveEntries(_ context.Context, entries []model.EntryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if _, ok := s.entryIDs[e.ID]; ok {
			continue
		}
		s.entryIDs[e.ID] = struct{}{}
		s.entries = append(s.entries, e)
	}
	return nil
}

// SaveOrder appends an order.
func (s *Store) SaveOrder(_ context.Context, order model.OrderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, order)
	return nil
}

// Accounts returns saved accounts in first-saved order.
func (s *Store) Accounts() []model.AccountRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AccountRecord, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.accounts[name])
	}
	return out
}

// Entries returns saved entries in save order.
func (s *Store) Entries() []model.EntryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.EntryRecord(nil), s.entries...)
}

// Orders returns saved orders in save order.
func (s *Store) Orders() []model.OrderRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OrderRecord(nil), s.orders...)
}
