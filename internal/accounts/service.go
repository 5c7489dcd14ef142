package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/ledger"
)

// Account is one row of the chart of accounts.
type Account struct {
	ID          int
	Name        string
	Type        ledger.AccountType
	Opening     decimal.Decimal
	Description string
}

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []Account
	byName   map[string]int
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []Account) *Service {
	s := &Service{
		accounts: accounts,
		byName:   make(map[string]int, len(accounts)),
	}
	for i, a := range accounts {
		s.byName[a.Name] = i
	}
	return s
}

// ChartPath returns the location of the chart of accounts under a repo root.
func ChartPath(repoRoot string) string {
	return filepath.Join(repoRoot, "accounts", "chart-of-accounts.csv")
}

// Load reads chart-of-accounts.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(ChartPath(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []Account {
	return s.accounts
}

// ByName returns an account by name.
func (s *Service) ByName(name string) (Account, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Account{}, false
	}
	return s.accounts[i], true
}

// Build creates a ledger holding every chart account at its opening balance.
func (s *Service) Build() (*ledger.Ledger, error) {
	l := ledger.New()
	for _, a := range s.accounts {
		acct, err := ledger.NewAccount(a.Name, a.Type, a.Opening)
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", a.ID, err)
		}
		if err := l.AddAccount(acct); err != nil {
			return nil, fmt.Errorf("account %d: %w", a.ID, err)
		}
	}
	return l, nil
}

// CarryForward sets every chart account's opening balance to its current
// balance in l, so the next Build continues where l left off.
func (s *Service) CarryForward(l *ledger.Ledger) error {
	for i, a := range s.accounts {
		acct, err := l.Account(a.Name)
		if err != nil {
			return fmt.Errorf("carrying forward %q: %w", a.Name, err)
		}
		s.accounts[i].Opening = acct.Balance()
	}
	return nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(ChartPath(repoRoot))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
