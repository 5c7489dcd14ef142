package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/inventory"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/notify"
	"github.com/cleared-dev/books/internal/orders"
	"github.com/cleared-dev/books/internal/store/csvstore"
	"github.com/cleared-dev/books/internal/store/memory"
	"github.com/cleared-dev/books/internal/store/sqlstore"
)

func newRepo(t *testing.T, driver string) Repo {
	t.Helper()
	dir := t.TempDir()

	inv, err := inventory.New(inventory.DefaultCatalog()...)
	require.NoError(t, err)
	require.NoError(t, inv.Save(dir))
	require.NoError(t, accounts.NewService(accounts.DefaultChart(inv.Value())).Save(dir))

	cfg := config.Default("Test Biz")
	cfg.Storage.Driver = driver
	return Repo{Root: dir, Config: cfg}
}

func bootstrap(t *testing.T, repo Repo) *Services {
	t.Helper()
	log, _ := test.NewNullLogger()
	s := Bootstrap(repo, log)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })
	return s
}

func laptopOrder() orders.Request {
	return orders.Request{
		CustomerID:   "cust-1",
		CustomerName: "Ada",
		OrderDate:    "2025-05-14",
		Items: []orders.Item{{
			ProductID: "prod_abc",
			Quantity:  2,
			UnitPrice: decimal.NewNullDecimal(decimal.NewFromInt(1200)),
		}},
	}
}

func TestBootstrap_StoreByDriver(t *testing.T) {
	tests := []struct {
		driver string
		check  func(t *testing.T, store orders.Store)
	}{
		{config.DriverMemory, func(t *testing.T, store orders.Store) {
			assert.IsType(t, &memory.Store{}, store)
		}},
		{config.DriverCSV, func(t *testing.T, store orders.Store) {
			assert.IsType(t, &csvstore.Store{}, store)
		}},
		{config.DriverSQLite, func(t *testing.T, store orders.Store) {
			assert.IsType(t, &sqlstore.Store{}, store)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s := bootstrap(t, newRepo(t, tt.driver))
			require.NoError(t, s.Invoke(func(store orders.Store) {
				tt.check(t, store)
			}))
		})
	}
}

func TestBootstrap_SQLiteDefaultFile(t *testing.T) {
	repo := newRepo(t, config.DriverSQLite)
	s := bootstrap(t, repo)
	require.NoError(t, s.Invoke(func(orders.Store) {}))

	_, err := os.Stat(filepath.Join(repo.Root, DefaultSQLiteFile))
	assert.NoError(t, err)
}

func TestBootstrap_UnknownDriver(t *testing.T) {
	for _, driver := range []string{"mysql", ""} {
		t.Run(driver, func(t *testing.T) {
			s := bootstrap(t, newRepo(t, driver))
			err := s.Invoke(func(orders.Store) {})
			assert.ErrorContains(t, err, "unknown driver")
		})
	}
}

func TestBootstrap_MissingChart(t *testing.T) {
	repo := Repo{Root: t.TempDir(), Config: config.Default("Empty")}
	s := bootstrap(t, repo)
	err := s.Invoke(func(*ledger.Ledger) {})
	assert.Error(t, err)
}

func TestBootstrap_Publishers(t *testing.T) {
	repo := newRepo(t, config.DriverMemory)
	s := bootstrap(t, repo)
	require.NoError(t, s.Invoke(func(pubs notify.Fanout) {
		assert.Empty(t, pubs)
	}))

	repo = newRepo(t, config.DriverMemory)
	repo.Config.Notify.Kafka.Brokers = []string{"localhost:9092"}
	repo.Config.Notify.Webhook.URL = "http://hooks.example.com/orders"
	s = bootstrap(t, repo)
	require.NoError(t, s.Invoke(func(pubs notify.Fanout) {
		assert.Len(t, pubs, 2)
	}))
}

func TestBootstrap_ProcessorSharesLedgerAndStore(t *testing.T) {
	s := bootstrap(t, newRepo(t, config.DriverMemory))

	err := s.Invoke(func(p *orders.Processor, l *ledger.Ledger, inv *inventory.Inventory, store orders.Store) {
		res := p.Accept(context.Background(), laptopOrder())
		require.True(t, res.OK(), res.Message)

		cash, err := l.Account(accounts.Cash)
		require.NoError(t, err)
		assert.Equal(t, "27400", cash.Balance().String())

		laptop, ok := inv.Product("prod_abc")
		require.True(t, ok)
		assert.Equal(t, 18, laptop.Stock)

		mem := store.(*memory.Store)
		assert.Len(t, mem.Orders(), 1)
		assert.Len(t, mem.Entries(), 2)
	})
	require.NoError(t, err)
}
