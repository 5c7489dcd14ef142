// Package app wires a books repo's configuration into the services the
// commands run against.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/inventory"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/notify"
	"github.com/cleared-dev/books/internal/notify/kafka"
	"github.com/cleared-dev/books/internal/notify/webhook"
	"github.com/cleared-dev/books/internal/orders"
	"github.com/cleared-dev/books/internal/store/csvstore"
	"github.com/cleared-dev/books/internal/store/memory"
	"github.com/cleared-dev/books/internal/store/sqlstore"
)

// DefaultSQLiteFile is used when the sqlite3 driver has no dsn.
const DefaultSQLiteFile = "books.db"

// Repo identifies the books repository the services operate on.
type Repo struct {
	Root   string
	Config *config.Config
}

// Services is the dependency container for one command invocation.
type Services struct {
	c       *dig.Container
	closers []io.Closer
}

// Bootstrap sets up the container. Nothing is opened until a service is
// first requested through Invoke.
func Bootstrap(repo Repo, log logrus.FieldLogger) *Services {
	s := &Services{c: dig.New()}
	c := s.c

	c.Provide(func() Repo { return repo })
	c.Provide(func() *config.Config { return repo.Config })
	c.Provide(func() logrus.FieldLogger { return log })

	c.Provide(func(repo Repo, log logrus.FieldLogger) (orders.Store, error) {
		return s.openStore(repo, log)
	})

	c.Provide(func(cfg *config.Config) notify.Fanout {
		return s.publishers(cfg)
	})

	c.Provide(func(repo Repo) (*accounts.Service, error) {
		return accounts.Load(repo.Root)
	})

	c.Provide(func(svc *accounts.Service) (*ledger.Ledger, error) {
		return svc.Build()
	})

	c.Provide(func(repo Repo) (*inventory.Inventory, error) {
		return inventory.Load(repo.Root)
	})

	c.Provide(func(
		cfg *config.Config,
		l *ledger.Ledger,
		inv *inventory.Inventory,
		store orders.Store,
		pubs notify.Fanout,
		log logrus.FieldLogger,
	) *orders.Processor {
		opts := []orders.Option{
			orders.WithStore(store),
			orders.WithLogger(log),
			orders.WithAccountNames(orders.AccountNames{
				Cash:      cfg.Accounts.Cash,
				Revenue:   cfg.Accounts.Revenue,
				COGS:      cfg.Accounts.COGS,
				Inventory: cfg.Accounts.Inventory,
			}),
		}
		if len(pubs) > 0 {
			opts = append(opts, orders.WithPublisher(pubs))
		}
		return orders.NewProcessor(l, inv, opts...)
	})

	return s
}

// Invoke calls function with its arguments resolved from the container.
func (s *Services) Invoke(function interface{}) error {
	return s.c.Invoke(function)
}

// Close releases database handles and publisher connections.
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Services) openStore(repo Repo, log logrus.FieldLogger) (orders.Store, error) {
	cfg := repo.Config.Storage
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverCSV:
		return csvstore.New(repo.Root), nil
	case config.DriverSQLite, config.DriverPostgres:
		dsn := cfg.DSN
		if dsn == "" && cfg.Driver == config.DriverSQLite {
			dsn = filepath.Join(repo.Root, DefaultSQLiteFile)
		}
		store, err := sqlstore.Open(cfg.Driver, dsn, sqlstore.WithLogger(log))
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, store)
		if err := store.Setup(context.Background()); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

func (s *Services) publishers(cfg *config.Config) notify.Fanout {
	var pubs notify.Fanout
	if k := cfg.Notify.Kafka; len(k.Brokers) > 0 {
		p := kafka.NewPublisher(k.Brokers, k.Topic)
		s.closers = append(s.closers, p)
		pubs = append(pubs, p)
	}
	if w := cfg.Notify.Webhook; w.URL != "" {
		var opts []webhook.Option
		if w.Timeout > 0 {
			opts = append(opts, webhook.WithTimeout(w.Timeout))
		}
		pubs = append(pubs, webhook.NewPublisher(w.URL, opts...))
	}
	return pubs
}
