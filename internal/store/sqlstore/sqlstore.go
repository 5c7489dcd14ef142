// Package sqlstore persists orders and ledger state through database/sql.
// SQLite and PostgreSQL share one dialect: $n placeholders and ON CONFLICT.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/books/internal/model"

	// Registers the "postgres" driver.
	_ "github.com/lib/pq"
	// Registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const dateLayout = "2006-01-02"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts(
	name         VARCHAR(255) NOT NULL PRIMARY KEY,
	account_type VARCHAR(32)  NOT NULL,
	balance      TEXT         NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS journal_entries(
	id          VARCHAR(64)  NOT NULL PRIMARY KEY,
	entry_date  VARCHAR(10)  NOT NULL,
	description TEXT         NOT NULL,
	balanced    BOOLEAN      NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS journal_lines(
	entry_id     VARCHAR(64)  NOT NULL,
	line_no      INTEGER      NOT NULL,
	account_name VARCHAR(255) NOT NULL,
	amount       TEXT         NOT NULL,
	side         VARCHAR(8)   NOT NULL,
	PRIMARY KEY (entry_id, line_no)
)`,
	`CREATE TABLE IF NOT EXISTS orders(
	id               VARCHAR(64)  NOT NULL PRIMARY KEY,
	customer_id      VARCHAR(255) NOT NULL,
	customer_name    TEXT         NOT NULL,
	shipping_address TEXT         NOT NULL,
	order_date       VARCHAR(10)  NOT NULL,
	total_amount     TEXT         NOT NULL,
	total_cogs       TEXT         NOT NULL,
	entry_ids        TEXT         NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS order_items(
	order_id   VARCHAR(64)  NOT NULL,
	line_no    INTEGER      NOT NULL,
	product_id VARCHAR(255) NOT NULL,
	quantity   INTEGER      NOT NULL,
	unit_price TEXT         NOT NULL,
	unit_cost  TEXT         NOT NULL,
	PRIMARY KEY (order_id, line_no)
)`,
}

// Store is an orders.Store over a SQL database.
type Store struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// Opt is an option of Store.
type Opt func(s *Store)

// WithLogger sets the logger used for setup messages.
func WithLogger(log logrus.FieldLogger) Opt {
	return func(s *Store) { s.log = log }
}

// New wraps an open database.
func New(db *sql.DB, opts ...Opt) *Store {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Store{db: db, log: discard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to driver ("sqlite3" or "postgres") at dsn.
func Open(driver, dsn string, opts ...Opt) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %s database", driver)
	}
	if driver == DriverSQLite {
		// An in-memory SQLite database lives only as long as its connection.
		db.SetMaxOpenConns(1)
	}
	return New(db, opts...), nil
}

// DB returns the underlying database.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "Failed to close storage")
}

// Setup creates the tables if they do not exist.
func (s *Store) Setup(ctx context.Context) error {
	s.log.Info("Setup SQL storage")
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "Failed to setup storage")
		}
	}
	return nil
}

// SaveAccounts upserts account balances by name.
func (s *Store) SaveAccounts(ctx context.Context, accounts []model.AccountRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range accounts {
			if _, err := tx.ExecContext(ctx, `
	INSERT INTO accounts(name, account_type, balance)
	VALUES($1, $2, $3)
	ON CONFLICT(name) DO UPDATE
	SET account_type=excluded.account_type, balance=excluded.balance
	`, a.Name, a.Type, a.Balance); err != nil {
				return errors.Wrapf(err, "Failed to save account %s", a.Name)
			}
		}
		return nil
	})
}

// SaveEntries inserts journal entries with their lines. Entries whose id is
// already stored are left untouched.
func (s *Store) SaveEntries(ctx context.Context, entries []model.EntryRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entries {
			res, err := tx.ExecContext(ctx, `
	INSERT INTO journal_entries(id, entry_date, description, balanced)
	VALUES($1, $2, $3, $4)
	ON CONFLICT(id) DO NOTHING
	`, e.ID, e.Date.Format(dateLayout), e.Description, e.Balanced)
			if err != nil {
				return errors.Wrapf(err, "Failed to save journal entry %s", e.ID)
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				continue
			}
			for i, l := range e.Lines {
				if _, err := tx.ExecContext(ctx, `
	INSERT INTO journal_lines(entry_id, line_no, account_name, amount, side)
	VALUES($1, $2, $3, $4, $5)
	`, e.ID, i+1, l.AccountName, l.Amount, l.Side); err != nil {
					return errors.Wrapf(err, "Failed to save line %d of journal entry %s", i+1, e.ID)
				}
			}
		}
		return nil
	})
}

// SaveOrder inserts an order with its items.
func (s *Store) SaveOrder(ctx context.Context, o model.OrderRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
	INSERT INTO orders(
		id,
		customer_id,
		customer_name,
		shipping_address,
		order_date,
		total_amount,
		total_cogs,
		entry_ids
	)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8)
	`, o.ID, o.CustomerID, o.CustomerName, o.ShippingAddress, o.OrderDate.Format(dateLayout),
			o.TotalAmount, o.TotalCOGS, strings.Join(o.EntryIDs, ",")); err != nil {
			return errors.Wrapf(err, "Failed to save order %s", o.ID)
		}
		for i, it := range o.Items {
			if _, err := tx.ExecContext(ctx, `
	INSERT INTO order_items(order_id, line_no, product_id, quantity, unit_price, unit_cost)
	VALUES($1, $2, $3, $4, $5, $6)
	`, o.ID, i+1, it.ProductID, it.Quantity, it.UnitPrice, it.UnitCost); err != nil {
				return errors.Wrapf(err, "Failed to save item %d of order %s", i+1, o.ID)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "Failed to commit transaction")
}
