package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Store persists accepted orders together with the ledger state they produced.
//
//go:generate mockgen -destination=mocks/mock_orders.go -source=interface.go
type Store interface {
	// SaveAccounts upserts account balances by name.
	SaveAccounts(ctx context.Context, accounts []model.AccountRecord) error
	// SaveEntries inserts journal entries; an entry already saved is skipped.
	SaveEntries(ctx context.Context, entries []model.EntryRecord) error
	SaveOrder(ctx context.Context, order model.OrderRecord) error
}

// Publisher announces completed orders.
type Publisher interface {
	Publish(ctx context.Context, event model.OrderCompleted) error
}

// Inventory is the stock the processor reserves against.
type Inventory interface {
	CheckStock(productID string, qty int) bool
	UpdateStock(productID string, delta int) error
	Cost(productID string) (decimal.Decimal, bool)
}
