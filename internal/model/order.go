package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRecord is the flat, persistable form of an accepted purchase order.
type OrderRecord struct {
	ID              string            `json:"id"`
	CustomerID      string            `json:"customer_id"`
	CustomerName    string            `json:"customer_name,omitempty"`
	ShippingAddress string            `json:"shipping_address,omitempty"`
	OrderDate       time.Time         `json:"order_date"`
	Items           []OrderItemRecord `json:"items"`
	TotalAmount     string            `json:"total_amount"`
	TotalCOGS       string            `json:"total_cogs"`
	EntryIDs        []string          `json:"entry_ids,omitempty"`
}

// OrderItemRecord is one line of an OrderRecord.
type OrderItemRecord struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	UnitCost  string `json:"unit_cost"`
}

// OrderCompleted is published once an order has been posted to the ledger.
type OrderCompleted struct {
	OrderID    string          `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	COGS       decimal.Decimal `json:"cogs"`
	EntryIDs   []string        `json:"entry_ids"`
	OccurredAt time.Time       `json:"occurred_at"`
}
