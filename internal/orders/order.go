package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// DateLayout is the layout of Request.OrderDate.
const DateLayout = "2006-01-02"

// Request is a purchase order as submitted by a customer.
type Request struct {
	CustomerID      string `json:"customer_id"`
	CustomerName    string `json:"customer_name,omitempty"`
	ShippingAddress string `json:"shipping_address,omitempty"`
	OrderDate       string `json:"order_date,omitempty"`
	Items           []Item `json:"items"`
}

// Item is one requested product. UnitPrice is invalid when it was not supplied.
type Item struct {
	ProductID string              `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	UnitPrice decimal.NullDecimal `json:"unit_price"`
}

// State is a step of the order workflow.
type State int

const (
	Validating State = iota
	StockChecking
	StockReserved
	Posting
	Persisting
	Completed
	Error
)

var stateNames = [...]string{
	Validating:    "Validating",
	StockChecking: "StockChecking",
	StockReserved: "StockReserved",
	Posting:       "Posting",
	Persisting:    "Persisting",
	Completed:     "Completed",
	Error:         "Error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == Completed || s == Error }

// Order is a validated request with resolved costs.
type Order struct {
	ID              string
	CustomerID      string
	CustomerName    string
	ShippingAddress string
	Date            time.Time
	Items           []OrderItem
	EntryIDs        []string
	State           State
}

// OrderItem is a validated line of an order.
type OrderItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}

// Total is the sum of quantity × unit price.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// COGS is the sum of quantity × unit cost.
func (o *Order) COGS() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Record returns the persistable form of the order.
func (o *Order) Record() model.OrderRecord {
	items := make([]model.OrderItemRecord, len(o.Items))
	for i, it := range o.Items {
		items[i] = model.OrderItemRecord{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
			UnitCost:  it.UnitCost.String(),
		}
	}
	return model.OrderRecord{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.Date,
		Items:           items,
		TotalAmount:     o.Total().String(),
		TotalCOGS:       o.COGS().String(),
		EntryIDs:        o.EntryIDs,
	}
}

func (o *Order) String() string {
	return fmt.Sprintf("Order(id=%s, customer=%s, items=%d, total=%s)",
		o.ID, o.CustomerID, len(o.Items), o.Total().StringFixed(2))
}

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of Processor.Accept.
type Result struct {
	Status   string
	Message  string
	OrderID  string
	Total    decimal.Decimal
	COGS     decimal.Decimal
	EntryIDs []string
	// State is Completed on success and Error otherwise.
	State State
	// FailedIn is the state the workflow was in when it failed.
	FailedIn State
	Err      error
}

// OK reports whether the order completed.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// MarshalJSON renders the result for API callers. Amounts are only present
// once the order has been posted.
func (r Result) MarshalJSON() ([]byte, error) {
	type wire struct {
		Status   string           `json:"status"`
		Message  string           `json:"message"`
		OrderID  string           `json:"order_id,omitempty"`
		Total    *decimal.Decimal `json:"total,omitempty"`
		COGS     *decimal.Decimal `json:"cogs,omitempty"`
		EntryIDs []string         `json:"entry_ids,omitempty"`
	}
	w := wire{Status: r.Status, Message: r.Message, OrderID: r.OrderID, EntryIDs: r.EntryIDs}
	if r.OK() || r.FailedIn == Persisting {
		w.Total, w.COGS = &r.Total, &r.COGS
	}
	return json.Marshal(w)
}
