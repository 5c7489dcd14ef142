package csvstore

import (
	"context"
	"strconv"
	"strings"

	"github.com/cleared-dev/books/internal/model"
)

const (
	ordersFile   = "orders.csv"
	ordersFields = 12
	entryIDSep   = ";"
)

var ordersHeader = []string{
	"order_id", "customer_id", "customer_name", "shipping_address", "order_date",
	"product_id", "quantity", "unit_price", "unit_cost",
	"total_amount", "total_cogs", "entry_ids",
}

// MarshalOrder converts an order to one CSV row per item, repeating the
// order-level columns.
func MarshalOrder(o model.OrderRecord) [][]string {
	head := []string{o.ID, o.CustomerID, o.CustomerName, o.ShippingAddress, o.OrderDate.Format(journalDateForm)}
	tail := []string{o.TotalAmount, o.TotalCOGS, strings.Join(o.EntryIDs, entryIDSep)}

	rows := make([][]string, len(o.Items))
	for i, it := range o.Items {
		row := make([]string, 0, ordersFields)
		row = append(row, head...)
		row = append(row, it.ProductID, strconv.Itoa(it.Quantity), it.UnitPrice, it.UnitCost)
		row = append(row, tail...)
		rows[i] = row
	}
	return rows
}

// SaveOrder appends the order's items to ledger/orders.csv.
func (s *Store) SaveOrder(_ context.Context, o model.OrderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendRows(s.path(ordersFile), ordersHeader, MarshalOrder(o))
}

// OrderIDs returns the distinct order ids in ledger/orders.csv, in file order.
func (s *Store) OrderIDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := readRows(s.path(ordersFile), ordersFields)
	if err != nil {
		return nil, err
	}
	var ids []string
	seen := make(map[string]struct{})
	for _, r := range rows {
		if _, ok := seen[r[0]]; ok {
			continue
		}
		seen[r[0]] = struct{}{}
		ids = append(ids, r[0])
	}
	return ids, nil
}
