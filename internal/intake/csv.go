package intake

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/orders"
)

// CSVParser reads one order item per row. Consecutive rows sharing an
// order_ref form one request.
type CSVParser struct{}

const (
	csvNumFields    = 8
	csvColRef       = 0
	csvColCustomer  = 1
	csvColName      = 2
	csvColAddress   = 3
	csvColDate      = 4
	csvColProduct   = 5
	csvColQuantity  = 6
	csvColUnitPrice = 7
)

// CSVHeader is the expected header row.
var CSVHeader = []string{
	"order_ref", "customer_id", "customer_name", "shipping_address",
	"order_date", "product_id", "quantity", "unit_price",
}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV of order items.
func (p *CSVParser) Parse(r io.Reader) ([]orders.Request, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = csvNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading order CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var (
		reqs    []orders.Request
		lastRef string
	)
	for i, rec := range records[1:] {
		row := i + 2
		item, err := parseItem(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		ref := strings.TrimSpace(rec[csvColRef])
		if len(reqs) == 0 || ref == "" || ref != lastRef {
			reqs = append(reqs, orders.Request{
				CustomerID:      rec[csvColCustomer],
				CustomerName:    rec[csvColName],
				ShippingAddress: rec[csvColAddress],
				OrderDate:       rec[csvColDate],
			})
		}
		lastRef = ref
		cur := &reqs[len(reqs)-1]
		cur.Items = append(cur.Items, item)
	}
	return reqs, nil
}

func parseItem(rec []string) (orders.Item, error) {
	item := orders.Item{ProductID: rec[csvColProduct]}

	if q := strings.TrimSpace(rec[csvColQuantity]); q != "" {
		qty, err := strconv.Atoi(q)
		if err != nil {
			return orders.Item{}, fmt.Errorf("parsing quantity %q: %w", q, err)
		}
		item.Quantity = qty
	}

	if s := strings.TrimSpace(rec[csvColUnitPrice]); s != "" {
		price, err := decimal.NewFromString(s)
		if err != nil {
			return orders.Item{}, fmt.Errorf("parsing unit_price %q: %w", s, err)
		}
		item.UnitPrice = decimal.NewNullDecimal(price)
	}
	return item, nil
}
