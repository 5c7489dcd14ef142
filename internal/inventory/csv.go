package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	numFields = 5
	colID     = 0
	colName   = 1
	colPrice  = 2
	colStock  = 3
	colCost   = 4
)

var header = []string{"product_id", "name", "price", "stock", "cost_price"}

// CatalogPath returns the location of the product catalog under a repo root.
func CatalogPath(repoRoot string) string {
	return filepath.Join(repoRoot, "inventory", "products.csv")
}

// ReadProducts reads a product catalog CSV.
func ReadProducts(r io.Reader) ([]Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading products CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var products []Product
	for i, rec := range records[1:] {
		p, err := UnmarshalProduct(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// WriteProducts writes a product catalog CSV.
func WriteProducts(w io.Writer, products []Product) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range products {
		if err := cw.Write(MarshalProduct(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalProduct converts a Product to a CSV row. An unknown cost is left empty.
func MarshalProduct(p Product) []string {
	row := make([]string, numFields)
	row[colID] = p.ID
	row[colName] = p.Name
	row[colPrice] = p.Price.String()
	row[colStock] = strconv.Itoa(p.Stock)
	if p.CostKnown {
		row[colCost] = p.Cost.String()
	}
	return row
}

// UnmarshalProduct converts a CSV row to a Product.
func UnmarshalProduct(record []string) (Product, error) {
	if len(record) != numFields {
		return Product{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	price, err := decimal.NewFromString(record[colPrice])
	if err != nil {
		return Product{}, fmt.Errorf("parsing price %q: %w", record[colPrice], err)
	}
	stock, err := strconv.Atoi(record[colStock])
	if err != nil {
		return Product{}, fmt.Errorf("parsing stock %q: %w", record[colStock], err)
	}

	p := Product{
		ID:    record[colID],
		Name:  record[colName],
		Price: price,
		Stock: stock,
	}
	if record[colCost] != "" {
		p.Cost, err = decimal.NewFromString(record[colCost])
		if err != nil {
			return Product{}, fmt.Errorf("parsing cost_price %q: %w", record[colCost], err)
		}
		p.CostKnown = true
	}
	return p, nil
}

// Load reads inventory/products.csv from a repo root.
func Load(repoRoot string) (*Inventory, error) {
	f, err := os.Open(CatalogPath(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("opening product catalog: %w", err)
	}
	defer f.Close()

	products, err := ReadProducts(f)
	if err != nil {
		return nil, fmt.Errorf("reading product catalog: %w", err)
	}
	return New(products...)
}

// Save writes the current stock to inventory/products.csv.
func (inv *Inventory) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, "inventory")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating inventory dir: %w", err)
	}

	f, err := os.Create(CatalogPath(repoRoot))
	if err != nil {
		return fmt.Errorf("creating product catalog: %w", err)
	}
	defer f.Close()

	if err := WriteProducts(f, inv.Products()); err != nil {
		return fmt.Errorf("writing product catalog: %w", err)
	}
	return nil
}
