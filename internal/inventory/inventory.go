// Package inventory tracks the products a business sells and their stock.
package inventory

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateProduct  = errors.New("duplicate product")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

// Product is a catalog item. Cost is only meaningful when CostKnown is set.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Stock     int
	Cost      decimal.Decimal
	CostKnown bool
}

func (p Product) String() string {
	return fmt.Sprintf("Product(id=%s, name=%q, price=%s, stock=%d, cost=%s)",
		p.ID, p.Name, p.Price.StringFixed(2), p.Stock, p.Cost.StringFixed(2))
}

// Inventory is a mutex-guarded set of products keyed by ID.
type Inventory struct {
	mu       sync.Mutex
	products map[string]*Product
}

// New returns an inventory holding products.
func New(products ...Product) (*Inventory, error) {
	inv := &Inventory{products: make(map[string]*Product, len(products))}
	for _, p := range products {
		if err := inv.Add(p); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// Add registers a product.
func (inv *Inventory) Add(p Product) error {
	if p.ID == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidProduct)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: %s has negative stock %d", ErrInvalidProduct, p.ID, p.Stock)
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if _, ok := inv.products[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
	}
	inv.products[p.ID] = &p
	return nil
}

// Product returns a copy of the product with the given ID.
func (inv *Inventory) Product(id string) (Product, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	p, ok := inv.products[id]
	if !ok {
		return Product{}, false
	}
	return *p, true
}

// Products returns copies of all products sorted by ID.
func (inv *Inventory) Products() []Product {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	out := make([]Product, 0, len(inv.products))
	for _, p := range inv.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CheckStock reports whether at least qty units of id are available.
// Unknown products have no stock and a non-positive qty is never available.
func (inv *Inventory) CheckStock(id string, qty int) bool {
	if qty <= 0 {
		return false
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()

	p, ok := inv.products[id]
	return ok && p.Stock >= qty
}

// UpdateStock adds delta to the stock of id. A negative delta removes stock
// and fails without change when it would leave the stock below zero. A zero
// delta, or one that would overflow the stock count, is ErrInvalidQuantity.
func (inv *Inventory) UpdateStock(id string, delta int) error {
	if delta == 0 {
		return fmt.Errorf("%w: zero stock change for %s", ErrInvalidQuantity, id)
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()

	p, ok := inv.products[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if delta > 0 && p.Stock > math.MaxInt-delta {
		return fmt.Errorf("%w: adding %d to %s overflows stock %d", ErrInvalidQuantity, delta, id, p.Stock)
	}
	if p.Stock+delta < 0 {
		return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, id, p.Stock, -int64(delta))
	}
	p.Stock += delta
	return nil
}

// Cost returns the unit cost of id. ok is false when the product is unknown
// or has no recorded cost.
func (inv *Inventory) Cost(id string) (cost decimal.Decimal, ok bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	p, found := inv.products[id]
	if !found || !p.CostKnown {
		return decimal.Zero, false
	}
	return p.Cost, true
}

// Value is the stock on hand valued at cost.
func (inv *Inventory) Value() decimal.Decimal {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	total := decimal.Zero
	for _, p := range inv.products {
		if p.CostKnown {
			total = total.Add(p.Cost.Mul(decimal.NewFromInt(int64(p.Stock))))
		}
	}
	return total
}

// DefaultCatalog is the starter catalog written by "books init".
func DefaultCatalog() []Product {
	return []Product{
		{ID: "prod_abc", Name: "Laptop", Price: decimal.NewFromInt(1200), Stock: 20, Cost: decimal.NewFromInt(800), CostKnown: true},
		{ID: "prod_xyz", Name: "Mouse", Price: decimal.NewFromInt(25), Stock: 100, Cost: decimal.NewFromInt(10), CostKnown: true},
	}
}
