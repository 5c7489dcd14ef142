package orders

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/books/internal/inventory"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("invalid purchase order")
	// ErrPersistence means the order was posted to the ledger but could not be
	// saved. The ledger and stock are not unwound.
	ErrPersistence = errors.New("order posted but not persisted")
	// ErrInsufficientStock is returned when an item cannot be reserved.
	ErrInsufficientStock = inventory.ErrInsufficientStock
)

// ValidationError describes the first problem found in a Request.
type ValidationError struct {
	Field  string
	Item   int // zero-based item index, -1 for order-level fields
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Item < 0 {
		return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: item %d %s %s", ErrValidation, e.Item+1, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func orderError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Item: -1, Reason: reason}
}

func itemError(i int, field, reason string) *ValidationError {
	return &ValidationError{Field: field, Item: i, Reason: reason}
}
