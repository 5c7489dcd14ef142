// Package notify fans completed-order events out to the configured
// publishers.
package notify

import (
	"context"
	"errors"

	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/orders"
)

// Fanout publishes each event to every publisher in turn. One failing
// publisher does not stop the others.
type Fanout []orders.Publisher

// Publish sends event to all publishers and joins their errors.
func (f Fanout) Publish(ctx context.Context, event model.OrderCompleted) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
