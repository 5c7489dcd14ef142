// Package webhook posts completed orders to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cleared-dev/books/internal/model"
)

// DefaultTimeout bounds one delivery.
const DefaultTimeout = 10 * time.Second

// Publisher POSTs each OrderCompleted event as JSON.
type Publisher struct {
	url    string
	client *http.Client
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(p *Publisher) { p.client = c }
}

// WithTimeout sets the client timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.client.Timeout = d
		}
	}
}

// NewPublisher creates a publisher posting to url.
func NewPublisher(url string, opts ...Option) *Publisher {
	p := &Publisher{url: url, client: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends event. Any non-2xx response is an error.
func (p *Publisher) Publish(ctx context.Context, event model.OrderCompleted) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Order-ID", event.OrderID)

	res, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting order %s: %w", event.OrderID, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("posting order %s: unexpected status %d: %s", event.OrderID, res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
