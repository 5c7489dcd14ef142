package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cleared-dev/books/internal/orders"
)

// JSONParser reads a single order object or an array of them.
type JSONParser struct{}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// Parse reads JSON order requests.
func (p *JSONParser) Parse(r io.Reader) ([]orders.Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading order JSON: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var reqs []orders.Request
		if err := json.Unmarshal(data, &reqs); err != nil {
			return nil, fmt.Errorf("decoding order list: %w", err)
		}
		return reqs, nil
	}

	var req orders.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decoding order: %w", err)
	}
	return []orders.Request{req}, nil
}
