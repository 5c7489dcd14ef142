// Package runlog keeps an append-only CSV record of every order processed by
// "books run", accepted or not.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/books/internal/orders"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	Source    string // import file the order came from
	OrderID   string
	Status    string
	State     string
	Message   string
	EntryIDs  []string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,source,order_id,status,state,message,entry_ids"

const (
	numFields   = 7
	logDir      = "logs"
	logFile     = "logs/run-log.csv"
	colTime     = 0
	colSource   = 1
	colOrderID  = 2
	colStatus   = 3
	colState    = 4
	colMessage  = 5
	colEntryIDs = 6
)

// FromResult builds the log entry for one processed order.
func FromResult(at time.Time, source string, r orders.Result) Entry {
	state := r.State.String()
	if !r.OK() {
		state = r.FailedIn.String()
	}
	return Entry{
		Timestamp: at,
		Source:    source,
		OrderID:   r.OrderID,
		Status:    r.Status,
		State:     state,
		Message:   r.Message,
		EntryIDs:  r.EntryIDs,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colSource] = e.Source
	row[colOrderID] = e.OrderID
	row[colStatus] = e.Status
	row[colState] = e.State
	row[colMessage] = e.Message
	row[colEntryIDs] = strings.Join(e.EntryIDs, ";")
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	var ids []string
	if record[colEntryIDs] != "" {
		ids = strings.Split(record[colEntryIDs], ";")
	}

	return Entry{
		Timestamp: ts,
		Source:    record[colSource],
		OrderID:   record[colOrderID],
		Status:    record[colStatus],
		State:     record[colState],
		Message:   record[colMessage],
		EntryIDs:  ids,
	}, nil
}

// Append writes entries to <repoRoot>/logs/run-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
