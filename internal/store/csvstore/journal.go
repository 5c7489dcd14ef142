package csvstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/model"
)

const (
	journalFile     = "journal.csv"
	journalFields   = 7
	colLineID       = 0
	colDate         = 1
	colDescription  = 2
	colAccount      = 3
	colAmount       = 4
	colSide         = 5
	colBalanced     = 6
	journalDateForm = "2006-01-02"
)

var journalHeader = []string{"line_id", "date", "description", "account", "amount", "side", "balanced"}

// MarshalEntry converts an entry to one CSV row per line. Line IDs are
// "<entryID>#n".
func MarshalEntry(e model.EntryRecord) [][]string {
	rows := make([][]string, len(e.Lines))
	for i, l := range e.Lines {
		row := make([]string, journalFields)
		row[colLineID] = id.FormatLineID(e.ID, i+1)
		row[colDate] = e.Date.Format(journalDateForm)
		row[colDescription] = e.Description
		row[colAccount] = l.AccountName
		row[colAmount] = l.Amount
		row[colSide] = l.Side
		row[colBalanced] = strconv.FormatBool(e.Balanced)
		rows[i] = row
	}
	return rows
}

// UnmarshalEntries groups journal rows back into entries, in file order.
func UnmarshalEntries(rows [][]string) ([]model.EntryRecord, error) {
	var (
		out   []model.EntryRecord
		index = make(map[string]int)
	)
	for i, row := range rows {
		entryID, _, err := id.ParseLineID(row[colLineID])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		j, ok := index[entryID]
		if !ok {
			date, err := time.Parse(journalDateForm, row[colDate])
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, row[colDate], err)
			}
			balanced, err := strconv.ParseBool(row[colBalanced])
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing balanced %q: %w", i+2, row[colBalanced], err)
			}
			j = len(out)
			index[entryID] = j
			out = append(out, model.EntryRecord{
				ID:          entryID,
				Date:        date,
				Description: row[colDescription],
				Balanced:    balanced,
			})
		}
		out[j].Lines = append(out[j].Lines, model.LineRecord{
			AccountName: row[colAccount],
			Amount:      row[colAmount],
			Side:        row[colSide],
		})
	}
	return out, nil
}

// SaveEntries appends entries to ledger/journal.csv, skipping ids already
// present in the file.
func (s *Store) SaveEntries(_ context.Context, entries []model.EntryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(journalFile)
	existing, err := readRows(path, journalFields)
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		seen[id.EntryGroup(row[colLineID])] = struct{}{}
	}

	var rows [][]string
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		rows = append(rows, MarshalEntry(e)...)
	}
	if len(rows) == 0 {
		return nil
	}
	return appendRows(path, journalHeader, rows)
}

// Entries reads ledger/journal.csv.
func (s *Store) Entries() ([]model.EntryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := readRows(s.path(journalFile), journalFields)
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return UnmarshalEntries(rows)
}
