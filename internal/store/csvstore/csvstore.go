// Package csvstore persists orders and ledger state as CSV files under a repo
// root: ledger/accounts.csv, ledger/journal.csv and ledger/orders.csv.
package csvstore

import (
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

const ledgerDir = "ledger"

// Store is an orders.Store writing CSV files.
type Store struct {
	mu   sync.Mutex
	root string
}

// New returns a store rooted at repoRoot.
func New(repoRoot string) *Store {
	return &Store{root: repoRoot}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, ledgerDir, name)
}

// readRows returns the data rows of a CSV file, or nil when it does not exist.
func readRows(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = fields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "reading %s", path)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

// appendRows writes rows to the end of path, adding header when the file is new.
func appendRows(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return pkgerrors.Wrap(err, "creating ledger dir")
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return pkgerrors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(header); err != nil {
			return pkgerrors.Wrap(err, "writing header")
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return pkgerrors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// rewriteRows replaces path with header and rows.
func rewriteRows(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return pkgerrors.Wrap(err, "creating ledger dir")
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return pkgerrors.Wrapf(err, "creating %s", tmp)
	}

	cw := csv.NewWriter(f)
	err = cw.Write(header)
	if err == nil {
		err = cw.WriteAll(rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return pkgerrors.Wrapf(err, "writing %s", path)
	}
	return pkgerrors.Wrapf(os.Rename(tmp, path), "replacing %s", path)
}
