// Package intake reads purchase order requests dropped into a repo's import
// directory.
package intake

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/books/internal/orders"
)

// Parser converts an order file into requests.
type Parser interface {
	Parse(r io.Reader) ([]orders.Request, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes an order file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Format is the file extension without the dot, lower-cased.
func (f FileInfo) Format() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), ".")
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForFile returns the parser matching the file's extension.
func (r *Registry) ForFile(name string) (Parser, error) {
	format := FileInfo{Name: name}.Format()
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("no parser for %q files", format)
	}
	return p, nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&JSONParser{})
	r.Register(&CSVParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns the order files in <repoRoot>/import/ that some parser in r
// can read.
func (r *Registry) Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi := FileInfo{Name: e.Name(), Path: filepath.Join(dir, e.Name())}
		if r.Get(fi.Format()) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		fi.Size = info.Size()
		files = append(files, fi)
	}
	return files, nil
}

// ReadFile parses one import file with the matching parser.
func (r *Registry) ReadFile(fi FileInfo) ([]orders.Request, error) {
	p, err := r.ForFile(fi.Name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fi.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", fi.Name, err)
	}
	defer f.Close()

	reqs, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fi.Name, err)
	}
	return reqs, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Scan lists the order files the default registry can read.
func Scan(repoRoot string) ([]FileInfo, error) {
	return DefaultRegistry().Scan(repoRoot)
}
