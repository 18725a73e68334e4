package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/sheetbill/internal/model"
)

// ErrUnsupportedFormat is returned for files no registered reader handles.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// requiredColumns must appear in the header row for a table to be usable.
var requiredColumns = []string{model.ColInvoiceNumber, model.ColItemName}

// Reader converts an input table into data rows.
type Reader interface {
	Read(r io.Reader) ([]model.Row, error)
	Extensions() []string
}

// Registry maps lowercase file extensions (without dot) to readers.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader for each of its extensions. Panics on duplicates.
func (r *Registry) Register(rd Reader) {
	for _, ext := range rd.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.readers[key]; ok {
			panic("duplicate table extension: " + key)
		}
		r.readers[key] = rd
	}
}

// Get returns the reader for a file name or bare extension, or nil.
func (r *Registry) Get(name string) Reader {
	return r.readers[extOf(name)]
}

// Supports reports whether name has a registered extension.
func (r *Registry) Supports(name string) bool {
	return r.Get(name) != nil
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Open reads all data rows from the table at path.
func (r *Registry) Open(path string) ([]model.Row, error) {
	rd := r.Get(path)
	if rd == nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	rows, err := rd.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// DefaultRegistry returns a registry with the xlsx and csv readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	r.Register(&CSVReader{})
	return r
}

func extOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		ext = name
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// buildRows keys every record after the header by column name.
// fix, when non-nil, may rewrite a cell value before it is stored.
func buildRows(records [][]string, fix func(col, value string) string) ([]model.Row, error) {
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	seen := make(map[string]bool, len(header))
	for i, h := range records[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = h
		seen[h] = true
	}
	for _, col := range requiredColumns {
		if !seen[col] {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var rows []model.Row
	for i, rec := range records[1:] {
		values := make(map[string]string, len(header))
		for j, col := range header {
			if col == "" || j >= len(rec) {
				continue
			}
			v := rec[j]
			if fix != nil {
				v = fix(col, v)
			}
			values[col] = v
		}
		rows = append(rows, model.Row{Num: i + 2, Values: values})
	}
	return rows, nil
}
