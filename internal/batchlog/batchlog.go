// Package batchlog keeps an append-only CSV record of every document a
// batch attempted.
package batchlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Status is the result of one document attempt.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Entry is one row in the batch log.
type Entry struct {
	Timestamp time.Time
	Source    string
	Invoice   string
	Status    Status
	Path      string
	Detail    string
}

// Header is the CSV header of the batch log.
const Header = "timestamp,source,invoice,status,path,detail"

const (
	numFields    = 6
	colTimestamp = 0
	colSource    = 1
	colInvoice   = 2
	colStatus    = 3
	colPath      = 4
	colDetail    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSource] = e.Source
	row[colInvoice] = e.Invoice
	row[colStatus] = string(e.Status)
	row[colPath] = e.Path
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	status := Status(record[colStatus])
	if status != StatusOK && status != StatusFailed {
		return Entry{}, fmt.Errorf("unknown status %q", record[colStatus])
	}

	return Entry{
		Timestamp: ts,
		Source:    record[colSource],
		Invoice:   record[colInvoice],
		Status:    status,
		Path:      record[colPath],
		Detail:    record[colDetail],
	}, nil
}

// Log appends entries to a CSV file. The zero path disables logging.
// A Log is safe for concurrent use.
type Log struct {
	Path string

	mu sync.Mutex
}

// Open returns a Log writing to path. An empty path yields a Log that
// discards entries.
func Open(path string) *Log {
	return &Log{Path: path}
}

// Append writes entries, creating the file, its directory and the header
// if needed.
func (l *Log) Append(entries []Entry) error {
	if l == nil || l.Path == "" || len(entries) == 0 {
		return nil
	}
	if dir := filepath.Dir(l.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log dir: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening batch log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat batch log: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing batch log: %w", err)
	}
	return f.Close()
}

// Read returns all entries. A missing file yields no entries.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening batch log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading batch log CSV: %w", err)
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
