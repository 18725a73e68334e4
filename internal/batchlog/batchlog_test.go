package batchlog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Source:    "invoices.xlsx",
		Invoice:   "INV-001",
		Status:    StatusOK,
		Path:      "generated_invoices/Invoice_INV-001.pdf",
	}
}

func TestAppend_NewFile(t *testing.T) {
	l := Open(filepath.Join(t.TempDir(), "logs", "batch.csv"))
	require.NoError(t, l.Append([]Entry{testEntry()}))

	entries, err := l.Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "INV-001", entries[0].Invoice)

	data, err := os.ReadFile(l.Path)
	require.NoError(t, err)
	assert.Equal(t, Header+"\n", string(data[:len(Header)+1]))
}

func TestAppend_ExistingFile(t *testing.T) {
	l := Open(filepath.Join(t.TempDir(), "batch.csv"))
	require.NoError(t, l.Append([]Entry{testEntry()}))

	failed := testEntry()
	failed.Invoice = "INV-002"
	failed.Status = StatusFailed
	failed.Path = ""
	failed.Detail = "writing Invoice_INV-002.pdf: disk full, \"quoted\""
	require.NoError(t, l.Append([]Entry{failed}))

	entries, err := l.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, StatusOK, entries[0].Status)
	assert.Equal(t, StatusFailed, entries[1].Status)
	assert.Equal(t, failed.Detail, entries[1].Detail)
	assert.True(t, testTime.Equal(entries[1].Timestamp))
}

func TestAppend_EmptyExistingFileGetsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	l := Open(path)
	require.NoError(t, l.Append([]Entry{testEntry()}))

	entries, err := l.Read()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppend_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	l := Open(path)

	const writers = 8
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Append([]Entry{testEntry(), testEntry()}))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))

	entries, err := l.Read()
	require.NoError(t, err)
	assert.Len(t, entries, 2*writers)
}

func TestAppend_DisabledLog(t *testing.T) {
	var l *Log
	assert.NoError(t, l.Append([]Entry{testEntry()}))
	assert.NoError(t, Open("").Append([]Entry{testEntry()}))
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Open(filepath.Join(t.TempDir(), "nope.csv")).Read()
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.csv")
	require.NoError(t, os.WriteFile(path, []byte(Header+"\n"), 0o644))

	entries, err := Open(path).Read()
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"yesterday", "", "", "ok", "", ""})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{testTime.Format(time.RFC3339), "", "", "maybe", "", ""})
	assert.Error(t, err)
}
