package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sheetbill/internal/table"
)

func TestScan_FindsTables(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.csv", "c.xlsm", "notes.txt", "old.xls", "~$b.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644))
	}

	files, err := Scan(dir, table.DefaultRegistry())
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a.csv", files[0].Name)
	assert.Equal(t, "b.xlsx", files[1].Name)
	assert.Equal(t, "c.xlsm", files[2].Name)
	assert.Equal(t, filepath.Join(dir, "a.csv"), files[0].Path)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, ProcessedDir)
	require.NoError(t, os.MkdirAll(processed, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir, table.DefaultRegistry())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "inbox"), table.DefaultRegistry())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.xlsx"), []byte("data"), 0o644))

	dst, err := MarkProcessed(dir, "jan.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ProcessedDir, "jan.xlsx"), dst)

	_, err = os.Stat(filepath.Join(dir, "jan.xlsx"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, dst)
}

func TestMarkProcessed_KeepsEarlierFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.csv"), []byte("first"), 0o644))
	_, err := MarkProcessed(dir, "jan.csv")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.csv"), []byte("second"), 0o644))
	dst, err := MarkProcessed(dir, "jan.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ProcessedDir, "jan-1.csv"), dst)

	first, err := os.ReadFile(filepath.Join(dir, ProcessedDir, "jan.csv"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(first))
}

func TestMarkProcessed_MissingSource(t *testing.T) {
	_, err := MarkProcessed(t.TempDir(), "nope.csv")
	require.Error(t, err)
}
