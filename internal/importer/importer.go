// Package importer finds input tables waiting in an inbox directory and
// files them away once handled.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cleared-dev/sheetbill/internal/table"
)

// ProcessedDir is the inbox subdirectory for handled tables.
const ProcessedDir = "processed"

// FileInfo describes a table in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns the tables in dir that tables can read, in name order.
// Spreadsheet lock files (~$name.xlsx) and subdirectories are skipped.
// A missing directory yields no files.
func Scan(dir string, tables *table.Registry) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if !tables.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves dir/fileName to dir/processed/. An earlier file of
// the same name is kept; the new one gets a numeric suffix.
func MarkProcessed(dir, fileName string) (string, error) {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, ProcessedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	for n := 1; ; n++ {
		if _, err := os.Lstat(dst); os.IsNotExist(err) {
			break
		}
		dst = filepath.Join(dstDir, base+"-"+strconv.Itoa(n)+ext)
	}

	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return dst, nil
}
