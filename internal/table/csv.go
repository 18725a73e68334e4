package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/sheetbill/internal/model"
)

// CSVReader reads a comma-separated table with a header row.
type CSVReader struct{}

// Extensions returns the csv extension.
func (c *CSVReader) Extensions() []string { return []string{"csv"} }

// Read returns the data rows of a CSV table. Ragged rows are allowed.
func (c *CSVReader) Read(r io.Reader) ([]model.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return buildRows(records, nil)
}
