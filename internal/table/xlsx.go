package table

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/sheetbill/internal/model"
)

const (
	dateFormat = "2006-01-02"
	// Largest serial Excel accepts (9999-12-31).
	maxExcelSerial = 2958465
)

// XLSXReader reads the active sheet of an Office Open XML workbook.
type XLSXReader struct{}

// Extensions returns the workbook extensions this reader handles.
func (x *XLSXReader) Extensions() []string { return []string{"xlsx", "xlsm"} }

// Read returns the data rows of the workbook's active sheet.
func (x *XLSXReader) Read(r io.Reader) ([]model.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, errors.New("workbook has no active sheet")
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return buildRows(records, fixDateSerial)
}

// fixDateSerial renders numeric Date cells (Excel serials) as YYYY-MM-DD.
// Any other value is left untouched.
func fixDateSerial(col, value string) string {
	if col != model.ColDate {
		return value
	}
	v := strings.TrimSpace(value)
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial < 1 || serial > maxExcelSerial {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format(dateFormat)
}
