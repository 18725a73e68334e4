package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/sheetbill/internal/model"
)

const csvHeader = "Invoice Number,Customer Name,Address,Phone Number,Date,Item Name,Quantity,Price,Tax %,Discount %\n"

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCSVReader_Read(t *testing.T) {
	data := csvHeader +
		"INV-001,Ada,1 Main St,555-1000,2025-01-15,Laptop,2,999.50,8.5,10\n" +
		",,,,,Mouse,1,25,,\n"

	rows, err := (&CSVReader{}).Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Num)
	assert.Equal(t, "INV-001", rows[0].Get(model.ColInvoiceNumber))
	assert.Equal(t, "999.50", rows[0].Get(model.ColPrice))
	assert.Equal(t, 3, rows[1].Num)
	assert.Equal(t, "", rows[1].Get(model.ColInvoiceNumber))
	assert.Equal(t, "Mouse", rows[1].Get(model.ColItemName))
}

func TestCSVReader_ColumnOrderIndependent(t *testing.T) {
	data := "Item Name,Invoice Number,Price\nDesk,INV-9,120\n"
	rows, err := (&CSVReader{}).Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "INV-9", rows[0].Get(model.ColInvoiceNumber))
	assert.Equal(t, "Desk", rows[0].Get(model.ColItemName))
	assert.Equal(t, "120", rows[0].Get(model.ColPrice))
	assert.Equal(t, "", rows[0].Get(model.ColQuantity))
}

func TestCSVReader_RaggedRowsAndBOM(t *testing.T) {
	data := "\ufeffInvoice Number,Item Name,Quantity\nINV-1,Pen\n"
	rows, err := (&CSVReader{}).Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "INV-1", rows[0].Get(model.ColInvoiceNumber))
	assert.Equal(t, "", rows[0].Get(model.ColQuantity))
}

func TestCSVReader_MissingRequiredColumn(t *testing.T) {
	_, err := (&CSVReader{}).Read(strings.NewReader("Customer Name,Price\nAda,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestCSVReader_Empty(t *testing.T) {
	rows, err := (&CSVReader{}).Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestXLSXReader_Read(t *testing.T) {
	data := workbook(t, [][]any{
		{"Invoice Number", "Customer Name", "Address", "Phone Number", "Date", "Item Name", "Quantity", "Price", "Tax %", "Discount %"},
		{"INV-001", "Ada", "1 Main St", "555-1000", "2025-01-15", "Laptop", 2, 999.5, 8.5, 10},
		{nil, nil, nil, nil, nil, "Mouse", 1, 25},
	})

	rows, err := (&XLSXReader{}).Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "INV-001", rows[0].Get(model.ColInvoiceNumber))
	assert.Equal(t, "2025-01-15", rows[0].Get(model.ColDate))
	assert.Equal(t, "2", rows[0].Get(model.ColQuantity))
	assert.Equal(t, "999.5", rows[0].Get(model.ColPrice))
	assert.Equal(t, "Mouse", rows[1].Get(model.ColItemName))
	assert.Equal(t, "", rows[1].Get(model.ColTaxPercent))
}

func TestXLSXReader_DateSerial(t *testing.T) {
	data := workbook(t, [][]any{
		{"Invoice Number", "Date", "Item Name"},
		{"INV-001", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), "Desk"},
	})

	rows, err := (&XLSXReader{}).Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-03-09", rows[0].Get(model.ColDate))
}

func TestXLSXReader_Corrupt(t *testing.T) {
	_, err := (&XLSXReader{}).Read(strings.NewReader("not a workbook"))
	require.Error(t, err)
}

func TestFixDateSerial(t *testing.T) {
	assert.Equal(t, "2025-01-01", fixDateSerial(model.ColDate, "45658"))
	assert.Equal(t, "2025-01-01", fixDateSerial(model.ColDate, "2025-01-01"))
	assert.Equal(t, "20250101", fixDateSerial(model.ColDate, "20250101"))
	assert.Equal(t, "45658", fixDateSerial(model.ColPrice, "45658"))
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("invoices.xlsx"))
	assert.NotNil(t, r.Get("INVOICES.XLSM"))
	assert.NotNil(t, r.Get("csv"))
	assert.Nil(t, r.Get("invoices.xls"))
	assert.True(t, r.Supports("a.csv"))
	assert.False(t, r.Supports("a.txt"))
	assert.Equal(t, []string{"csv", "xlsm", "xlsx"}, r.Extensions())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVReader{})
	assert.Panics(t, func() { r.Register(&CSVReader{}) })
}

func TestRegistry_Open(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvHeader+"INV-1,,,,,Pen,1,2,,\n"), 0o644))

	rows, err := DefaultRegistry().Open(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRegistry_OpenUnsupported(t *testing.T) {
	_, err := DefaultRegistry().Open(filepath.Join(t.TempDir(), "in.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRegistry_OpenMissing(t *testing.T) {
	_, err := DefaultRegistry().Open(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
