package sample

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/sheetbill/internal/model"
	"github.com/cleared-dev/sheetbill/internal/records"
	"github.com/cleared-dev/sheetbill/internal/table"
)

var fixedNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestRows_Shape(t *testing.T) {
	rows := Rows(Options{Invoices: 25, Seed: 7, Now: fixedNow})
	require.NotEmpty(t, rows)
	assert.Equal(t, "INV-001", rows[0][0])

	invoices, run := 0, 0
	for _, r := range rows {
		require.Len(t, r, len(model.Columns))
		if r[0] != nil {
			invoices++
			run = 1
			date, err := time.Parse("2006-01-02", r[4].(string))
			require.NoError(t, err)
			assert.False(t, date.After(fixedNow))
			assert.False(t, date.Before(fixedNow.AddDate(0, 0, -90)))
			assert.Contains(t, discounts, r[9])
			continue
		}
		run++
		assert.LessOrEqual(t, run, 3, "at most three items per invoice")
		assert.Nil(t, r[8])
	}
	assert.Equal(t, 25, invoices)
}

func TestRows_Deterministic(t *testing.T) {
	a := Rows(Options{Invoices: 10, Seed: 42, Now: fixedNow})
	b := Rows(Options{Invoices: 10, Seed: 42, Now: fixedNow})
	c := Rows(Options{Invoices: 10, Seed: 43, Now: fixedNow})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRows_Default(t *testing.T) {
	rows := Rows(Options{Seed: 1, Now: fixedNow})
	assert.GreaterOrEqual(t, len(rows), DefaultInvoices)
	assert.LessOrEqual(t, len(rows), 3*DefaultInvoices)
}

func TestWrite_ReadsBackAsInvoices(t *testing.T) {
	var buf bytes.Buffer
	sum, err := Write(&buf, Options{Invoices: 12, Seed: 3, Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, 12, sum.Invoices)

	rows, err := (&table.XLSXReader{}).Read(&buf)
	require.NoError(t, err)
	assert.Len(t, rows, sum.Rows)

	res := records.Group(rows, fixedNow)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.Invoices, 12)
	assert.Equal(t, "INV-012", res.Invoices[11].Number)
	for _, inv := range res.Invoices {
		assert.NotEmpty(t, inv.Items)
		assert.True(t, inv.Totals().Total.IsPositive())
	}
}

func TestWorkbook_HeaderStyled(t *testing.T) {
	f, _, err := Workbook(Options{Invoices: 1, Seed: 1, Now: fixedNow})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetName, f.GetSheetName(f.GetActiveSheetIndex()))
	v, err := f.GetCellValue(SheetName, "J1")
	require.NoError(t, err)
	assert.Equal(t, model.ColDiscount, v)

	style, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	assert.NotZero(t, style)

	width, err := f.GetColWidth(SheetName, "C")
	require.NoError(t, err)
	assert.Equal(t, 40.0, width)
}

func TestSave(t *testing.T) {
	path := t.TempDir() + "/sample.xlsx"
	_, err := Save(path, Options{Invoices: 2, Seed: 1, Now: fixedNow})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, model.ColInvoiceNumber, rows[0][0])
}
