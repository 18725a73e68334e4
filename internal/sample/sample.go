// Package sample writes demonstration invoice workbooks.
package sample

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/sheetbill/internal/model"
)

// SheetName is the name of the generated worksheet.
const SheetName = "Invoices"

// DefaultInvoices is the invoice count used when Options.Invoices is zero.
const DefaultInvoices = 200

// Options controls generation. The same Seed and Now give the same rows.
type Options struct {
	Invoices int
	Seed     uint64
	Now      time.Time
}

// Summary describes a generated workbook.
type Summary struct {
	Invoices int
	Rows     int
}

// Rows returns the data rows, header excluded. Each invoice has one to
// three items; only its first row carries the invoice fields.
func Rows(opts Options) [][]any {
	n := opts.Invoices
	if n <= 0 {
		n = DefaultInvoices
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var rows [][]any
	for i := 1; i <= n; i++ {
		number := fmt.Sprintf("INV-%03d", i)
		customer := pick(rng, customers)
		address := pick(rng, addresses)
		phone := fmt.Sprintf("+1-555-%d", 1000+rng.IntN(9000))
		date := now.AddDate(0, 0, -rng.IntN(91)).Format("2006-01-02")

		for k := range 1 + rng.IntN(3) {
			item := pick(rng, items)
			qty := 1 + rng.IntN(50)
			price := round(50+rng.Float64()*4950, 2)
			if k == 0 {
				tax := round(5+rng.Float64()*5, 1)
				discount := pick(rng, discounts)
				rows = append(rows, []any{number, customer, address, phone, date, item, qty, price, tax, discount})
				continue
			}
			rows = append(rows, []any{nil, nil, nil, nil, nil, item, qty, price, nil, nil})
		}
	}
	return rows
}

// Workbook builds the styled sample workbook. The caller closes it.
func Workbook(opts Options) (*excelize.File, Summary, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, Summary{}, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(model.Columns))
	for i, c := range model.Columns {
		header[i] = c
	}
	rows := append([][]any{header}, Rows(opts)...)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, Summary{}, err
		}
		if err := f.SetSheetRow(SheetName, cell, &rows[i]); err != nil {
			f.Close()
			return nil, Summary{}, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := styleHeader(f); err != nil {
		f.Close()
		return nil, Summary{}, err
	}

	invoices := 0
	for _, r := range rows[1:] {
		if r[0] != nil {
			invoices++
		}
	}
	return f, Summary{Invoices: invoices, Rows: len(rows) - 1}, nil
}

// Write generates a workbook into w.
func Write(w io.Writer, opts Options) (Summary, error) {
	f, sum, err := Workbook(opts)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return Summary{}, fmt.Errorf("writing workbook: %w", err)
	}
	return sum, nil
}

// Save generates a workbook at path.
func Save(path string, opts Options) (Summary, error) {
	f, sum, err := Workbook(opts)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return Summary{}, fmt.Errorf("saving %s: %w", path, err)
	}
	return sum, nil
}

func styleHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(model.Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}
	return nil
}

func pick[T any](rng *rand.Rand, from []T) T {
	return from[rng.IntN(len(from))]
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
