// Package records groups flat table rows into invoices.
//
// A row with a non-empty Invoice Number opens a new invoice and carries its
// header fields. Every row with a non-empty Item Name, including the opening
// row, adds a line item to the open invoice.
package records

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sheetbill/internal/model"
)

const dateFormat = "2006-01-02"

// WarningKind classifies a non-fatal problem found while grouping.
type WarningKind string

const (
	WarnMalformedNumber  WarningKind = "malformed-number"
	WarnOrphanItem       WarningKind = "orphan-item"
	WarnDuplicateInvoice WarningKind = "duplicate-invoice"
	WarnEmptyInvoice     WarningKind = "empty-invoice"
)

// Warning describes a row or invoice the grouper tolerated.
type Warning struct {
	Kind    WarningKind
	Row     int
	Invoice string
	Message string
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d: %s", w.Row, w.Message)
	}
	return w.Message
}

// Result is the output of Group.
type Result struct {
	Invoices []model.Invoice
	Warnings []Warning
}

// Group folds rows into invoices in the order they are closed.
// now supplies the date for invoices without one.
func Group(rows []model.Row, now time.Time) Result {
	acc := accumulator{today: now.Format(dateFormat)}
	for _, row := range rows {
		acc = acc.step(row)
	}
	return acc.finish()
}

// accumulator carries the open invoice across rows.
type accumulator struct {
	today    string
	open     *model.Invoice
	closed   []model.Invoice
	warnings []Warning
}

func (a accumulator) step(row model.Row) accumulator {
	if num := row.Get(model.ColInvoiceNumber); num != "" {
		a = a.close()
		a.open = &model.Invoice{
			Number:          num,
			CustomerName:    row.Get(model.ColCustomerName),
			Address:         row.Get(model.ColAddress),
			Phone:           row.Get(model.ColPhone),
			Date:            row.Get(model.ColDate),
			TaxPercent:      a.percent(row, model.ColTaxPercent, num),
			DiscountPercent: a.percent(row, model.ColDiscount, num),
			Row:             row.Num,
		}
		if a.open.Date == "" {
			a.open.Date = a.today
		}
	}

	name := row.Get(model.ColItemName)
	if name == "" {
		return a
	}
	if a.open == nil {
		a.warnings = append(a.warnings, Warning{
			Kind:    WarnOrphanItem,
			Row:     row.Num,
			Message: fmt.Sprintf("item %q has no open invoice, dropped", name),
		})
		return a
	}

	a.open.Items = append(a.open.Items, model.LineItem{
		Name:      name,
		Quantity:  a.number(row, model.ColQuantity, a.open.Number),
		UnitPrice: a.number(row, model.ColPrice, a.open.Number),
	})
	return a
}

func (a accumulator) close() accumulator {
	if a.open != nil {
		a.closed = append(a.closed, *a.open)
		a.open = nil
	}
	return a
}

func (a accumulator) finish() Result {
	a = a.close()
	return Result{Invoices: a.closed, Warnings: a.warnings}
}

// number coerces a numeric cell, recording a warning for unparseable text.
func (a *accumulator) number(row model.Row, col, invoice string) decimal.Decimal {
	raw := row.Get(col)
	d, ok := Coerce(raw)
	if !ok {
		a.warnings = append(a.warnings, Warning{
			Kind:    WarnMalformedNumber,
			Row:     row.Num,
			Invoice: invoice,
			Message: fmt.Sprintf("%s %q is not a number, using 0", col, raw),
		})
	}
	return d
}

// percent coerces a rate cell. Rates below zero are recorded and use 0.
func (a *accumulator) percent(row model.Row, col, invoice string) decimal.Decimal {
	d := a.number(row, col, invoice)
	if d.IsNegative() {
		a.warnings = append(a.warnings, Warning{
			Kind:    WarnMalformedNumber,
			Row:     row.Num,
			Invoice: invoice,
			Message: fmt.Sprintf("%s %s is negative, using 0", col, d),
		})
		return decimal.Zero
	}
	return d
}

var thousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// Coerce converts cell text to a decimal. Empty text is 0. Comma thousands
// grouping and a trailing percent sign are ignored. Unparseable text,
// including decimal commas, yields 0 and ok=false.
func Coerce(value string) (d decimal.Decimal, ok bool) {
	v := strings.TrimSpace(value)
	v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	if strings.Contains(v, ",") {
		if !thousands.MatchString(v) {
			return decimal.Zero, false
		}
		v = strings.ReplaceAll(v, ",", "")
	}
	if v == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
