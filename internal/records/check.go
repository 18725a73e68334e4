package records

import (
	"fmt"

	"github.com/cleared-dev/sheetbill/internal/model"
	"github.com/cleared-dev/sheetbill/internal/naming"
)

// Check reports advisory problems across a batch of invoices: invoices
// whose documents share a file name and invoices without line items. It
// never rejects.
func Check(invoices []model.Invoice) []Warning {
	var warns []Warning

	type opened struct {
		number string
		row    int
	}
	byFile := make(map[string]opened, len(invoices))
	for _, inv := range invoices {
		name := naming.FileName(inv.Number)
		if prev, seen := byFile[name]; seen {
			warns = append(warns, Warning{
				Kind:    WarnDuplicateInvoice,
				Row:     inv.Row,
				Invoice: inv.Number,
				Message: fmt.Sprintf("invoice %s writes %s like invoice %s at row %d, the earlier document will be overwritten", inv.Number, name, prev.number, prev.row),
			})
		} else {
			byFile[name] = opened{number: inv.Number, row: inv.Row}
		}

		if len(inv.Items) == 0 {
			warns = append(warns, Warning{
				Kind:    WarnEmptyInvoice,
				Row:     inv.Row,
				Invoice: inv.Number,
				Message: fmt.Sprintf("invoice %s has no line items", inv.Number),
			})
		}
	}
	return warns
}
