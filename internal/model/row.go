package model

import "strings"

// Column names of the input table. Order in the sheet does not matter.
const (
	ColInvoiceNumber = "Invoice Number"
	ColCustomerName  = "Customer Name"
	ColAddress       = "Address"
	ColPhone         = "Phone Number"
	ColDate          = "Date"
	ColItemName      = "Item Name"
	ColQuantity      = "Quantity"
	ColPrice         = "Price"
	ColTaxPercent    = "Tax %"
	ColDiscount      = "Discount %"
)

// Columns lists the fixed input columns in their conventional order.
var Columns = []string{
	ColInvoiceNumber,
	ColCustomerName,
	ColAddress,
	ColPhone,
	ColDate,
	ColItemName,
	ColQuantity,
	ColPrice,
	ColTaxPercent,
	ColDiscount,
}

// Row is one data line of the input table keyed by column name.
type Row struct {
	Num    int // 1-based sheet row; the header is row 1
	Values map[string]string
}

// Get returns the trimmed cell text for col, or "" when absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r.Values[col])
}

// Blank reports whether every cell in the row is empty.
func (r Row) Blank() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
