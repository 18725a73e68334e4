package model

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineItem is one billable item on an invoice.
type LineItem struct {
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// LineTotal returns Quantity * UnitPrice.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// Invoice is the structured form of one invoice: header fields plus items.
type Invoice struct {
	Number          string
	CustomerName    string
	Address         string
	Phone           string
	Date            string // display-only, usually YYYY-MM-DD
	TaxPercent      decimal.Decimal
	DiscountPercent decimal.Decimal
	Items           []LineItem
	Row             int // sheet row that opened the invoice
}

// Totals holds the derived financial figures of an invoice.
type Totals struct {
	Subtotal              decimal.Decimal
	DiscountAmount        decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	TaxAmount             decimal.Decimal
	Total                 decimal.Decimal
}

// Totals computes subtotal, discount, tax and grand total.
// Discount applies before tax. Rates below zero count as zero.
func (inv Invoice) Totals() Totals {
	subtotal := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	discount := subtotal.Mul(rate(inv.DiscountPercent)).Div(hundred)
	afterDiscount := subtotal.Sub(discount)
	tax := afterDiscount.Mul(rate(inv.TaxPercent)).Div(hundred)
	return Totals{
		Subtotal:              subtotal,
		DiscountAmount:        discount,
		SubtotalAfterDiscount: afterDiscount,
		TaxAmount:             tax,
		Total:                 afterDiscount.Add(tax),
	}
}

// HasDiscount reports whether a discount line applies.
func (inv Invoice) HasDiscount() bool { return inv.DiscountPercent.IsPositive() }

// HasTax reports whether a tax line applies.
func (inv Invoice) HasTax() bool { return inv.TaxPercent.IsPositive() }

func rate(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}
