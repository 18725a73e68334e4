// Package render lays out invoices and draws them as PDF documents.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sheetbill/internal/config"
	"github.com/cleared-dev/sheetbill/internal/model"
	"github.com/cleared-dev/sheetbill/internal/naming"
)

const timestampFormat = "2006-01-02 15:04:05"

// Section identifies a block of the document, in drawing order.
type Section string

const (
	SectionLogo    Section = "logo"
	SectionIssuer  Section = "issuer"
	SectionTitle   Section = "title"
	SectionDetails Section = "details"
	SectionBillTo  Section = "bill-to"
	SectionItems   Section = "items"
	SectionTotals  Section = "totals"
	SectionNote    Section = "note"
	SectionFooter  Section = "footer"
)

// ItemHeader is the header row of the line-item table.
var ItemHeader = [4]string{"Item", "Quantity", "Price", "Total"}

// Block is a heading followed by plain lines.
type Block struct {
	Heading string
	Name    string
	Lines   []string
}

// ItemLine is one formatted row of the line-item table.
type ItemLine struct {
	Name     string
	Quantity string
	Price    string
	Total    string
}

// TotalLine is one label/amount pair of the totals block.
type TotalLine struct {
	Label    string
	Amount   string
	Emphasis bool
}

// Document is the fully formatted content of one invoice, independent of
// how it is drawn.
type Document struct {
	FileName      string
	InvoiceNumber string
	Date          string
	LogoPath      string // configured logo; Draw clears it when the image is unusable
	Issuer        Block
	Title         string
	BillTo        Block
	Items         []ItemLine
	Totals        []TotalLine
	Note          string
	Footer        string
}

// Build formats inv under cfg. now stamps the footer.
func Build(inv model.Invoice, cfg *config.Config, now time.Time) Document {
	sym := cfg.CurrencySymbol
	doc := Document{
		FileName:      naming.FileName(inv.Number),
		InvoiceNumber: inv.Number,
		Date:          inv.Date,
		LogoPath:      cfg.LogoPath,
		Issuer:        Block{Name: cfg.CompanyName, Lines: issuerLines(cfg)},
		Title:         "INVOICE",
		BillTo:        Block{Heading: "Bill To:", Name: inv.CustomerName, Lines: contactLines(inv.Address, inv.Phone, "")},
		Note:          cfg.ThankYouNote,
		Footer:        "This invoice was generated automatically on " + now.Format(timestampFormat),
	}
	if doc.Date == "" {
		doc.Date = now.Format("2006-01-02")
	}

	for _, it := range inv.Items {
		doc.Items = append(doc.Items, ItemLine{
			Name:     it.Name,
			Quantity: it.Quantity.StringFixed(2),
			Price:    Money(sym, it.UnitPrice),
			Total:    Money(sym, it.LineTotal()),
		})
	}
	doc.Totals = TotalLines(inv, sym)
	return doc
}

// TotalLines builds the totals block: subtotal, then discount lines and a
// tax line only when their rates are positive, then the amount due.
func TotalLines(inv model.Invoice, sym string) []TotalLine {
	t := inv.Totals()
	lines := []TotalLine{{Label: "Subtotal:", Amount: Money(sym, t.Subtotal)}}
	if inv.HasDiscount() {
		lines = append(lines,
			TotalLine{
				Label:  fmt.Sprintf("Discount (%s%%):", Percent(inv.DiscountPercent)),
				Amount: "-" + Money(sym, t.DiscountAmount),
			},
			TotalLine{Label: "Subtotal after Discount:", Amount: Money(sym, t.SubtotalAfterDiscount)},
		)
	}
	if inv.HasTax() {
		lines = append(lines, TotalLine{
			Label:  fmt.Sprintf("Tax (%s%%):", Percent(inv.TaxPercent)),
			Amount: Money(sym, t.TaxAmount),
		})
	}
	return append(lines, TotalLine{Label: "Total Amount Due:", Amount: Money(sym, t.Total), Emphasis: true})
}

// Sections lists the blocks present in the document, in drawing order.
func (d Document) Sections() []Section {
	var out []Section
	if d.LogoPath != "" {
		out = append(out, SectionLogo)
	}
	out = append(out, SectionIssuer, SectionTitle, SectionDetails, SectionBillTo, SectionItems, SectionTotals)
	if d.Note != "" {
		out = append(out, SectionNote)
	}
	return append(out, SectionFooter)
}

// Money formats an amount with the currency symbol and two decimals.
func Money(sym string, d decimal.Decimal) string {
	return sym + d.StringFixed(2)
}

// Percent formats a rate with one decimal.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(1)
}

func issuerLines(cfg *config.Config) []string {
	return contactLines(cfg.CompanyAddress, cfg.CompanyPhone, cfg.CompanyEmail)
}

func contactLines(address, phone, email string) []string {
	var lines []string
	for _, l := range strings.Split(address, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if phone != "" {
		lines = append(lines, "Phone: "+phone)
	}
	if email != "" {
		lines = append(lines, "Email: "+email)
	}
	return lines
}
