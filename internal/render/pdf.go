package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // logo decoding
	_ "image/jpeg" // logo decoding
	_ "image/png"  // logo decoding
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/cleared-dev/sheetbill/internal/config"
	"github.com/cleared-dev/sheetbill/internal/model"
)

const (
	ptToMM      = 25.4 / 72
	lineSpacing = 1.25
	creator     = "sheetbill"
)

// Output describes a written document.
type Output struct {
	Path     string
	Size     int
	Sections []Section
	Warnings []string
}

// Drawing is a rendered document before it is written.
type Drawing struct {
	Data     []byte
	Sections []Section
	Warnings []string
}

// Renderer draws invoices as PDF files into the configured output folder.
type Renderer struct {
	cfg   *config.Config
	style Style
	now   func() time.Time
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithStyle replaces the default style.
func WithStyle(s Style) Option {
	return func(r *Renderer) { r.style = s }
}

// WithClock sets the time source used for footers and PDF metadata.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New creates a Renderer for cfg.
func New(cfg *config.Config, opts ...Option) *Renderer {
	r := &Renderer{cfg: cfg, style: DefaultStyle(), now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render lays out inv, draws it and writes it to
// <output_folder>/Invoice_<number>.pdf. The file appears complete or not
// at all. An unreadable logo is skipped and reported in Output.Warnings.
func (r *Renderer) Render(inv model.Invoice) (Output, error) {
	now := r.now()
	doc := Build(inv, r.cfg, now)

	d, err := Draw(doc, r.style, now)
	if err != nil {
		return Output{Warnings: d.Warnings}, fmt.Errorf("drawing invoice %s: %w", inv.Number, err)
	}

	out := Output{Sections: d.Sections, Warnings: d.Warnings}
	if err := os.MkdirAll(r.cfg.OutputFolder, 0o755); err != nil {
		return out, fmt.Errorf("creating output folder: %w", err)
	}
	path := filepath.Join(r.cfg.OutputFolder, doc.FileName)
	if err := writeAtomic(path, d.Data); err != nil {
		return out, err
	}
	out.Path, out.Size = path, len(d.Data)
	return out, nil
}

// Draw renders doc to PDF bytes. Drawing.Sections lists the blocks that
// were actually drawn.
func Draw(doc Document, s Style, now time.Time) (Drawing, error) {
	pdf := gofpdf.New("P", "mm", s.PageSize, "")
	pdf.SetMargins(s.Margin, s.Margin, s.Margin)
	pdf.SetAutoPageBreak(true, s.Margin)
	pdf.SetCreationDate(now)
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Invoice "+doc.InvoiceNumber, true)
	pdf.SetAuthor(doc.Issuer.Name, true)
	pdf.SetCreator(creator, false)
	pdf.AliasNbPages("{nb}")

	d := &drawer{pdf: pdf, s: s, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(d.pageFooter)

	var warns []string
	logo := ""
	if doc.LogoPath != "" {
		name, err := registerLogo(pdf, doc.LogoPath)
		if err != nil {
			warns = append(warns, fmt.Sprintf("logo skipped: %v", err))
			doc.LogoPath = ""
		} else {
			logo = name
		}
	}

	sections := doc.Sections()
	pdf.AddPage()
	for _, sec := range sections {
		switch sec {
		case SectionLogo:
			d.logo(logo)
		case SectionIssuer:
			d.issuer(doc.Issuer)
		case SectionTitle:
			d.title(doc.Title)
		case SectionDetails:
			d.details(doc.InvoiceNumber, doc.Date)
		case SectionBillTo:
			d.billTo(doc.BillTo)
		case SectionItems:
			d.items(doc.Items)
		case SectionTotals:
			d.totals(doc.Totals)
		case SectionNote:
			d.note(doc.Note)
		case SectionFooter:
			d.footer(doc.Footer)
		}
	}

	if err := pdf.Error(); err != nil {
		return Drawing{Warnings: warns}, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Drawing{Warnings: warns}, err
	}
	return Drawing{Data: buf.Bytes(), Sections: sections, Warnings: warns}, nil
}

// registerLogo loads the image at path into pdf. Unreadable or
// undecodable images are reported and leave pdf without error.
func registerLogo(pdf *gofpdf.Fpdf, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	imageType := map[string]string{"png": "PNG", "jpeg": "JPG", "gif": "GIF"}[format]

	pdf.RegisterImageOptionsReader(path, gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		return "", fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// drawer holds the state shared by the section drawing methods.
type drawer struct {
	pdf *gofpdf.Fpdf
	s   Style
	tr  func(string) string
}

func lineHeight(size float64) float64 { return size * ptToMM * lineSpacing }

func (d *drawer) font(style string, size float64, c Color) {
	d.pdf.SetFont(d.s.FontFamily, style, size)
	d.pdf.SetTextColor(c.R, c.G, c.B)
}

func (d *drawer) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return w - left - right
}

func (d *drawer) pageBottom() float64 {
	_, h := d.pdf.GetPageSize()
	_, _, _, bottom := d.pdf.GetMargins()
	return h - bottom
}

// ensure starts a new page unless h mm still fit on the current one.
func (d *drawer) ensure(h float64) bool {
	if d.pdf.GetY()+h <= d.pageBottom() {
		return false
	}
	d.pdf.AddPage()
	return true
}

func (d *drawer) gap(h float64) {
	d.pdf.Ln(h)
}

func (d *drawer) logo(name string) {
	if name == "" {
		return
	}
	left, top, _, _ := d.pdf.GetMargins()
	d.pdf.ImageOptions(name, left, top, d.s.LogoSize, d.s.LogoSize, false, gofpdf.ImageOptions{}, 0, "")
	d.pdf.SetY(top + d.s.LogoSize)
	d.gap(0.2 * inch)
}

func (d *drawer) issuer(b Block) {
	w := d.contentWidth()
	d.font("B", d.s.CompanyNameSize, d.s.CompanyNameColor)
	d.pdf.CellFormat(w, lineHeight(d.s.CompanyNameSize), d.tr(b.Name), "", 1, "C", false, 0, "")
	d.gap(2)

	d.font("", d.s.CompanyInfoSize, d.s.CompanyInfoColor)
	for _, l := range b.Lines {
		d.pdf.CellFormat(w, lineHeight(d.s.CompanyInfoSize), d.tr(l), "", 1, "C", false, 0, "")
	}
	d.gap(d.s.SectionGap + 7)
}

func (d *drawer) title(t string) {
	d.font("B", d.s.TitleSize, d.s.TitleColor)
	d.pdf.CellFormat(d.contentWidth(), lineHeight(d.s.TitleSize), d.tr(t), "", 1, "R", false, 0, "")
	d.gap(4)
}

func (d *drawer) details(number, date string) {
	cols := d.s.DetailColumns
	h := lineHeight(d.s.DetailSize)
	d.font("B", d.s.DetailSize, d.s.DetailColor)
	cells := [4]string{"Invoice Number:", number, "Date:", date}
	aligns := [4]string{"R", "L", "R", "L"}
	for i, c := range cells {
		d.pdf.CellFormat(cols[i], h, " "+d.tr(c)+" ", "", 0, aligns[i], false, 0, "")
	}
	d.pdf.Ln(h)
	d.gap(d.s.SectionGap)
}

func (d *drawer) billTo(b Block) {
	w := d.contentWidth()
	d.font("B", d.s.SectionSize, d.s.SectionColor)
	d.pdf.CellFormat(w, lineHeight(d.s.SectionSize), d.tr(b.Heading), "", 1, "L", false, 0, "")
	d.gap(1)

	h := lineHeight(d.s.BodySize)
	d.font("B", d.s.BodySize, d.s.BodyColor)
	d.pdf.CellFormat(w, h, d.tr(b.Name), "", 1, "L", false, 0, "")
	d.font("", d.s.BodySize, d.s.BodyColor)
	for _, l := range b.Lines {
		d.pdf.MultiCell(w, h, d.tr(l), "", "L", false)
	}
	d.gap(d.s.SectionGap)
}

func (d *drawer) itemHeader() {
	cols := d.s.ItemColumns
	h := lineHeight(d.s.TableHeadSize) + 2*d.s.CellPadding + 2
	fill, grid := d.s.HeaderFillColor, d.s.GridColor
	d.pdf.SetFillColor(fill.R, fill.G, fill.B)
	d.pdf.SetDrawColor(grid.R, grid.G, grid.B)
	d.pdf.SetLineWidth(0.35)
	d.font("B", d.s.TableHeadSize, d.s.HeaderTextColor)
	for i, label := range ItemHeader {
		d.pdf.CellFormat(cols[i], h, label, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(h)
}

func (d *drawer) items(lines []ItemLine) {
	cols := d.s.ItemColumns
	pad := d.s.CellPadding
	lh := lineHeight(d.s.TableBodySize)
	left, _, _, _ := d.pdf.GetMargins()

	d.ensure(3 * lh * 2)
	d.itemHeader()
	d.font("", d.s.TableBodySize, d.s.BodyColor)

	for i, it := range lines {
		nameLines := d.pdf.SplitLines([]byte(d.tr(it.Name)), cols[0]-2*pad)
		if len(nameLines) == 0 {
			nameLines = [][]byte{nil}
		}
		rowH := float64(len(nameLines))*lh + 2*pad

		if d.ensure(rowH) {
			d.itemHeader()
			d.font("", d.s.TableBodySize, d.s.BodyColor)
		}

		bg := d.s.RowColor
		if i%2 == 1 {
			bg = d.s.StripeColor
		}
		y := d.pdf.GetY()
		x := left
		cells := [4][]string{nil, {it.Quantity}, {d.tr(it.Price)}, {d.tr(it.Total)}}
		for _, nl := range nameLines {
			cells[0] = append(cells[0], string(nl))
		}
		for c, w := range cols {
			d.pdf.SetFillColor(bg.R, bg.G, bg.B)
			d.pdf.Rect(x, y, w, rowH, "FD")
			align := "C"
			if c == 0 {
				align = "L"
			}
			for k, text := range cells[c] {
				d.pdf.SetXY(x+pad, y+pad+float64(k)*lh)
				d.pdf.CellFormat(w-2*pad, lh, text, "", 0, align, false, 0, "")
			}
			x += w
		}
		d.pdf.SetXY(left, y+rowH)
	}
	d.gap(d.s.SectionGap)
}

func (d *drawer) totals(lines []TotalLine) {
	cols := d.s.TotalsColumns
	rowH := lineHeight(d.s.TotalsSize) + 2*d.s.CellPadding
	d.ensure(float64(len(lines)+1) * rowH)

	left, _, _, _ := d.pdf.GetMargins()
	for _, l := range lines {
		size, style, color := d.s.TotalsSize, "", d.s.BodyColor
		if l.Emphasis {
			size, style, color = d.s.TotalDueSize, "B", d.s.AccentColor
			rule := d.s.RuleColor
			y := d.pdf.GetY()
			d.pdf.SetDrawColor(rule.R, rule.G, rule.B)
			d.pdf.SetLineWidth(0.7)
			d.pdf.Line(left, y, left+cols[0]+cols[1], y)
			d.pdf.SetLineWidth(0.2)
			rowH = lineHeight(size) + 2*d.s.CellPadding
		}
		d.font(style, size, color)
		d.pdf.CellFormat(cols[0], rowH, d.tr(l.Label), "", 0, "R", false, 0, "")
		d.pdf.CellFormat(cols[1], rowH, d.tr(l.Amount), "", 1, "R", false, 0, "")
	}
	d.gap(0.5 * inch)
}

func (d *drawer) note(text string) {
	d.font("", d.s.NoteSize, d.s.NoteColor)
	d.pdf.MultiCell(d.contentWidth(), lineHeight(d.s.NoteSize), d.tr(text), "", "C", false)
	d.gap(3.5)
}

func (d *drawer) footer(text string) {
	d.font("", d.s.FooterSize, d.s.FooterColor)
	d.pdf.MultiCell(d.contentWidth(), lineHeight(d.s.FooterSize), d.tr(text), "", "C", false)
}

// pageFooter numbers every page inside the bottom margin.
func (d *drawer) pageFooter() {
	d.pdf.SetY(-d.s.Margin / 2)
	d.font("", d.s.FooterSize, d.s.FooterColor)
	label := fmt.Sprintf("Page %d of {nb}", d.pdf.PageNo())
	d.pdf.CellFormat(d.contentWidth(), lineHeight(d.s.FooterSize), label, "", 0, "C", false, 0, "")
}

// writeAtomic writes data to a temp file beside path and renames it into
// place, so readers never observe a partial document.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving %s into place: %w", filepath.Base(path), err)
	}
	return nil
}
