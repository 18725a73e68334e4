package render

import (
	"fmt"
	"strconv"
	"strings"
)

// inch is one inch in the document unit (mm).
const inch = 25.4

// Color is an RGB color with 0-255 components.
type Color struct {
	R, G, B int
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// MustHex is ParseHex for constants. Panics on malformed input.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Style is the complete visual policy of a rendered invoice.
// Lengths are millimetres, font sizes are points.
type Style struct {
	PageSize   string
	Margin     float64
	FontFamily string
	LogoSize   float64

	CompanyNameSize float64
	CompanyInfoSize float64
	TitleSize       float64
	SectionSize     float64
	DetailSize      float64
	BodySize        float64
	TableHeadSize   float64
	TableBodySize   float64
	TotalsSize      float64
	TotalDueSize    float64
	NoteSize        float64
	FooterSize      float64

	CompanyNameColor Color
	CompanyInfoColor Color
	TitleColor       Color
	SectionColor     Color
	DetailColor      Color
	BodyColor        Color
	HeaderFillColor  Color
	HeaderTextColor  Color
	StripeColor      Color
	RowColor         Color
	GridColor        Color
	AccentColor      Color
	RuleColor        Color
	NoteColor        Color
	FooterColor      Color

	DetailColumns [4]float64
	ItemColumns   [4]float64
	TotalsColumns [2]float64
	CellPadding   float64
	SectionGap    float64
}

// DefaultStyle returns the standard invoice look: US Letter, 0.75in margins,
// dark slate headings and a red total.
func DefaultStyle() Style {
	return Style{
		PageSize:   "Letter",
		Margin:     0.75 * inch,
		FontFamily: "Helvetica",
		LogoSize:   1.5 * inch,

		CompanyNameSize: 24,
		CompanyInfoSize: 10,
		TitleSize:       28,
		SectionSize:     12,
		DetailSize:      10,
		BodySize:        10,
		TableHeadSize:   11,
		TableBodySize:   10,
		TotalsSize:      10,
		TotalDueSize:    12,
		NoteSize:        11,
		FooterSize:      8,

		CompanyNameColor: MustHex("#2C3E50"),
		CompanyInfoColor: MustHex("#7F8C8D"),
		TitleColor:       MustHex("#E74C3C"),
		SectionColor:     MustHex("#34495E"),
		DetailColor:      MustHex("#2C3E50"),
		BodyColor:        MustHex("#000000"),
		HeaderFillColor:  MustHex("#34495E"),
		HeaderTextColor:  MustHex("#F5F5F5"),
		StripeColor:      MustHex("#F8F9FA"),
		RowColor:         MustHex("#FFFFFF"),
		GridColor:        MustHex("#BDC3C7"),
		AccentColor:      MustHex("#E74C3C"),
		RuleColor:        MustHex("#34495E"),
		NoteColor:        MustHex("#27AE60"),
		FooterColor:      MustHex("#95A5A6"),

		DetailColumns: [4]float64{1.5 * inch, 2 * inch, 0.8 * inch, 1.5 * inch},
		ItemColumns:   [4]float64{3.5 * inch, 1 * inch, 1 * inch, 1.3 * inch},
		TotalsColumns: [2]float64{4.8 * inch, 1.9 * inch},
		CellPadding:   2,
		SectionGap:    0.3 * inch,
	}
}
