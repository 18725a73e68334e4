package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	filePrefix = "Invoice_"
	fileExt    = ".pdf"
)

// FileName returns the document name for an invoice number,
// e.g. "INV-001" -> "Invoice_INV-001.pdf".
func FileName(invoiceNumber string) string {
	return fmt.Sprintf("%s%s%s", filePrefix, SafeComponent(invoiceNumber), fileExt)
}

// Path joins the document name for invoiceNumber onto dir.
func Path(dir, invoiceNumber string) string {
	return filepath.Join(dir, FileName(invoiceNumber))
}

// InvoiceNumber recovers the (sanitized) invoice number from a document
// name. ok is false for names that do not follow the Invoice_<n>.pdf form.
func InvoiceNumber(fileName string) (string, bool) {
	base := filepath.Base(fileName)
	if !strings.HasPrefix(base, filePrefix) || !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	num := strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), fileExt)
	if num == "" {
		return "", false
	}
	return num, true
}

// SafeComponent makes s usable as a single path component: separators,
// control and reserved characters become '_', and a bare "." or ".."
// is neutralized.
func SafeComponent(s string) string {
	s = strings.TrimSpace(s)
	out := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, s)
	switch out {
	case "":
		return "_"
	case ".", "..":
		return strings.Repeat("_", len(out))
	}
	return out
}
