// pkg/render/render.go

// Package render turns a validated invoice into a downloadable document.
package render

import (
	"fmt"
	"strings"

	"github.com/invoice-builder/pkg/invoice"
	"github.com/shopspring/decimal"
)

// Supported formats.
const (
	FormatPDF  = "pdf"
	FormatText = "text"
)

// Renderer produces a document for one invoice.
type Renderer interface {
	Render(inv invoice.Invoice) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer registered for format ("pdf" or "text").
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPDF, "":
		return PDFRenderer{}, nil
	case FormatText, "txt":
		return TextRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Filename is the download name for inv, e.g. invoice_INV-20240101.pdf.
func Filename(inv invoice.Invoice, r Renderer) string {
	number := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, inv.Number)
	if number == "" {
		number = "draft"
	}
	return "invoice_" + number + "." + r.Extension()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
