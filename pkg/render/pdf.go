// pkg/render/pdf.go

package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/invoice-builder/pkg/invoice"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Table column widths in mm; they add up to the A4 printable width.
const (
	colDescription = 80.0
	colQuantity    = 40.0
	colUnitPrice   = 40.0
	colTotal       = 30.0
	rowHeight      = 10.0
)

// PDFRenderer writes an A4 invoice with a bordered item table.
type PDFRenderer struct {
	// Currency is prefixed to money cells, e.g. "$".
	Currency string
}

func (PDFRenderer) ContentType() string { return "application/pdf" }

func (PDFRenderer) Extension() string { return "pdf" }

func (r PDFRenderer) Render(inv invoice.Invoice) ([]byte, error) {
	if err := invoice.CheckItems(inv.Items); err != nil {
		return nil, err
	}

	tr := cp1252()
	amount := func(s string) string { return tr(r.Currency + s) }

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(creationDate(inv.Date))
	pdf.SetTitle(tr("Invoice "+inv.Number), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, rowHeight, "INVOICE", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	partyLines(pdf, tr, inv.Issuer)
	pdf.Ln(rowHeight)

	if inv.Number != "" {
		pdf.CellFormat(0, rowHeight, tr("Invoice #: "+inv.Number), "", 1, "", false, 0, "")
	}
	if !inv.Date.IsZero() {
		pdf.CellFormat(0, rowHeight, "Date: "+inv.Date.Format(invoice.DateLayout), "", 1, "", false, 0, "")
	}
	pdf.Ln(rowHeight)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, rowHeight, "Bill To:", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	partyLines(pdf, tr, inv.Client)
	pdf.Ln(rowHeight)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(colDescription, rowHeight, "Description", "1", 0, "", false, 0, "")
	pdf.CellFormat(colQuantity, rowHeight, "Quantity", "1", 0, "", false, 0, "")
	pdf.CellFormat(colUnitPrice, rowHeight, "Unit Price", "1", 0, "", false, 0, "")
	pdf.CellFormat(colTotal, rowHeight, "Total", "1", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	for _, item := range inv.Items {
		pdf.CellFormat(colDescription, rowHeight, fit(pdf, tr(item.Description()), colDescription), "1", 0, "", false, 0, "")
		pdf.CellFormat(colQuantity, rowHeight, strconv.Itoa(item.Quantity()), "1", 0, "", false, 0, "")
		pdf.CellFormat(colUnitPrice, rowHeight, amount(money(item.UnitPrice())), "1", 0, "", false, 0, "")
		pdf.CellFormat(colTotal, rowHeight, amount(money(item.Total())), "1", 1, "", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(colDescription+colQuantity+colUnitPrice, rowHeight, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, rowHeight, amount(money(inv.Total())), "1", 1, "", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF renders inv with a zero PDFRenderer.
func PDF(inv invoice.Invoice) ([]byte, error) {
	return PDFRenderer{}.Render(inv)
}

func partyLines(pdf *gofpdf.Fpdf, tr func(string) string, p invoice.Party) {
	for _, line := range []string{p.Name, p.Address, p.Email} {
		for _, part := range strings.Split(line, "\n") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			pdf.CellFormat(0, rowHeight, tr(part), "", 1, "", false, 0, "")
		}
	}
}

// fit shortens s with an ellipsis until it fits a cell of width w.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	limit := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// cp1252 transcodes UTF-8 for the PDF core fonts, substituting runes it cannot encode.
func cp1252() func(string) string {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	return func(s string) string {
		out, err := enc.String(s)
		if err != nil {
			return s
		}
		return out
	}
}

func creationDate(date time.Time) time.Time {
	if date.IsZero() {
		return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return date.UTC()
}
