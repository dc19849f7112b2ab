// pkg/render/text.go

package render

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/invoice-builder/pkg/invoice"
)

var textTemplate = template.Must(template.New("invoice.txt").Funcs(template.FuncMap{
	"date": func(inv invoice.Invoice) string {
		if inv.Date.IsZero() {
			return ""
		}
		return inv.Date.Format(invoice.DateLayout)
	},
}).Parse(`INVOICE
{{- with .Inv.Number}}
Invoice #: {{.}}{{end}}
Date: {{date .Inv}}

From:
{{template "party" .Inv.Issuer}}
Bill To:
{{template "party" .Inv.Client}}
Description | Qty | Unit Price | Total
{{range .Lines}}{{.Description}} | {{.Quantity}} | {{.UnitPrice}} | {{.Total}}
{{end}}TOTAL: {{.Total}}
{{define "party"}}{{with .Name}}{{.}}
{{end}}{{with .Address}}{{.}}
{{end}}{{with .Email}}{{.}}
{{end}}{{end}}`))

// cellEscaper keeps a description inside its column: a literal "|" is
// written as "\|" and a backslash as "\\".
var cellEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

type textLine struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}

// TextRenderer writes a plain UTF-8 invoice.
type TextRenderer struct{}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Extension() string { return "txt" }

// Render output depends only on inv.
func (TextRenderer) Render(inv invoice.Invoice) ([]byte, error) {
	if err := invoice.CheckItems(inv.Items); err != nil {
		return nil, err
	}

	lines := make([]textLine, 0, len(inv.Items))
	for _, item := range inv.Items {
		lines = append(lines, textLine{
			Description: cellEscaper.Replace(item.Description()),
			Quantity:    strconv.Itoa(item.Quantity()),
			UnitPrice:   money(item.UnitPrice()),
			Total:       money(item.Total()),
		})
	}

	var buf bytes.Buffer
	if err := textTemplate.Execute(&buf, struct {
		Inv   invoice.Invoice
		Lines []textLine
		Total string
	}{
		Inv:   inv,
		Lines: lines,
		Total: money(inv.Total()),
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Text renders inv with TextRenderer.
func Text(inv invoice.Invoice) ([]byte, error) {
	return TextRenderer{}.Render(inv)
}
