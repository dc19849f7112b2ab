package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/invoice-builder/pkg/invoice"
)

func sampleInvoice(t *testing.T, items ...[3]any) invoice.Invoice {
	t.Helper()
	b := invoice.NewBuilder(invoice.Header{
		Number: "INV-20240401",
		Date:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Issuer: invoice.Party{Name: "Acme Ltd", Address: "123 Business Street", Email: "billing@acme.test"},
		Client: invoice.Party{Name: "Bravo Inc", Address: "9 Client Road", Email: "ap@bravo.test"},
	})
	for _, it := range items {
		if _, err := b.AddItem(it[0].(string), it[1], it[2]); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	return b.Invoice()
}

func TestText_Example(t *testing.T) {
	inv := sampleInvoice(t, [3]any{"Widget", 3, 9.99}, [3]any{"Gadget", 1, 5.00})
	out, err := Text(inv)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	doc := string(out)

	widget := strings.Index(doc, "Widget | 3 | 9.99 | 29.97\n")
	gadget := strings.Index(doc, "Gadget | 1 | 5.00 | 5.00\n")
	total := strings.Index(doc, "TOTAL: 34.97\n")
	if widget < 0 || gadget < 0 || total < 0 {
		t.Fatalf("missing lines in document:\n%s", doc)
	}
	if !(widget < gadget && gadget < total) {
		t.Fatalf("lines out of order:\n%s", doc)
	}
	for _, want := range []string{"Invoice #: INV-20240401", "Date: 2024-04-01", "Acme Ltd", "Bravo Inc", "ap@bravo.test"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestText_Layout(t *testing.T) {
	inv := sampleInvoice(t, [3]any{"Widget", 3, "9.99"})
	out, err := Text(inv)
	if err != nil {
		t.Fatal(err)
	}
	want := `INVOICE
Invoice #: INV-20240401
Date: 2024-04-01

From:
Acme Ltd
123 Business Street
billing@acme.test

Bill To:
Bravo Inc
9 Client Road
ap@bravo.test

Description | Qty | Unit Price | Total
Widget | 3 | 9.99 | 29.97
TOTAL: 29.97
`
	if string(out) != want {
		t.Fatalf("unexpected document:\n%s\nwant:\n%s", out, want)
	}
}

func TestText_EscapesColumnSeparator(t *testing.T) {
	inv := sampleInvoice(t, [3]any{`Cable | 2m \ black`, 1, "2.00"})
	out, err := Text(inv)
	if err != nil {
		t.Fatal(err)
	}
	want := `Cable \| 2m \\ black | 1 | 2.00 | 2.00` + "\n"
	if !strings.Contains(string(out), want) {
		t.Fatalf("output missing %q:\n%s", want, out)
	}
}

func TestText_Empty(t *testing.T) {
	inv := sampleInvoice(t)
	out, err := Text(inv)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(out)
	if !strings.HasSuffix(doc, "Description | Qty | Unit Price | Total\nTOTAL: 0.00\n") {
		t.Fatalf("expected no item lines before total:\n%s", doc)
	}
}

func TestText_Deterministic(t *testing.T) {
	inv := sampleInvoice(t, [3]any{"Widget", 3, 9.99})
	a, _ := Text(inv)
	b, _ := Text(inv)
	if !bytes.Equal(a, b) {
		t.Fatal("rendering is not stable")
	}
}

func TestText_MalformedRecordDoesNotAffectOtherRender(t *testing.T) {
	good := sampleInvoice(t, [3]any{"Widget", 3, 9.99})
	before, err := Text(good)
	if err != nil {
		t.Fatal(err)
	}

	_, err = invoice.ItemsFromRecords([]any{
		invoice.Record{"description": "Widget", "quantity": 3, "unit_price": 9.99},
		invoice.Record{"description": "Gadget", "quantity": 1},
	})
	var rerr *invoice.RenderError
	if !errors.As(err, &rerr) || rerr.Description != "Gadget" {
		t.Fatalf("expected RenderError for Gadget, got %v", err)
	}

	after, err := Text(good)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("earlier document changed")
	}
}

func TestRenderers_RejectZeroItem(t *testing.T) {
	inv := sampleInvoice(t, [3]any{"Widget", 1, 1})
	inv.Items = append(inv.Items, invoice.LineItem{})
	for _, r := range []Renderer{TextRenderer{}, PDFRenderer{}} {
		_, err := r.Render(inv)
		var rerr *invoice.RenderError
		if !errors.As(err, &rerr) || rerr.Index != 1 {
			t.Fatalf("%T: expected RenderError at index 1, got %v", r, err)
		}
	}
}

func TestPDF(t *testing.T) {
	inv := sampleInvoice(t,
		[3]any{"Widget", 3, 9.99},
		[3]any{"Crème brûlée with a description far too long to fit inside the description column", 1, "5"},
	)
	out, err := PDFRenderer{Currency: "$"}.Render(inv)
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("not a PDF: %q", out[:8])
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{"pdf", "pdf", false},
		{"", "pdf", false},
		{"text", "txt", false},
		{"TXT", "txt", false},
		{"docx", "", true},
	}
	for _, tc := range tests {
		r, err := ForFormat(tc.format)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ForFormat(%q): expected error", tc.format)
			}
			continue
		}
		if err != nil || r.Extension() != tc.ext {
			t.Errorf("ForFormat(%q) = %v, %v", tc.format, r, err)
		}
	}
}

func TestFilename(t *testing.T) {
	inv := invoice.Invoice{Header: invoice.Header{Number: "INV 2024/01"}}
	if got := Filename(inv, TextRenderer{}); got != "invoice_INV_2024_01.txt" {
		t.Fatalf("Filename = %q", got)
	}
	if got := Filename(invoice.Invoice{}, PDFRenderer{}); got != "invoice_draft.pdf" {
		t.Fatalf("Filename = %q", got)
	}
}
