// cmd/render.go

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/invoice-builder/pkg/config"
	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/render"
	"github.com/urfave/cli/v2"
	"sigs.k8s.io/yaml"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render an invoice file (YAML or JSON) to PDF or text",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "invoice file", Required: true},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "pdf or text", Value: render.FormatPDF},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output path, - for stdout (default: invoice_<number>.<ext>)"},
			&cli.BoolFlag{Name: "skip-malformed", Usage: "drop malformed items instead of failing"},
		},
		Action: runRender,
	}
}

func runRender(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(c, cfg)

	renderer, err := render.ForFormat(c.String("format"))
	if err != nil {
		return cli.Exit(err, 2)
	}
	if _, ok := renderer.(render.PDFRenderer); ok {
		renderer = render.PDFRenderer{Currency: cfg.Invoice.Currency}
	}

	draft, err := readDraft(c.String("input"))
	if err != nil {
		return cli.Exit(err, 2)
	}
	inv, skipped, err := draft.Resolve(defaultHeader(cfg.Invoice, time.Now()), invoice.ResolveOptions{
		SkipMalformed: c.Bool("skip-malformed"),
		MaxItems:      cfg.Invoice.MaxItems,
	})
	if err != nil {
		return itemExit(err)
	}
	for _, rerr := range skipped {
		logger.Warn("malformed item dropped", "index", rerr.Index, "description", rerr.Description, "error", rerr.Err)
	}

	body, err := renderer.Render(inv)
	if err != nil {
		return itemExit(err)
	}

	out := c.String("output")
	if out == "" {
		out = render.Filename(inv, renderer)
	}
	if out == "-" {
		_, err = c.App.Writer.Write(body)
		return err
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logger.Info("invoice written", "path", out, "invoice_number", inv.Number, "items", len(inv.Items), "total", inv.Total().StringFixed(2))
	return nil
}

func readDraft(path string) (invoice.Draft, error) {
	var d invoice.Draft
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("read invoice: %w", err)
	}
	useNumber := func(dec *json.Decoder) *json.Decoder {
		dec.UseNumber()
		return dec
	}
	if err := yaml.Unmarshal(data, &d, useNumber); err != nil {
		return d, fmt.Errorf("parse invoice %s: %w", path, err)
	}
	return d, nil
}

func defaultHeader(cfg config.InvoiceConfig, now time.Time) invoice.Header {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return invoice.Header{
		Number: invoice.DefaultNumber(cfg.NumberPrefix, today),
		Date:   today,
		Issuer: cfg.Issuer,
	}
}

func itemExit(err error) error {
	var rerr *invoice.RenderError
	if errors.As(err, &rerr) {
		return cli.Exit(fmt.Sprintf("malformed item: %v", rerr), 1)
	}
	return cli.Exit(err, 1)
}
