// pkg/invoice/draft.go

package invoice

import (
	"fmt"
	"strings"
	"time"
)

// Draft is an invoice as submitted by a caller: header fields plus untyped
// item records that have not been validated yet.
type Draft struct {
	Number string `json:"number,omitempty"`
	Date   string `json:"date,omitempty"`
	Issuer Party  `json:"issuer"`
	Client Party  `json:"client"`
	Items  []any  `json:"items"`
}

// ResolveOptions controls Draft.Resolve.
type ResolveOptions struct {
	// SkipMalformed drops bad records and returns them instead of aborting
	// on the first one with a *RenderError.
	SkipMalformed bool
	// MaxItems caps the number of resolved items, 0 = unlimited.
	MaxItems int
}

// Resolve validates the draft. Empty header fields are taken from defaults.
// More than opts.MaxItems valid items is a *ValidationError on "items".
func (d Draft) Resolve(defaults Header, opts ResolveOptions) (Invoice, []*RenderError, error) {
	h := defaults
	if n := strings.TrimSpace(d.Number); n != "" {
		h.Number = n
	}
	if ds := strings.TrimSpace(d.Date); ds != "" {
		date, err := time.Parse(DateLayout, ds)
		if err != nil {
			return Invoice{}, nil, newValidationError("date", d.Date, "expected YYYY-MM-DD")
		}
		h.Date = date
	}
	if !isZeroParty(d.Issuer) {
		h.Issuer = d.Issuer
	}
	if !isZeroParty(d.Client) {
		h.Client = d.Client
	}

	var (
		items []LineItem
		bad   []*RenderError
	)
	if opts.SkipMalformed {
		items, bad = PartitionRecords(d.Items)
	} else {
		var err error
		if items, err = ItemsFromRecords(d.Items); err != nil {
			return Invoice{}, nil, err
		}
	}
	if opts.MaxItems > 0 && len(items) > opts.MaxItems {
		return Invoice{}, bad, newValidationError("items", len(items), fmt.Sprintf("limit is %d", opts.MaxItems))
	}
	return Invoice{Header: h, Items: items}, bad, nil
}

func isZeroParty(p Party) bool {
	return p == Party{}
}
