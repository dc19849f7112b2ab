// pkg/invoice/record.go

package invoice

import (
	"errors"
	"fmt"
)

// Record keys for untyped items.
const (
	KeyDescription = "description"
	KeyQuantity    = "quantity"
	KeyUnitPrice   = "unit_price"
)

// Record is an untyped line item as decoded from JSON, YAML or a form.
type Record = map[string]any

var errNotObject = errors.New("item is not an object")

// ItemFromRecord converts one untyped item. raw must be a Record with the
// description, quantity and unit_price keys.
func ItemFromRecord(index int, raw any) (LineItem, error) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return LineItem{}, &RenderError{Index: index, Err: fmt.Errorf("%w: got %T", errNotObject, raw)}
	}

	rawDesc, ok := rec[KeyDescription]
	if !ok {
		return LineItem{}, &RenderError{Index: index, Err: missingKey(KeyDescription)}
	}
	desc, ok := rawDesc.(string)
	if !ok {
		return LineItem{}, &RenderError{Index: index, Err: newValidationError(KeyDescription, rawDesc, "must be a string")}
	}
	for _, key := range []string{KeyQuantity, KeyUnitPrice} {
		if _, ok := rec[key]; !ok {
			return LineItem{}, &RenderError{Index: index, Description: desc, Err: missingKey(key)}
		}
	}

	item, err := NewLineItem(desc, rec[KeyQuantity], rec[KeyUnitPrice])
	if err != nil {
		return LineItem{}, &RenderError{Index: index, Description: desc, Err: err}
	}
	return item, nil
}

// ItemsFromRecords converts every record, stopping at the first malformed one.
func ItemsFromRecords(records []any) ([]LineItem, error) {
	items := make([]LineItem, 0, len(records))
	for i, raw := range records {
		item, err := ItemFromRecord(i, raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// PartitionRecords converts what it can and reports the rest, so the caller
// may drop malformed records instead of aborting.
func PartitionRecords(records []any) ([]LineItem, []*RenderError) {
	var (
		items []LineItem
		bad   []*RenderError
	)
	for i, raw := range records {
		item, err := ItemFromRecord(i, raw)
		if err != nil {
			var rerr *RenderError
			if errors.As(err, &rerr) {
				bad = append(bad, rerr)
				continue
			}
			bad = append(bad, &RenderError{Index: i, Err: err})
			continue
		}
		items = append(items, item)
	}
	return items, bad
}

// CheckItems returns a RenderError for the first item not built by NewLineItem.
func CheckItems(items []LineItem) error {
	for i, item := range items {
		if err := item.check(); err != nil {
			return &RenderError{Index: i, Description: item.description, Err: err}
		}
	}
	return nil
}

func missingKey(key string) error {
	return newValidationError(key, nil, "missing")
}
