// pkg/invoice/item.go

package invoice

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// LineItem is one billable entry. The only way to obtain a valid LineItem
// is NewLineItem; the zero value is rejected by the renderers.
type LineItem struct {
	description string
	quantity    int
	unitPrice   decimal.Decimal
}

// NewLineItem validates and coerces raw input into a LineItem.
//
// quantity may be any Go integer, an integral float, a json.Number or a
// numeric string. unitPrice may be any Go number, a decimal.Decimal, a
// json.Number or a numeric string ("$1,200.50" is accepted).
func NewLineItem(description string, quantity, unitPrice any) (LineItem, error) {
	desc := normalizeDescription(description)
	if desc == "" {
		return LineItem{}, newValidationError("description", nil, "must not be empty")
	}
	qty, err := coerceQuantity(quantity)
	if err != nil {
		return LineItem{}, err
	}
	price, err := coercePrice(unitPrice)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{description: desc, quantity: qty, unitPrice: price}, nil
}

func (li LineItem) Description() string { return li.description }

func (li LineItem) Quantity() int { return li.quantity }

func (li LineItem) UnitPrice() decimal.Decimal { return li.unitPrice }

// Total is quantity * unit price, computed on every call.
func (li LineItem) Total() decimal.Decimal {
	return li.unitPrice.Mul(decimal.NewFromInt(int64(li.quantity)))
}

// Valid reports whether li was produced by NewLineItem.
func (li LineItem) Valid() bool {
	return li.description != "" && li.quantity > 0 && !li.unitPrice.IsNegative()
}

func (li LineItem) check() error {
	switch {
	case li.description == "":
		return newValidationError("description", nil, "must not be empty")
	case li.quantity <= 0:
		return newValidationError("quantity", li.quantity, "must be a positive integer")
	case li.unitPrice.IsNegative():
		return newValidationError("unit_price", li.unitPrice.String(), "must not be negative")
	}
	return nil
}

type lineItemJSON struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineItemJSON{
		Description: li.description,
		Quantity:    li.quantity,
		UnitPrice:   li.unitPrice,
		LineTotal:   li.Total(),
	})
}

func normalizeDescription(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, s)
	return norm.NFC.String(strings.TrimSpace(s))
}

func coerceQuantity(v any) (int, error) {
	invalid := func(reason string) (int, error) {
		return 0, newValidationError("quantity", v, reason)
	}

	var n int64
	switch q := v.(type) {
	case int:
		n = int64(q)
	case int8:
		n = int64(q)
	case int16:
		n = int64(q)
	case int32:
		n = int64(q)
	case int64:
		n = q
	case uint:
		if uint64(q) > math.MaxInt32 {
			return invalid("out of range")
		}
		n = int64(q)
	case uint8:
		n = int64(q)
	case uint16:
		n = int64(q)
	case uint32:
		n = int64(q)
	case uint64:
		if q > math.MaxInt32 {
			return invalid("out of range")
		}
		n = int64(q)
	case float32:
		if math.IsNaN(float64(q)) || math.IsInf(float64(q), 0) {
			return invalid("not a number")
		}
		return coerceQuantityDecimal(v, decimal.NewFromFloat32(q))
	case float64:
		if math.IsNaN(q) || math.IsInf(q, 0) {
			return invalid("not a number")
		}
		return coerceQuantityDecimal(v, decimal.NewFromFloat(q))
	case json.Number:
		d, err := parseNumber(q.String())
		if err != nil {
			return invalid(err.Error())
		}
		return coerceQuantityDecimal(v, d)
	case string:
		d, err := parseNumber(q)
		if err != nil {
			return invalid(err.Error())
		}
		return coerceQuantityDecimal(v, d)
	case nil:
		return invalid("missing")
	default:
		return invalid("unsupported type")
	}

	if n <= 0 {
		return invalid("must be a positive integer")
	}
	if n > math.MaxInt32 {
		return invalid("out of range")
	}
	return int(n), nil
}

func coerceQuantityDecimal(raw any, d decimal.Decimal) (int, error) {
	if reason := checkMagnitude(d, maxQuantityDigits); reason != "" {
		return 0, newValidationError("quantity", raw, reason)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, newValidationError("quantity", raw, "must be a whole number")
	}
	if !d.IsPositive() {
		return 0, newValidationError("quantity", raw, "must be a positive integer")
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, newValidationError("quantity", raw, "out of range")
	}
	return int(d.IntPart()), nil
}

func coercePrice(v any) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch p := v.(type) {
	case decimal.Decimal:
		d = p
	case *decimal.Decimal:
		if p == nil {
			return decimal.Zero, newValidationError("unit_price", nil, "missing")
		}
		d = *p
	case int:
		d = decimal.NewFromInt(int64(p))
	case int8:
		d = decimal.NewFromInt(int64(p))
	case int16:
		d = decimal.NewFromInt(int64(p))
	case int32:
		d = decimal.NewFromInt32(p)
	case int64:
		d = decimal.NewFromInt(p)
	case uint:
		if uint64(p) > math.MaxInt64 {
			return decimal.Zero, newValidationError("unit_price", v, "out of range")
		}
		d = decimal.NewFromInt(int64(p))
	case uint8:
		d = decimal.NewFromInt(int64(p))
	case uint16:
		d = decimal.NewFromInt(int64(p))
	case uint32:
		d = decimal.NewFromInt(int64(p))
	case uint64:
		if p > math.MaxInt64 {
			return decimal.Zero, newValidationError("unit_price", v, "out of range")
		}
		d = decimal.NewFromInt(int64(p))
	case float32:
		if math.IsNaN(float64(p)) || math.IsInf(float64(p), 0) {
			return decimal.Zero, newValidationError("unit_price", v, "not a number")
		}
		d = decimal.NewFromFloat32(p)
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return decimal.Zero, newValidationError("unit_price", v, "not a number")
		}
		d = decimal.NewFromFloat(p)
	case json.Number:
		parsed, err := parseNumber(p.String())
		if err != nil {
			return decimal.Zero, newValidationError("unit_price", v, err.Error())
		}
		d = parsed
	case string:
		parsed, err := parseMoney(p)
		if err != nil {
			return decimal.Zero, newValidationError("unit_price", v, err.Error())
		}
		d = parsed
	case nil:
		return decimal.Zero, newValidationError("unit_price", nil, "missing")
	default:
		return decimal.Zero, newValidationError("unit_price", v, "unsupported type")
	}
	if reason := checkMagnitude(d, maxPriceDigits); reason != "" {
		return decimal.Zero, newValidationError("unit_price", v, reason)
	}
	if d.IsNegative() {
		return decimal.Zero, newValidationError("unit_price", v, "must not be negative")
	}
	return d, nil
}

// Bounds on numeric input, checked before any comparison or arithmetic.
const (
	maxNumberLen      = 64
	maxQuantityDigits = 10
	maxPriceDigits    = 15
	minExponent       = -20
)

var (
	errNotNumber  = errors.New("not a number")
	errOutOfRange = errors.New("out of range")
)

// checkMagnitude returns a rejection reason, or "" when d fits in
// maxIntDigits integer digits and at most -minExponent fractional digits.
func checkMagnitude(d decimal.Decimal, maxIntDigits int) string {
	exp := int(d.Exponent())
	if exp < minExponent {
		return "too many decimal places"
	}
	if exp > maxIntDigits || d.NumDigits()+exp > maxIntDigits {
		return "out of range"
	}
	return ""
}

func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxNumberLen {
		return decimal.Zero, errOutOfRange
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errNotNumber
	}
	return d, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return parseNumber(s)
}
