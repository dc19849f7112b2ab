// pkg/invoice/invoice.go

package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on documents and in forms.
const DateLayout = "2006-01-02"

// Party is the issuer or the client of an invoice.
type Party struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	Email   string `json:"email" yaml:"email"`
}

// Header holds everything on an invoice except its items.
type Header struct {
	Number string
	Date   time.Time
	Issuer Party
	Client Party
}

// Invoice represents the invoice data model handed to renderers.
type Invoice struct {
	Header
	Items []LineItem
}

// Total is the grand total over Items.
func (inv Invoice) Total() decimal.Decimal {
	return sumItems(inv.Items)
}

// Builder holds a mutable, ordered list of line items for one session.
// A Builder is not safe for concurrent use.
type Builder struct {
	header   Header
	items    []LineItem
	maxItems int
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxItems caps the number of items; n <= 0 means no cap.
func WithMaxItems(n int) Option {
	return func(b *Builder) {
		b.maxItems = n
	}
}

func NewBuilder(header Header, opts ...Option) *Builder {
	b := &Builder{header: header}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddItem validates the input and appends it. On error the list is untouched.
func (b *Builder) AddItem(description string, quantity, unitPrice any) (LineItem, error) {
	if b.maxItems > 0 && len(b.items) >= b.maxItems {
		return LineItem{}, newValidationError("items", len(b.items), "item limit reached")
	}
	item, err := NewLineItem(description, quantity, unitPrice)
	if err != nil {
		return LineItem{}, err
	}
	b.items = append(b.items, item)
	return item, nil
}

// Clear empties the item list.
func (b *Builder) Clear() {
	b.items = nil
}

func (b *Builder) Len() int {
	return len(b.items)
}

// Items returns a copy of the items in insertion order.
func (b *Builder) Items() []LineItem {
	out := make([]LineItem, len(b.items))
	copy(out, b.items)
	return out
}

// Total returns the grand total, zero when there are no items.
func (b *Builder) Total() decimal.Decimal {
	return sumItems(b.items)
}

func (b *Builder) Header() Header {
	return b.header
}

func (b *Builder) SetHeader(h Header) {
	b.header = h
}

// Invoice returns a snapshot that later Builder mutations do not affect.
func (b *Builder) Invoice() Invoice {
	return Invoice{Header: b.header, Items: b.Items()}
}

// DefaultNumber derives an invoice number such as INV-20240131 from date.
func DefaultNumber(prefix string, date time.Time) string {
	return prefix + date.Format("20060102")
}

func sumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}
