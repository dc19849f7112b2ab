// pkg/archive/archive.go

// Package archive keeps a copy of every issued invoice document. It never
// stores builder state; a session cannot be restored from an archive.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Document is one rendered invoice.
type Document struct {
	Number      string
	ClientName  string
	Date        time.Time
	Total       decimal.Decimal
	Format      string
	Extension   string
	ContentType string
	Body        []byte
}

// Checksum is the hex SHA-256 of the document body.
func (d Document) Checksum() string {
	sum := sha256.Sum256(d.Body)
	return hex.EncodeToString(sum[:])
}

// Archiver stores issued documents.
type Archiver interface {
	Archive(ctx context.Context, doc Document) error
}

// Nop discards documents.
type Nop struct{}

func (Nop) Archive(context.Context, Document) error { return nil }

// Multi sends each document to every archiver and joins their errors.
type Multi []Archiver

func (m Multi) Archive(ctx context.Context, doc Document) error {
	var errs []error
	for _, a := range m {
		if err := a.Archive(ctx, doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
