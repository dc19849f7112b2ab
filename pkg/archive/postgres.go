// pkg/archive/postgres.go

package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS invoices (
	id             BIGSERIAL PRIMARY KEY,
	invoice_number TEXT NOT NULL,
	client_name    TEXT NOT NULL,
	invoice_date   DATE,
	total          NUMERIC(14, 2) NOT NULL,
	format         TEXT NOT NULL,
	checksum       TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (invoice_number, format, checksum)
)`

const insertInvoice = `INSERT INTO invoices (invoice_number, client_name, invoice_date, total, format, checksum)
VALUES ($1, $2, $3, $4, $5, $6)`

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Postgres records issued invoices in the invoices table.
type Postgres struct {
	db execer
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// OpenPostgres connects with lib/pq and creates the table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, *sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	p := NewPostgres(db)
	if err := p.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return p, db, nil
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create invoices table: %w", err)
	}
	return nil
}

// Archive inserts one row; re-archiving an identical document is a no-op.
func (p *Postgres) Archive(ctx context.Context, doc Document) error {
	var date any
	if !doc.Date.IsZero() {
		date = doc.Date
	}
	_, err := p.db.ExecContext(ctx, insertInvoice,
		doc.Number, doc.ClientName, date, doc.Total.StringFixed(2), doc.Format, doc.Checksum())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil
		}
		return fmt.Errorf("insert invoice %s: %w", doc.Number, err)
	}
	return nil
}
