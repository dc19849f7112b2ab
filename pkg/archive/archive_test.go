package archive

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func sampleDoc() Document {
	return Document{
		Number:      "INV-20240401",
		ClientName:  "Bravo Inc",
		Date:        time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Total:       decimal.RequireFromString("34.97"),
		Format:      "text",
		Extension:   "txt",
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte("INVOICE\nTOTAL: 34.97\n"),
	}
}

type fakeExec struct {
	queries []string
	args    [][]any
	err     error
}

func (f *fakeExec) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	return nil, f.err
}

func TestPostgres_Archive(t *testing.T) {
	db := &fakeExec{}
	p := &Postgres{db: db}
	if err := p.EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.Archive(context.Background(), sampleDoc()); err != nil {
		t.Fatal(err)
	}
	if len(db.queries) != 2 || !strings.HasPrefix(db.queries[1], "INSERT INTO invoices") {
		t.Fatalf("queries = %q", db.queries)
	}
	args := db.args[1]
	if args[0] != "INV-20240401" || args[3] != "34.97" || args[4] != "text" || args[5] != sampleDoc().Checksum() {
		t.Fatalf("args = %v", args)
	}
}

func TestPostgres_DuplicateIsIgnored(t *testing.T) {
	p := &Postgres{db: &fakeExec{err: &pq.Error{Code: "23505"}}}
	if err := p.Archive(context.Background(), sampleDoc()); err != nil {
		t.Fatalf("duplicate should be ignored: %v", err)
	}

	p = &Postgres{db: &fakeExec{err: errors.New("connection refused")}}
	if err := p.Archive(context.Background(), sampleDoc()); err == nil {
		t.Fatal("expected error")
	}
}

type fakeUploader struct {
	s3manageriface.UploaderAPI
	input *s3manager.UploadInput
	body  []byte
	err   error
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3manager.UploadOutput{Location: "s3://bucket/key"}, nil
}

func TestS3_Archive(t *testing.T) {
	up := &fakeUploader{}
	s := NewS3(up, "docs", "invoices")
	if err := s.Archive(context.Background(), sampleDoc()); err != nil {
		t.Fatal(err)
	}
	if aws.StringValue(up.input.Bucket) != "docs" || aws.StringValue(up.input.Key) != "invoices/INV-20240401.txt" {
		t.Fatalf("bucket/key = %s/%s", aws.StringValue(up.input.Bucket), aws.StringValue(up.input.Key))
	}
	if string(up.body) != string(sampleDoc().Body) {
		t.Fatalf("body = %q", up.body)
	}
	if aws.StringValue(up.input.Metadata["Invoice-Total"]) != "34.97" {
		t.Fatalf("metadata = %v", up.input.Metadata)
	}
}

func TestS3_KeyWithoutNumber(t *testing.T) {
	doc := sampleDoc()
	doc.Number = ""
	key := NewS3(nil, "docs", "invoices").Key(doc)
	if key != "invoices/"+doc.Checksum()[:12]+".txt" {
		t.Fatalf("key = %q", key)
	}
}

type recordingArchiver struct {
	docs []Document
	err  error
}

func (r *recordingArchiver) Archive(_ context.Context, doc Document) error {
	r.docs = append(r.docs, doc)
	return r.err
}

func TestMulti(t *testing.T) {
	ok := &recordingArchiver{}
	failing := &recordingArchiver{err: errors.New("down")}
	err := Multi{ok, failing, Nop{}}.Archive(context.Background(), sampleDoc())
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("err = %v", err)
	}
	if len(ok.docs) != 1 || len(failing.docs) != 1 {
		t.Fatal("every archiver should receive the document")
	}
}
