package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.Invoice.NumberPrefix != "INV-" || cfg.Invoice.MaxItems != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
http:
  addr: ":9090"
session:
  ttl: 15m
  max_sessions: 50
invoice:
  max_items: 0
  issuer:
    name: Acme Ltd
archive:
  s3_bucket: docs
  s3_region: eu-west-1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Session.TTL != 15*time.Minute {
		t.Errorf("ttl = %s", cfg.Session.TTL)
	}
	if cfg.Session.MaxSessions != 50 {
		t.Errorf("max_sessions = %d", cfg.Session.MaxSessions)
	}
	if cfg.Invoice.MaxItems != 0 {
		t.Errorf("max_items = %d", cfg.Invoice.MaxItems)
	}
	if cfg.Invoice.Issuer.Name != "Acme Ltd" {
		t.Errorf("issuer = %+v", cfg.Invoice.Issuer)
	}
	if cfg.Log.Format != "json" || cfg.Invoice.NumberPrefix != "INV-" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Archive.S3Prefix != "invoices" || cfg.Archive.S3Bucket != "docs" {
		t.Errorf("archive = %+v", cfg.Archive)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Addr = " "
	cfg.Log.Format = "xml"
	cfg.Session.TTL = 0
	cfg.Session.MaxSessions = -1
	cfg.Invoice.MaxItems = -1
	cfg.Archive.S3Bucket = "docs"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"http.addr", "log.format", "session.ttl", "session.max_sessions", "invoice.max_items", "archive.s3_region"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
