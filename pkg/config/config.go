// pkg/config/config.go

// Package config loads service settings from a YAML file layered over
// defaults. Command-line flags and INVOICE_* environment variables are
// applied on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/invoice-builder/pkg/invoice"
	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
	Invoice InvoiceConfig `yaml:"invoice"`
	Archive ArchiveConfig `yaml:"archive"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `yaml:"level"`
	// Format is "json" or "text".
	Format string `yaml:"format"`
}

type SessionConfig struct {
	// TTL is how long an idle form session is kept in memory.
	TTL time.Duration `yaml:"ttl"`
	// MaxSessions caps live form sessions, 0 = no cap.
	MaxSessions int `yaml:"max_sessions"`
}

// InvoiceConfig controls defaults applied to new invoices.
type InvoiceConfig struct {
	// MaxItems caps items per invoice, 0 = no cap.
	MaxItems int `yaml:"max_items"`
	// NumberPrefix is prepended to the date when numbering new invoices.
	NumberPrefix string `yaml:"number_prefix"`
	// Currency is prefixed to amounts in PDF output.
	Currency string `yaml:"currency"`
	// Issuer pre-fills the "from" block of new invoices.
	Issuer invoice.Party `yaml:"issuer"`
}

// ArchiveConfig enables copies of issued documents. Both sinks are off
// when left empty.
type ArchiveConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Prefix    string `yaml:"s3_prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{Addr: ":8080"},
		Log:  LogConfig{Level: "INFO", Format: "json"},
		Session: SessionConfig{
			TTL:         2 * time.Hour,
			MaxSessions: 10000,
		},
		Invoice: InvoiceConfig{
			MaxItems:     10,
			NumberPrefix: "INV-",
			Currency:     "$",
			Issuer: invoice.Party{
				Name:    "Your Company Name",
				Address: "123 Business Street\nCity, State ZIP",
				Email:   "your@email.com",
			},
		},
		Archive: ArchiveConfig{
			S3Prefix: "invoices",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL))
	}
	if c.Session.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("session.max_sessions must not be negative, got %d", c.Session.MaxSessions))
	}
	if c.Invoice.MaxItems < 0 {
		errs = append(errs, fmt.Errorf("invoice.max_items must not be negative, got %d", c.Invoice.MaxItems))
	}
	if c.Archive.S3Bucket != "" && c.Archive.S3Region == "" {
		errs = append(errs, errors.New("archive.s3_region is required when archive.s3_bucket is set"))
	}
	return errors.Join(errs...)
}
