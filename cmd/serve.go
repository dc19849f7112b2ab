// cmd/serve.go

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/invoice-builder/pkg/archive"
	"github.com/invoice-builder/pkg/config"
	"github.com/invoice-builder/pkg/server"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the invoice form web application",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address", EnvVars: []string{"INVOICE_HTTP_ADDR"}},
			&cli.DurationFlag{Name: "session-ttl", Usage: "idle session lifetime", EnvVars: []string{"INVOICE_SESSION_TTL"}},
			&cli.IntFlag{Name: "max-sessions", Usage: "live form sessions, 0 = unlimited", EnvVars: []string{"INVOICE_MAX_SESSIONS"}},
			&cli.IntFlag{Name: "max-items", Usage: "items per invoice, 0 = unlimited", EnvVars: []string{"INVOICE_MAX_ITEMS"}},
			&cli.StringFlag{Name: "postgres-dsn", Usage: "archive issued invoices in PostgreSQL", EnvVars: []string{"INVOICE_ARCHIVE_POSTGRES_DSN"}},
			&cli.StringFlag{Name: "s3-bucket", Usage: "archive issued documents in this S3 bucket", EnvVars: []string{"INVOICE_ARCHIVE_S3_BUCKET"}},
			&cli.StringFlag{Name: "s3-region", Usage: "AWS region of the archive bucket", EnvVars: []string{"INVOICE_ARCHIVE_S3_REGION", "AWS_REGION"}},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyServeFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err, 2)
	}
	logger := newLogger(c, cfg)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	arch, closeArchive, err := openArchive(ctx, cfg.Archive, logger)
	if err != nil {
		return err
	}
	defer closeArchive()

	srv := server.New(server.Options{
		Invoice:     cfg.Invoice,
		SessionTTL:  cfg.Session.TTL,
		MaxSessions: cfg.Session.MaxSessions,
		Archiver:    arch,
		Logger:      logger,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("invoice server listening", "addr", cfg.HTTP.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func applyServeFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("addr") {
		cfg.HTTP.Addr = c.String("addr")
	}
	if c.IsSet("session-ttl") {
		cfg.Session.TTL = c.Duration("session-ttl")
	}
	if c.IsSet("max-sessions") {
		cfg.Session.MaxSessions = c.Int("max-sessions")
	}
	if c.IsSet("max-items") {
		cfg.Invoice.MaxItems = c.Int("max-items")
	}
	if c.IsSet("postgres-dsn") {
		cfg.Archive.PostgresDSN = c.String("postgres-dsn")
	}
	if c.IsSet("s3-bucket") {
		cfg.Archive.S3Bucket = c.String("s3-bucket")
	}
	if c.IsSet("s3-region") {
		cfg.Archive.S3Region = c.String("s3-region")
	}
}

// openArchive connects the configured sinks. The returned func releases them.
func openArchive(ctx context.Context, cfg config.ArchiveConfig, logger *slog.Logger) (archive.Archiver, func(), error) {
	var (
		sinks   archive.Multi
		closers []func()
	)
	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	if cfg.PostgresDSN != "" {
		pg, db, err := archive.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() { _ = db.Close() })
		sinks = append(sinks, pg)
		logger.Info("archiving invoices to postgres")
	}
	if cfg.S3Bucket != "" {
		s3, err := archive.OpenS3(cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		sinks = append(sinks, s3)
		logger.Info("archiving documents to s3", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
	}

	if len(sinks) == 0 {
		return archive.Nop{}, closeAll, nil
	}
	return sinks, closeAll, nil
}
