// cmd/main.go

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/invoice-builder/pkg/config"
	"github.com/invoice-builder/pkg/logging"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		os.Exit(code)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "invoice",
		Usage:     "build invoices from line items and render them as PDF or text",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"INVOICE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "DEBUG, INFO, WARN or ERROR",
				EnvVars: []string{"INVOICE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "json or text",
				EnvVars: []string{"INVOICE_LOG_FORMAT"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			renderCommand(),
		},
		// main reports errors and picks the exit code.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// loadConfig reads the config file and applies global flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg config.Config) *slog.Logger {
	return logging.New(c.App.ErrWriter, cfg.Log.Level, cfg.Log.Format)
}
