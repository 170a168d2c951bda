package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/sheets"
)

// config holds CLI settings. Every flag falls back to a SHEETFORM_* variable.
type config struct {
	formsPath    string
	addr         string
	title        string
	dateBoundary form.DateBoundary
	logFormat    string
	logLevel     slog.Level
	store        sheets.Config
	command      string
	args         []string
}

func parseConfig(args []string, stderr io.Writer) (config, error) {
	fs := flag.NewFlagSet("sheetform", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: sheetform [flags] <tui [form] | table [form] | serve>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	store := sheets.ConfigFromEnv()
	var (
		cfg      config
		boundary string
		level    string
		driver   string
	)
	fs.StringVar(&cfg.formsPath, "forms", envOr("SHEETFORM_FORMS", ""), "forms file or directory (embedded defaults when empty)")
	fs.StringVar(&cfg.addr, "addr", envOr("SHEETFORM_ADDR", ":8080"), "listen address for serve")
	fs.StringVar(&cfg.title, "title", envOr("SHEETFORM_TITLE", "Data Entry"), "application title")
	fs.StringVar(&boundary, "date-boundary", envOr("SHEETFORM_DATE_BOUNDARY", string(form.DateInclusive)), "inclusive accepts today, exclusive requires a later date")
	fs.StringVar(&cfg.logFormat, "log-format", envOr("SHEETFORM_LOG_FORMAT", "text"), "log format: text or json")
	fs.StringVar(&level, "log-level", envOr("SHEETFORM_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	fs.StringVar(&driver, "store", string(store.Driver), "store driver: memory, sqlite, s3, gsheets")
	fs.StringVar(&store.SQLitePath, "sqlite-path", store.SQLitePath, "sqlite database file")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	parsed, ok := form.ParseDateBoundary(boundary)
	if !ok {
		return config{}, fmt.Errorf("invalid -date-boundary %q", boundary)
	}
	cfg.dateBoundary = parsed

	if err := cfg.logLevel.UnmarshalText([]byte(level)); err != nil {
		return config{}, fmt.Errorf("invalid -log-level %q", level)
	}
	switch cfg.logFormat {
	case "text", "json":
	default:
		return config{}, fmt.Errorf("invalid -log-format %q", cfg.logFormat)
	}

	store.Driver = sheets.Driver(driver)
	cfg.store = store

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return config{}, errors.New("missing command")
	}
	cfg.command = rest[0]
	cfg.args = rest[1:]
	return cfg, nil
}

func newLogger(cfg config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.logLevel}
	if cfg.logFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
