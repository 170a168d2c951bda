package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-sheetform/internal/metrics"
	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/orchestrator"
	"github.com/goliatone/go-sheetform/pkg/renderers/tui"
	"github.com/goliatone/go-sheetform/pkg/renderers/web"
	"github.com/goliatone/go-sheetform/pkg/schema"
	"github.com/goliatone/go-sheetform/pkg/sheets"
)

// openWorkbook is replaced in tests to observe the workbook lifecycle.
var openWorkbook = sheets.Open

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "sheetform: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, stderr)

	workbook, err := openWorkbook(ctx, cfg.store)
	if err != nil {
		return err
	}
	defer func() { _ = workbook.Close() }()

	registry := prometheus.NewRegistry()
	recorder, err := metrics.New(registry)
	if err != nil {
		return err
	}

	options := []orchestrator.Option{
		orchestrator.WithWorkbook(workbook),
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(recorder),
		orchestrator.WithFormOptions(form.WithDateBoundary(cfg.dateBoundary)),
	}
	if cfg.formsPath != "" {
		opt, err := formsOption(cfg.formsPath)
		if err != nil {
			return err
		}
		options = append(options, opt)
	}
	orch := orchestrator.New(options...)
	if err := orch.Err(); err != nil {
		return err
	}

	switch cfg.command {
	case "tui":
		return runTUI(ctx, orch, first(cfg.args), stdout)
	case "table":
		return runTable(ctx, orch, first(cfg.args), stdout)
	case "serve":
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		handler, err := web.New(orch,
			web.WithTitle(cfg.title),
			web.WithLogger(logger),
			web.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		)
		if err != nil {
			return err
		}
		return serve(ctx, cfg.addr, handler, logger)
	default:
		return fmt.Errorf("unknown command %q", cfg.command)
	}
}

// formsOption loads forms from a single file or every forms file in a
// directory.
func formsOption(path string) (orchestrator.Option, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("forms: %w", err)
	}
	if info.IsDir() {
		return orchestrator.WithFormsFS(os.DirFS(path)), nil
	}
	defs, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	registry := form.NewRegistry()
	if err := schema.Register(registry, defs); err != nil {
		return nil, err
	}
	return orchestrator.WithForms(registry), nil
}

func runTUI(ctx context.Context, orch *orchestrator.Orchestrator, name string, stdout io.Writer) error {
	surface := tui.New(tui.WithOutput(stdout))
	if name == "" {
		chosen, err := chooseForm(ctx, orch, surface)
		if err != nil {
			return err
		}
		name = chosen
	}

	outcome, err := orch.Submit(ctx, name, surface)
	if err != nil {
		return err
	}
	if !outcome.Submitted() {
		return nil
	}
	return showTable(ctx, orch, name, surface)
}

func chooseForm(ctx context.Context, orch *orchestrator.Orchestrator, surface *tui.Surface) (string, error) {
	defs := orch.Forms().Definitions()
	if len(defs) == 0 {
		return "", errors.New("no forms configured")
	}
	titles := make([]string, len(defs))
	for i, def := range defs {
		titles[i] = def.DisplayTitle()
	}
	idx, err := surface.Select(ctx, form.Prompt{Key: "form", Label: "Form", Options: titles})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(defs) {
		return "", errors.New("no form selected")
	}
	return defs[idx].Name, nil
}

func runTable(ctx context.Context, orch *orchestrator.Orchestrator, name string, stdout io.Writer) error {
	surface := tui.New(tui.WithOutput(stdout))
	if name != "" {
		return showTable(ctx, orch, name, surface)
	}
	for _, def := range orch.Forms().Definitions() {
		if err := showTable(ctx, orch, def.Name, surface); err != nil {
			return err
		}
	}
	return nil
}

func showTable(ctx context.Context, orch *orchestrator.Orchestrator, name string, surface *tui.Surface) error {
	def, err := orch.Definition(name)
	if err != nil {
		return err
	}
	table, err := orch.Table(ctx, name)
	if err != nil {
		return err
	}
	return surface.Table(ctx, def.Worksheet, table)
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
