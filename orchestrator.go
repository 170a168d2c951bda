package sheetform

import (
	"context"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/orchestrator"
	"github.com/goliatone/go-sheetform/pkg/schema"
	"github.com/goliatone/go-sheetform/pkg/sheets"
)

// Outcome aliases form.Outcome for callers that only import the root package.
type Outcome = form.Outcome

// Definition aliases form.Definition.
type Definition = form.Definition

// StoreConfig aliases sheets.Config.
type StoreConfig = sheets.Config

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module. Without options it serves the embedded forms from memory.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// LoadForms reads a forms file into a registry ready for WithForms.
func LoadForms(path string) (*form.Registry, error) {
	defs, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	registry := form.NewRegistry()
	if err := schema.Register(registry, defs); err != nil {
		return nil, err
	}
	return registry, nil
}

// OpenWorkbook selects a worksheet store. A zero config reads the
// SHEETFORM_* environment variables.
func OpenWorkbook(ctx context.Context, cfg StoreConfig) (sheets.Workbook, error) {
	if cfg.Driver == "" {
		cfg = sheets.ConfigFromEnv()
	}
	return sheets.Open(ctx, cfg)
}

// WithForms forwards a registry to the orchestrator.
func WithForms(registry *form.Registry) orchestrator.Option {
	return orchestrator.WithForms(registry)
}

// WithWorkbook forwards a worksheet store to the orchestrator.
func WithWorkbook(workbook sheets.Workbook) orchestrator.Option {
	return orchestrator.WithWorkbook(workbook)
}
