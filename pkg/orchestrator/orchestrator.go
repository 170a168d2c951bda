package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-sheetform/internal/metrics"
	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/schema"
	"github.com/goliatone/go-sheetform/pkg/sheets"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithForms injects a populated forms registry.
func WithForms(registry *form.Registry) Option {
	return func(o *Orchestrator) {
		o.forms = registry
	}
}

// WithFormsFS supplies an fs.FS holding forms files. It is ignored when a
// registry is injected with WithForms.
func WithFormsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.formsFS = fsys
	}
}

// WithWorkbook injects the worksheet store. Defaults to an in-memory workbook.
func WithWorkbook(workbook sheets.Workbook) Option {
	return func(o *Orchestrator) {
		o.workbook = workbook
	}
}

// WithFormOptions forwards clock and date boundary settings to every session.
func WithFormOptions(options ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, options...)
	}
}

// WithLogger configures structured logging. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMetrics records submission counters and append timings.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(o *Orchestrator) {
		o.metrics = recorder
	}
}

// Orchestrator runs submission cycles for named forms. It is safe for
// concurrent use; each Submit call gets its own session.
type Orchestrator struct {
	forms       *form.Registry
	formsFS     fs.FS
	workbook    sheets.Workbook
	formOptions []form.Option
	logger      *slog.Logger
	metrics     *metrics.Recorder

	initialiseErr error

	mu     sync.Mutex
	stores map[string]sheets.Store
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies fall back to the embedded forms and an in-memory workbook.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{stores: make(map[string]sheets.Store)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.forms == nil {
		fsys := o.formsFS
		if fsys == nil {
			fsys = schema.EmbeddedFS()
		}
		defs, err := schema.LoadFS(fsys)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load forms: %w", err)
			return
		}
		o.forms = form.NewRegistry()
		if err := schema.Register(o.forms, defs); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: register forms: %w", err)
			return
		}
	}
	if o.workbook == nil {
		o.workbook = sheets.NewMemory()
	}
}

// Err reports a configuration failure from New.
func (o *Orchestrator) Err() error {
	return o.initialiseErr
}

// Forms returns the forms registry.
func (o *Orchestrator) Forms() *form.Registry {
	return o.forms
}

// Definition looks up a form by name.
func (o *Orchestrator) Definition(name string) (form.Definition, error) {
	if err := o.initialiseErr; err != nil {
		return form.Definition{}, err
	}
	return o.forms.Get(name)
}

// Worksheet opens the worksheet bound to a form, writing the header row of
// field labels when the sheet is empty. Stores are cached per worksheet.
func (o *Orchestrator) Worksheet(ctx context.Context, def form.Definition) (sheets.Store, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if store, ok := o.stores[def.Worksheet]; ok {
		return store, nil
	}
	store, err := o.workbook.Worksheet(ctx, def.Worksheet, def.Schema.Labels())
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open worksheet %s: %w", def.Worksheet, err)
	}
	o.stores[def.Worksheet] = store
	return store, nil
}

// Submit runs one render, validate and append cycle for the named form. When
// surface also implements form.Display, validation errors or the success
// message are shown on it. Invalid input is not an error; inspect
// Outcome.State and Outcome.Errors.
func (o *Orchestrator) Submit(ctx context.Context, name string, surface form.Surface) (form.Outcome, error) {
	if ctx == nil {
		return form.Outcome{}, errors.New("orchestrator: context is required")
	}
	def, err := o.Definition(name)
	if err != nil {
		return form.Outcome{}, err
	}
	store, err := o.Worksheet(ctx, def)
	if err != nil {
		return form.Outcome{}, err
	}

	appender := form.AppenderFunc(func(ctx context.Context, row []any) error {
		start := time.Now()
		err := store.AppendRow(ctx, row)
		o.metrics.ObserveAppend(def.Name, time.Since(start))
		return err
	})

	session := form.NewSession(form.SessionConfig{
		Schema:    def.Schema,
		Appender:  appender,
		Worksheet: def.Worksheet,
		Options:   o.formOptions,
		OnTransition: func(from, to form.State) {
			o.debug(ctx, "session transition", "form", def.Name, "from", from.String(), "to", to.String())
		},
	})

	outcome, err := session.Run(ctx, surface)
	o.record(ctx, def, outcome, err)
	if err != nil {
		return outcome, err
	}

	display, ok := surface.(form.Display)
	if !ok {
		return outcome, nil
	}
	switch outcome.State {
	case form.StateInvalid:
		if err := display.Errors(ctx, outcome.Errors); err != nil {
			return outcome, fmt.Errorf("orchestrator: display errors: %w", err)
		}
	case form.StatePersisted:
		if err := display.Success(ctx, def.SuccessMessage()); err != nil {
			return outcome, fmt.Errorf("orchestrator: display success: %w", err)
		}
	}
	return outcome, nil
}

// Preview walks the named form through surface without submitting, so the
// surface sees every prompt with its initial value. Nothing is validated or
// appended.
func (o *Orchestrator) Preview(ctx context.Context, name string, surface form.Surface) (form.Definition, error) {
	def, err := o.Definition(name)
	if err != nil {
		return form.Definition{}, err
	}
	if _, _, err := form.NewInterpreter(o.formOptions...).Render(ctx, def.Schema, previewSurface{surface}); err != nil {
		return def, err
	}
	return def, nil
}

// previewSurface never submits.
type previewSurface struct {
	form.Surface
}

func (previewSurface) Submit(context.Context) (bool, error) { return false, nil }

// Table reads the worksheet bound to the named form.
func (o *Orchestrator) Table(ctx context.Context, name string) (sheets.Table, error) {
	def, err := o.Definition(name)
	if err != nil {
		return sheets.Table{}, err
	}
	store, err := o.Worksheet(ctx, def)
	if err != nil {
		return sheets.Table{}, err
	}
	table, err := sheets.ReadTable(ctx, store)
	if err != nil {
		return sheets.Table{}, fmt.Errorf("orchestrator: read %s: %w", def.Worksheet, err)
	}
	return table, nil
}

// Close releases the workbook.
func (o *Orchestrator) Close() error {
	if o.workbook == nil {
		return nil
	}
	return o.workbook.Close()
}

func (o *Orchestrator) record(ctx context.Context, def form.Definition, outcome form.Outcome, err error) {
	outcomeLabel := metrics.OutcomeNotSubmitted
	switch {
	case err != nil && outcome.State == form.StateValid:
		outcomeLabel = metrics.OutcomeFailed
	case err != nil:
		// aborted or misconfigured before anything was submitted
		o.logError(ctx, "submission aborted", def, outcome, err)
		return
	case outcome.State == form.StateInvalid:
		outcomeLabel = metrics.OutcomeInvalid
	case outcome.State == form.StatePersisted:
		outcomeLabel = metrics.OutcomePersisted
	}
	o.metrics.Submission(def.Name, outcomeLabel)

	if err != nil {
		o.logError(ctx, "append failed", def, outcome, err)
		return
	}
	if o.logger != nil {
		o.logger.InfoContext(ctx, "submission processed",
			"form", def.Name,
			"submission_id", outcome.SubmissionID,
			"state", outcome.State.String(),
			"errors", len(outcome.Errors),
		)
	}
}

func (o *Orchestrator) logError(ctx context.Context, msg string, def form.Definition, outcome form.Outcome, err error) {
	if o.logger == nil {
		return
	}
	o.logger.ErrorContext(ctx, msg,
		"form", def.Name,
		"worksheet", def.Worksheet,
		"submission_id", outcome.SubmissionID,
		"error", err,
	)
}

func (o *Orchestrator) debug(ctx context.Context, msg string, args ...any) {
	if o.logger != nil {
		o.logger.DebugContext(ctx, msg, args...)
	}
}
