package form

import (
	"context"

	"github.com/goliatone/go-sheetform/pkg/model"
)

// Prompt describes one input request issued to a Surface.
type Prompt struct {
	Key      string
	Label    string
	Help     string
	Required bool

	// Options lists select choices; DefaultIndex points into it.
	Options      []string
	DefaultIndex int

	Default       string
	DefaultDate   model.Date
	DefaultNumber *int
}

// Surface abstracts the presentation layer so the interpreter can be driven by
// a terminal, an HTTP request or a scripted stub in tests.
type Surface interface {
	Text(ctx context.Context, prompt Prompt) (string, error)
	TextArea(ctx context.Context, prompt Prompt) (string, error)
	// Select returns the chosen index into prompt.Options, or -1 for no
	// selection.
	Select(ctx context.Context, prompt Prompt) (int, error)
	Date(ctx context.Context, prompt Prompt) (model.Date, error)
	// Number returns nil when the input was left blank.
	Number(ctx context.Context, prompt Prompt) (*int, error)
	// Submit reports whether the user triggered the submit action.
	Submit(ctx context.Context) (bool, error)
}

// Display shows the outcome of a submission.
type Display interface {
	Errors(ctx context.Context, messages []string) error
	Success(ctx context.Context, message string) error
}

// Appender is the write side of the spreadsheet store.
type Appender interface {
	AppendRow(ctx context.Context, row []any) error
}

// AppenderFunc adapts a function into an Appender.
type AppenderFunc func(ctx context.Context, row []any) error

// AppendRow calls the underlying function.
func (fn AppenderFunc) AppendRow(ctx context.Context, row []any) error {
	return fn(ctx, row)
}
