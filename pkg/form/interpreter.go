package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-sheetform/pkg/model"
)

// Interpreter renders a schema through a Surface and gathers the submitted
// values into a Record.
type Interpreter struct {
	cfg config
}

// NewInterpreter constructs an interpreter. Only WithClock affects rendering.
func NewInterpreter(options ...Option) *Interpreter {
	return &Interpreter{cfg: newConfig(options)}
}

// Render prompts every field in schema order and then asks the surface for
// the submit action. The collected values are returned only when submitted is
// true; otherwise the record is empty. Unknown field kinds fail before any
// prompt is issued.
func (i *Interpreter) Render(ctx context.Context, schema model.FormSchema, surface Surface) (model.Record, bool, error) {
	if ctx == nil {
		return nil, false, errors.New("form: context is required")
	}
	if surface == nil {
		return nil, false, errors.New("form: surface is required")
	}

	fields := schema.Fields()
	resolved, err := resolveWidgets(fields)
	if err != nil {
		return nil, false, err
	}

	today := model.DateOf(i.cfg.clock())
	draft := make(model.Record, len(fields))

	for idx, field := range fields {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		w := resolved[idx]
		value, err := w.Collect(ctx, surface, field, w.Initial(field, today))
		if err != nil {
			return nil, false, fmt.Errorf("form: collect %s: %w", field.Key, err)
		}
		draft[field.Key] = value
	}

	submitted, err := surface.Submit(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("form: submit: %w", err)
	}
	if !submitted {
		return model.Record{}, false, nil
	}
	return draft, true, nil
}

func resolveWidgets(fields []model.FieldSpec) ([]Widget, error) {
	out := make([]Widget, len(fields))
	for idx, field := range fields {
		w, err := WidgetFor(field.Kind)
		if err != nil {
			var cfgErr *model.ConfigurationError
			if errors.As(err, &cfgErr) {
				cfgErr.Field = field.Key
			}
			return nil, err
		}
		out[idx] = w
	}
	return out, nil
}
