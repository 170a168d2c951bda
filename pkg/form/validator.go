package form

import (
	"fmt"

	"github.com/goliatone/go-sheetform/pkg/model"
)

// Validator checks collected records against their schema.
type Validator struct {
	cfg config
}

// NewValidator constructs a validator. WithClock and WithDateBoundary control
// the date rule.
func NewValidator(options ...Option) *Validator {
	return &Validator{cfg: newConfig(options)}
}

// Validate returns every violation in schema order; an empty result means the
// record is valid. Empty values only trigger the required rule. Validate does
// not mutate its arguments.
func (v *Validator) Validate(record model.Record, schema model.FormSchema) []string {
	env := checkEnv{
		today:    model.DateOf(v.cfg.clock()),
		boundary: v.cfg.boundary,
	}

	var errs []string
	for _, field := range schema.Fields() {
		if record.IsEmpty(field.Key) {
			if field.Required {
				errs = append(errs, fmt.Sprintf("%s is required.", field.Label))
			}
			continue
		}
		w, err := WidgetFor(field.Kind)
		if err != nil {
			continue
		}
		env.pattern = schema.Pattern(field.Key)
		errs = append(errs, w.Check(field, record[field.Key], env)...)
	}
	return errs
}

// Row serialises a record into worksheet cells following schema order.
func Row(record model.Record, schema model.FormSchema) []any {
	fields := schema.Fields()
	row := make([]any, 0, len(fields))
	for _, field := range fields {
		w, err := WidgetFor(field.Kind)
		if err != nil {
			row = append(row, "")
			continue
		}
		row = append(row, w.Cell(record[field.Key]))
	}
	return row
}
