package form

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/goliatone/go-sheetform/pkg/model"
)

// Widget is the per-kind behaviour of a field. The set of widgets is closed;
// use WidgetFor to obtain one.
type Widget interface {
	Kind() model.FieldKind
	// Initial returns the value a fresh form shows for the field.
	Initial(spec model.FieldSpec, today model.Date) any
	// Collect asks the surface for the field value.
	Collect(ctx context.Context, surface Surface, spec model.FieldSpec, initial any) (any, error)
	// Check applies the kind-specific constraints to a non-empty value.
	Check(spec model.FieldSpec, value any, env checkEnv) []string
	// Cell converts the value into a worksheet scalar.
	Cell(value any) any

	sealed()
}

type checkEnv struct {
	today    model.Date
	boundary DateBoundary
	pattern  *regexp.Regexp
}

var widgets = map[model.FieldKind]Widget{
	model.FieldKindText:     textWidget{kind: model.FieldKindText},
	model.FieldKindTextArea: textWidget{kind: model.FieldKindTextArea, multiline: true},
	model.FieldKindSelect:   selectWidget{},
	model.FieldKindDate:     dateWidget{},
	model.FieldKindNumber:   numberWidget{},
}

// WidgetFor returns the widget for kind or a ConfigurationError when the kind
// is not supported.
func WidgetFor(kind model.FieldKind) (Widget, error) {
	w, ok := widgets[kind]
	if !ok {
		return nil, &model.ConfigurationError{
			Reason: fmt.Sprintf("unknown field type %q", kind),
			Err:    model.ErrUnknownKind,
		}
	}
	return w, nil
}

func promptFor(spec model.FieldSpec) Prompt {
	return Prompt{
		Key:      spec.Key,
		Label:    spec.Label,
		Help:     spec.Help,
		Required: spec.Required,
	}
}

type textWidget struct {
	kind      model.FieldKind
	multiline bool
}

func (w textWidget) Kind() model.FieldKind { return w.kind }

func (textWidget) Initial(model.FieldSpec, model.Date) any { return "" }

func (w textWidget) Collect(ctx context.Context, surface Surface, spec model.FieldSpec, initial any) (any, error) {
	prompt := promptFor(spec)
	prompt.Default, _ = initial.(string)
	if w.multiline {
		return surface.TextArea(ctx, prompt)
	}
	return surface.Text(ctx, prompt)
}

func (textWidget) Check(spec model.FieldSpec, value any, env checkEnv) []string {
	c := spec.Constraints
	if c == nil {
		return nil
	}
	text, _ := value.(string)

	var out []string
	if c.MinLength != nil || c.MaxLength != nil {
		n := utf8.RuneCountInString(text)
		tooShort := c.MinLength != nil && n < *c.MinLength
		tooLong := c.MaxLength != nil && n > *c.MaxLength
		if tooShort || tooLong {
			out = append(out, spec.Message(lengthMessage(spec.Label, c.MinLength, c.MaxLength)))
		}
	}
	if env.pattern != nil && !env.pattern.MatchString(text) {
		out = append(out, spec.Message(fmt.Sprintf("%s has an invalid format.", spec.Label)))
	}
	return out
}

func (textWidget) Cell(value any) any {
	s, _ := value.(string)
	return s
}

func (textWidget) sealed() {}

func lengthMessage(label string, minLen, maxLen *int) string {
	switch {
	case minLen != nil && maxLen != nil:
		return fmt.Sprintf("%s must be between %d and %d characters.", label, *minLen, *maxLen)
	case minLen != nil:
		return fmt.Sprintf("%s must be at least %d characters.", label, *minLen)
	default:
		return fmt.Sprintf("%s must be at most %d characters.", label, *maxLen)
	}
}

type selectWidget struct{}

func (selectWidget) Kind() model.FieldKind { return model.FieldKindSelect }

func (selectWidget) Initial(spec model.FieldSpec, _ model.Date) any {
	if len(spec.Options) == 0 {
		return ""
	}
	return spec.Options[0]
}

func (selectWidget) Collect(ctx context.Context, surface Surface, spec model.FieldSpec, initial any) (any, error) {
	prompt := promptFor(spec)
	prompt.Options = append([]string(nil), spec.Options...)
	prompt.DefaultIndex = -1
	if s, ok := initial.(string); ok {
		prompt.DefaultIndex = indexOf(spec.Options, s)
	}
	idx, err := surface.Select(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(spec.Options) {
		return "", nil
	}
	return spec.Options[idx], nil
}

// Select fields only carry the required rule.
func (selectWidget) Check(model.FieldSpec, any, checkEnv) []string { return nil }

func (selectWidget) Cell(value any) any {
	s, _ := value.(string)
	return s
}

func (selectWidget) sealed() {}

type dateWidget struct{}

func (dateWidget) Kind() model.FieldKind { return model.FieldKindDate }

func (dateWidget) Initial(_ model.FieldSpec, today model.Date) any { return today }

func (dateWidget) Collect(ctx context.Context, surface Surface, spec model.FieldSpec, initial any) (any, error) {
	prompt := promptFor(spec)
	prompt.DefaultDate, _ = initial.(model.Date)
	return surface.Date(ctx, prompt)
}

func (dateWidget) Check(spec model.FieldSpec, value any, env checkEnv) []string {
	d, ok := value.(model.Date)
	if !ok {
		return []string{fmt.Sprintf("%s is not a valid date.", spec.Label)}
	}
	switch env.boundary {
	case DateExclusive:
		if !d.After(env.today) {
			return []string{spec.Message(fmt.Sprintf("%s must be in the future.", spec.Label))}
		}
	default:
		if d.Before(env.today) {
			return []string{spec.Message(fmt.Sprintf("%s must not be in the past.", spec.Label))}
		}
	}
	return nil
}

func (dateWidget) Cell(value any) any {
	d, ok := value.(model.Date)
	if !ok || d.IsZero() {
		return ""
	}
	return d.String()
}

func (dateWidget) sealed() {}

type numberWidget struct{}

func (numberWidget) Kind() model.FieldKind { return model.FieldKindNumber }

func (numberWidget) Initial(model.FieldSpec, model.Date) any { return (*int)(nil) }

func (numberWidget) Collect(ctx context.Context, surface Surface, spec model.FieldSpec, initial any) (any, error) {
	prompt := promptFor(spec)
	prompt.DefaultNumber, _ = initial.(*int)
	return surface.Number(ctx, prompt)
}

func (numberWidget) Check(spec model.FieldSpec, value any, _ checkEnv) []string {
	c := spec.Constraints
	if c == nil || (c.Min == nil && c.Max == nil) {
		return nil
	}
	n, ok := model.Record{spec.Key: value}.Int(spec.Key)
	if !ok {
		return nil
	}
	if (c.Min != nil && n < *c.Min) || (c.Max != nil && n > *c.Max) {
		return []string{spec.Message(boundsMessage(spec.Label, c.Min, c.Max))}
	}
	return nil
}

func (numberWidget) Cell(value any) any {
	n, ok := model.Record{"v": value}.Int("v")
	if !ok {
		return ""
	}
	return n
}

func (numberWidget) sealed() {}

func boundsMessage(label string, minVal, maxVal *int) string {
	switch {
	case minVal != nil && maxVal != nil:
		return fmt.Sprintf("%s must be between %d and %d.", label, *minVal, *maxVal)
	case minVal != nil:
		return fmt.Sprintf("%s must be at least %d.", label, *minVal)
	default:
		return fmt.Sprintf("%s must be at most %d.", label, *maxVal)
	}
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
