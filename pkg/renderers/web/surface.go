package web

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/model"
)

// ActionField carries the submit action in posted forms.
const ActionField = "_action"

// ErrBadInput marks posted values that cannot be decoded into their field
// kind, such as a malformed date.
var ErrBadInput = errors.New("web: bad input")

// FieldView is the template model of one input.
type FieldView struct {
	Key      string
	Label    string
	Kind     string
	Help     string
	Required bool
	Value    string
	Options  []OptionView
}

// OptionView is one choice of a select input.
type OptionView struct {
	Value    string
	Selected bool
}

// requestSurface answers prompts from posted form values, or from prompt
// defaults when nothing was posted, and records a FieldView per prompt.
type requestSurface struct {
	values url.Values
	posted bool
	policy *bluemonday.Policy

	fields  []FieldView
	errors  []string
	success string
}

var (
	_ form.Surface = (*requestSurface)(nil)
	_ form.Display = (*requestSurface)(nil)
)

func newRequestSurface(values url.Values, policy *bluemonday.Policy) *requestSurface {
	return &requestSurface{values: values, posted: values != nil, policy: policy}
}

func (s *requestSurface) Text(_ context.Context, prompt form.Prompt) (string, error) {
	value := s.text(prompt)
	s.add(prompt, model.FieldKindText, value)
	return value, nil
}

func (s *requestSurface) TextArea(_ context.Context, prompt form.Prompt) (string, error) {
	value := s.text(prompt)
	s.add(prompt, model.FieldKindTextArea, value)
	return value, nil
}

func (s *requestSurface) Select(_ context.Context, prompt form.Prompt) (int, error) {
	idx := prompt.DefaultIndex
	if s.posted {
		idx = indexOf(prompt.Options, s.values.Get(prompt.Key))
	}
	view := s.add(prompt, model.FieldKindSelect, "")
	for i, option := range prompt.Options {
		view.Options = append(view.Options, OptionView{Value: option, Selected: i == idx})
		if i == idx {
			view.Value = option
		}
	}
	return idx, nil
}

func (s *requestSurface) Date(_ context.Context, prompt form.Prompt) (model.Date, error) {
	date := prompt.DefaultDate
	if s.posted {
		raw := strings.TrimSpace(s.values.Get(prompt.Key))
		date = model.Date{}
		if raw != "" {
			parsed, err := model.ParseDate(raw)
			if err != nil {
				return model.Date{}, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD)", ErrBadInput, prompt.Label)
			}
			date = parsed
		}
	}
	value := ""
	if !date.IsZero() {
		value = date.String()
	}
	s.add(prompt, model.FieldKindDate, value)
	return date, nil
}

func (s *requestSurface) Number(_ context.Context, prompt form.Prompt) (*int, error) {
	number := prompt.DefaultNumber
	if s.posted {
		raw := strings.TrimSpace(s.values.Get(prompt.Key))
		number = nil
		if raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be a whole number", ErrBadInput, prompt.Label)
			}
			number = &n
		}
	}
	value := ""
	if number != nil {
		value = strconv.Itoa(*number)
	}
	s.add(prompt, model.FieldKindNumber, value)
	return number, nil
}

func (s *requestSurface) Submit(context.Context) (bool, error) {
	return s.posted && s.values.Get(ActionField) == "submit", nil
}

func (s *requestSurface) Errors(_ context.Context, messages []string) error {
	s.errors = append(s.errors, messages...)
	return nil
}

func (s *requestSurface) Success(_ context.Context, message string) error {
	s.success = message
	return nil
}

func (s *requestSurface) text(prompt form.Prompt) string {
	if s.posted {
		return s.values.Get(prompt.Key)
	}
	return prompt.Default
}

func (s *requestSurface) add(prompt form.Prompt, kind model.FieldKind, value string) *FieldView {
	help := ""
	if prompt.Help != "" && s.policy != nil {
		help = s.policy.Sanitize(prompt.Help)
	}
	s.fields = append(s.fields, FieldView{
		Key:      prompt.Key,
		Label:    prompt.Label,
		Kind:     string(kind),
		Help:     help,
		Required: prompt.Required,
		Value:    value,
	})
	return &s.fields[len(s.fields)-1]
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
