package testsupport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/model"
)

// Now is the fixed instant used by fixture clocks.
var Now = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// Today is the calendar date of Now.
var Today = model.DateOf(Now)

// Clock returns a form.Clock pinned to Now.
func Clock() form.Clock {
	return func() time.Time { return Now }
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// TaskSchema mirrors the task form used throughout the tests: a required
// text, a required select with three options, a required date and an optional
// textarea capped at 200 characters.
func TaskSchema() model.FormSchema {
	return model.MustSchema(
		model.FieldSpec{Key: "task_name", Kind: model.FieldKindText, Label: "Task Name", Required: true},
		model.FieldSpec{Key: "project", Kind: model.FieldKindSelect, Label: "Project", Required: true, Options: []string{"A", "B", "C"}},
		model.FieldSpec{Key: "due_date", Kind: model.FieldKindDate, Label: "Due Date", Required: true},
		model.FieldSpec{
			Key: "description", Kind: model.FieldKindTextArea, Label: "Description",
			Constraints: &model.Constraints{MaxLength: IntPtr(200)},
		},
	)
}

// ErrNotScripted is returned by ScriptedSurface when a prompt has no scripted
// answer.
var ErrNotScripted = errors.New("testsupport: prompt not scripted")

// ScriptedSurface answers prompts from per-key scripts. Keys without a script
// fall back to the prompt default, mimicking a user who submits untouched
// inputs. Every prompt is recorded for assertions.
type ScriptedSurface struct {
	Texts   map[string]string
	Selects map[string]int
	Dates   map[string]model.Date
	Numbers map[string]*int
	// Strict makes unscripted prompts fail with ErrNotScripted.
	Strict bool
	// Submitted is the answer given to Submit.
	Submitted bool
	SubmitErr error

	Prompts []form.Prompt
}

func (s *ScriptedSurface) record(prompt form.Prompt) {
	s.Prompts = append(s.Prompts, prompt)
}

func (s *ScriptedSurface) Text(_ context.Context, prompt form.Prompt) (string, error) {
	s.record(prompt)
	if v, ok := s.Texts[prompt.Key]; ok {
		return v, nil
	}
	if s.Strict {
		return "", ErrNotScripted
	}
	return prompt.Default, nil
}

func (s *ScriptedSurface) TextArea(ctx context.Context, prompt form.Prompt) (string, error) {
	return s.Text(ctx, prompt)
}

func (s *ScriptedSurface) Select(_ context.Context, prompt form.Prompt) (int, error) {
	s.record(prompt)
	if v, ok := s.Selects[prompt.Key]; ok {
		return v, nil
	}
	if s.Strict {
		return -1, ErrNotScripted
	}
	return prompt.DefaultIndex, nil
}

func (s *ScriptedSurface) Date(_ context.Context, prompt form.Prompt) (model.Date, error) {
	s.record(prompt)
	if v, ok := s.Dates[prompt.Key]; ok {
		return v, nil
	}
	if s.Strict {
		return model.Date{}, ErrNotScripted
	}
	return prompt.DefaultDate, nil
}

func (s *ScriptedSurface) Number(_ context.Context, prompt form.Prompt) (*int, error) {
	s.record(prompt)
	if v, ok := s.Numbers[prompt.Key]; ok {
		return v, nil
	}
	if s.Strict {
		return nil, ErrNotScripted
	}
	return prompt.DefaultNumber, nil
}

func (s *ScriptedSurface) Submit(context.Context) (bool, error) {
	if s.SubmitErr != nil {
		return false, s.SubmitErr
	}
	return s.Submitted, nil
}

// RecordingAppender captures appended rows and can be told to fail.
type RecordingAppender struct {
	mu   sync.Mutex
	Rows [][]any
	Err  error
}

// AppendRow implements form.Appender.
func (a *RecordingAppender) AppendRow(_ context.Context, row []any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Rows = append(a.Rows, append([]any(nil), row...))
	return nil
}
