package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/model"
	"github.com/goliatone/go-sheetform/pkg/testsupport"
)

func TestInterpreter_InitialValues(t *testing.T) {
	surface := &testsupport.ScriptedSurface{Submitted: true}
	interp := form.NewInterpreter(form.WithClock(testsupport.Clock()))

	record, submitted, err := interp.Render(testsupport.Context(), testsupport.TaskSchema(), surface)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !submitted {
		t.Fatalf("expected submitted")
	}

	want := model.Record{
		"task_name":   "",
		"project":     "A",
		"due_date":    testsupport.Today,
		"description": "",
	}
	if diff := cmp.Diff(map[string]any(want), map[string]any(record)); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	var keys []string
	for _, p := range surface.Prompts {
		keys = append(keys, p.Key)
	}
	if diff := cmp.Diff([]string{"task_name", "project", "due_date", "description"}, keys); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if got := surface.Prompts[1].DefaultIndex; got != 0 {
		t.Fatalf("select default index = %d, want 0", got)
	}
}

func TestInterpreter_NotSubmittedHidesValues(t *testing.T) {
	surface := &testsupport.ScriptedSurface{
		Texts:     map[string]string{"task_name": "draft"},
		Submitted: false,
	}
	record, submitted, err := form.NewInterpreter().Render(testsupport.Context(), testsupport.TaskSchema(), surface)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if submitted {
		t.Fatalf("expected not submitted")
	}
	if len(record) != 0 {
		t.Fatalf("expected empty record, got %v", record)
	}
}

func TestInterpreter_SelectOutOfRangeIsUnset(t *testing.T) {
	surface := &testsupport.ScriptedSurface{
		Selects:   map[string]int{"project": 7},
		Submitted: true,
	}
	record, _, err := form.NewInterpreter().Render(testsupport.Context(), testsupport.TaskSchema(), surface)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := record.Text("project"); got != "" {
		t.Fatalf("expected unset project, got %q", got)
	}
}

func TestInterpreter_SurfaceErrorsPropagate(t *testing.T) {
	surface := &testsupport.ScriptedSurface{Strict: true}
	_, _, err := form.NewInterpreter().Render(testsupport.Context(), testsupport.TaskSchema(), surface)
	if !errors.Is(err, testsupport.ErrNotScripted) {
		t.Fatalf("expected ErrNotScripted, got %v", err)
	}
}

func TestInterpreter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := form.NewInterpreter().Render(ctx, testsupport.TaskSchema(), &testsupport.ScriptedSurface{Submitted: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWidgetFor_UnknownKind(t *testing.T) {
	_, err := form.WidgetFor("checkbox")
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !errors.Is(err, model.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind in chain")
	}

	for _, kind := range []model.FieldKind{
		model.FieldKindText, model.FieldKindSelect, model.FieldKindDate,
		model.FieldKindTextArea, model.FieldKindNumber,
	} {
		w, err := form.WidgetFor(kind)
		if err != nil {
			t.Fatalf("widget for %s: %v", kind, err)
		}
		if w.Kind() != kind {
			t.Fatalf("widget kind = %s, want %s", w.Kind(), kind)
		}
	}
}
