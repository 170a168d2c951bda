package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sheetform/pkg/model"
)

func intPtr(v int) *int { return &v }

func TestNewSchema_PreservesOrder(t *testing.T) {
	schema, err := model.NewSchema(
		model.FieldSpec{Key: "task_name", Kind: model.FieldKindText, Label: "Task Name", Required: true},
		model.FieldSpec{Key: "project", Kind: model.FieldKindSelect, Label: "Project", Options: []string{"A", "B"}},
		model.FieldSpec{Key: "due_date", Kind: model.FieldKindDate, Label: "Due Date"},
		model.FieldSpec{Key: "description", Kind: model.FieldKindTextArea, Label: "Description"},
	)
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}

	want := []string{"task_name", "project", "due_date", "description"}
	if diff := cmp.Diff(want, schema.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Task Name", "Project", "Due Date", "Description"}, schema.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	field, ok := schema.Field("project")
	if !ok {
		t.Fatalf("expected project field")
	}
	field.Options[0] = "mutated"
	again, _ := schema.Field("project")
	if again.Options[0] != "A" {
		t.Fatalf("schema must not be mutated through returned specs, got %q", again.Options[0])
	}
}

func TestNewSchema_ConfigurationErrors(t *testing.T) {
	cases := []struct {
		name   string
		fields []model.FieldSpec
		reason string
	}{
		{
			name:   "unknown kind",
			fields: []model.FieldSpec{{Key: "x", Kind: "checkbox", Label: "X"}},
			reason: `unknown field type "checkbox"`,
		},
		{
			name:   "missing kind",
			fields: []model.FieldSpec{{Key: "x", Label: "X"}},
			reason: "field type is required",
		},
		{
			name:   "missing key",
			fields: []model.FieldSpec{{Kind: model.FieldKindText, Label: "X"}},
			reason: "field key is required",
		},
		{
			name:   "missing label",
			fields: []model.FieldSpec{{Key: "x", Kind: model.FieldKindText}},
			reason: "field label is required",
		},
		{
			name: "duplicate key",
			fields: []model.FieldSpec{
				{Key: "x", Kind: model.FieldKindText, Label: "X"},
				{Key: "x", Kind: model.FieldKindTextArea, Label: "Y"},
			},
			reason: "duplicate field key",
		},
		{
			name:   "select without options",
			fields: []model.FieldSpec{{Key: "p", Kind: model.FieldKindSelect, Label: "P"}},
			reason: "select field requires options",
		},
		{
			name:   "options on text",
			fields: []model.FieldSpec{{Key: "p", Kind: model.FieldKindText, Label: "P", Options: []string{"a"}}},
			reason: "options are only valid on select fields, got text",
		},
		{
			name: "inverted length",
			fields: []model.FieldSpec{{
				Key: "p", Kind: model.FieldKindText, Label: "P",
				Constraints: &model.Constraints{MinLength: intPtr(5), MaxLength: intPtr(2)},
			}},
			reason: "min_length exceeds max_length",
		},
		{
			name: "length on date",
			fields: []model.FieldSpec{{
				Key: "d", Kind: model.FieldKindDate, Label: "D",
				Constraints: &model.Constraints{MaxLength: intPtr(2)},
			}},
			reason: "length and pattern constraints require a text or textarea field",
		},
		{
			name: "bounds on text",
			fields: []model.FieldSpec{{
				Key: "p", Kind: model.FieldKindText, Label: "P",
				Constraints: &model.Constraints{Min: intPtr(1)},
			}},
			reason: "min/max constraints require a number field",
		},
		{
			name: "bad pattern",
			fields: []model.FieldSpec{{
				Key: "p", Kind: model.FieldKindText, Label: "P",
				Constraints: &model.Constraints{Pattern: "("},
			}},
			reason: "invalid pattern",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.NewSchema(tc.fields...)
			if err == nil {
				t.Fatalf("expected configuration error")
			}
			var cfgErr *model.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %T", err)
			}
			if cfgErr.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", cfgErr.Reason, tc.reason)
			}
		})
	}
}

func TestNewSchema_CompilesPatternOnce(t *testing.T) {
	schema := model.MustSchema(
		model.FieldSpec{Key: "code", Kind: model.FieldKindText, Label: "Code",
			Constraints: &model.Constraints{Pattern: `[A-Z]{3}|[0-9]{3}`}},
		model.FieldSpec{Key: "note", Kind: model.FieldKindTextArea, Label: "Note"},
	)

	re := schema.Pattern("code")
	if re == nil {
		t.Fatalf("expected compiled pattern for code")
	}
	if re != schema.Pattern("code") {
		t.Fatalf("expected the same compiled pattern on every lookup")
	}
	for input, want := range map[string]bool{"ABC": true, "123": true, "ABC123": false, "xABC": false} {
		if got := re.MatchString(input); got != want {
			t.Fatalf("pattern match %q = %v, want %v", input, got, want)
		}
	}
	if schema.Pattern("note") != nil || schema.Pattern("missing") != nil {
		t.Fatalf("expected no pattern for fields without one")
	}
}

func TestNewSchema_UnknownKindWrapsSentinel(t *testing.T) {
	_, err := model.NewSchema(model.FieldSpec{Key: "x", Kind: "slider", Label: "X"})
	if !errors.Is(err, model.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestMustSchema_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	model.MustSchema(model.FieldSpec{Key: "x", Kind: "nope", Label: "X"})
}
