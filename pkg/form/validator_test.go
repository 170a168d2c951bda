package form_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/model"
	"github.com/goliatone/go-sheetform/pkg/testsupport"
)

func TestValidator_LengthBoundariesInclusive(t *testing.T) {
	for _, kind := range []model.FieldKind{model.FieldKindText, model.FieldKindTextArea} {
		schema := model.MustSchema(model.FieldSpec{
			Key: "name", Kind: kind, Label: "Name",
			Constraints: &model.Constraints{MinLength: testsupport.IntPtr(3), MaxLength: testsupport.IntPtr(50)},
		})
		v := form.NewValidator(form.WithClock(testsupport.Clock()))

		cases := []struct {
			length int
			valid  bool
		}{
			{length: 2, valid: false},
			{length: 3, valid: true},
			{length: 50, valid: true},
			{length: 51, valid: false},
		}
		for _, tc := range cases {
			errs := v.Validate(model.Record{"name": strings.Repeat("x", tc.length)}, schema)
			if tc.valid && len(errs) != 0 {
				t.Fatalf("%s length %d: expected valid, got %v", kind, tc.length, errs)
			}
			if !tc.valid {
				want := []string{"Name must be between 3 and 50 characters."}
				if diff := cmp.Diff(want, errs); diff != "" {
					t.Fatalf("%s length %d mismatch (-want +got):\n%s", kind, tc.length, diff)
				}
			}
		}
	}
}

func TestValidator_LengthCountsRunes(t *testing.T) {
	schema := model.MustSchema(model.FieldSpec{
		Key: "name", Kind: model.FieldKindText, Label: "Name",
		Constraints: &model.Constraints{MaxLength: testsupport.IntPtr(3)},
	})
	if errs := form.NewValidator().Validate(model.Record{"name": "ñöü"}, schema); len(errs) != 0 {
		t.Fatalf("expected multibyte value within bound, got %v", errs)
	}
}

func TestValidator_CustomMessage(t *testing.T) {
	schema := model.MustSchema(model.FieldSpec{
		Key: "code", Kind: model.FieldKindText, Label: "Code",
		Constraints: &model.Constraints{MinLength: testsupport.IntPtr(4), Message: "Codes have four or more characters."},
	})
	errs := form.NewValidator().Validate(model.Record{"code": "ab"}, schema)
	if diff := cmp.Diff([]string{"Codes have four or more characters."}, errs); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestValidator_Pattern(t *testing.T) {
	schema := model.MustSchema(model.FieldSpec{
		Key: "email", Kind: model.FieldKindText, Label: "Email",
		Constraints: &model.Constraints{Pattern: `[^@\s]+@[^@\s]+`},
	})
	v := form.NewValidator()
	if errs := v.Validate(model.Record{"email": "ada@example.com"}, schema); len(errs) != 0 {
		t.Fatalf("expected valid email, got %v", errs)
	}
	errs := v.Validate(model.Record{"email": "not an email"}, schema)
	if diff := cmp.Diff([]string{"Email has an invalid format."}, errs); diff != "" {
		t.Fatalf("pattern mismatch (-want +got):\n%s", diff)
	}
}

func TestValidator_DateBoundary(t *testing.T) {
	schema := model.MustSchema(model.FieldSpec{Key: "due", Kind: model.FieldKindDate, Label: "Due Date", Required: true})
	yesterday := testsupport.Today.AddDays(-1)
	tomorrow := testsupport.Today.AddDays(1)

	inclusive := form.NewValidator(form.WithClock(testsupport.Clock()))
	for _, tc := range []struct {
		date  model.Date
		valid bool
	}{
		{date: yesterday, valid: false},
		{date: testsupport.Today, valid: true},
		{date: tomorrow, valid: true},
	} {
		errs := inclusive.Validate(model.Record{"due": tc.date}, schema)
		if tc.valid != (len(errs) == 0) {
			t.Fatalf("inclusive %s: valid=%v errs=%v", tc.date, tc.valid, errs)
		}
	}
	if errs := inclusive.Validate(model.Record{"due": yesterday}, schema); errs[0] != "Due Date must not be in the past." {
		t.Fatalf("unexpected message %q", errs[0])
	}

	exclusive := form.NewValidator(form.WithClock(testsupport.Clock()), form.WithDateBoundary(form.DateExclusive))
	errs := exclusive.Validate(model.Record{"due": testsupport.Today}, schema)
	if diff := cmp.Diff([]string{"Due Date must be in the future."}, errs); diff != "" {
		t.Fatalf("exclusive today mismatch (-want +got):\n%s", diff)
	}
	if errs := exclusive.Validate(model.Record{"due": tomorrow}, schema); len(errs) != 0 {
		t.Fatalf("exclusive tomorrow should pass, got %v", errs)
	}
}

func TestValidator_NumberBounds(t *testing.T) {
	schema := model.MustSchema(model.FieldSpec{
		Key: "age", Kind: model.FieldKindNumber, Label: "Age",
		Constraints: &model.Constraints{Min: testsupport.IntPtr(0), Max: testsupport.IntPtr(120)},
	})
	v := form.NewValidator()
	if errs := v.Validate(model.Record{"age": testsupport.IntPtr(120)}, schema); len(errs) != 0 {
		t.Fatalf("expected 120 accepted, got %v", errs)
	}
	errs := v.Validate(model.Record{"age": testsupport.IntPtr(121)}, schema)
	if diff := cmp.Diff([]string{"Age must be between 0 and 120."}, errs); diff != "" {
		t.Fatalf("bounds mismatch (-want +got):\n%s", diff)
	}
	if errs := v.Validate(model.Record{}, schema); len(errs) != 0 {
		t.Fatalf("optional blank number should pass, got %v", errs)
	}
}

func TestValidator_CollectsAllViolations(t *testing.T) {
	schema := testsupport.TaskSchema()
	record := model.Record{
		"task_name":   "",
		"project":     "",
		"due_date":    testsupport.Today.AddDays(-3),
		"description": strings.Repeat("d", 201),
	}
	errs := form.NewValidator(form.WithClock(testsupport.Clock())).Validate(record, schema)
	want := []string{
		"Task Name is required.",
		"Project is required.",
		"Due Date must not be in the past.",
		"Description must be at most 200 characters.",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestValidator_PureAndIdempotent(t *testing.T) {
	schema := testsupport.TaskSchema()
	record := model.Record{"task_name": "  ", "project": "B", "due_date": testsupport.Today.AddDays(-1)}
	snapshot := record.Clone()

	v := form.NewValidator(form.WithClock(testsupport.Clock()))
	first := v.Validate(record, schema)
	second := v.Validate(record, schema)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validation not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any(snapshot), map[string]any(record)); diff != "" {
		t.Fatalf("record mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"task_name", "project", "due_date", "description"}, schema.Keys()); diff != "" {
		t.Fatalf("schema mutated:\n%s", diff)
	}
}

func TestRow_SerialisesInSchemaOrder(t *testing.T) {
	schema := model.MustSchema(
		model.FieldSpec{Key: "name", Kind: model.FieldKindText, Label: "Name"},
		model.FieldSpec{Key: "age", Kind: model.FieldKindNumber, Label: "Age"},
		model.FieldSpec{Key: "when", Kind: model.FieldKindDate, Label: "When"},
		model.FieldSpec{Key: "notes", Kind: model.FieldKindTextArea, Label: "Notes"},
	)
	row := form.Row(model.Record{
		"age":  testsupport.IntPtr(42),
		"name": "Ada",
		"when": model.Date{Year: 2025, Month: 1, Day: 2},
	}, schema)

	want := []any{"Ada", 42, "2025-01-02", ""}
	if diff := cmp.Diff(want, row); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}
