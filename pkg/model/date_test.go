package model_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-sheetform/pkg/model"
)

func TestDate_ParseAndFormat(t *testing.T) {
	d, err := model.ParseDate(" 2024-02-29 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := d.String(); got != "2024-02-29" {
		t.Fatalf("String() = %q", got)
	}
	if _, err := model.ParseDate("29/02/2024"); err == nil {
		t.Fatalf("expected error for invalid layout")
	}
}

func TestDate_Ordering(t *testing.T) {
	today := model.DateOf(time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC))
	tomorrow := today.AddDays(1)
	yesterday := today.AddDays(-1)

	if tomorrow.String() != "2026-01-01" {
		t.Fatalf("tomorrow = %s", tomorrow)
	}
	if !yesterday.Before(today) || today.Before(today) || !tomorrow.After(today) {
		t.Fatalf("unexpected ordering: %s %s %s", yesterday, today, tomorrow)
	}
	if !(model.Date{}).IsZero() || today.IsZero() {
		t.Fatalf("unexpected zero detection")
	}
}

func TestRecord_IsEmpty(t *testing.T) {
	var nilNumber *int
	seven := 7
	record := model.Record{
		"blank":  "   ",
		"text":   "hello",
		"date":   model.Date{},
		"number": nilNumber,
		"count":  &seven,
	}

	for key, want := range map[string]bool{
		"blank":   true,
		"text":    false,
		"date":    true,
		"number":  true,
		"count":   false,
		"missing": true,
	} {
		if got := record.IsEmpty(key); got != want {
			t.Fatalf("IsEmpty(%q) = %v, want %v", key, got, want)
		}
	}

	if n, ok := record.Int("count"); !ok || n != 7 {
		t.Fatalf("Int(count) = %d, %v", n, ok)
	}
	if got := record.Text("text"); got != "hello" {
		t.Fatalf("Text(text) = %q", got)
	}
}
