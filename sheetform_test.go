package sheetform_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-sheetform"
	"github.com/goliatone/go-sheetform/pkg/sheets"
)

func TestEmbeddedBundles(t *testing.T) {
	if _, err := fs.Stat(sheetform.EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
	matches, err := fs.Glob(sheetform.EmbeddedForms(), "*.yaml")
	if err != nil {
		t.Fatalf("glob forms: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("expected embedded forms")
	}
}

func TestLoadFormsAndOrchestrator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.yaml")
	doc := "forms:\n  notes:\n    worksheet: Notes\n    fields:\n      note: {type: text, label: Note, required: true}\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	registry, err := sheetform.LoadForms(path)
	if err != nil {
		t.Fatalf("load forms: %v", err)
	}

	workbook, err := sheetform.OpenWorkbook(context.Background(), sheetform.StoreConfig{Driver: sheets.DriverMemory})
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	orch := sheetform.NewOrchestrator(sheetform.WithForms(registry), sheetform.WithWorkbook(workbook))
	if err := orch.Err(); err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	table, err := orch.Table(context.Background(), "notes")
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if len(table.Columns) != 1 || table.Columns[0] != "Note" {
		t.Fatalf("unexpected columns %v", table.Columns)
	}
}
