package web_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-sheetform/internal/metrics"
	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/model"
	"github.com/goliatone/go-sheetform/pkg/orchestrator"
	"github.com/goliatone/go-sheetform/pkg/renderers/web"
	"github.com/goliatone/go-sheetform/pkg/sheets"
	"github.com/goliatone/go-sheetform/pkg/testsupport"
)

func taskForms() *form.Registry {
	reg := form.NewRegistry()
	reg.MustRegister(form.Definition{
		Name:      "tasks",
		Title:     "Task Form",
		Worksheet: "Tasks",
		Success:   "Task added successfully!",
		Schema:    testsupport.TaskSchema(),
	})
	return reg
}

func newServer(t *testing.T, workbook sheets.Workbook, forms *form.Registry, options ...web.Option) (*httptest.Server, *orchestrator.Orchestrator) {
	t.Helper()
	orch := orchestrator.New(
		orchestrator.WithForms(forms),
		orchestrator.WithWorkbook(workbook),
		orchestrator.WithFormOptions(form.WithClock(testsupport.Clock())),
	)
	handler, err := web.New(orch, options...)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, orch
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	return readBody(t, resp)
}

func post(t *testing.T, srv *httptest.Server, path string, values url.Values) (int, string) {
	t.Helper()
	resp, err := srv.Client().PostForm(srv.URL+path, values)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func validTask() url.Values {
	return url.Values{
		"task_name":     {"Write docs"},
		"project":       {"B"},
		"due_date":      {"2025-03-20"},
		"description":   {"first draft"},
		web.ActionField: {"submit"},
	}
}

func assertContains(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected body to contain %q\n%s", fragment, body)
		}
	}
}

func TestHandler_Index(t *testing.T) {
	srv, _ := newServer(t, sheets.NewMemory(), taskForms(), web.WithTitle("Team Sheets"))
	status, body := get(t, srv, "/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	assertContains(t, body, "<h1>Team Sheets</h1>", `<a href="/forms/tasks">Task Form</a>`)
}

func TestHandler_ShowFormWithDefaults(t *testing.T) {
	srv, _ := newServer(t, sheets.NewMemory(), taskForms())
	status, body := get(t, srv, "/forms/tasks")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	assertContains(t, body,
		`<option value="A" selected>A</option>`,
		`type="date" name="due_date" value="2025-03-14"`,
		`name="_action" value="submit"`,
		"No rows yet.",
	)
}

func TestHandler_SubmitPersistsRow(t *testing.T) {
	srv, orch := newServer(t, sheets.NewMemory(), taskForms())
	status, body := post(t, srv, "/forms/tasks", validTask())
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	assertContains(t, body,
		"Task added successfully!",
		"<td>Write docs</td><td>B</td><td>2025-03-20</td><td>first draft</td>",
		`name="task_name" value=""`,
	)

	table, err := orch.Table(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected one row, got %v", table.Rows)
	}
}

func TestHandler_InvalidSubmissionKeepsValues(t *testing.T) {
	srv, orch := newServer(t, sheets.NewMemory(), taskForms())
	values := validTask()
	values.Set("task_name", "")
	values.Set("due_date", "2025-03-13")

	status, body := post(t, srv, "/forms/tasks", values)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	assertContains(t, body,
		"Task Name is required.",
		"Due Date must not be in the past.",
		`<option value="B" selected>B</option>`,
		`value="2025-03-13"`,
	)
	table, err := orch.Table(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if !table.Empty() {
		t.Fatalf("invalid submission must not persist")
	}
}

func TestHandler_PostWithoutSubmitAction(t *testing.T) {
	srv, orch := newServer(t, sheets.NewMemory(), taskForms())
	values := validTask()
	values.Del(web.ActionField)

	status, body := post(t, srv, "/forms/tasks", values)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	assertContains(t, body, `value="Write docs"`)
	table, err := orch.Table(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if !table.Empty() {
		t.Fatalf("post without submit action must not persist")
	}
}

func TestHandler_BadInputAndUnknownForm(t *testing.T) {
	srv, _ := newServer(t, sheets.NewMemory(), taskForms())

	values := validTask()
	values.Set("due_date", "next week")
	if status, _ := post(t, srv, "/forms/tasks", values); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", status)
	}
	if status, _ := get(t, srv, "/forms/missing"); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown form, got %d", status)
	}
	if status, _ := post(t, srv, "/forms/missing", validTask()); status != http.StatusNotFound {
		t.Fatalf("expected 404 when posting unknown form, got %d", status)
	}
}

func TestHandler_HelpIsSanitised(t *testing.T) {
	reg := form.NewRegistry()
	reg.MustRegister(form.Definition{
		Name:      "notes",
		Worksheet: "Notes",
		Schema: model.MustSchema(model.FieldSpec{
			Key:   "note",
			Kind:  model.FieldKindTextArea,
			Label: "Note",
			Help:  `Keep it <em>short</em><script>alert("x")</script>`,
		}),
	})
	srv, _ := newServer(t, sheets.NewMemory(), reg)

	_, body := get(t, srv, "/forms/notes")
	assertContains(t, body, "Keep it <em>short</em>")
	if strings.Contains(body, "<script>alert") {
		t.Fatalf("help script was not removed:\n%s", body)
	}
}

type brokenWorkbook struct {
	sheets.Workbook
}

func (b brokenWorkbook) Worksheet(ctx context.Context, name string, header []string) (sheets.Store, error) {
	store, err := b.Workbook.Worksheet(ctx, name, header)
	if err != nil {
		return nil, err
	}
	return brokenStore{Store: store}, nil
}

type brokenStore struct {
	sheets.Store
}

func (brokenStore) AppendRow(context.Context, []any) error {
	return errors.New("backend unavailable")
}

func TestHandler_PersistenceFailure(t *testing.T) {
	srv, _ := newServer(t, brokenWorkbook{Workbook: sheets.NewMemory()}, taskForms())
	status, body := post(t, srv, "/forms/tasks", validTask())
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	assertContains(t, body, "The row could not be saved.", `value="Write docs"`)
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := metrics.New(reg); err != nil {
		t.Fatalf("metrics: %v", err)
	}
	srv, _ := newServer(t, sheets.NewMemory(), taskForms(),
		web.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	if status, body := get(t, srv, "/healthz"); status != http.StatusOK || strings.TrimSpace(body) != "ok" {
		t.Fatalf("unexpected healthz %d %q", status, body)
	}
	if status, _ := get(t, srv, "/metrics"); status != http.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", status)
	}
}
