package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/model"
	"github.com/goliatone/go-sheetform/pkg/orchestrator"
	"github.com/goliatone/go-sheetform/pkg/sheets"
)

const (
	pageTemplate = "templates/page.tmpl"
	maxFormBytes = 1 << 20
)

// Handler serves the forms over HTTP: a form index, one page per form with
// its worksheet table, and form posts that run a submission.
type Handler struct {
	orch       *orchestrator.Orchestrator
	engine     *Engine
	templateFS fs.FS
	policy     *bluemonday.Policy
	logger     *slog.Logger
	metrics    http.Handler
	title      string
	mux        *http.ServeMux
}

// New constructs the handler around an orchestrator.
func New(orch *orchestrator.Orchestrator, options ...Option) (*Handler, error) {
	if orch == nil {
		return nil, errors.New("web: orchestrator is required")
	}
	h := &Handler{
		orch:       orch,
		templateFS: TemplatesFS(),
		policy:     bluemonday.UGCPolicy(),
		title:      "Data Entry",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}

	engine, err := NewEngine(h.templateFS, ".tmpl")
	if err != nil {
		return nil, fmt.Errorf("web: configure templates: %w", err)
	}
	engine.Globals(pongo2.Context{"app_title": h.title})
	h.engine = engine

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /forms/{name}", h.show)
	mux.HandleFunc("POST /forms/{name}", h.submit)
	mux.HandleFunc("GET /healthz", h.healthz)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
	h.mux = mux
	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type formLink struct {
	Name  string
	Title string
	URL   string
}

type tableView struct {
	Columns []string
	Rows    [][]string
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	var links []formLink
	for _, def := range h.orch.Forms().Definitions() {
		links = append(links, formLink{
			Name:  def.Name,
			Title: def.DisplayTitle(),
			URL:   "/forms/" + url.PathEscape(def.Name),
		})
	}
	h.render(w, r, http.StatusOK, pongo2.Context{
		"page":  "index",
		"forms": links,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	surface := newRequestSurface(nil, h.policy)
	def, err := h.orch.Preview(r.Context(), name, surface)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, def, surface)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %v", ErrBadInput, err))
		return
	}

	surface := newRequestSurface(r.PostForm, h.policy)
	outcome, err := h.orch.Submit(r.Context(), name, surface)

	var persistErr *model.PersistenceError
	switch {
	case errors.As(err, &persistErr):
		surface.errors = append(surface.errors, "The row could not be saved. Please try again.")
		h.renderFormNamed(w, r, http.StatusInternalServerError, name, surface)
	case err != nil:
		h.fail(w, r, err)
	case outcome.State == form.StatePersisted:
		// start over with a blank form
		fresh := newRequestSurface(nil, h.policy)
		fresh.success = surface.success
		def, err := h.orch.Preview(r.Context(), name, fresh)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.renderForm(w, r, http.StatusOK, def, fresh)
	case outcome.State == form.StateInvalid:
		h.renderFormNamed(w, r, http.StatusUnprocessableEntity, name, surface)
	default:
		h.renderFormNamed(w, r, http.StatusOK, name, surface)
	}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (h *Handler) renderFormNamed(w http.ResponseWriter, r *http.Request, status int, name string, surface *requestSurface) {
	def, err := h.orch.Definition(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderForm(w, r, status, def, surface)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, def form.Definition, surface *requestSurface) {
	table, err := h.table(r.Context(), def.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, status, pongo2.Context{
		"page":        "form",
		"form_name":   def.Name,
		"form_title":  def.DisplayTitle(),
		"action":      "/forms/" + url.PathEscape(def.Name),
		"action_name": ActionField,
		"fields":      surface.fields,
		"errors":      surface.errors,
		"success":     surface.success,
		"worksheet":   def.Worksheet,
		"table":       table,
	})
}

func (h *Handler) table(ctx context.Context, name string) (tableView, error) {
	table, err := h.orch.Table(ctx, name)
	if err != nil {
		return tableView{}, err
	}
	return tableView{Columns: table.Columns, Rows: table.Rows}, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data pongo2.Context) {
	var buf bytes.Buffer
	if err := h.engine.Render(pageTemplate, data, &buf); err != nil {
		h.log(r, slog.LevelError, "render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, form.ErrFormNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrBadInput):
		status = http.StatusBadRequest
	case errors.Is(err, sheets.ErrWorksheetNotFound):
		status = http.StatusBadGateway
	}
	h.log(r, slog.LevelWarn, "request failed", "status", status, "error", err)
	msg := http.StatusText(status)
	if status == http.StatusBadRequest || status == http.StatusNotFound {
		msg = err.Error()
	}
	http.Error(w, msg, status)
}

func (h *Handler) log(r *http.Request, level slog.Level, msg string, args ...any) {
	if h.logger == nil {
		return
	}
	args = append(args, "method", r.Method, "path", r.URL.Path)
	h.logger.Log(r.Context(), level, msg, args...)
}
