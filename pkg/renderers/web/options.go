package web

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/microcosm-cc/bluemonday"
)

// Option configures the HTTP handler.
type Option func(*Handler)

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(h *Handler) {
		if files != nil {
			h.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(h *Handler) {
		if path != "" {
			h.templateFS = os.DirFS(path)
		}
	}
}

// WithTitle sets the application title shown on every page.
func WithTitle(title string) Option {
	return func(h *Handler) {
		if title != "" {
			h.title = title
		}
	}
}

// WithLogger configures request logging. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetricsHandler mounts handler at GET /metrics.
func WithMetricsHandler(handler http.Handler) Option {
	return func(h *Handler) {
		h.metrics = handler
	}
}

// WithHelpPolicy overrides the sanitiser applied to field help text.
func WithHelpPolicy(policy *bluemonday.Policy) Option {
	return func(h *Handler) {
		if policy != nil {
			h.policy = policy
		}
	}
}
