package sheetform

import (
	"io/fs"

	"github.com/goliatone/go-sheetform/pkg/renderers/web"
	"github.com/goliatone/go-sheetform/pkg/schema"
)

// EmbeddedTemplates exposes the built-in web page templates so callers can
// reuse or extend them without importing the web package directly.
func EmbeddedTemplates() fs.FS {
	return web.TemplatesFS()
}

// EmbeddedForms exposes the default forms file.
func EmbeddedForms() fs.FS {
	return schema.EmbeddedFS()
}
