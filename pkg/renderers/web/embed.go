package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded page templates so callers can copy and
// customise them.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
