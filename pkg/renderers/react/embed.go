package react

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded component template for consumers that
// want to start from the default layout.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
