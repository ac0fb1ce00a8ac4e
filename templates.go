package timeline

import (
	"io/fs"

	"github.com/goliatone/go-timeline/pkg/render"
	"github.com/goliatone/go-timeline/pkg/render/template"
)

// EmbeddedTemplates exposes the built-in section templates so callers can
// reuse or extend them without importing the render package directly.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}

// DefaultManifest returns the manifest describing the embedded templates and
// their first-paint subset.
func DefaultManifest() *template.Manifest {
	return template.Default()
}
