package timeline

import (
	"io/fs"

	internalloader "github.com/goliatone/go-timeline/internal/loader"
	"github.com/goliatone/go-timeline/pkg/content"
)

// LoaderOption configures the built-in document loader.
type LoaderOption = internalloader.Option

// NewLoader constructs a loader that understands file, fs, and http sources
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...LoaderOption) content.Loader {
	return internalloader.New(options...)
}

// WithFS resolves fs-kind sources against the given filesystem.
func WithFS(files fs.FS) LoaderOption {
	return internalloader.WithFS(files)
}

// DirBatch describes the standard document set rooted at a directory.
func DirBatch(dir string) content.Batch {
	return content.DirBatch(dir)
}

// URLBatch describes the standard document set served under a base URL.
func URLBatch(base string) content.Batch {
	return content.URLBatch(base)
}
