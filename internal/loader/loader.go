// Package loader implements the content.Loader contract by delegating to
// file, fs.FS, or HTTP strategies based on the source kind.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-timeline/pkg/content"
)

// DefaultRequestTimeout bounds a single HTTP fetch; the retry budget lives a
// layer up in content.Fetch.
const DefaultRequestTimeout = 10 * time.Second

// Loader resolves sources to raw document bytes.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

var _ content.Loader = (*Loader)(nil)

// Option configures the Loader.
type Option func(*Loader)

// WithFS supplies the filesystem used for SourceKindFS locations.
func WithFS(files fs.FS) Option {
	return func(l *Loader) { l.fs = files }
}

// WithHTTPClient overrides the HTTP client used for SourceKindURL locations.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			clone := *client
			l.http = &clone
		}
	}
}

// WithRequestTimeout bounds each individual HTTP request.
func WithRequestTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{timeout: DefaultRequestTimeout}
	for _, opt := range opts {
		opt(l)
	}
	if l.http == nil {
		l.http = &http.Client{Timeout: l.timeout}
	} else if l.http.Timeout == 0 {
		l.http.Timeout = l.timeout
	}
	return l
}

// Load fetches the raw bytes for the provided source.
func (l *Loader) Load(ctx context.Context, src content.Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("loader: source is nil")
	}

	switch src.Kind() {
	case content.SourceKindFile:
		return loadFile(ctx, src.Location())
	case content.SourceKindFS:
		return loadFromFS(ctx, l.fs, src.Location())
	case content.SourceKindURL:
		return loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		return nil, errors.New("loader: unsupported source kind")
	}
}
