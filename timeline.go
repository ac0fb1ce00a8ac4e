package timeline

import (
	"context"
	"errors"

	"github.com/goliatone/go-timeline/pkg/content"
	"github.com/goliatone/go-timeline/pkg/pipeline"
)

// Pipeline aliases the orchestrator so callers only need the root import.
type Pipeline = pipeline.Pipeline

// Option configures a Pipeline.
type Option = pipeline.Option

// Status is a point-in-time snapshot of a pipeline run.
type Status = pipeline.Status

// Failure carries the category and user-facing message of a failed pass.
type Failure = pipeline.Failure

// New constructs a pipeline with embedded templates, the built-in page
// surface, and the default schema registry. Options override any stage.
func New(options ...Option) (*Pipeline, error) {
	return pipeline.New(options...)
}

// WithLoader overrides the document loader used to fetch content.
func WithLoader(l content.Loader) Option {
	return pipeline.WithLoader(l)
}

// WithTheme selects a theme and variant by name ahead of rendering.
func WithTheme(name, variant string) Option {
	return pipeline.WithTheme(name, variant)
}

// BuildPage runs a single pass over the given content batch and returns the
// assembled page. It is the simplest entry point for callers that just want
// the HTML output.
func BuildPage(ctx context.Context, batch content.Batch, options ...Option) ([]byte, error) {
	opts := append([]Option{pipeline.WithBatch(batch)}, options...)
	pipe, err := pipeline.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := pipe.Run(ctx); err != nil {
		return nil, err
	}
	page, ok := pipe.Page()
	if !ok {
		return nil, errors.New("pipeline finished without an assembled page")
	}
	return page, nil
}
