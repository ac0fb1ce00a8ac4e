package template

import (
	"context"
	"io"
)

// Engine mirrors the contract template backends provide to renderers.
//
// Warmup starts background compilation of a manifest's templates; AwaitReady
// blocks until every first-paint entry compiled or the context expires.
// Render and RenderString stay safe to call concurrently once construction
// finished.
type Engine interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
	Has(name string) bool
	Warmup(ctx context.Context, m *Manifest)
	AwaitReady(ctx context.Context) error
}
