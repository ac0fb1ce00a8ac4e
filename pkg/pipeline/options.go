package pipeline

import (
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-timeline/pkg/content"
	"github.com/goliatone/go-timeline/pkg/logger"
	"github.com/goliatone/go-timeline/pkg/metrics"
	"github.com/goliatone/go-timeline/pkg/render"
	"github.com/goliatone/go-timeline/pkg/render/template"
	"github.com/goliatone/go-timeline/pkg/schema"
)

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithLoader injects the loader used to fetch content documents.
func WithLoader(l content.Loader) Option {
	return func(p *Pipeline) {
		p.loader = l
	}
}

// WithBatch names the documents a pass fetches.
func WithBatch(b content.Batch) Option {
	return func(p *Pipeline) {
		p.batch = b
	}
}

// WithEngine injects the template engine.
func WithEngine(e template.Engine) Option {
	return func(p *Pipeline) {
		p.engine = e
	}
}

// WithManifest overrides the template manifest the engine warms up.
func WithManifest(m *template.Manifest) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.manifest = m
		}
	}
}

// WithSurfaceFactory supplies a fresh render surface per pass. Retry builds a
// new surface so a replay starts from a clean page.
func WithSurfaceFactory(f func() (render.Surface, error)) Option {
	return func(p *Pipeline) {
		if f != nil {
			p.surfaceFactory = f
		}
	}
}

// WithRegistry overrides the shape registry validation runs against.
func WithRegistry(r *schema.Registry) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithRetryPolicy tunes the per-document fetch budget. Attempts and baseDelay
// outside their valid range keep the defaults.
func WithRetryPolicy(attempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) {
		if attempts > 0 {
			p.fetchAttempts = attempts
		}
		if baseDelay > 0 {
			p.fetchBaseDelay = baseDelay
		}
	}
}

// WithReadyTimeout bounds the wait for template readiness.
func WithReadyTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.readyTimeout = d
		}
	}
}

// WithLogger routes pipeline diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithMetrics attaches a metrics manager. Nil is valid and records nothing.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithThemeSelector injects a go-theme selector used to resolve the
// configured theme before rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(p *Pipeline) {
		p.selector = selector
	}
}

// WithTheme names the theme and variant resolved per pass.
func WithTheme(name, variant string) Option {
	return func(p *Pipeline) {
		p.themeName = name
		p.themeVariant = variant
	}
}

// WithTransitionHook observes every state change.
func WithTransitionHook(hook TransitionHook) Option {
	return func(p *Pipeline) {
		p.hook = hook
	}
}

// WithSleep overrides the inter-retry wait. Tests use it to record the retry
// schedule without waiting it out.
func WithSleep(sleep content.SleepFunc) Option {
	return func(p *Pipeline) {
		p.sleep = sleep
	}
}
