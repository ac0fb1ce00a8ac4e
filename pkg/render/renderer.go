// Package render executes templates against assembled timeline data and
// writes the fragments into a surface, one target per slot.
//
// A failed render never propagates: the slot degrades to an inline
// placeholder naming the template and the error, and the call reports false.
// Composite operations AND their slot outcomes without short-circuiting, so
// one broken slot never blocks its siblings.
package render

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/goliatone/go-timeline/pkg/logger"
	"github.com/goliatone/go-timeline/pkg/render/template"
)

// Renderer drives a template engine against a surface.
type Renderer struct {
	engine  template.Engine
	surface Surface
	log     logger.Logger
	theme   *ThemeConfig
}

// Option adjusts renderer construction.
type Option func(*Renderer)

// WithLogger routes renderer diagnostics. Defaults to a no-op logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithTheme attaches a resolved theme so templates and style output can use
// its partials, tokens, and asset URLs.
func WithTheme(cfg *ThemeConfig) Option {
	return func(r *Renderer) {
		r.theme = cfg
	}
}

// New constructs a Renderer over engine and surface.
func New(engine template.Engine, surface Surface, opts ...Option) (*Renderer, error) {
	if engine == nil {
		return nil, errors.New("render: template engine is required")
	}
	if surface == nil {
		return nil, errors.New("render: surface is required")
	}

	r := &Renderer{
		engine:  engine,
		surface: surface,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Theme returns the attached theme config, which may be nil.
func (r *Renderer) Theme() *ThemeConfig {
	return r.theme
}

// Render executes templateName against data and writes the fragment into
// target, reporting success. Failures degrade in place: the target receives
// an inline placeholder and the call returns false. A target the surface
// cannot resolve is logged and skipped without a placeholder.
func (r *Renderer) Render(ctx context.Context, templateName string, data any, target string) bool {
	if data == nil {
		r.degrade(ctx, templateName, target, errors.New("render: no data for template"))
		return false
	}

	name := r.resolveTemplate(templateName)
	out, err := r.engine.Render(name, data)
	if err != nil {
		r.degrade(ctx, templateName, target, err)
		return false
	}

	if err := r.surface.Write(target, []byte(out)); err != nil {
		if errors.Is(err, ErrNoTarget) {
			r.log.Warn(ctx, "render target missing from surface",
				logger.String("template", templateName),
				logger.String("target", target))
			return false
		}
		r.log.Error(ctx, "surface write failed",
			logger.String("template", templateName),
			logger.String("target", target),
			logger.Error(err))
		return false
	}
	return true
}

// resolveTemplate lets a theme swap a template source per name.
func (r *Renderer) resolveTemplate(name string) string {
	if r.theme == nil {
		return name
	}
	if override, ok := r.theme.Partials[name]; ok && override != "" {
		return override
	}
	return name
}

func (r *Renderer) degrade(ctx context.Context, templateName, target string, cause error) {
	r.log.Error(ctx, "render failed, slot degrades to placeholder",
		logger.String("template", templateName),
		logger.String("target", target),
		logger.Error(cause))

	if err := r.surface.Write(target, Placeholder(templateName, cause)); err != nil {
		r.log.Warn(ctx, "placeholder write skipped",
			logger.String("target", target),
			logger.Error(err))
	}
}

// Placeholder is the inline fragment a degraded slot receives. It names the
// failing template and the error so the page itself carries the diagnostic.
func Placeholder(templateName string, cause error) []byte {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	name := html.EscapeString(templateName)
	return []byte(fmt.Sprintf(
		`<div class="render-error" data-template="%s"><strong>%s</strong> failed: %s</div>`,
		name, name, html.EscapeString(msg)))
}
