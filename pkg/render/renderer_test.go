package render_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-timeline/pkg/render"
	"github.com/goliatone/go-timeline/pkg/render/template"
	"github.com/goliatone/go-timeline/pkg/render/template/gotemplate"
)

type fakeEngine struct {
	failFor map[string]error
	calls   []string
}

func (f *fakeEngine) Render(name string, _ any, _ ...io.Writer) (string, error) {
	f.calls = append(f.calls, name)
	if err, ok := f.failFor[name]; ok {
		return "", err
	}
	return `<div class="fragment">` + name + `</div>`, nil
}

func (f *fakeEngine) RenderString(content string, _ any, _ ...io.Writer) (string, error) {
	return content, nil
}

func (f *fakeEngine) RegisterFilter(string, func(any, any) (any, error)) error { return nil }
func (f *fakeEngine) GlobalContext(any) error                                 { return nil }
func (f *fakeEngine) Has(string) bool                                         { return true }
func (f *fakeEngine) Warmup(context.Context, *template.Manifest)              {}
func (f *fakeEngine) AwaitReady(context.Context) error                        { return nil }

func readyEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(gotemplate.WithFS(render.TemplatesFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	engine.Warmup(ctx, template.Default())
	if err := engine.AwaitReady(ctx); err != nil {
		t.Fatalf("await ready: %v", err)
	}
	return engine
}

func TestRendererWritesFragment(t *testing.T) {
	surface := render.NewMemorySurface(render.Targets()...)
	r, err := render.New(readyEngine(t), surface)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cards := []map[string]any{
		{"icon": `<svg viewBox="0 0 24 24"><path d="M0 0h24"/></svg>`, "title": "Internet Users", "value": "116M", "description": "Active subscriptions"},
		{"icon": `<svg viewBox="0 0 24 24"><circle cx="12" cy="12" r="9"/></svg>`, "title": "Penetration", "value": "54%", "description": "Of population"},
		{"icon": `<svg viewBox="0 0 24 24"><rect x="2" y="2" width="20" height="20"/></svg>`, "title": "Mobile", "value": "194M", "description": "Cellular accounts"},
	}

	ok := r.Render(context.Background(), "heroStats", map[string]any{"cards": cards}, render.TargetHeroStats)
	if !ok {
		t.Fatal("expected render to succeed")
	}

	html, found := surface.HTML(render.TargetHeroStats)
	if !found {
		t.Fatal("expected fragment written to hero-stats")
	}
	if got := strings.Count(html, `<article class="stat-card">`); got != 3 {
		t.Fatalf("expected 3 stat cards, got %d in %q", got, html)
	}
	if !strings.Contains(html, "<svg") {
		t.Fatal("expected sanitized icon markup to survive")
	}
	if strings.Contains(html, "render-error") {
		t.Fatal("unexpected placeholder in successful render")
	}
}

func TestRenderFailureDegradesToPlaceholder(t *testing.T) {
	engine := &fakeEngine{failFor: map[string]error{
		"statistics": errors.New("boom in statistics"),
	}}
	surface := render.NewMemorySurface()
	r, err := render.New(engine, surface)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	ok := r.Render(context.Background(), "statistics", map[string]any{"rows": []any{}}, "foundation-stats")
	if ok {
		t.Fatal("expected render to report failure")
	}

	html, found := surface.HTML("foundation-stats")
	if !found {
		t.Fatal("expected a placeholder written into the target")
	}
	for _, want := range []string{`class="render-error"`, `data-template="statistics"`, "boom in statistics"} {
		if !strings.Contains(html, want) {
			t.Fatalf("placeholder missing %q: %s", want, html)
		}
	}
}

func TestRenderUnresolvableTargetWritesNothing(t *testing.T) {
	engine := &fakeEngine{}
	surface := render.NewMemorySurface("hero-stats")
	r, err := render.New(engine, surface)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	ok := r.Render(context.Background(), "heroStats", map[string]any{"cards": []any{}}, "no-such-slot")
	if ok {
		t.Fatal("expected failure for an unresolvable target")
	}
	if got := surface.Targets(); len(got) != 0 {
		t.Fatalf("expected no writes at all, got %v", got)
	}
}

func TestRenderNilDataFailsClosed(t *testing.T) {
	engine := &fakeEngine{}
	surface := render.NewMemorySurface()
	r, err := render.New(engine, surface)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	if r.Render(context.Background(), "heroStats", nil, "hero-stats") {
		t.Fatal("expected nil data to fail closed")
	}
	if len(engine.calls) != 0 {
		t.Fatalf("engine must not run without data, got calls %v", engine.calls)
	}
	html, found := surface.HTML("hero-stats")
	if !found || !strings.Contains(html, "render-error") {
		t.Fatalf("expected placeholder for nil data, got %q (found=%v)", html, found)
	}
}

func TestRendererThemeOverridesTemplateSource(t *testing.T) {
	engine := &fakeEngine{}
	surface := render.NewMemorySurface()
	cfg := &render.ThemeConfig{Partials: map[string]string{"heroStats": "custom/hero.html"}}
	r, err := render.New(engine, surface, render.WithTheme(cfg))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	if !r.Render(context.Background(), "heroStats", map[string]any{"cards": []any{}}, "hero-stats") {
		t.Fatal("expected render to succeed")
	}
	if len(engine.calls) != 1 || engine.calls[0] != "custom/hero.html" {
		t.Fatalf("expected engine called with theme override, got %v", engine.calls)
	}
}

func TestNewRendererValidation(t *testing.T) {
	if _, err := render.New(nil, render.NewMemorySurface()); err == nil {
		t.Fatal("expected error for nil engine")
	}
	if _, err := render.New(&fakeEngine{}, nil); err == nil {
		t.Fatal("expected error for nil surface")
	}
}
