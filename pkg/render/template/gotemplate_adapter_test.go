package template_test

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-timeline/pkg/render/template"
	"github.com/goliatone/go-timeline/pkg/render/template/gotemplate"
	"github.com/goliatone/go-timeline/pkg/testsupport"
)

//go:embed testdata/templates/*.html
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_WarmupSignalsReadiness(t *testing.T) {
	files := fstest.MapFS{
		"hero_stats.html": {Data: []byte("<section>{{ cards|length }} cards</section>")},
		"policies.html":   {Data: []byte("<ul>{% for p in policies %}<li>{{ p.title }}</li>{% endfor %}</ul>")},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	manifest := &template.Manifest{Entries: []template.Entry{
		{Name: "heroStats", File: "hero_stats.html", FirstPaint: true},
		{Name: "policies", File: "policies.html"},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	engine.Warmup(ctx, manifest)
	if err := engine.AwaitReady(ctx); err != nil {
		t.Fatalf("await ready: %v", err)
	}

	if !engine.Has("heroStats") {
		t.Fatal("first-paint template must be compiled once the engine reports ready")
	}

	out, err := engine.RenderTemplate("heroStats", map[string]any{"cards": []any{1, 2, 3}})
	if err != nil {
		t.Fatalf("render by manifest name: %v", err)
	}
	if out != "<section>3 cards</section>" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGoTemplateEngine_AwaitReadySurfacesCompileFailure(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	manifest := &template.Manifest{Entries: []template.Entry{
		{Name: "heroStats", File: "missing.html", FirstPaint: true},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	engine.Warmup(ctx, manifest)
	err = engine.AwaitReady(ctx)
	if err == nil {
		t.Fatal("expected a compile failure for the missing first-paint template")
	}
	if !strings.Contains(err.Error(), "missing.html") {
		t.Fatalf("error should name the template file, got %v", err)
	}
}

func TestGoTemplateEngine_AwaitReadyHonoursContext(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := engine.AwaitReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error while warmup never ran, got %v", err)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
