package gotemplate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-timeline/pkg/render/template"
)

// Warmup compiles the manifest's templates in the background. The first call
// wins; later calls are no-ops. Readiness is signalled once every first-paint
// entry compiled, while the remaining entries keep compiling behind it.
func (e *Engine) Warmup(ctx context.Context, m *template.Manifest) {
	if e == nil || m == nil {
		return
	}
	e.warmOnce.Do(func() {
		go e.warm(ctx, m)
	})
}

// AwaitReady blocks until the first-paint set compiled or ctx expires. A
// compile failure on a first-paint template surfaces here; failures on the
// remaining templates surface per render call instead.
func (e *Engine) AwaitReady(ctx context.Context) error {
	if e == nil {
		return errors.New("gotemplate: engine is nil")
	}
	select {
	case <-e.ready:
		e.mu.RLock()
		defer e.mu.RUnlock()
		return e.warmErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) warm(ctx context.Context, m *template.Manifest) {
	var rest []template.Entry
	for _, entry := range m.Entries {
		if !entry.FirstPaint {
			rest = append(rest, entry)
			continue
		}
		if err := e.compileEntry(ctx, entry); err != nil {
			e.mu.Lock()
			if e.warmErr == nil {
				e.warmErr = err
			}
			e.mu.Unlock()
		}
	}
	close(e.ready)

	for _, entry := range rest {
		if ctx.Err() != nil {
			return
		}
		_ = e.compileEntry(ctx, entry)
	}
}

func (e *Engine) compileEntry(ctx context.Context, entry template.Entry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("gotemplate: warmup cancelled before %q: %w", entry.Name, err)
	}

	file := strings.TrimSpace(entry.File)
	if file == "" {
		file = entry.Name + e.tplExt
	}
	if _, err := e.getTemplate(file); err != nil {
		return err
	}

	e.mu.Lock()
	e.names[entry.Name] = file
	e.mu.Unlock()
	return nil
}
