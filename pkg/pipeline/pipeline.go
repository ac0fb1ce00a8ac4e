package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/google/uuid"

	"github.com/goliatone/go-timeline/internal/dom"
	internalloader "github.com/goliatone/go-timeline/internal/loader"
	"github.com/goliatone/go-timeline/internal/site"
	"github.com/goliatone/go-timeline/pkg/content"
	"github.com/goliatone/go-timeline/pkg/logger"
	"github.com/goliatone/go-timeline/pkg/metrics"
	"github.com/goliatone/go-timeline/pkg/model"
	"github.com/goliatone/go-timeline/pkg/render"
	"github.com/goliatone/go-timeline/pkg/render/template"
	"github.com/goliatone/go-timeline/pkg/render/template/gotemplate"
	"github.com/goliatone/go-timeline/pkg/schema"
	"github.com/goliatone/go-timeline/pkg/validate"
)

// DefaultReadyTimeout bounds the wait for first-paint templates.
const DefaultReadyTimeout = 10 * time.Second

// ThemeStyleTarget is the host-page element that receives the resolved CSS
// custom properties.
const ThemeStyleTarget = "theme-style"

// Status is a concurrency-safe snapshot of one pass.
type Status struct {
	State      State
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	// Failure is set once the pass reaches failed.
	Failure *Failure

	// Validation holds the advisory result per document key.
	Validation map[string]validate.Result

	// Documents lists the keys that loaded, sorted.
	Documents []string

	// Composites holds the per-area render outcomes of a finished pass.
	Composites render.CompositeResult
}

// Pipeline owns one load → validate → render sequence and its state machine.
// All collaborators arrive by injection; missing ones are filled with the
// built-in implementations.
type Pipeline struct {
	loader         content.Loader
	batch          content.Batch
	engine         template.Engine
	manifest       *template.Manifest
	surfaceFactory func() (render.Surface, error)
	registry       *schema.Registry
	validator      *validate.Validator
	fetchAttempts  int
	fetchBaseDelay time.Duration
	sleep          content.SleepFunc
	readyTimeout   time.Duration
	log            logger.Logger
	metrics        *metrics.Manager
	selector       theme.ThemeSelector
	themeName      string
	themeVariant   string
	hook           TransitionHook

	mu      sync.Mutex
	running bool
	state   State
	status  Status
	page    []byte
}

// New constructs a Pipeline. The batch is the only required input; every
// other collaborator defaults to the built-in implementation.
func New(options ...Option) (*Pipeline, error) {
	p := &Pipeline{
		state:          StateIdle,
		status:         Status{State: StateIdle},
		fetchAttempts:  content.DefaultAttempts,
		fetchBaseDelay: content.DefaultBaseDelay,
		readyTimeout:   DefaultReadyTimeout,
		log:            logger.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if err := p.applyDefaults(); err != nil {
		return nil, err
	}
	if err := p.batch.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return p, nil
}

func (p *Pipeline) applyDefaults() error {
	if p.manifest == nil {
		p.manifest = template.Default()
	}
	if p.engine == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(render.TemplatesFS()))
		if err != nil {
			return fmt.Errorf("pipeline: build default engine: %w", err)
		}
		p.engine = engine
	}
	if p.loader == nil {
		p.loader = internalloader.New()
	}
	if p.registry == nil {
		p.registry = schema.Default()
	}
	p.validator = validate.New(p.registry)
	if p.surfaceFactory == nil {
		p.surfaceFactory = func() (render.Surface, error) {
			return dom.NewPage(site.Page())
		}
	}
	if p.selector == nil {
		selector, err := render.NewManifestSelector(render.DefaultTheme())
		if err != nil {
			return fmt.Errorf("pipeline: build default theme selector: %w", err)
		}
		p.selector = selector
	}
	return nil
}

// Run executes one pass. A second concurrent Run returns ErrRunInProgress.
// The returned error, when non-nil, is a *Failure carrying the category and
// the user-facing message.
func (p *Pipeline) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("pipeline: context is required")
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrRunInProgress
	}
	p.running = true
	p.status = Status{
		State:      p.state,
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		Validation: make(map[string]validate.Result),
	}
	p.page = nil
	p.mu.Unlock()

	err := p.run(ctx)

	p.mu.Lock()
	p.running = false
	p.status.FinishedAt = time.Now()
	p.mu.Unlock()
	return err
}

// Retry replays the whole sequence from scratch. Valid only from failed.
func (p *Pipeline) Retry(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrRunInProgress
	}
	if p.state != StateFailed {
		p.mu.Unlock()
		return ErrNotFailed
	}
	p.mu.Unlock()
	return p.Run(ctx)
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Status returns a snapshot of the current pass.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := p.status
	if p.status.Validation != nil {
		snap.Validation = make(map[string]validate.Result, len(p.status.Validation))
		for k, v := range p.status.Validation {
			snap.Validation[k] = v
		}
	}
	snap.Documents = append([]string(nil), p.status.Documents...)
	if p.status.Failure != nil {
		failure := *p.status.Failure
		snap.Failure = &failure
	}
	return snap
}

// Page returns the assembled page of the last ready pass, when the surface
// can serialize one.
func (p *Pipeline) Page() ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.page == nil {
		return nil, false
	}
	return append([]byte(nil), p.page...), true
}

func (p *Pipeline) run(ctx context.Context) error {
	// Template compilation overlaps the load stage; readiness is checked
	// after validation.
	p.engine.Warmup(ctx, p.manifest)

	p.transition(ctx, StateLoading)
	start := time.Now()
	mandatory, err := content.Fetch(ctx, p.loader, p.batch.Mandatory, p.fetchOptions(p.batch.Mandatory.Key))
	p.metrics.RecordStageDuration(string(StateLoading), time.Since(start))
	if err != nil {
		p.metrics.RecordFetchOutcome(p.batch.Mandatory.Key, "failed")
		return p.fail(ctx, CategoryMandatoryLoad, err)
	}
	p.metrics.RecordFetchOutcome(mandatory.Key(), "loaded")

	p.transition(ctx, StateValidating)
	start = time.Now()
	col := content.NewCollection(p.batch.Mandatory.Key)
	if err := col.Add(mandatory); err != nil {
		return p.fail(ctx, CategoryOther, err)
	}
	p.validateDocument(ctx, mandatory)

	for _, ref := range p.batch.Optional {
		doc, err := content.Fetch(ctx, p.loader, ref, p.fetchOptions(ref.Key))
		if err != nil {
			if ctx.Err() != nil {
				return p.fail(ctx, CategoryOther, ctx.Err())
			}
			p.metrics.RecordFetchOutcome(ref.Key, "degraded")
			p.log.Warn(ctx, "optional document unavailable, section degrades",
				logger.String("key", ref.Key),
				logger.Error(err))
			continue
		}
		p.metrics.RecordFetchOutcome(doc.Key(), "loaded")
		if err := col.Add(doc); err != nil {
			return p.fail(ctx, CategoryOther, err)
		}
		p.validateDocument(ctx, doc)
	}
	p.metrics.RecordStageDuration(string(StateValidating), time.Since(start))

	p.transition(ctx, StateAwaitingTemplates)
	start = time.Now()
	readyCtx, cancel := context.WithTimeout(ctx, p.readyTimeout)
	err = p.engine.AwaitReady(readyCtx)
	cancel()
	p.metrics.RecordStageDuration(string(StateAwaitingTemplates), time.Since(start))
	if err != nil {
		return p.fail(ctx, CategoryTemplateTimeout, err)
	}

	p.transition(ctx, StateRendering)
	start = time.Now()
	data, err := model.Assemble(col)
	if err != nil {
		return p.fail(ctx, CategoryOther, err)
	}
	if !hasPrimaryData(data) {
		return p.fail(ctx, CategoryOther, ErrNoPrimaryData)
	}

	themeCfg := p.resolveTheme(ctx)
	surface, err := p.surfaceFactory()
	if err != nil {
		return p.fail(ctx, CategoryOther, fmt.Errorf("pipeline: build surface: %w", err))
	}
	renderer, err := render.New(p.engine, surface, render.WithLogger(p.log), render.WithTheme(themeCfg))
	if err != nil {
		return p.fail(ctx, CategoryOther, err)
	}

	if css := render.ThemeStyle(themeCfg); css != "" {
		if err := surface.Write(ThemeStyleTarget, []byte(css)); err != nil {
			p.log.Debug(ctx, "theme style target unavailable", logger.Error(err))
		}
	}

	results := renderer.RenderAll(ctx, data)
	p.metrics.RecordStageDuration(string(StateRendering), time.Since(start))
	p.recordComposites(results)

	p.mu.Lock()
	p.status.Composites = results
	p.status.Documents = col.Keys()
	p.mu.Unlock()

	if pager, ok := surface.(interface{ Bytes() ([]byte, error) }); ok {
		bytes, err := pager.Bytes()
		if err != nil {
			p.log.Warn(ctx, "page serialization failed", logger.Error(err))
		} else {
			p.mu.Lock()
			p.page = bytes
			p.mu.Unlock()
		}
	}

	if !results.OK() {
		p.log.Warn(ctx, "pass finished with degraded slots",
			logger.Any("composites", results))
	}
	p.metrics.RecordRun(string(StateReady))
	p.transition(ctx, StateReady)
	return nil
}

func (p *Pipeline) fail(ctx context.Context, category Category, cause error) error {
	failure := &Failure{Category: category, Message: category.Message(), Err: cause}

	p.mu.Lock()
	p.status.Failure = failure
	p.mu.Unlock()

	p.metrics.RecordRun(string(StateFailed))
	p.log.Error(ctx, "pipeline pass failed",
		logger.String("category", string(category)),
		logger.Error(cause))
	p.transition(ctx, StateFailed)
	return failure
}

func (p *Pipeline) transition(ctx context.Context, to State) {
	p.mu.Lock()
	from := p.state
	p.state = to
	p.status.State = to
	hook := p.hook
	p.mu.Unlock()

	p.log.Debug(ctx, "state transition",
		logger.String("from", string(from)),
		logger.String("to", string(to)))
	if hook != nil {
		hook(from, to)
	}
}

// validateDocument records the advisory result. Errors are logged and kept
// in the status snapshot; the document is used downstream regardless.
func (p *Pipeline) validateDocument(ctx context.Context, doc content.Document) {
	result := p.validator.Validate(doc.Data(), schema.DocumentKind(doc.Key()))

	p.mu.Lock()
	p.status.Validation[doc.Key()] = result
	p.mu.Unlock()

	if !result.Success {
		p.log.Warn(ctx, "document failed structural validation, using it anyway",
			logger.String("key", doc.Key()),
			logger.Int("errors", len(result.Errors)),
			logger.Any("details", result.Errors))
	}
	for _, note := range result.Notes {
		p.log.Debug(ctx, "validation note",
			logger.String("key", doc.Key()),
			logger.String("note", note))
	}
}

func (p *Pipeline) fetchOptions(key string) content.FetchOptions {
	inner := p.sleep
	if inner == nil {
		inner = contextSleep
	}
	return content.FetchOptions{
		Attempts:  p.fetchAttempts,
		BaseDelay: p.fetchBaseDelay,
		Logger:    p.log,
		Sleep: func(ctx context.Context, d time.Duration) error {
			p.metrics.RecordFetchRetry(key)
			return inner(ctx, d)
		},
	}
}

func (p *Pipeline) resolveTheme(ctx context.Context) *render.ThemeConfig {
	if p.selector == nil {
		return render.ResolveTheme(nil, nil)
	}
	selection, err := p.selector.Select(p.themeName, p.themeVariant)
	if err != nil {
		p.log.Warn(ctx, "theme selection failed, falling back to defaults",
			logger.String("theme", p.themeName),
			logger.String("variant", p.themeVariant),
			logger.Error(err))
		return render.ResolveTheme(nil, nil)
	}
	return render.ResolveTheme(selection, nil)
}

func (p *Pipeline) recordComposites(results render.CompositeResult) {
	p.metrics.RecordRenderOutcome("hero", results.Hero)
	p.metrics.RecordRenderOutcome("foundation", results.Foundation)
	p.metrics.RecordRenderOutcome("mobile", results.Mobile)
	p.metrics.RecordRenderOutcome("fintech", results.Fintech)
	p.metrics.RecordRenderOutcome("sidebar", results.Sidebar)
}

// hasPrimaryData reports whether the mandatory document produced anything to
// render. An empty model at this point is a fatal precondition failure, not
// a degraded pass.
func hasPrimaryData(data *model.TimelineData) bool {
	if data == nil {
		return false
	}
	return len(data.HeroStats) > 0 ||
		len(data.Foundation.Events) > 0 ||
		len(data.Mobile.Events) > 0 ||
		len(data.Fintech.Events) > 0
}

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
