package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-timeline/pkg/logger"
	"github.com/goliatone/go-timeline/pkg/validate"
)

// Retry defaults. Failed attempts wait baseDelay×attemptNumber before the
// next try, so the schedule is linear and monotonically non-decreasing.
const (
	DefaultAttempts  = 3
	DefaultBaseDelay = time.Second
)

// Loader retrieves the raw bytes for a source. Implementations live in
// internal/loader; anything satisfying the interface can be injected.
type Loader interface {
	Load(ctx context.Context, src Source) ([]byte, error)
}

// SleepFunc waits for d or until ctx is done. Injectable so tests can record
// the retry schedule without waiting it out.
type SleepFunc func(ctx context.Context, d time.Duration) error

// FetchOptions tune the fetch+parse retry loop.
type FetchOptions struct {
	Attempts  int
	BaseDelay time.Duration
	Parse     func([]byte) (map[string]any, error)
	Logger    logger.Logger
	Sleep     SleepFunc
}

func (o FetchOptions) withDefaults() FetchOptions {
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	if o.Parse == nil {
		o.Parse = validate.ParseObject
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	return o
}

// LoadError reports that every fetch attempt for one document failed.
type LoadError struct {
	Key      string
	Attempts int
	Last     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("content: document %q unavailable after %d attempts: %v", e.Key, e.Attempts, e.Last)
}

func (e *LoadError) Unwrap() error {
	return e.Last
}

// Fetch runs the retry loop for one ref: up to Attempts fetch+parse cycles,
// waiting BaseDelay×n after failed attempt n. A body that fails the JSON
// syntax check is treated identically to a transport failure. Exhaustion
// returns a *LoadError naming the key and wrapping the last failure.
func Fetch(ctx context.Context, l Loader, ref Ref, opts FetchOptions) (Document, error) {
	if l == nil {
		return Document{}, errors.New("content: loader is required")
	}
	if err := ref.Validate(); err != nil {
		return Document{}, err
	}
	opts = opts.withDefaults()

	var last error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		raw, err := l.Load(ctx, ref.Source)
		if err == nil {
			data, perr := opts.Parse(raw)
			if perr == nil {
				return NewDocument(ref.Key, ref.Source, raw, data)
			}
			err = perr
		}

		last = err
		opts.Logger.Warn(ctx, "document fetch failed",
			logger.String("key", ref.Key),
			logger.Int("attempt", attempt),
			logger.Int("budget", opts.Attempts),
			logger.Error(err),
		)

		if attempt == opts.Attempts {
			break
		}
		if serr := opts.Sleep(ctx, opts.BaseDelay*time.Duration(attempt)); serr != nil {
			return Document{}, &LoadError{Key: ref.Key, Attempts: attempt, Last: serr}
		}
	}

	return Document{}, &LoadError{Key: ref.Key, Attempts: opts.Attempts, Last: last}
}

// Observe is invoked for each document as soon as it loads, before later
// fetches begin. The pipeline uses it to validate the mandatory document
// ahead of the optional fetches.
type Observe func(Document)

// FetchAll loads the batch: the mandatory document first (its exhaustion
// aborts with the *LoadError), then each optional ref in order. Optional
// exhaustion logs and omits the key; the returned collection simply has fewer
// entries. Context cancellation aborts the remaining fetches.
func FetchAll(ctx context.Context, l Loader, batch Batch, opts FetchOptions, observe Observe) (*Collection, error) {
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	mandatory, err := Fetch(ctx, l, batch.Mandatory, opts)
	if err != nil {
		return nil, err
	}

	col := NewCollection(batch.Mandatory.Key)
	if err := col.Add(mandatory); err != nil {
		return nil, err
	}
	if observe != nil {
		observe(mandatory)
	}

	for _, ref := range batch.Optional {
		doc, err := Fetch(ctx, l, ref, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			opts.Logger.Warn(ctx, "optional document unavailable, section degrades",
				logger.String("key", ref.Key),
				logger.Error(err),
			)
			continue
		}
		if err := col.Add(doc); err != nil {
			return nil, err
		}
		if observe != nil {
			observe(doc)
		}
	}

	return col, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
