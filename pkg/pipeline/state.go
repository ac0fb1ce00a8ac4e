package pipeline

import (
	"errors"
	"fmt"
)

// State identifies where a pipeline pass currently is. A pass moves strictly
// forward through the working states; failed is terminal until Retry.
type State string

const (
	StateIdle              State = "idle"
	StateLoading           State = "loading"
	StateValidating        State = "validating"
	StateAwaitingTemplates State = "awaiting-templates"
	StateRendering         State = "rendering"
	StateReady             State = "ready"
	StateFailed            State = "failed"
)

// Terminal reports whether the state ends a pass.
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed
}

// Category classifies a fatal pipeline failure for user-facing messaging.
type Category string

const (
	// CategoryMandatoryLoad covers exhaustion of the mandatory document's
	// retry budget.
	CategoryMandatoryLoad Category = "mandatory-load"

	// CategoryTemplateTimeout covers readiness timeouts and first-paint
	// compile failures.
	CategoryTemplateTimeout Category = "template-timeout"

	// CategoryOther covers everything else, including missing primary data at
	// render time.
	CategoryOther Category = "other"
)

// Message returns the user-facing text for the category.
func (c Category) Message() string {
	switch c {
	case CategoryMandatoryLoad:
		return "The timeline data could not be loaded. Check your connection and retry."
	case CategoryTemplateTimeout:
		return "Page templates did not finish preparing. Retry in a moment."
	default:
		return "Something went wrong while preparing the timeline. Retry in a moment."
	}
}

// Failure is the terminal error of a failed pass. It carries the category,
// the message chosen by category, and the underlying cause.
type Failure struct {
	Category Category
	Message  string
	Err      error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("pipeline: %s", f.Category)
	}
	return fmt.Sprintf("pipeline: %s: %v", f.Category, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// TransitionHook observes every state change. Hooks run outside the
// pipeline's lock, after the transition took effect.
type TransitionHook func(from, to State)

var (
	// ErrRunInProgress reports a Run or Retry while a pass is executing.
	ErrRunInProgress = errors.New("pipeline: run already in progress")

	// ErrNotFailed reports a Retry from any state but failed.
	ErrNotFailed = errors.New("pipeline: retry is only valid from the failed state")

	// ErrNoPrimaryData reports an assembled model with nothing to render.
	ErrNoPrimaryData = errors.New("pipeline: primary document carries no renderable data")
)
