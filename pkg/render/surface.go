package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNoTarget reports a write against a target the surface cannot resolve.
// Renderers treat it as a skipped slot rather than a degraded one: no
// placeholder is written because there is nowhere to put it.
var ErrNoTarget = errors.New("render: target not found")

// Surface receives rendered fragments addressed by target id.
type Surface interface {
	Write(target string, html []byte) error
}

// MemorySurface stores fragments in memory. With declared targets it rejects
// writes anywhere else; without any it accepts every target. Useful in tests
// and for headless output.
type MemorySurface struct {
	mu       sync.RWMutex
	declared map[string]struct{}
	written  map[string][]byte
}

// NewMemorySurface builds a surface restricted to the given targets. Pass
// none to accept writes anywhere.
func NewMemorySurface(targets ...string) *MemorySurface {
	s := &MemorySurface{written: make(map[string][]byte)}
	if len(targets) > 0 {
		s.declared = make(map[string]struct{}, len(targets))
		for _, t := range targets {
			s.declared[t] = struct{}{}
		}
	}
	return s
}

// Write stores html under target, replacing any previous fragment.
func (s *MemorySurface) Write(target string, html []byte) error {
	if target == "" {
		return fmt.Errorf("%w: empty target", ErrNoTarget)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.declared != nil {
		if _, ok := s.declared[target]; !ok {
			return fmt.Errorf("%w: %q", ErrNoTarget, target)
		}
	}
	buf := make([]byte, len(html))
	copy(buf, html)
	s.written[target] = buf
	return nil
}

// HTML returns the fragment most recently written to target.
func (s *MemorySurface) HTML(target string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	buf, ok := s.written[target]
	return string(buf), ok
}

// Targets returns the ids written so far, sorted.
func (s *MemorySurface) Targets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.written))
	for t := range s.written {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
