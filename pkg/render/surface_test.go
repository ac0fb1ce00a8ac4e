package render

import (
	"errors"
	"testing"
)

func TestMemorySurfaceDeclaredTargets(t *testing.T) {
	s := NewMemorySurface("hero-stats", "digital-divide")

	if err := s.Write("hero-stats", []byte("<b>hi</b>")); err != nil {
		t.Fatalf("write declared: %v", err)
	}
	if err := s.Write("nope", []byte("x")); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
	if err := s.Write("", []byte("x")); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget for empty target, got %v", err)
	}

	html, ok := s.HTML("hero-stats")
	if !ok || html != "<b>hi</b>" {
		t.Fatalf("unexpected stored fragment %q (ok=%v)", html, ok)
	}
}

func TestMemorySurfaceOpenAcceptsEverything(t *testing.T) {
	s := NewMemorySurface()
	if err := s.Write("anything", []byte("x")); err != nil {
		t.Fatalf("open surface write: %v", err)
	}
	if got := s.Targets(); len(got) != 1 || got[0] != "anything" {
		t.Fatalf("unexpected targets %v", got)
	}
}

func TestMemorySurfaceCopiesFragment(t *testing.T) {
	s := NewMemorySurface()
	buf := []byte("abc")
	if err := s.Write("t", buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf[0] = 'z'

	html, _ := s.HTML("t")
	if html != "abc" {
		t.Fatalf("surface must copy fragments, got %q", html)
	}
}
