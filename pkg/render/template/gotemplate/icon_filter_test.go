package gotemplate

import (
	"strings"
	"testing"
)

func TestSanitizeIconMarkupRemovesScripts(t *testing.T) {
	input := `  <svg viewBox="0 0 24 24"><script>alert('x')</script><path d="M0 0h24v24H0z" /></svg>`
	got := sanitizeIconMarkup(input)
	if got == "" {
		t.Fatalf("expected sanitized markup, got empty string")
	}
	if strings.Contains(got, "script") {
		t.Fatalf("expected script tag to be removed, got %q", got)
	}
	if !strings.Contains(got, "<svg") || !strings.Contains(got, "<path") {
		t.Fatalf("expected svg/path elements to remain, got %q", got)
	}
}

func TestSanitizeIconMarkupEmptyInput(t *testing.T) {
	if got := sanitizeIconMarkup("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := sanitizeIconMarkup("<script>alert('x')</script>"); got != "" {
		t.Fatalf("expected fully rejected markup to collapse to empty, got %q", got)
	}
}
