package template

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry binds a template name to its source file. First-paint entries gate
// engine readiness.
type Entry struct {
	Name       string `json:"name" yaml:"name"`
	File       string `json:"file" yaml:"file"`
	FirstPaint bool   `json:"firstPaint" yaml:"firstPaint"`
}

// Manifest lists every template the renderer may dispatch to, in compile
// order.
type Manifest struct {
	Entries []Entry `json:"templates" yaml:"templates"`
}

// Default returns the manifest for the built-in template set.
func Default() *Manifest {
	return &Manifest{Entries: []Entry{
		{Name: "heroStats", File: "hero_stats.html", FirstPaint: true},
		{Name: "historicalEvents", File: "historical_events.html", FirstPaint: true},
		{Name: "statistics", File: "statistics.html", FirstPaint: true},
		{Name: "companies", File: "companies.html", FirstPaint: true},
		{Name: "socialMedia", File: "social_media.html", FirstPaint: true},
		{Name: "policies", File: "policies.html"},
		{Name: "infrastructure", File: "infrastructure.html"},
	}}
}

// Parse reads a manifest from JSON or YAML bytes. The source name only feeds
// error messages.
func Parse(data []byte, source string) (*Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("template: manifest %s is empty", source)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err == nil {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		return &m, nil
	}
	if err := yaml.Unmarshal(data, &m); err == nil {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		return &m, nil
	}
	return nil, fmt.Errorf("template: parse manifest %s: invalid JSON or YAML", source)
}

// LoadFS reads and parses a manifest file from fsys.
func LoadFS(fsys fs.FS, path string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("template: read manifest %s: %w", path, err)
	}
	return Parse(data, path)
}

// Validate checks that every entry carries a name and a file and that names
// stay unique.
func (m *Manifest) Validate() error {
	if m == nil || len(m.Entries) == 0 {
		return fmt.Errorf("template: manifest lists no templates")
	}

	seen := make(map[string]struct{}, len(m.Entries))
	for i, entry := range m.Entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return fmt.Errorf("template: manifest entry %d has no name", i)
		}
		if strings.TrimSpace(entry.File) == "" {
			return fmt.Errorf("template: manifest entry %q has no file", name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("template: manifest lists %q twice", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Entry returns the manifest entry for name.
func (m *Manifest) Entry(name string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	for _, entry := range m.Entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return Entry{}, false
}

// Has reports whether the manifest lists name.
func (m *Manifest) Has(name string) bool {
	_, ok := m.Entry(name)
	return ok
}

// Names returns every template name in manifest order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.Entries))
	for _, entry := range m.Entries {
		out = append(out, entry.Name)
	}
	return out
}

// FirstPaint returns the names gating readiness, in manifest order.
func (m *Manifest) FirstPaint() []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, entry := range m.Entries {
		if entry.FirstPaint {
			out = append(out, entry.Name)
		}
	}
	return out
}
