package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-timeline/pkg/render/template"
)

// ThemeConfig carries a fully resolved theme for one render pass: merged
// tokens, the CSS custom properties derived from them, template overrides
// keyed by manifest name, and an asset URL resolver.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Tokens   map[string]string
	CSSVars  map[string]string
	Partials map[string]string
	AssetURL func(key string) string
}

// DefaultFallbacks maps every built-in template name to its bundled file, so
// a partial theme still resolves a complete template set.
func DefaultFallbacks() map[string]string {
	m := template.Default()
	out := make(map[string]string, len(m.Entries))
	for _, entry := range m.Entries {
		out[entry.Name] = entry.File
	}
	return out
}

// ResolveTheme merges a selection into renderer-ready configuration. Variant
// values override base manifest values; fallbacks fill template names the
// manifest never mentions. A nil fallbacks map uses DefaultFallbacks.
func ResolveTheme(selection *theme.Selection, fallbacks map[string]string) *ThemeConfig {
	if fallbacks == nil {
		fallbacks = DefaultFallbacks()
	}

	cfg := &ThemeConfig{
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
		AssetURL: func(string) string { return "" },
	}
	for name, file := range fallbacks {
		cfg.Partials[name] = file
	}
	if selection == nil {
		return cfg
	}

	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	var variant theme.Variant
	if manifest.Variants != nil {
		variant = manifest.Variants[selection.Variant]
	}

	for k, v := range manifest.Tokens {
		cfg.Tokens[k] = v
	}
	for k, v := range variant.Tokens {
		cfg.Tokens[k] = v
	}
	for k, v := range cfg.Tokens {
		cfg.CSSVars["--"+k] = v
	}

	for k, v := range manifest.Templates {
		cfg.Partials[k] = v
	}
	for k, v := range variant.Templates {
		cfg.Partials[k] = v
	}

	files := make(map[string]string, len(manifest.Assets.Files)+len(variant.Assets.Files))
	for k, v := range manifest.Assets.Files {
		files[k] = v
	}
	for k, v := range variant.Assets.Files {
		files[k] = v
	}
	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	prefix = strings.TrimRight(prefix, "/")
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		return prefix + "/" + file
	}

	return cfg
}

// ThemeStyle renders the resolved CSS custom properties as a :root block for
// the page's theme style element.
func ThemeStyle(cfg *ThemeConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for k := range cfg.CSSVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(cfg.CSSVars[k])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// DefaultTheme is the bundled theme manifest. Tokens feed the page's CSS
// custom properties; the dark variant swaps the surface palette.
func DefaultTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    "timeline",
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent":  "#0f766e",
			"surface": "#f8fafc",
			"ink":     "#0f172a",
			"muted":   "#64748b",
			"card":    "#ffffff",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "timeline.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#0b1220",
					"ink":     "#e2e8f0",
					"muted":   "#94a3b8",
					"card":    "#131c2e",
				},
			},
		},
	}
}

// ManifestSelector satisfies theme.ThemeSelector over a static manifest set.
// Selecting an empty name falls back to the first registered manifest;
// variants pass through unchecked so manifests stay free to add them later.
type ManifestSelector struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector builds a selector over the given manifests.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{byName: make(map[string]*theme.Manifest)}
	for _, m := range manifests {
		if err := s.Register(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest. Names must be unique.
func (s *ManifestSelector) Register(m *theme.Manifest) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("render: theme manifest requires a name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.byName[m.Name]; dup {
		return fmt.Errorf("render: theme %q already registered", m.Name)
	}
	s.byName[m.Name] = m
	s.order = append(s.order, m.Name)
	return nil
}

// Select resolves a theme by name, defaulting to the first registered one.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		if len(s.order) == 0 {
			return nil, fmt.Errorf("render: no themes registered")
		}
		name = s.order[0]
	}
	manifest, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown theme %q", name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
