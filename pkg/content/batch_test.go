package content_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-timeline/pkg/content"
)

func TestKeyFromLocation(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"historical_events.json", "historical_events"},
		{"data/statistics.json", "statistics"},
		{"https://cdn.example.com/timeline/social_media.json", "social_media"},
		{`windows\style\policies.json`, "policies"},
		{"noextension", "noextension"},
	}
	for _, tc := range cases {
		if got := content.KeyFromLocation(tc.in); got != tc.want {
			t.Fatalf("KeyFromLocation(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDirBatch_DefaultFileSet(t *testing.T) {
	batch := content.DirBatch("testdata")

	if batch.Mandatory.Key != "historical_events" {
		t.Fatalf("unexpected mandatory key: %s", batch.Mandatory.Key)
	}
	if got := batch.Mandatory.Source.Location(); got != filepath.Join("testdata", "historical_events.json") {
		t.Fatalf("unexpected mandatory location: %s", got)
	}
	if batch.Mandatory.Source.Kind() != content.SourceKindFile {
		t.Fatalf("unexpected source kind: %s", batch.Mandatory.Source.Kind())
	}

	var keys []string
	for _, ref := range batch.Optional {
		keys = append(keys, ref.Key)
	}
	want := []string{"statistics", "companies", "social_media", "policies", "infrastructure"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("optional order mismatch (-want +got):\n%s", diff)
	}

	if err := batch.Validate(); err != nil {
		t.Fatalf("batch should validate: %v", err)
	}
}

func TestURLBatch_JoinsBase(t *testing.T) {
	batch := content.URLBatch("https://cdn.example.com/timeline/")

	want := "https://cdn.example.com/timeline/historical_events.json"
	if got := batch.Mandatory.Source.Location(); got != want {
		t.Fatalf("unexpected URL: %s", got)
	}
	if batch.Mandatory.Source.Kind() != content.SourceKindURL {
		t.Fatalf("unexpected kind: %s", batch.Mandatory.Source.Kind())
	}
}

func TestCollection_AddAndLookup(t *testing.T) {
	col := content.NewCollection("historical_events")

	doc := content.MustNewDocument("companies",
		content.SourceFromFile("companies.json"),
		[]byte(`{"companies": []}`),
		map[string]any{"companies": []any{}},
	)
	if err := col.Add(doc); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := col.Add(doc); err == nil {
		t.Fatal("expected duplicate add to fail")
	}

	if _, ok := col.Mandatory(); ok {
		t.Fatal("mandatory should be absent until added")
	}
	got, ok := col.Get("companies")
	if !ok || got.Key() != "companies" {
		t.Fatalf("lookup failed: %v %v", got, ok)
	}
}

func TestDocument_DefensiveRawCopies(t *testing.T) {
	raw := []byte(`{"policies": []}`)
	doc := content.MustNewDocument("policies", content.SourceFromFile("policies.json"), raw, map[string]any{})

	raw[0] = 'X'
	if doc.Raw()[0] != '{' {
		t.Fatal("constructor must copy raw bytes")
	}

	out := doc.Raw()
	out[0] = 'X'
	if doc.Raw()[0] != '{' {
		t.Fatal("accessor must copy raw bytes")
	}
}
