// Package content defines the document contracts for one load pass: where
// documents come from, how they are fetched and retried, and the keyed
// collection handed to validation and rendering.
package content

import (
	"errors"
	"fmt"
	"sort"
)

// Source identifies where a content document originated. Loaders operate on
// files, fs.FS entries, or URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Document wraps one fetched and parsed content document together with its
// origin. Documents are created fresh each pass and are not mutated after
// construction.
type Document struct {
	key    string
	source Source
	raw    []byte
	data   map[string]any
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(key string, src Source, raw []byte, data map[string]any) (Document, error) {
	if key == "" {
		return Document{}, errors.New("content: document key is required")
	}
	if src == nil {
		return Document{}, errors.New("content: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("content: raw document is empty")
	}
	if data == nil {
		return Document{}, errors.New("content: parsed data is required")
	}

	clone := append([]byte(nil), raw...)
	return Document{key: key, source: src, raw: clone, data: data}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(key string, src Source, raw []byte, data map[string]any) Document {
	doc, err := NewDocument(key, src, raw, data)
	if err != nil {
		panic(err)
	}
	return doc
}

// Key returns the logical document key (the filename stem).
func (d Document) Key() string {
	return d.key
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the document payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Data returns the parsed document object.
func (d Document) Data() map[string]any {
	return d.data
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Collection holds the documents of one load pass keyed by document key.
// Optional documents that failed to load are absent, not nil-valued.
type Collection struct {
	mandatoryKey string
	docs         map[string]Document
}

// NewCollection creates an empty collection expecting mandatoryKey.
func NewCollection(mandatoryKey string) *Collection {
	return &Collection{
		mandatoryKey: mandatoryKey,
		docs:         make(map[string]Document),
	}
}

// Add stores a document under its key. Duplicate keys return an error.
func (c *Collection) Add(doc Document) error {
	if doc.Key() == "" {
		return errors.New("content: document key is required")
	}
	if _, exists := c.docs[doc.Key()]; exists {
		return fmt.Errorf("content: document %q already present", doc.Key())
	}
	c.docs[doc.Key()] = doc
	return nil
}

// Get retrieves a document by key.
func (c *Collection) Get(key string) (Document, bool) {
	doc, ok := c.docs[key]
	return doc, ok
}

// Has reports whether a document loaded for key.
func (c *Collection) Has(key string) bool {
	_, ok := c.docs[key]
	return ok
}

// Mandatory returns the mandatory document, if loaded.
func (c *Collection) Mandatory() (Document, bool) {
	return c.Get(c.mandatoryKey)
}

// MandatoryKey returns the key the collection treats as mandatory.
func (c *Collection) MandatoryKey() string {
	return c.mandatoryKey
}

// Keys returns the loaded document keys, sorted.
func (c *Collection) Keys() []string {
	keys := make([]string, 0, len(c.docs))
	for key := range c.docs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports how many documents loaded.
func (c *Collection) Len() int {
	return len(c.docs)
}
