package content

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

// MandatoryFile is the document whose load failure aborts the whole pipeline.
const MandatoryFile = "historical_events.json"

// OptionalFiles lists the documents whose absence degrades a content section
// without aborting, in the order they are fetched.
func OptionalFiles() []string {
	return []string{
		"statistics.json",
		"companies.json",
		"social_media.json",
		"policies.json",
		"infrastructure.json",
	}
}

// Ref pairs a document key with the source it loads from.
type Ref struct {
	Key    string
	Source Source
}

// Validate checks that the ref can be fetched.
func (r Ref) Validate() error {
	if r.Key == "" {
		return errors.New("content: ref key is required")
	}
	if r.Source == nil {
		return errors.New("content: ref source is required")
	}
	return nil
}

// Batch names one mandatory document and the optional documents fetched after
// it, in order.
type Batch struct {
	Mandatory Ref
	Optional  []Ref
}

// Validate checks that the batch can be fetched.
func (b Batch) Validate() error {
	if err := b.Mandatory.Validate(); err != nil {
		return err
	}
	for _, ref := range b.Optional {
		if err := ref.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// KeyFromLocation derives a document key from a path or URL: the base name
// with directory and extension stripped.
func KeyFromLocation(location string) string {
	name := path.Base(strings.ReplaceAll(location, "\\", "/"))
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

// DirBatch builds the default file set rooted at dir.
func DirBatch(dir string) Batch {
	ref := func(name string) Ref {
		p := filepath.Join(dir, name)
		return Ref{Key: KeyFromLocation(p), Source: SourceFromFile(p)}
	}

	batch := Batch{Mandatory: ref(MandatoryFile)}
	for _, name := range OptionalFiles() {
		batch.Optional = append(batch.Optional, ref(name))
	}
	return batch
}

// FSBatch builds the default file set inside an fs.FS, rooted at prefix
// (pass "." for the FS root).
func FSBatch(prefix string) Batch {
	ref := func(name string) Ref {
		p := name
		if prefix != "" && prefix != "." {
			p = path.Join(prefix, name)
		}
		return Ref{Key: KeyFromLocation(p), Source: SourceFromFS(p)}
	}

	batch := Batch{Mandatory: ref(MandatoryFile)}
	for _, name := range OptionalFiles() {
		batch.Optional = append(batch.Optional, ref(name))
	}
	return batch
}

// URLBatch builds the default file set under a base URL.
func URLBatch(base string) Batch {
	trimmed := strings.TrimSuffix(base, "/")
	ref := func(name string) Ref {
		u := trimmed + "/" + name
		return Ref{Key: KeyFromLocation(u), Source: SourceFromURL(u)}
	}

	batch := Batch{Mandatory: ref(MandatoryFile)}
	for _, name := range OptionalFiles() {
		batch.Optional = append(batch.Optional, ref(name))
	}
	return batch
}
