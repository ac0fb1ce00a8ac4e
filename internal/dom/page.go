// Package dom hosts the HTML page surface composites write into. A Page is a
// parsed document addressed by element id; writes replace a target element's
// children with a parsed fragment.
package dom

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-timeline/pkg/render"
)

// Page wraps a parsed HTML document. Safe for concurrent writes.
type Page struct {
	mu   sync.Mutex
	root *html.Node
	ids  map[string]*html.Node
}

var _ render.Surface = (*Page)(nil)

// NewPage parses src into a mutable page.
func NewPage(src []byte) (*Page, error) {
	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("dom: parse page: %w", err)
	}
	p := &Page{root: root}
	p.reindex()
	return p, nil
}

// Write replaces the children of the element carrying id target with the
// parsed fragment. Unknown targets return render.ErrNoTarget.
func (p *Page) Write(target string, fragment []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	node, ok := p.ids[target]
	if !ok {
		return fmt.Errorf("%w: %q", render.ErrNoTarget, target)
	}

	children, err := html.ParseFragment(bytes.NewReader(fragment), node)
	if err != nil {
		return fmt.Errorf("dom: parse fragment for %q: %w", target, err)
	}

	for c := node.FirstChild; c != nil; {
		next := c.NextSibling
		node.RemoveChild(c)
		c = next
	}
	for _, child := range children {
		node.AppendChild(child)
	}

	p.reindex()
	return nil
}

// HTML serializes the children of target, reporting whether it exists.
func (p *Page) HTML(target string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	node, ok := p.ids[target]
	if !ok {
		return "", false
	}
	var buf bytes.Buffer
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", false
		}
	}
	return buf.String(), true
}

// Has reports whether an element with the given id exists.
func (p *Page) Has(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.ids[id]
	return ok
}

// Targets returns every addressable element id, sorted.
func (p *Page) Targets() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.ids))
	for id := range p.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Bytes serializes the whole document.
func (p *Page) Bytes() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var buf bytes.Buffer
	if err := html.Render(&buf, p.root); err != nil {
		return nil, fmt.Errorf("dom: render page: %w", err)
	}
	return buf.Bytes(), nil
}

// reindex rebuilds the id index after structural changes. Fragments can both
// introduce and remove addressable ids, so a full walk keeps lookups honest.
func (p *Page) reindex() {
	p.ids = make(map[string]*html.Node)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "id" && attr.Val != "" {
					if _, exists := p.ids[attr.Val]; !exists {
						p.ids[attr.Val] = n
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(p.root)
}
