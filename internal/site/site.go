// Package site bundles the host page and its static assets.
package site

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Page returns the host document the pipeline renders into. Every render
// target exists in this document as an element id.
func Page() []byte {
	data, err := static.ReadFile("static/page.html")
	if err != nil {
		// The embed directive guarantees the file exists.
		panic(err)
	}
	return data
}

// AssetsFS exposes the static bundle for HTTP serving.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
