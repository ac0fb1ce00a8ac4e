package timeline

import (
	"io/fs"

	"github.com/goliatone/go-timeline/internal/site"
)

// HostPage returns the blank host document the pipeline writes sections into.
func HostPage() []byte {
	return site.Page()
}

// AssetsFS exposes the static stylesheet bundle for serving.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(timeline.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return site.AssetsFS()
}
