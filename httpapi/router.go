package httpapi

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/itepastra/flurry/snapshot"
)

//go:embed static
var staticAssets embed.FS

// NewMux wires /imgstream and /stats, falling back to the embedded static
// bundle (and, failing that, its index.html) for everything else. The real
// spectator frontend is an external collaborator per the spec's static
// web-asset non-goal; this bundle is a placeholder stand-in for it.
func NewMux(caches *snapshot.Caches, streamInterval time.Duration) http.Handler {
	assets, err := fs.Sub(staticAssets, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(assets))

	mux := http.NewServeMux()
	mux.Handle("/imgstream", &StreamHandler{Caches: caches, Interval: streamInterval})
	mux.Handle("/stats", &StatsHandler{})
	mux.Handle("/", spaFallback{assets: assets, fileServer: fileServer})
	return mux
}

// spaFallback serves the embedded bundle for known files and index.html for
// everything else, the way a single-page spectator frontend expects.
type spaFallback struct {
	assets     fs.FS
	fileServer http.Handler
}

func (s spaFallback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path
	if name == "" || name == "/" {
		name = "index.html"
	} else {
		name = name[1:]
	}

	if _, err := fs.Stat(s.assets, name); err != nil {
		// Serve the bundle root rather than "/index.html": http.FileServer
		// redirects any path ending in "/index.html" to "./", which would
		// loop back into this fallback. The URL is copied so the original
		// request is left untouched.
		r2 := new(http.Request)
		*r2 = *r
		u := *r.URL
		u.Path = "/"
		u.RawPath = ""
		r2.URL = &u
		s.fileServer.ServeHTTP(w, r2)
		return
	}
	s.fileServer.ServeHTTP(w, r)
}
