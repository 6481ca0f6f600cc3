package httpapi

import (
	"log"
	"mime"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/itepastra/flurry/snapshot"
)

// DefaultBoundaryLength matches the reference MJPEG boundary length.
const DefaultBoundaryLength = 10

// DefaultStreamInterval matches the reference WEB_UPDATE_INTERVAL default:
// how often a connected /imgstream client receives a new MJPEG part.
const DefaultStreamInterval = 50 * time.Millisecond

// StreamHandler serves GET /imgstream?canvas=N as a multipart/x-mixed-replace
// MJPEG stream, reading the Snapshot Cache for canvas N on every tick of
// interval. It never touches a Canvas directly; the Encoder Task is the only
// writer of what it reads.
type StreamHandler struct {
	Caches   *snapshot.Caches
	Interval time.Duration
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		log.Printf("httpapi: closing request body failed: %v", err)
	}
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	index, err := strconv.Atoi(r.URL.Query().Get("canvas"))
	if err != nil {
		index = 0
	}
	cache := h.Caches.For(index)
	if cache == nil {
		http.Error(w, "unknown canvas", http.StatusNotFound)
		return
	}

	pw := makePartWriter(w, DefaultBoundaryLength)
	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": pw.boundary,
		}))

	partHeaders := make(textproto.MIMEHeader)
	partHeaders.Set("Content-Type", "image/jpeg")
	partHeaders.Set("Content-Transfer-Encoding", "binary")

	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()

	flusher, _ := w.(http.Flusher)

	for {
		payload := cache.Bytes()
		if payload != nil {
			if err := pw.writeFrame(partHeaders, payload); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
