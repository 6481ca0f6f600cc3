package httpapi

import (
	"context"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itepastra/flurry/canvas"
	"github.com/itepastra/flurry/snapshot"
)

// waitForSnapshot runs the encoder until canvas 0 has produced at least one
// JPEG, the way a real server would have one ready well before its first
// spectator connects.
func waitForSnapshot(t *testing.T, caches *snapshot.Caches) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go snapshot.RunEncoder(ctx, caches, time.Millisecond)

	deadline := time.After(time.Second)
	for caches.For(0).Bytes() == nil {
		select {
		case <-deadline:
			t.Fatal("encoder never produced a snapshot")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestStreamHandlerServesTwoJPEGParts(t *testing.T) {
	cv := canvas.New("test", 4, 4, canvas.NewCell(10, 20, 30, 255))
	caches := snapshot.NewCaches(canvas.NewSet(cv), snapshot.DefaultQuality)
	waitForSnapshot(t, caches)

	h := &StreamHandler{Caches: caches, Interval: time.Millisecond}
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?canvas=0")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("ParseMediaType: %v", err)
	}
	if mediaType != "multipart/x-mixed-replace" {
		t.Fatalf("media type = %q, want multipart/x-mixed-replace", mediaType)
	}

	mr := multipart.NewReader(resp.Body, params["boundary"])
	for i := 0; i < 2; i++ {
		part, err := mr.NextPart()
		if err != nil {
			t.Fatalf("NextPart() #%d: %v", i, err)
		}
		if ct := part.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("part %d Content-Type = %q, want image/jpeg", i, ct)
		}
		buf := make([]byte, 3)
		if _, err := part.Read(buf); err != nil {
			t.Fatalf("reading part %d body: %v", i, err)
		}
		if buf[0] != 0xff || buf[1] != 0xd8 || buf[2] != 0xff {
			t.Errorf("part %d does not start with JPEG magic: %x", i, buf)
		}
		part.Close()
	}
}

func TestStreamHandlerUnknownCanvas404s(t *testing.T) {
	cv := canvas.New("test", 2, 2, 0)
	caches := snapshot.NewCaches(canvas.NewSet(cv), snapshot.DefaultQuality)

	h := &StreamHandler{Caches: caches, Interval: time.Millisecond}
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?canvas=7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
