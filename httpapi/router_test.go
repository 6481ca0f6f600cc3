package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/itepastra/flurry/canvas"
	"github.com/itepastra/flurry/snapshot"
)

func TestNewMuxFallsBackToIndexForUnknownPath(t *testing.T) {
	cv := canvas.New("test", 2, 2, 0)
	caches := snapshot.NewCaches(canvas.NewSet(cv), snapshot.DefaultQuality)

	srv := httptest.NewServer(NewMux(caches, time.Millisecond))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/totally/unknown/path")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !strings.Contains(string(body), "flurry") {
		t.Errorf("body = %q, want the embedded index.html", body)
	}
}
