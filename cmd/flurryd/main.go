// Command flurryd runs a Pixelflut server: the TCP canvas listener, the
// JPEG encoder and snapshot writer, the stats reporter, and the HTTP
// spectator endpoints, all sharing one canvas.Set for the lifetime of the
// process.
package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/itepastra/flurry/banner"
	"github.com/itepastra/flurry/canvas"
	"github.com/itepastra/flurry/flutserver"
	"github.com/itepastra/flurry/httpapi"
	"github.com/itepastra/flurry/snapshot"
)

const (
	canvasWidth  = 800
	canvasHeight = 600
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	host := getenv("PIXELFLUT_HOST", "0.0.0.0:7791")
	httpHost := getenv("PIXELFLUT_HTTP_HOST", "127.0.0.1:3000")

	canvases := canvas.NewSet(canvas.New("main", canvasWidth, canvasHeight, 0))
	if err := banner.Paint(canvases.All()[0]); err != nil {
		log.Printf("flurryd: painting startup banner: %v", err)
	}

	caches := snapshot.NewCaches(canvases, snapshot.DefaultQuality)

	mux := httpapi.NewMux(caches, httpapi.DefaultStreamInterval)
	httpServer := &http.Server{Addr: httpHost, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Bind both listeners up front so a bad address fails fast with exit
	// code 1, before any background task starts.
	tcpListener, err := net.Listen("tcp", host)
	if err != nil {
		log.Printf("flurryd: binding %s: %v", host, err)
		os.Exit(1)
	}
	httpListener, err := net.Listen("tcp", httpHost)
	if err != nil {
		tcpListener.Close()
		log.Printf("flurryd: binding %s: %v", httpHost, err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return flutserver.RunAcceptorOn(gctx, tcpListener, canvases)
	})
	g.Go(func() error {
		return snapshot.RunEncoder(gctx, caches, snapshot.DefaultUpdateInterval)
	})
	g.Go(func() error {
		return snapshot.RunSnapshotWriter(gctx, caches, snapshot.DefaultRecordingsDir, snapshot.DefaultSaveInterval, time.Now)
	})
	g.Go(func() error {
		return flutserver.RunStats(gctx, flutserver.DefaultStatsInterval)
	})
	g.Go(func() error {
		log.Printf("flurryd: http listening on %s", httpHost)
		if err := httpServer.Serve(httpListener); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return httpServer.Close()
	})

	err = g.Wait()
	if ctx.Err() != nil {
		// Shutdown was triggered by a signal, not a task failure.
		return nil
	}
	return err
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
