// Package flutserver wires the Acceptor and Stats Task on top of the
// Session Engine: the long-running, always-on pieces of the server that
// aren't the HTTP side.
package flutserver

import (
	"context"
	"errors"
	"log"
	"net"
	"time"

	"github.com/itepastra/flurry/canvas"
	"github.com/itepastra/flurry/session"
)

// maxAcceptBackoff caps the delay RunAcceptorOn waits between retries of a
// transient Accept error, the way net/http.Server's historical Serve() loop
// backs off instead of spinning a CPU hot loop on a listener that is
// returning errors quickly (e.g. a process out of file descriptors).
const maxAcceptBackoff = time.Second

// RunAcceptor is the Acceptor (C5): it binds host, then loops accepting
// connections and spawning one Session per connection. It returns when ctx
// is canceled or the listener itself fails; per-connection errors are
// logged and never stop the loop.
func RunAcceptor(ctx context.Context, host string, canvases *canvas.Set) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", host)
	if err != nil {
		return err
	}
	log.Printf("flutserver: listening on %s", host)
	return RunAcceptorOn(ctx, ln, canvases)
}

// RunAcceptorOn is RunAcceptor against an already-bound listener, so callers
// that need to fail fast on a bad bind address before any background task
// starts can bind first and hand the listener over.
func RunAcceptorOn(ctx context.Context, ln net.Listener, canvases *canvas.Set) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			// Any other Accept error is a per-socket failure (e.g. the
			// process is out of file descriptors): log it and keep
			// serving, backing off a little longer each consecutive
			// failure so a run of these doesn't spin a CPU hot loop.
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff *= 2
			}
			if backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			log.Printf("flutserver: accept error: %v; retrying in %v", err, backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		go func() {
			if err := session.New(conn, canvases).Run(); err != nil {
				log.Printf("flutserver: session %s ended: %v", conn.RemoteAddr(), err)
			}
			conn.Close()
		}()
	}
}
