// Package metrics holds the two monotonic global counters shared by every
// Session, the Stats Task, and the HTTP Streamer: pixels written and live
// connections. Both are plain atomics with relaxed ordering; readers accept
// an eventually-consistent view.
package metrics

import "sync/atomic"

var (
	pixelsChanged atomic.Uint64
	liveClients   atomic.Int64
)

// AddPixels folds a session-local batch of writes into the global counter.
func AddPixels(n uint64) {
	if n != 0 {
		pixelsChanged.Add(n)
	}
}

// PixelsChanged returns the current value of COUNTER.
func PixelsChanged() uint64 {
	return pixelsChanged.Load()
}

// ClientConnected increments CLIENTS. Call once per accepted connection.
func ClientConnected() {
	liveClients.Add(1)
}

// ClientDisconnected decrements CLIENTS. Call exactly once per
// ClientConnected, on session exit.
func ClientDisconnected() {
	liveClients.Add(-1)
}

// Clients returns the current value of CLIENTS.
func Clients() int64 {
	return liveClients.Load()
}
