package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/itepastra/flurry/metrics"
)

// DefaultStatsPushInterval matches the reference stats WebSocket cadence.
const DefaultStatsPushInterval = 100 * time.Millisecond

const (
	statsWriteWait = 10 * time.Second
	statsPongWait  = 60 * time.Second
	statsPingEvery = (statsPongWait * 9) / 10
)

var statsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type statsFrame struct {
	Clients int64  `json:"c"`
	Pixels  uint64 `json:"p"`
}

// StatsHandler serves GET /stats as a WebSocket that pushes the current
// global counters every PushInterval (DefaultStatsPushInterval when zero).
type StatsHandler struct {
	PushInterval time.Duration
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := statsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("httpapi: stats upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	interval := h.PushInterval
	if interval <= 0 {
		interval = DefaultStatsPushInterval
	}

	conn.SetReadDeadline(time.Now().Add(statsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(statsPongWait))
		return nil
	})

	// Drain and discard client frames; this endpoint is push-only but must
	// still read to process control frames (ping/pong/close).
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := time.NewTicker(interval)
	defer push.Stop()
	ping := time.NewTicker(statsPingEvery)
	defer ping.Stop()

	for {
		select {
		case <-push.C:
			conn.SetWriteDeadline(time.Now().Add(statsWriteWait))
			frame, err := json.Marshal(statsFrame{Clients: metrics.Clients(), Pixels: metrics.PixelsChanged()})
			if err != nil {
				log.Printf("httpapi: marshaling stats frame: %v", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(statsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
