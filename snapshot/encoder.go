package snapshot

import (
	"context"
	"log"
	"time"

	"github.com/itepastra/flurry/canvas"
)

// DefaultUpdateInterval matches the reference JPEG_UPDATE_INTERVAL default.
const DefaultUpdateInterval = 17 * time.Millisecond

// Caches is the Snapshot Cache for every canvas in a Set, indexed the same
// way.
type Caches struct {
	canvases *canvas.Set
	caches   []*Cache
	quality  int
}

// NewCaches allocates one Cache per canvas in canvases.
func NewCaches(canvases *canvas.Set, quality int) *Caches {
	caches := make([]*Cache, canvases.Len())
	for i := range caches {
		caches[i] = NewCache()
	}
	return &Caches{canvases: canvases, caches: caches, quality: quality}
}

// For returns the Cache for canvas index, or nil if out of range.
func (c *Caches) For(index int) *Cache {
	if index < 0 || index >= len(c.caches) {
		return nil
	}
	return c.caches[index]
}

// RunEncoder is the Encoder Task (C6): every interval it re-encodes every
// canvas whose content hash changed since the last tick. It runs until ctx
// is canceled.
func RunEncoder(ctx context.Context, caches *Caches, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for i, cv := range caches.canvases.All() {
				if _, err := caches.caches[i].refresh(cv, caches.quality); err != nil {
					log.Printf("snapshot: encoding canvas %d failed: %v", i, err)
				}
			}
		}
	}
}
