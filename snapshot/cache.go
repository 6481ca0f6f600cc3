// Package snapshot holds the per-canvas JPEG Snapshot Cache and the
// background tasks that keep it fresh: the Encoder Task, which re-renders a
// canvas to JPEG whenever its content hash changes, and the Snapshot Task,
// which periodically dumps the cache to disk.
package snapshot

import (
	"bytes"
	"image/jpeg"
	"sync"

	"github.com/itepastra/flurry/canvas"
)

// DefaultQuality matches the reference JPEG_QUALITY default.
const DefaultQuality = 50

// bufferPool reuses the []byte backing a Cache's encoded bytes across
// encoder ticks, the way videosink reuses its part-write buffers.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return []byte(nil)
	},
}

// Cache is the Snapshot Cache for one canvas: the most recent JPEG encoding
// plus the content hash of the grid at the moment it was produced. The
// Encoder Task is the sole writer; HTTP streaming and the Snapshot Task read
// it under the shared lock.
type Cache struct {
	mu    sync.RWMutex
	bytes []byte
	hash  uint64
}

// NewCache returns an empty Cache. Bytes() is nil until the first encoder
// tick runs.
func NewCache() *Cache {
	return &Cache{}
}

// Bytes returns a defensive copy of the most recently encoded JPEG, safe to
// retain and use after the call returns (including across a blocking
// network write or file write). The Encoder Task recycles its internal
// buffer into bufferPool on the next tick, so handing out the live slice
// here would let a slow reader observe it being overwritten mid-read; see
// videosink's own grabSnapshot, which copies out of the pool for the same
// reason.
func (c *Cache) Bytes() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bytes == nil {
		return nil
	}
	return append(bufferPool.Get().([]byte)[:0], c.bytes...)
}

// refresh re-encodes src at quality if its hash differs from the cached one.
// It reports whether an encode happened.
func (c *Cache) refresh(src *canvas.Canvas, quality int) (bool, error) {
	hash := src.Hash()

	c.mu.RLock()
	unchanged := c.bytes != nil && hash == c.hash
	c.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	buf := bytes.NewBuffer(bufferPool.Get().([]byte)[:0])
	if err := jpeg.Encode(buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return false, err
	}

	c.mu.Lock()
	if c.bytes != nil {
		//lint:ignore SA6002 buffer is []byte and thus pointer-like
		bufferPool.Put(c.bytes)
	}
	c.bytes = buf.Bytes()
	c.hash = hash
	c.mu.Unlock()

	return true, nil
}
