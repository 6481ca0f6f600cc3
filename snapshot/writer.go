package snapshot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// DefaultSaveInterval matches the reference IMAGE_SAVE_INTERVAL default.
const DefaultSaveInterval = 5 * time.Second

// DefaultRecordingsDir is where RunSnapshotWriter drops its timestamped
// files.
const DefaultRecordingsDir = "recordings"

// Clock returns the current time. Overridable in tests.
type Clock func() time.Time

// RunSnapshotWriter is the Snapshot Task (C7): every interval it writes the
// current Snapshot Cache bytes for each canvas to a timestamped file under
// dir. A write failure is logged and the task continues on the next tick.
func RunSnapshotWriter(ctx context.Context, caches *Caches, dir string, interval time.Duration, now Clock) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("snapshot: creating %s failed: %v", dir, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			writeAll(caches, dir, now())
		}
	}
}

func writeAll(caches *Caches, dir string, at time.Time) {
	stamp := at.Format("2006-01-02_15-04-05")
	for i, cache := range caches.caches {
		data := cache.Bytes()
		if data == nil {
			continue
		}
		name := fmt.Sprintf("%s_canvas%d.jpg", stamp, i)
		if err := writeAtomic(filepath.Join(dir, name), data); err != nil {
			log.Printf("snapshot: writing canvas %d failed: %v", i, err)
		}
	}
}

// writeAtomic writes data to a temp file in the same directory, then renames
// it into place, so a reader never observes a partial file.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
