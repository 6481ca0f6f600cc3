package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itepastra/flurry/canvas"
)

func TestWriteAllSkipsCanvasWithNoSnapshotYet(t *testing.T) {
	dir := t.TempDir()
	cv := canvas.New("test", 1, 1, 0)
	caches := NewCaches(canvas.NewSet(cv), DefaultQuality)

	writeAll(caches, dir, fixedTime())

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("writeAll produced %d files for an unpopulated cache, want 0", len(entries))
	}
}

func TestWriteAllWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	cv := canvas.New("test", 2, 2, canvas.NewCell(1, 2, 3, 255))
	caches := NewCaches(canvas.NewSet(cv), DefaultQuality)
	if _, err := caches.For(0).refresh(cv, DefaultQuality); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	writeAll(caches, dir, fixedTime())

	want := filepath.Join(dir, "2026-01-02_03-04-05_canvas0.jpg")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("expected file %s: %v", want, err)
	}
	if len(data) < 3 || data[0] != 0xff || data[1] != 0xd8 {
		t.Fatalf("written file is not a JPEG: %x", data[:3])
	}
}

func TestRunSnapshotWriterCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "recordings")
	cv := canvas.New("test", 1, 1, canvas.NewCell(1, 1, 1, 255))
	caches := NewCaches(canvas.NewSet(cv), DefaultQuality)
	if _, err := caches.For(0).refresh(cv, DefaultQuality); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	RunSnapshotWriter(ctx, caches, dir, 5*time.Millisecond, fixedTime)

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("RunSnapshotWriter did not create %s: %v", dir, err)
	}
}

func fixedTime() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}
