package flutserver

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"time"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/itepastra/flurry/metrics"
)

// DefaultStatsInterval matches the reference stats logging cadence.
const DefaultStatsInterval = time.Second

// statsBarWidth is how many colored blocks the TTY stats line uses to
// represent live-connection load, capped for readability on a typical
// terminal.
const statsBarWidth = 40

// RunStats is the Stats Task (C8): every interval it reports the two global
// counters. When stdout is a terminal it draws a colorized load bar in the
// style of screen1d's block rendering; otherwise it falls back to a plain
// log line.
func RunStats(ctx context.Context, interval time.Duration) error {
	out := os.Stdout
	tty := isatty.IsTerminal(out.Fd())

	var w io.Writer
	var palette ansi256.Palette
	if tty {
		w = colorable.NewColorable(out)
		palette = *ansi256.Default
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastPixels uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pixels := metrics.PixelsChanged()
			clients := metrics.Clients()
			rate := pixels - lastPixels
			lastPixels = pixels

			if tty {
				writeStatsBar(w, palette, clients, rate)
			} else {
				log.Printf("stats: clients=%d pixels=%d pixels/s=%d", clients, pixels, rate)
			}
		}
	}
}

// writeStatsBar renders `clients` as a short run of colored blocks (green
// when the server keeps up with the pixel rate implied by load, red when
// rate has stalled under active clients) the way screen1d paints an LED
// strip.
func writeStatsBar(w io.Writer, palette ansi256.Palette, clients int64, rate uint64) {
	n := int(clients)
	if n > statsBarWidth {
		n = statsBarWidth
	}
	if n < 0 {
		n = 0
	}

	c := color.NRGBA{R: 0, G: 200, B: 0, A: 255}
	if clients > 0 && rate == 0 {
		c = color.NRGBA{R: 200, G: 0, B: 0, A: 255}
	}

	fmt.Fprint(w, "\r\033[0m")
	for i := 0; i < n; i++ {
		io.WriteString(w, palette.Block(c))
	}
	fmt.Fprintf(w, "\033[0m clients=%d pixels/s=%d\n", clients, rate)
}
