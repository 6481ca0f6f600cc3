// Package canvas implements the fixed-size RGBA pixel grid shared by every
// Pixelflut connection: a lock-free store safe for many concurrent writers
// and one periodic reader (the JPEG encoder).
package canvas

import (
	"encoding/binary"
	"image"
	"image/color"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"periph.io/x/conn/v3/display"
)

// Cell is a packed 32-bit RGBA pixel, byte order R, G, B, A.
type Cell uint32

// NewCell packs four color components into a Cell.
func NewCell(r, g, b, a byte) Cell {
	return Cell(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// RGBA unpacks a Cell back into its four components.
func (c Cell) RGBA() (r, g, b, a byte) {
	return byte(c >> 24), byte(c >> 16), byte(c >> 8), byte(c)
}

// Canvas is a fixed W×H grid of Cells. Dimensions are set once by New and
// never change. Writes are unsynchronized whole-cell atomic stores: tearing
// within one cell's four bytes cannot happen, tearing between different
// cells is expected and tolerated by the encoder.
type Canvas struct {
	width, height int
	cells         []atomic.Uint32
	name          string
}

var _ display.Drawer = (*Canvas)(nil)

// New allocates a Canvas of the given size with every cell set to fill.
func New(name string, width, height int, fill Cell) *Canvas {
	cells := make([]atomic.Uint32, width*height)
	for i := range cells {
		cells[i].Store(uint32(fill))
	}
	return &Canvas{width: width, height: height, cells: cells, name: name}
}

// Dimensions returns the canvas's immutable (width, height).
func (c *Canvas) Dimensions() (int, int) {
	return c.width, c.height
}

func (c *Canvas) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0, false
	}
	return y*c.width + x, true
}

// Get returns the cell at (x, y), or false if out of bounds.
func (c *Canvas) Get(x, y int) (Cell, bool) {
	idx, ok := c.index(x, y)
	if !ok {
		return 0, false
	}
	return Cell(c.cells[idx].Load()), true
}

// Set writes cell at (x, y). Out-of-bounds coordinates are a silent no-op.
func (c *Canvas) Set(x, y int, cell Cell) {
	idx, ok := c.index(x, y)
	if !ok {
		return
	}
	c.cells[idx].Store(uint32(cell))
}

// Hash returns a 64-bit content hash of the packed cell array. It is for
// change-detection only, not collision-resistance: the encoder re-renders
// a canvas only when this value differs from the one it saw last tick.
func (c *Canvas) Hash() uint64 {
	h := xxhash.New()
	var buf [4]byte
	for i := range c.cells {
		binary.BigEndian.PutUint32(buf[:], c.cells[i].Load())
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// String implements conn.Resource.
func (c *Canvas) String() string {
	return c.name
}

// Halt implements conn.Resource. A Canvas owns no goroutines or handles, so
// there is nothing to release; it exists because display.Drawer embeds
// conn.Resource.
func (c *Canvas) Halt() error {
	return nil
}

// ColorModel implements display.Drawer.
func (c *Canvas) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// At implements image.Image, letting a Canvas be encoded directly by
// image/jpeg without an intermediate copy.
func (c *Canvas) At(x, y int) color.Color {
	cell, _ := c.Get(x, y)
	r, g, b, a := cell.RGBA()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

var _ image.Image = (*Canvas)(nil)

// Draw implements display.Drawer, letting any image.Image (the startup
// banner, a future test pattern generator) paint directly into the grid.
func (c *Canvas) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	dstRect = dstRect.Intersect(c.Bounds())
	srcBounds := src.Bounds()

	for y := dstRect.Min.Y; y < dstRect.Max.Y; y++ {
		sy := srcPts.Y + (y - dstRect.Min.Y) + srcBounds.Min.Y
		for x := dstRect.Min.X; x < dstRect.Max.X; x++ {
			sx := srcPts.X + (x - dstRect.Min.X) + srcBounds.Min.X
			r, g, b, a := src.At(sx, sy).RGBA()
			c.Set(x, y, NewCell(byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8)))
		}
	}
	return nil
}
