package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/itepastra/flurry/canvas"
)

const (
	palHelp         = 0x68
	palSize         = 0x73
	palGetPixel     = 0x20
	palSetPixel     = 0x21
	palChangeColor  = 0x22
	palettePixelSet = 256
)

// Palette is the indexed-color codec. It is stateless over the wire but
// carries a per-connection 256-entry palette, randomly seeded at
// construction and mutable via ChangeColor.
type Palette struct {
	colors [256]canvas.Color
}

var _ Codec = (*Palette)(nil)
var _ ColorSetter = (*Palette)(nil)

// NewPalette returns a Palette codec with every entry set to a random color.
func NewPalette() *Palette {
	p := &Palette{}
	for i := range p.colors {
		p.colors[i] = randomColor()
	}
	return p
}

func randomColor() canvas.Color {
	switch rand.Intn(3) {
	case 0:
		return canvas.W8(byte(rand.Intn(256)))
	case 1:
		return canvas.RGB24(byte(rand.Intn(256)), byte(rand.Intn(256)), byte(rand.Intn(256)))
	default:
		return canvas.RGBA32(byte(rand.Intn(256)), byte(rand.Intn(256)), byte(rand.Intn(256)), byte(rand.Intn(256)))
	}
}

func (p *Palette) Name() string {
	return "palette"
}

func (p *Palette) ChangeCanvas(canvas uint8) error {
	return ErrUnsupported
}

// SetColor implements ColorSetter; the session calls this for ChangeColor.
func (p *Palette) SetColor(index uint8, color canvas.Color) {
	p.colors[index] = color
}

func (p *Palette) Parse(r *bufio.Reader) (Command, error) {
	opcode, err := r.ReadByte()
	if err != nil {
		return Command{}, wrapEOF(err)
	}

	switch opcode {
	case palHelp:
		return Command{Kind: Help}, nil

	case palSize:
		c, err := readByte(r)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: Size, Canvas: c}, nil

	case palGetPixel:
		c, x, y, err := readCanvasXY(r, binary.BigEndian)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: GetPixel, Canvas: c, X: x, Y: y}, nil

	case palSetPixel:
		c, x, y, err := readCanvasXY(r, binary.BigEndian)
		if err != nil {
			return Command{}, err
		}
		idx, err := readByte(r)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: SetPixel, Canvas: c, X: x, Y: y, Color: p.colors[idx]}, nil

	case palChangeColor:
		idx, err := readByte(r)
		if err != nil {
			return Command{}, err
		}
		rgb, err := readN(r, 3)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: ChangeColor, PaletteIndex: idx, Color: canvas.RGB24(rgb[0], rgb[1], rgb[2])}, nil

	default:
		return Command{}, fmt.Errorf("%w: unknown palette opcode 0x%02x", ErrInvalidInput, opcode)
	}
}

func (p *Palette) Unparse(w *bufio.Writer, resp Response) error {
	switch resp.Kind {
	case RespHelp:
		for _, c := range p.colors {
			r, g, b, a := c.Cell.RGBA()
			if _, err := w.Write([]byte{r, g, b, a}); err != nil {
				return err
			}
		}
		return nil
	case RespProtocols:
		for _, entry := range resp.Protocols {
			status := "Disabled"
			if entry.Enabled {
				status = "Enabled"
			}
			if _, err := fmt.Fprintf(w, "%s: %s\n", status, entry.Name); err != nil {
				return err
			}
		}
		return nil
	case RespSize:
		if err := binary.Write(w, binary.BigEndian, resp.Width); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, resp.Height)
	case RespGetPixel:
		_, err := w.Write(resp.Pixel[:])
		return err
	default:
		return fmt.Errorf("palette codec: unknown response kind %d", resp.Kind)
	}
}
