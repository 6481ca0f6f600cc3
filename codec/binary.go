package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/itepastra/flurry/canvas"
)

const (
	binHelp         = 0x68
	binSize         = 0x73
	binGetPixel     = 0x20
	binSetPixelW    = 0x82
	binSetPixelRGB  = 0x80
	binSetPixelRGBA = 0x81
)

const binaryHelpText = "" +
	"You found the binary protocol help text\n" +
	"send (0x68) for this text\n" +
	"send (0x73) (u8 canvas) for the canvas size\n" +
	"send (0x20) (u8 canvas) (u16_le x) (u16_le y) to read a pixel\n" +
	"send (0x82) (u8 canvas) (u16_le x) (u16_le y) (u8 w) to set a grayscale pixel\n" +
	"send (0x80) (u8 canvas) (u16_le x) (u16_le y) (u8 r) (u8 g) (u8 b) to set an RGB pixel\n" +
	"send (0x81) (u8 canvas) (u16_le x) (u16_le y) (u8 r) (u8 g) (u8 b) (u8 a) to set an RGBA pixel\n"

// Binary is the length-prefixed, little-endian-coordinate codec. It is
// stateless: the canvas is encoded in every request, so ChangeCanvas is
// unsupported.
type Binary struct{}

var _ Codec = (*Binary)(nil)

// NewBinary returns a Binary codec.
func NewBinary() *Binary {
	return &Binary{}
}

func (b *Binary) Name() string {
	return "binary"
}

func (b *Binary) ChangeCanvas(canvas uint8) error {
	return ErrUnsupported
}

func (b *Binary) Parse(r *bufio.Reader) (Command, error) {
	opcode, err := r.ReadByte()
	if err != nil {
		return Command{}, wrapEOF(err)
	}

	switch opcode {
	case binHelp:
		return Command{Kind: Help}, nil

	case binSize:
		c, err := readByte(r)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: Size, Canvas: c}, nil

	case binGetPixel:
		c, x, y, err := readCanvasXY(r, binary.LittleEndian)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: GetPixel, Canvas: c, X: x, Y: y}, nil

	case binSetPixelW:
		c, x, y, err := readCanvasXY(r, binary.LittleEndian)
		if err != nil {
			return Command{}, err
		}
		w, err := readByte(r)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: SetPixel, Canvas: c, X: x, Y: y, Color: canvas.W8(w)}, nil

	case binSetPixelRGB:
		c, x, y, err := readCanvasXY(r, binary.LittleEndian)
		if err != nil {
			return Command{}, err
		}
		rgb, err := readN(r, 3)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: SetPixel, Canvas: c, X: x, Y: y, Color: canvas.RGB24(rgb[0], rgb[1], rgb[2])}, nil

	case binSetPixelRGBA:
		c, x, y, err := readCanvasXY(r, binary.LittleEndian)
		if err != nil {
			return Command{}, err
		}
		rgba, err := readN(r, 4)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: SetPixel, Canvas: c, X: x, Y: y, Color: canvas.RGBA32(rgba[0], rgba[1], rgba[2], rgba[3])}, nil

	default:
		return Command{}, fmt.Errorf("%w: unknown binary opcode 0x%02x", ErrInvalidInput, opcode)
	}
}

func (b *Binary) Unparse(w *bufio.Writer, resp Response) error {
	switch resp.Kind {
	case RespHelp:
		_, err := w.WriteString(binaryHelpText)
		return err
	case RespSize:
		if err := binary.Write(w, binary.LittleEndian, resp.Width); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, resp.Height)
	case RespGetPixel:
		_, err := w.Write(resp.Pixel[:])
		return err
	default:
		return fmt.Errorf("binary codec: unknown response kind %d", resp.Kind)
	}
}

// readByte reads a single byte, translating EOF the way every codec does.
func readByte(r *bufio.Reader) (byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, wrapEOF(err)
	}
	return b, nil
}

// readN reads exactly n bytes.
func readN(r *bufio.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, wrapEOF(err)
	}
	return buf, nil
}

// readCanvasXY reads the (canvas, x, y) header common to most binary/palette
// frames, in the given byte order for the coordinates.
func readCanvasXY(r *bufio.Reader, order binary.ByteOrder) (c uint8, x, y uint16, err error) {
	c, err = readByte(r)
	if err != nil {
		return 0, 0, 0, err
	}
	xy, err := readN(r, 4)
	if err != nil {
		return 0, 0, 0, err
	}
	return c, order.Uint16(xy[0:2]), order.Uint16(xy[2:4]), nil
}
