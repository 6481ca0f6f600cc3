package codec

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/itepastra/flurry/canvas"
)

const helpText = "" +
	"Flurry is a pixelflut implementation, this means you can use commands to get and set pixels in the canvas\n" +
	"SIZE returns the size of the canvas\n" +
	"PX {x} {y} returns the color of the pixel at {x}, {y}\n" +
	"If you include a color in hex format you set a pixel instead\n" +
	"PX {x} {y} {RGB} sets the color of the pixel at {x}, {y} to the rgb value\n" +
	"PX {x} {y} {RGBA} replaces the pixel at {x}, {y} with the rgba value\n" +
	"PX {x} {y} {W} sets the color of the pixel at {x}, {y} to the grayscale value\n" +
	"CANVAS {n} switches the active canvas for this connection\n" +
	"PROTOCOL {text|binary} switches the wire protocol for this connection\n"

// Text is the default, line-oriented ASCII codec. One command per LF
// terminated line; fields separated by single spaces; hex colors accepted in
// either case and always emitted uppercase.
type Text struct {
	canvas uint8
}

var _ Codec = (*Text)(nil)

// NewText returns a Text codec with canvas 0 selected.
func NewText() *Text {
	return &Text{}
}

func (t *Text) Name() string {
	return "text"
}

// ChangeCanvas implements Codec: the text codec is stateful, so this just
// updates the selected canvas.
func (t *Text) ChangeCanvas(canvas uint8) error {
	t.canvas = canvas
	return nil
}

func (t *Text) Parse(r *bufio.Reader) (Command, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return Command{}, wrapEOF(err)
	}
	line = strings.TrimRight(line, "\r\n")

	switch {
	case line == "HELP":
		return Command{Kind: Help}, nil
	case line == "PROTOCOLS":
		return Command{Kind: Protocols}, nil
	case line == "SIZE":
		return Command{Kind: Size, Canvas: t.canvas}, nil
	case strings.HasPrefix(line, "PX "):
		return t.parsePixel(line)
	case strings.HasPrefix(line, "CANVAS "):
		return t.parseCanvas(line)
	case strings.HasPrefix(line, "PROTOCOL "):
		return t.parseProtocol(line)
	default:
		return Command{}, ErrInvalidInput
	}
}

func (t *Text) parsePixel(line string) (Command, error) {
	fields := strings.Split(strings.TrimSpace(line), " ")
	if len(fields) < 3 || len(fields) > 4 {
		return Command{}, ErrInvalidInput
	}

	x, err := parseCoordinate(fields[1])
	if err != nil {
		return Command{}, ErrInvalidInput
	}
	y, err := parseCoordinate(fields[2])
	if err != nil {
		return Command{}, ErrInvalidInput
	}

	if len(fields) == 3 {
		return Command{Kind: GetPixel, Canvas: t.canvas, X: x, Y: y}, nil
	}

	color, err := parseColor(fields[3])
	if err != nil {
		return Command{}, ErrInvalidInput
	}
	return Command{Kind: SetPixel, Canvas: t.canvas, X: x, Y: y, Color: color}, nil
}

func (t *Text) parseCanvas(line string) (Command, error) {
	fields := strings.Split(strings.TrimSpace(line), " ")
	if len(fields) != 2 {
		return Command{}, ErrInvalidInput
	}
	n, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return Command{}, ErrInvalidInput
	}
	return Command{Kind: ChangeCanvas, Canvas: uint8(n)}, nil
}

func (t *Text) parseProtocol(line string) (Command, error) {
	fields := strings.Split(strings.TrimSpace(line), " ")
	if len(fields) != 2 {
		return Command{}, ErrInvalidInput
	}
	switch fields[1] {
	case "text", "binary":
		return Command{Kind: ChangeProtocol, ProtocolName: fields[1]}, nil
	default:
		return Command{}, ErrInvalidInput
	}
}

func parseCoordinate(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}

func parseColor(s string) (canvas.Color, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return canvas.Color{}, ErrInvalidInput
	}
	switch len(b) {
	case 1:
		return canvas.W8(b[0]), nil
	case 3:
		return canvas.RGB24(b[0], b[1], b[2]), nil
	case 4:
		return canvas.RGBA32(b[0], b[1], b[2], b[3]), nil
	default:
		return canvas.Color{}, ErrInvalidInput
	}
}

func (t *Text) Unparse(w *bufio.Writer, resp Response) error {
	switch resp.Kind {
	case RespHelp:
		_, err := w.WriteString(helpText)
		return err
	case RespSize:
		_, err := fmt.Fprintf(w, "SIZE %d %d\n", resp.Width, resp.Height)
		return err
	case RespGetPixel:
		_, err := fmt.Fprintf(w, "PX %d %d %s\n", resp.X, resp.Y, strings.ToUpper(hex.EncodeToString(resp.Pixel[:])))
		return err
	case RespProtocols:
		for _, p := range resp.Protocols {
			status := "Disabled"
			if p.Enabled {
				status = "Enabled"
			}
			if _, err := fmt.Fprintf(w, "%s: %s\n", status, p.Name); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("text codec: unknown response kind %d", resp.Kind)
	}
}
