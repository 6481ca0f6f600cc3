// Package codec implements the three interchangeable Pixelflut wire
// protocols (text, binary, palette) as parser/responder pairs sharing one
// Command/Response data model.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/itepastra/flurry/canvas"
)

// Sentinel errors a Codec's Parse/ChangeCanvas may return. The session uses
// errors.Is against these to decide how to react.
var (
	// ErrInvalidInput marks a malformed frame, an unknown command byte, or an
	// out-of-range coordinate on GetPixel. The session ends the connection
	// and Run returns the error.
	ErrInvalidInput = errors.New("codec: invalid input")
	// ErrUnsupported marks an operation the active codec cannot perform, such
	// as ChangeCanvas on a stateless codec. The session surfaces it to the
	// client as InvalidInput.
	ErrUnsupported = errors.New("codec: unsupported operation")
	// ErrUnexpectedEOF marks a clean client disconnect: the session ends the
	// connection with success, not as a logged failure.
	ErrUnexpectedEOF = errors.New("codec: unexpected EOF")
)

// Kind tags which Command variant is populated.
type Kind uint8

const (
	Help Kind = iota
	Protocols
	Size
	GetPixel
	SetPixel
	ChangeCanvas
	ChangeProtocol
	ChangeColor
)

// Command is the tagged union of every operation a codec can parse. Only the
// fields relevant to Kind are meaningful.
type Command struct {
	Kind Kind

	Canvas uint8
	X, Y   uint16
	Color  canvas.Color

	// ChangeProtocol
	ProtocolName string

	// ChangeColor (palette codec only)
	PaletteIndex uint8
}

func (c Command) String() string {
	switch c.Kind {
	case Help:
		return "Help"
	case Protocols:
		return "Protocols"
	case Size:
		return fmt.Sprintf("Size(canvas=%d)", c.Canvas)
	case GetPixel:
		return fmt.Sprintf("GetPixel(canvas=%d, x=%d, y=%d)", c.Canvas, c.X, c.Y)
	case SetPixel:
		return fmt.Sprintf("SetPixel(canvas=%d, x=%d, y=%d, color=%s)", c.Canvas, c.X, c.Y, c.Color)
	case ChangeCanvas:
		return fmt.Sprintf("ChangeCanvas(%d)", c.Canvas)
	case ChangeProtocol:
		return fmt.Sprintf("ChangeProtocol(%s)", c.ProtocolName)
	case ChangeColor:
		return fmt.Sprintf("ChangeColor(%d, %s)", c.PaletteIndex, c.Color)
	default:
		return "Command(unknown)"
	}
}

// ResponseKind tags which Response variant is populated.
type ResponseKind uint8

const (
	RespHelp ResponseKind = iota
	RespProtocols
	RespSize
	RespGetPixel
)

// ProtocolStatus names one compiled-in protocol and whether a given listener
// will switch to it.
type ProtocolStatus struct {
	Name    string
	Enabled bool
}

// Response is the tagged union of every reply a codec can write. SetPixel,
// ChangeCanvas and ChangeProtocol never produce a Response.
type Response struct {
	Kind ResponseKind

	Width, Height uint16

	// RespGetPixel
	X, Y  uint16
	Pixel [3]byte

	Protocols []ProtocolStatus
}

// Codec is a stateless-except-for-session parser/responder for one wire
// protocol. Implementations: text, binary, palette.
type Codec interface {
	// Name identifies the protocol for PROTOCOL switching and the PROTOCOLS
	// response, e.g. "text", "binary".
	Name() string

	// Parse reads the next Command from r. It returns an error wrapping
	// ErrInvalidInput or ErrUnexpectedEOF on malformed or exhausted input.
	Parse(r *bufio.Reader) (Command, error)

	// Unparse writes resp to w. The caller flushes.
	Unparse(w *bufio.Writer, resp Response) error

	// ChangeCanvas updates the codec's own notion of the selected canvas for
	// stateful codecs. Stateless codecs return ErrUnsupported.
	ChangeCanvas(canvas uint8) error
}

// wrapEOF turns any flavor of EOF encountered while reading a frame into
// ErrUnexpectedEOF; other I/O errors pass through unchanged. Every codec
// uses it so a dropped connection always looks the same to the session,
// whether it happened between frames or partway through one.
func wrapEOF(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	return err
}

// ColorSetter is implemented by codecs that carry a mutable per-connection
// palette (today: the palette codec). The session type-asserts for it when
// handling ChangeColor.
type ColorSetter interface {
	SetColor(index uint8, color canvas.Color)
}
