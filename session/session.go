// Package session implements the per-connection Session Engine: a buffered
// reader/writer pair, the currently selected codec and canvas, and the
// batched pixel counter that keeps the hot SetPixel path off the global
// atomic.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"net"

	"github.com/itepastra/flurry/canvas"
	"github.com/itepastra/flurry/codec"
	"github.com/itepastra/flurry/metrics"
)

// BatchN is the number of parsed commands between global counter flushes.
// This is the single most performance-sensitive constant in the server: at
// high write rates, flushing the global atomic on every SetPixel makes it
// the bottleneck.
const BatchN = 1000

const (
	readBufferSize  = 8 << 10
	writeBufferSize = 4 << 10
)

// NewCodec builds the default codec instance for a protocol name, used both
// at session start and on PROTOCOL switch.
func NewCodec(name string) (codec.Codec, error) {
	switch name {
	case "text":
		return codec.NewText(), nil
	case "binary":
		return codec.NewBinary(), nil
	case "palette":
		return codec.NewPalette(), nil
	default:
		return nil, fmt.Errorf("%w: unknown protocol %q", codec.ErrInvalidInput, name)
	}
}

// knownProtocols is the order PROTOCOLS reports them in, and which ones
// on-the-wire PROTOCOL switching (text codec) accepts. Palette is compiled
// in but not switchable, per the source's ambiguity about its availability:
// see the open-question resolution for PROTOCOL palette.
var knownProtocols = []struct {
	name       string
	switchable bool
}{
	{"text", true},
	{"binary", true},
	{"palette", false},
}

// Session runs one client connection end to end, returning nil on a clean
// disconnect and a non-nil error for anything else (the acceptor logs it).
type Session struct {
	conn     net.Conn
	r        *bufio.Reader
	w        *bufio.Writer
	codec    codec.Codec
	canvas   uint8
	canvases *canvas.Set

	localCounter uint64
	sinceFlush   int
}

// New wraps conn with buffered I/O and the default (text) codec, ready for
// Run. It does not touch metrics.Clients(); Run increments it on entry and
// decrements it on exit.
func New(conn net.Conn, canvases *canvas.Set) *Session {
	return &Session{
		conn:     conn,
		r:        bufio.NewReaderSize(conn, readBufferSize),
		w:        bufio.NewWriterSize(conn, writeBufferSize),
		codec:    codec.NewText(),
		canvases: canvases,
	}
}

// Run executes the main dispatch loop until the connection ends. It always
// balances the ClientConnected call it makes internally with exactly one
// ClientDisconnected and one counter flush, regardless of outcome.
func (s *Session) Run() error {
	metrics.ClientConnected()
	defer metrics.ClientDisconnected()
	defer s.flush()

	for {
		cmd, err := s.codec.Parse(s.r)
		if err != nil {
			if errors.Is(err, codec.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}

		if err := s.dispatch(cmd); err != nil {
			return err
		}

		s.sinceFlush++
		if s.sinceFlush >= BatchN {
			s.flush()
		}
	}
}

func (s *Session) flush() {
	metrics.AddPixels(s.localCounter)
	s.localCounter = 0
	s.sinceFlush = 0
}

func (s *Session) dispatch(cmd codec.Command) error {
	switch cmd.Kind {
	case codec.Help:
		return s.respond(codec.Response{Kind: codec.RespHelp})

	case codec.Protocols:
		return s.respond(codec.Response{Kind: codec.RespProtocols, Protocols: s.protocolStatus()})

	case codec.Size:
		cv, ok := s.canvases.At(int(cmd.Canvas))
		if !ok {
			return fmt.Errorf("%w: unknown canvas %d", codec.ErrInvalidInput, cmd.Canvas)
		}
		w, h := cv.Dimensions()
		return s.respond(codec.Response{Kind: codec.RespSize, Width: uint16(w), Height: uint16(h)})

	case codec.GetPixel:
		cv, ok := s.canvases.At(int(cmd.Canvas))
		if !ok {
			return fmt.Errorf("%w: unknown canvas %d", codec.ErrInvalidInput, cmd.Canvas)
		}
		cell, ok := cv.Get(int(cmd.X), int(cmd.Y))
		if !ok {
			return fmt.Errorf("%w: pixel (%d,%d) out of bounds", codec.ErrInvalidInput, cmd.X, cmd.Y)
		}
		r, g, b, _ := cell.RGBA()
		return s.respond(codec.Response{Kind: codec.RespGetPixel, X: cmd.X, Y: cmd.Y, Pixel: [3]byte{r, g, b}})

	case codec.SetPixel:
		cv, ok := s.canvases.At(int(cmd.Canvas))
		if !ok {
			// Writes to an unknown canvas are a silent no-op, like writes
			// outside a canvas's bounds.
			return nil
		}
		cv.Set(int(cmd.X), int(cmd.Y), cmd.Color.Canonical())
		s.localCounter++
		return nil

	case codec.ChangeCanvas:
		if _, ok := s.canvases.At(int(cmd.Canvas)); !ok {
			return fmt.Errorf("%w: unknown canvas %d", codec.ErrInvalidInput, cmd.Canvas)
		}
		if err := s.codec.ChangeCanvas(cmd.Canvas); err != nil {
			return fmt.Errorf("%w: %v", codec.ErrInvalidInput, err)
		}
		s.canvas = cmd.Canvas
		return nil

	case codec.ChangeProtocol:
		next, err := NewCodec(cmd.ProtocolName)
		if err != nil {
			return err
		}
		_ = next.ChangeCanvas(s.canvas)
		s.codec = next
		return nil

	case codec.ChangeColor:
		setter, ok := s.codec.(codec.ColorSetter)
		if !ok {
			return fmt.Errorf("%w: codec %s has no palette", codec.ErrUnsupported, s.codec.Name())
		}
		setter.SetColor(cmd.PaletteIndex, cmd.Color)
		return nil

	default:
		return fmt.Errorf("%w: unhandled command kind %d", codec.ErrInvalidInput, cmd.Kind)
	}
}

func (s *Session) respond(resp codec.Response) error {
	if err := s.codec.Unparse(s.w, resp); err != nil {
		return err
	}
	return s.w.Flush()
}

// protocolStatus reports, for every compiled-in protocol, whether it can be
// reached via PROTOCOL switching on this codec. Palette is compiled in but
// not wire-switchable (see the palette-availability open-question
// resolution), so it always reports Disabled here. New always starts a
// session on the text codec, so no session starts on palette either.
func (s *Session) protocolStatus() []codec.ProtocolStatus {
	status := make([]codec.ProtocolStatus, len(knownProtocols))
	for i, p := range knownProtocols {
		status[i] = codec.ProtocolStatus{Name: p.name, Enabled: p.switchable}
	}
	return status
}

