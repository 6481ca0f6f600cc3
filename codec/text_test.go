package codec

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/itepastra/flurry/canvas"
)

func parseLine(t *testing.T, c Codec, line string) Command {
	t.Helper()
	cmd, err := c.Parse(bufio.NewReader(bytes.NewReader([]byte(line))))
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", line, err)
	}
	return cmd
}

func TestTextParseSize(t *testing.T) {
	tx := NewText()
	cmd := parseLine(t, tx, "SIZE\n")
	if cmd.Kind != Size {
		t.Fatalf("Kind = %v, want Size", cmd.Kind)
	}
}

func TestTextParseGetPixel(t *testing.T) {
	tx := NewText()
	cmd := parseLine(t, tx, "PX 10 20\n")
	if cmd.Kind != GetPixel || cmd.X != 10 || cmd.Y != 20 {
		t.Fatalf("got %+v", cmd)
	}
}

func TestTextParseSetPixelRGB(t *testing.T) {
	tx := NewText()
	cmd := parseLine(t, tx, "PX 1 2 ff0080\n")
	if cmd.Kind != SetPixel {
		t.Fatalf("Kind = %v, want SetPixel", cmd.Kind)
	}
	want := canvas.RGB24(0xff, 0x00, 0x80)
	if cmd.Color != want {
		t.Errorf("Color = %v, want %v", cmd.Color, want)
	}
}

func TestTextParseSetPixelRGBA(t *testing.T) {
	tx := NewText()
	cmd := parseLine(t, tx, "PX 1 2 FF008080\n")
	want := canvas.RGBA32(0xff, 0x00, 0x80, 0x80)
	if cmd.Color != want {
		t.Errorf("Color = %v, want %v", cmd.Color, want)
	}
}

func TestTextParseSetPixelW(t *testing.T) {
	tx := NewText()
	cmd := parseLine(t, tx, "PX 1 2 80\n")
	want := canvas.W8(0x80)
	if cmd.Color != want {
		t.Errorf("Color = %v, want %v", cmd.Color, want)
	}
}

func TestTextParseCanvasIsStateful(t *testing.T) {
	tx := NewText()
	if err := tx.ChangeCanvas(3); err != nil {
		t.Fatalf("ChangeCanvas: %v", err)
	}
	cmd := parseLine(t, tx, "SIZE\n")
	if cmd.Canvas != 3 {
		t.Fatalf("Canvas = %d, want 3", cmd.Canvas)
	}
}

func TestTextParseInvalid(t *testing.T) {
	tx := NewText()
	for _, line := range []string{"BOGUS\n", "PX 1\n", "PX a b\n", "PX 1 2 zz\n"} {
		_, err := tx.Parse(bufio.NewReader(bytes.NewReader([]byte(line))))
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidInput", line, err)
		}
	}
}

func TestTextParseChangeProtocol(t *testing.T) {
	tx := NewText()
	cmd := parseLine(t, tx, "PROTOCOL binary\n")
	if cmd.Kind != ChangeProtocol || cmd.ProtocolName != "binary" {
		t.Fatalf("got %+v", cmd)
	}
}

func TestTextParseUnexpectedEOF(t *testing.T) {
	tx := NewText()
	_, err := tx.Parse(bufio.NewReader(bytes.NewReader([]byte("PX 1 2"))))
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestTextUnparseGetPixel(t *testing.T) {
	tx := NewText()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	resp := Response{Kind: RespGetPixel, X: 4, Y: 5, Pixel: [3]byte{0xab, 0xcd, 0xef}}
	if err := tx.Unparse(w, resp); err != nil {
		t.Fatalf("Unparse: %v", err)
	}
	w.Flush()
	if got, want := buf.String(), "PX 4 5 ABCDEF\n"; got != want {
		t.Errorf("Unparse = %q, want %q", got, want)
	}
}

func TestTextUnparseSize(t *testing.T) {
	tx := NewText()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := tx.Unparse(w, Response{Kind: RespSize, Width: 800, Height: 600}); err != nil {
		t.Fatalf("Unparse: %v", err)
	}
	w.Flush()
	if got, want := buf.String(), "SIZE 800 600\n"; got != want {
		t.Errorf("Unparse = %q, want %q", got, want)
	}
}

func TestTextUnparseProtocols(t *testing.T) {
	tx := NewText()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	resp := Response{Kind: RespProtocols, Protocols: []ProtocolStatus{
		{Name: "text", Enabled: true},
		{Name: "binary", Enabled: false},
	}}
	if err := tx.Unparse(w, resp); err != nil {
		t.Fatalf("Unparse: %v", err)
	}
	w.Flush()
	want := "Enabled: text\nDisabled: binary\n"
	if got := buf.String(); got != want {
		t.Errorf("Unparse = %q, want %q", got, want)
	}
}
