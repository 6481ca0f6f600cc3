package flutserver

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestWriteStatsBarClampsToWidth(t *testing.T) {
	var buf bytes.Buffer
	writeStatsBar(&buf, *ansi256.Default, statsBarWidth+10, 5)

	if buf.Len() == 0 {
		t.Fatal("writeStatsBar wrote nothing")
	}

	var atWidth bytes.Buffer
	writeStatsBar(&atWidth, *ansi256.Default, statsBarWidth, 5)
	got := strings.Replace(buf.String(), fmt.Sprintf("clients=%d", statsBarWidth+10), fmt.Sprintf("clients=%d", statsBarWidth), 1)
	if got != atWidth.String() {
		t.Errorf("bar for %d clients = %q, want the same %d blocks as for %d clients (%q)", statsBarWidth+10, buf.String(), statsBarWidth, statsBarWidth, atWidth.String())
	}
}

func TestWriteStatsBarHandlesZeroClients(t *testing.T) {
	var buf bytes.Buffer
	writeStatsBar(&buf, *ansi256.Default, 0, 0)

	if !bytes.Contains(buf.Bytes(), []byte("clients=0")) {
		t.Errorf("output %q does not mention clients=0", buf.String())
	}
}

func TestWriteStatsBarColorsByRate(t *testing.T) {
	var stalled, healthy bytes.Buffer
	writeStatsBar(&stalled, *ansi256.Default, 1, 0)
	writeStatsBar(&healthy, *ansi256.Default, 1, 100)

	if stalled.String() == healthy.String() {
		t.Error("stalled and healthy bars render identically, want different colors")
	}
}
