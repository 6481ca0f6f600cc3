package metrics

import "testing"

func TestAddPixelsAccumulates(t *testing.T) {
	before := PixelsChanged()
	AddPixels(5)
	AddPixels(0)
	AddPixels(3)
	if got, want := PixelsChanged()-before, uint64(8); got != want {
		t.Errorf("PixelsChanged() increased by %d, want %d", got, want)
	}
}

func TestClientConnectedAndDisconnectedBalance(t *testing.T) {
	before := Clients()
	ClientConnected()
	ClientConnected()
	if got, want := Clients()-before, int64(2); got != want {
		t.Errorf("Clients() = %d more than before, want %d", got, want)
	}
	ClientDisconnected()
	ClientDisconnected()
	if got := Clients(); got != before {
		t.Errorf("Clients() = %d after balanced disconnects, want %d", got, before)
	}
}
