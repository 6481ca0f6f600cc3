package canvas

import "testing"

func TestSetAtInRange(t *testing.T) {
	a := New("a", 1, 1, 0)
	b := New("b", 2, 2, 0)
	s := NewSet(a, b)

	if got, ok := s.At(0); !ok || got != a {
		t.Errorf("At(0) = %v, %v, want a, true", got, ok)
	}
	if got, ok := s.At(1); !ok || got != b {
		t.Errorf("At(1) = %v, %v, want b, true", got, ok)
	}
}

func TestSetAtOutOfRange(t *testing.T) {
	s := NewSet(New("a", 1, 1, 0))
	if _, ok := s.At(1); ok {
		t.Error("At(1) = true for a single-canvas set, want false")
	}
	if _, ok := s.At(-1); ok {
		t.Error("At(-1) = true, want false")
	}
}

func TestSetLenAndAll(t *testing.T) {
	s := NewSet(New("a", 1, 1, 0), New("b", 1, 1, 0), New("c", 1, 1, 0))
	if got := s.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := len(s.All()); got != 3 {
		t.Errorf("len(All()) = %d, want 3", got)
	}
}

func TestNewSetPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewSet() with no canvases did not panic")
		}
	}()
	NewSet()
}
