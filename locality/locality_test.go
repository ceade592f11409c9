package locality

import "testing"

func TestForGroupNegativeIsNone(t *testing.T) {
	h := ForGroup(-1, 4)
	if _, ok := h.(None); !ok {
		t.Errorf("ForGroup(-1,_) = %T, want None", h)
	}
}

func TestNonePinDoesNotPanic(t *testing.T) {
	None{}.Pin(0)
}

func TestForGroupReturnsUsableHook(t *testing.T) {
	h := ForGroup(0, 2)
	if h == nil {
		t.Fatal("ForGroup returned nil Hook")
	}
	// Must not panic regardless of platform or worker index.
	h.Pin(0)
	h.Pin(1)
	h.Pin(100)
}
