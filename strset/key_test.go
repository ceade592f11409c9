package strset

import "testing"

func TestGetU64ZeroPads(t *testing.T) {
	s := S("ab")
	got := GetU64(s, 0)
	want := uint64('a')<<56 | uint64('b')<<48
	if got != want {
		t.Errorf("GetU64 = %#x, want %#x", got, want)
	}
}

func TestGetU64StopsAtEmbeddedNUL(t *testing.T) {
	s := S("fo\x00bar")
	got := GetU64(s, 0)
	want := uint64('f')<<56 | uint64('o')<<48
	if got != want {
		t.Errorf("GetU64 with embedded NUL = %#x, want %#x", got, want)
	}
	// depth beyond the terminator yields an all-zero key.
	if got := GetU64(s, 3); got != 0 {
		t.Errorf("GetU64 past terminator = %#x, want 0", got)
	}
}

func TestGetU64PastEnd(t *testing.T) {
	s := S("a")
	if got := GetU64(s, 5); got != 0 {
		t.Errorf("GetU64 past end = %#x, want 0", got)
	}
}

func TestByteAt(t *testing.T) {
	s := S("abc")
	if b := ByteAt(s, 1); b != 'b' {
		t.Errorf("ByteAt(1) = %q, want 'b'", b)
	}
	if b := ByteAt(s, 3); b != 0 {
		t.Errorf("ByteAt(terminator) = %q, want 0", b)
	}
	if b := ByteAt(s, 100); b != 0 {
		t.Errorf("ByteAt(past end) = %q, want 0", b)
	}
}

func TestByteAtEmbeddedNUL(t *testing.T) {
	s := S("a\x00z")
	if b := ByteAt(s, 1); b != 0 {
		t.Errorf("ByteAt(embedded NUL) = %q, want 0", b)
	}
	// The byte after an embedded NUL is past the logical length and
	// must never influence ordering, even though it's physically there.
	if b := ByteAt(s, 2); b != 0 {
		t.Errorf("ByteAt(after embedded NUL) = %q, want 0", b)
	}
}

func TestLcpOf(t *testing.T) {
	cases := []struct {
		a, b uint64
		want int
	}{
		{0, 0, 8},
		{1, 0, 7},
		{0xFF00000000000000, 0x00FF000000000000, 0},
		{0x1234000000000000, 0x1234560000000000, 2},
	}
	for _, c := range cases {
		if got := LcpOf(c.a, c.b); got != c.want {
			t.Errorf("LcpOf(%#x,%#x) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDepthOf(t *testing.T) {
	cases := []struct {
		key  uint64
		want int
	}{
		{0, 0},
		{uint64('a') << 56, 1},
		{uint64('a')<<56 | uint64('b')<<48, 2},
		{^uint64(0), 8},
	}
	for _, c := range cases {
		if got := DepthOf(c.key); got != c.want {
			t.Errorf("DepthOf(%#x) = %d, want %d", c.key, got, c.want)
		}
	}
}

func TestCharAt(t *testing.T) {
	key := GetU64(S("abcdefgh"), 0)
	for i, want := range []byte("abcdefgh") {
		if got := CharAt(key, i); got != want {
			t.Errorf("CharAt(key,%d) = %q, want %q", i, got, want)
		}
	}
	if got := CharAt(key, 8); got != 0 {
		t.Errorf("CharAt(key,8) = %q, want 0", got)
	}
}

func TestLCGDeterministic(t *testing.T) {
	g1 := NewLCG(42)
	g2 := NewLCG(42)
	for range 10 {
		if g1.Next() != g2.Next() {
			t.Fatal("same seed produced different sequences")
		}
	}
}

func TestLCGIntnRange(t *testing.T) {
	g := NewLCG(7)
	for range 1000 {
		v := g.Intn(17)
		if v < 0 || v >= 17 {
			t.Fatalf("Intn(17) = %d, out of range", v)
		}
	}
}
