package smallsort

import (
	"testing"

	"github.com/ajroetker/pss5/strset"
)

func mkBundle(strs ...string) (*strset.Bundle, strset.Slice, []uint32, []byte) {
	active := make(strset.Slice, len(strs))
	for i, s := range strs {
		active[i] = strset.S(s)
	}
	lcp := make([]uint32, len(strs))
	cache := make([]byte, len(strs))
	return strset.NewBundle(active, lcp, cache), active, lcp, cache
}

func TestInsertionSortOrdersAndFillsLCP(t *testing.T) {
	bundle, active, lcp, cache := mkBundle("banana", "bandana", "band", "ban")
	insertionSort(bundle, 0)

	wantOrder := []string{"ban", "banana", "band", "bandana"}
	for i, w := range wantOrder {
		if string(active[i]) != w {
			t.Fatalf("active[%d] = %q, want %q (full: %v)", i, active[i], w, active)
		}
	}
	wantLCP := []uint32{0, 3, 3, 4}
	wantCache := []byte{0, 'a', 'd', 'a'}
	for i := 1; i < 4; i++ {
		if lcp[i] != wantLCP[i] {
			t.Errorf("lcp[%d] = %d, want %d", i, lcp[i], wantLCP[i])
		}
		if cache[i] != wantCache[i] {
			t.Errorf("cache[%d] = %q, want %q", i, cache[i], wantCache[i])
		}
	}
}

func TestInsertionSortAllEqualStrings(t *testing.T) {
	strs := make([]string, 100)
	for i := range strs {
		strs[i] = "x"
	}
	bundle, active, lcp, cache := mkBundle(strs...)
	insertionSort(bundle, 0)

	for i, s := range active {
		if string(s) != "x" {
			t.Fatalf("active[%d] = %q, want \"x\"", i, s)
		}
	}
	for i := 1; i < 100; i++ {
		if lcp[i] != 1 {
			t.Errorf("lcp[%d] = %d, want 1", i, lcp[i])
		}
		if cache[i] != 0 {
			t.Errorf("cache[%d] = %q, want NUL", i, cache[i])
		}
	}
}

func TestInsertionSortAlreadySorted(t *testing.T) {
	bundle, active, lcp, cache := mkBundle("a", "aa", "aaa")
	insertionSort(bundle, 0)

	want := []string{"a", "aa", "aaa"}
	for i, w := range want {
		if string(active[i]) != w {
			t.Fatalf("active[%d] = %q, want %q", i, active[i], w)
		}
	}
	if lcp[1] != 1 || cache[1] != 'a' {
		t.Errorf("lcp[1],cache[1] = %d,%q want 1,'a'", lcp[1], cache[1])
	}
	if lcp[2] != 2 || cache[2] != 'a' {
		t.Errorf("lcp[2],cache[2] = %d,%q want 2,'a'", lcp[2], cache[2])
	}
}

func TestInsertionSortEmbeddedNULOrdering(t *testing.T) {
	// "a\x00z" terminates logically after 'a'; the trailing 'z' must
	// never affect its place relative to "ab".
	bundle, active, _, _ := mkBundle("ab", "a\x00z")
	insertionSort(bundle, 0)
	if string(active[0]) != "a\x00z" || string(active[1]) != "ab" {
		t.Fatalf("embedded-NUL ordering wrong: %v", active)
	}
}
