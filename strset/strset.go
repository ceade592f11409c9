// Package strset provides the abstract string-set view the sorter
// operates on (spec.md §3 "StringSet (SS)", §4.A): random-access strings
// plus a shadow/output/LCP pointer bundle used for out-of-place
// permutation.
//
// A string is NUL-terminated: its logical length is the offset of its
// first zero byte, even if the backing slice continues past it. Embedded
// NUL bytes therefore behave as terminators, not as ordinary data: a
// byte that follows one never influences ordering.
package strset

// S is an opaque handle into a caller-owned byte buffer. The StringSet
// never copies or owns the bytes behind an S.
type S []byte

// StringSet is an ordered, random-access sequence of strings. It never
// owns the underlying bytes, only the order in which handles appear.
type StringSet interface {
	// Size returns the number of strings.
	Size() int
	// At returns the handle at index i.
	At(i int) S
	// Swap exchanges the handles at i and j.
	Swap(i, j int)
	// GetU64 fetches up to 8 bytes of the string at i starting at byte
	// offset depth, big-endian, zero-padded past the terminator.
	GetU64(i, depth int) uint64
}

// Slice is the concrete StringSet backing the public API: a flat,
// caller-owned slice of NUL-terminated byte strings.
type Slice []S

func (s Slice) Size() int { return len(s) }

func (s Slice) At(i int) S { return s[i] }

func (s Slice) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s Slice) GetU64(i, depth int) uint64 { return GetU64(s[i], depth) }

// Clone returns a shallow copy of the slice (new backing array, same
// string handles).
func (s Slice) Clone() Slice {
	out := make(Slice, len(s))
	copy(out, s)
	return out
}
