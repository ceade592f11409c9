package strset

import (
	"bytes"
	"encoding/binary"
	"math/bits"
)

// LogicalLen returns the logical length of s: the offset of its first
// zero byte, or len(s) if s contains no zero byte.
func LogicalLen(s S) int {
	if i := bytes.IndexByte(s, 0); i >= 0 {
		return i
	}
	return len(s)
}

// ByteAt returns the byte of s at global offset k (0-indexed), or 0 if k
// is at or past s's logical length, i.e. at or past the NUL terminator.
// This is the ground truth used for LCP "cached character" output: it
// always reflects the real string, regardless of what 8-byte window a
// key was most recently fetched from.
func ByteAt(s S, k int) byte {
	if k < 0 || k >= LogicalLen(s) {
		return 0
	}
	return s[k]
}

// GetU64 fetches up to 8 bytes of s starting at byte offset depth,
// zero-padded past the terminator, as a big-endian unsigned integer.
// Numeric comparison of the result equals lexicographic comparison of
// the original bytes, with NUL sorting smallest.
func GetU64(s S, depth int) uint64 {
	length := LogicalLen(s)
	var buf [8]byte
	if depth < length {
		end := depth + 8
		if end > length {
			end = length
		}
		copy(buf[:], s[depth:end])
	}
	return binary.BigEndian.Uint64(buf[:])
}

// LcpOf returns the number of leading bytes a and b share, as a count of
// whole bytes in [0,8]. It operates on two already-fetched 8-byte keys,
// not on the original strings; use ByteAt against the real strings to
// recover the exact byte at a computed boundary (see DESIGN.md's note on
// cache-byte computation).
func LcpOf(a, b uint64) int {
	x := a ^ b
	if x == 0 {
		return 8
	}
	return bits.LeadingZeros64(x) / 8
}

// DepthOf returns how many bytes of key precede its NUL terminator: 8
// minus the count of trailing zero bytes (least-significant side, since
// key is big-endian and later string bytes land in lower bits).
func DepthOf(key uint64) int {
	n := 0
	for n < 8 && byte(key) == 0 {
		key >>= 8
		n++
	}
	return 8 - n
}

// CharAt returns the byte at position k (0 = most significant, 7 = least
// significant) of the big-endian key a, or 0 for k outside [0,7]. The
// sorter itself does not call it: every cache byte it writes comes from
// ByteAt against the real string.
func CharAt(a uint64, k int) byte {
	if k < 0 || k > 7 {
		return 0
	}
	shift := uint(7-k) * 8
	return byte(a >> shift)
}

// LCG is the minimal linear-congruential generator spec.md §4.C calls
// for ("a seeded LCG is sufficient; no cryptographic properties
// required") to draw sample positions for splitter selection.
type LCG struct {
	state uint64
}

// NewLCG seeds a generator. A zero seed is nudged to a fixed odd
// constant so the sequence never degenerates to all-zero.
func NewLCG(seed uint64) *LCG {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &LCG{state: seed}
}

// constants from Numerical Recipes' 64-bit LCG.
const (
	lcgMul = 6364136223846793005
	lcgInc = 1442695040888963407
)

// Next returns the next pseudo-random uint64 in the sequence.
func (g *LCG) Next() uint64 {
	g.state = g.state*lcgMul + lcgInc
	return g.state
}

// Intn returns a pseudo-random integer in [0,n). n must be positive.
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Next() % uint64(n))
}
