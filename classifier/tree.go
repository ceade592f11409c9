package classifier

import (
	"sort"

	"github.com/ajroetker/pss5/strset"
)

// terminalBit marks, in a splitter's LCPByte, that the splitter's key
// ends at a NUL terminator, so its equal-bucket is already fully
// sorted and needs no further recursion (spec.md §3).
const terminalBit = 0x80

// Tree is an implicit balanced binary search tree of NS = 2^B-1
// splitters, stored flat and indexed from 1 (index 0 unused) in
// Eytzinger (array-heap) order: node i's children are 2i and 2i+1.
//
// splitters and rankOf are indexed by tree-node position, matching
// spec.md §4.C step 3 literally ("set lcp_out[i] to lcp_of(prev_splitter,
// this_splitter)" where i is the Eytzinger index). bySplitter/byLCPByte
// give the same values addressed by ascending rank (0..NS-1), the order
// buckets are produced and consumed in during distribute_finished /
// sample_sort_lcp.
type Tree struct {
	NS int

	splitters []uint64 // [1..NS], Eytzinger order
	lcpByte   []uint8  // [1..NS], aligned with splitters
	rankOf    []int    // [1..NS] -> 0-indexed in-order rank

	bySplitter []uint64 // [0..NS-1], ascending
	byLCPByte  []uint8  // [0..NS], aligned with bySplitter; [NS] is 0
}

// Build constructs a Tree from 2*ns already-drawn sample keys (spec.md
// §4.C: "oversampling factor 2"). samples is sorted in place.
func Build(ns int, samples []uint64) *Tree {
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	picked := make([]uint64, ns)
	for j := range ns {
		picked[j] = samples[2*j+1]
	}

	t := &Tree{
		NS:         ns,
		splitters:  make([]uint64, ns+1),
		lcpByte:    make([]uint8, ns+1),
		rankOf:     make([]int, ns+1),
		bySplitter: picked,
		byLCPByte:  make([]uint8, ns+1),
	}

	next := 0
	var fill func(node int)
	fill = func(node int) {
		if node > ns {
			return
		}
		fill(2 * node)
		t.splitters[node] = picked[next]
		next++
		fill(2*node + 1)
	}
	fill(1)

	var prev uint64
	idx := 0
	var walk func(node int)
	walk = func(node int) {
		if node > ns {
			return
		}
		walk(2 * node)
		cur := t.splitters[node]
		lcp := 0
		if idx > 0 {
			lcp = strset.LcpOf(prev, cur)
		}
		b := uint8(lcp & 0x7F)
		if cur&0xFF == 0 {
			b |= terminalBit
		}
		t.lcpByte[node] = b
		t.rankOf[node] = idx
		t.byLCPByte[idx] = b
		prev = cur
		idx++
		walk(2*node + 1)
	}
	walk(1)

	return t
}

// SplitterAt returns the rank-th (0-indexed, ascending) splitter value.
func (t *Tree) SplitterAt(rank int) uint64 { return t.bySplitter[rank] }

// LCPByteAt returns the rank-th splitter's packed LCP byte: the low 7
// bits hold lcp_of against its in-order predecessor, the high bit marks
// a NUL-terminated splitter. rank may also be NS, for the last
// ("greater than every splitter") bucket, which has no upper splitter:
// that byte is 0.
func (t *Tree) LCPByteAt(rank int) uint8 { return t.byLCPByte[rank] }

// LCPLen returns the low-7-bit common-prefix length packed in b.
func LCPLen(b uint8) int { return int(b & 0x7F) }

// Terminal reports whether b's high bit (NUL-terminated splitter) is set.
func Terminal(b uint8) bool { return b&terminalBit != 0 }

// Buckets returns the total number of buckets this tree classifies into:
// 2*NS+1 (spec.md §3 "Buckets").
func (t *Tree) Buckets() int { return 2*t.NS + 1 }

// Classify returns the bucket index in [0, 2*NS] for key, by descending
// the implicit tree: left on <, right on >, returning immediately on ==.
// Falling off the bottom (no equality match) lands in an even
// ("less/greater than splitter") bucket; an exact match lands in the
// odd ("equal to splitter") bucket for the matched splitter's rank.
func (t *Tree) Classify(key uint64) int {
	i := 1
	for i <= t.NS {
		s := t.splitters[i]
		switch {
		case key == s:
			return 2*t.rankOf[i] + 1
		case key < s:
			i = 2 * i
		default:
			i = 2*i + 1
		}
	}
	gap := i - (t.NS + 1)
	return 2 * gap
}

// ClassifyRange classifies set[begin:end) at the given depth, writing
// each string's bucket index into out[0:end-begin] (spec.md §4.C
// "classify(set, begin, end, out[], depth)").
func ClassifyRange(t *Tree, set strset.StringSet, begin, end int, out []uint16, depth int) {
	for i := begin; i < end; i++ {
		key := set.GetU64(i, depth)
		out[i-begin] = uint16(t.Classify(key))
	}
}
