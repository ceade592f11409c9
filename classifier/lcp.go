package classifier

import "github.com/ajroetker/pss5/strset"

// FillBucketLCPs implements spec.md §4.E's sample_sort_lcp: once a
// distribute phase has moved every bucket into its final contiguous
// range within bundle, walk the Buckets() buckets in ascending order
// and fill in the LCP/cache entries at each bucket's left boundary.
//
// bounds holds Buckets()+1 offsets local to bundle: bucket i occupies
// [bounds[i], bounds[i+1]), bounds[0]==0 and bounds[Buckets()]==bundle.Size().
// depth is this step's current depth d.
//
// Local index 0 of bundle's LCP/cache arrays is never written: either
// it is the sort's very first element (whose lcp[0] the entry API
// contract leaves untouched), or it is a position a parent step's own
// FillBucketLCPs call already wrote when it recursed into this range.
// Because of that, the carried "previous key" used to seed the first
// written boundary is never actually observed, so callers need not
// thread one in from a parent step.
func FillBucketLCPs(bundle *strset.Bundle, tree *Tree, bounds []int, depth int) {
	var prevKey uint64
	for i := range tree.Buckets() {
		start, end := bounds[i], bounds[i+1]
		if end <= start {
			continue
		}
		if i%2 == 1 {
			rank := i / 2
			splitter := tree.SplitterAt(rank)
			writeBoundary(bundle, start, depth+strset.LcpOf(prevKey, splitter))
			prevKey = splitter
		} else {
			firstKey := bundle.Active.GetU64(start, depth)
			writeBoundary(bundle, start, depth+strset.LcpOf(prevKey, firstKey))
			prevKey = bundle.Active.GetU64(end-1, depth)
		}
	}
}

func writeBoundary(bundle *strset.Bundle, idx, globalLCP int) {
	if idx == 0 {
		return
	}
	bundle.SetLCP(idx, uint32(globalLCP))
	bundle.SetCache(idx, strset.ByteAt(bundle.Active.At(idx), globalLCP))
}
