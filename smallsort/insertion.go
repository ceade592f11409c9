package smallsort

import "github.com/ajroetker/pss5/strset"

// insertionSort sorts bundle's active elements in [0,n) by their 8-byte
// key at depth, grounded on the teacher's InsertionSortSmall shape
// (hwy/contrib/sort/helpers.go), then runs a second linear pass filling
// LCP/cache boundaries (spec.md §4.F "Insertion sort (cached)"). It
// never writes bundle's own local index 0.
func insertionSort(bundle *strset.Bundle, depth int) {
	active := bundle.Active
	n := len(active)
	cache := make([]uint64, n)
	for i := range active {
		cache[i] = active.GetU64(i, depth)
	}

	for i := 1; i < n; i++ {
		key, str := cache[i], active[i]
		j := i - 1
		for j >= 0 && cache[j] > key {
			cache[j+1] = cache[j]
			active[j+1] = active[j]
			j--
		}
		cache[j+1] = key
		active[j+1] = str
	}

	for i := 1; i < n; {
		if cache[i] == cache[i-1] {
			j := i
			for j < n && cache[j] == cache[i-1] {
				j++
			}
			fillEqualRun(bundle, cache, i-1, j, depth)
			i = j
			continue
		}
		lcp := depth + strset.LcpOf(cache[i-1], cache[i])
		bundle.SetLCP(i, uint32(lcp))
		bundle.SetCache(i, strset.ByteAt(active[i], lcp))
		i++
	}
}

// fillEqualRun handles [start,end) where every element shares the same
// depth-d cache word. A window ending at a NUL terminator (low byte
// zero) is already fully resolved: the run's LCP is just the logical
// string length, and cache is NUL since the strings end exactly there.
// Otherwise the run needs one more 8-byte level of comparison.
func fillEqualRun(bundle *strset.Bundle, cache []uint64, start, end, depth int) {
	word := cache[start]
	if word&0xFF == 0 {
		lcp := uint32(depth + strset.DepthOf(word))
		for i := start + 1; i < end; i++ {
			bundle.SetLCP(i, lcp)
			bundle.SetCache(i, 0)
		}
		return
	}
	sub := bundle.Sub(start, end-start)
	insertionSort(sub, depth+8)
}
