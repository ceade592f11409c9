package smallsort

import (
	"github.com/ajroetker/pss5/internal/jobtree"
	"github.com/ajroetker/pss5/queue"
	"github.com/ajroetker/pss5/strset"
)

// mkqs sorts bundle via multi-key quicksort with a cached-key block
// (spec.md §4.F "MKQS with cached keys"). Everything happens in place
// on bundle.Active; no shadow buffer is touched. parent.Done() fires
// exactly once, either directly (base case) or once every lt/eq/gt
// child registered on this frame's own counter has finished.
//
// Work-sharing (spec.md §4.G) runs at the same granularity as
// runSeqSampleSort's bucket loop rather than a literal ms_stack with a
// pop-front index: before recursing into each of lt, eq, and gt, check
// ctx.Queue.HasIdle() and, if true, publish that subrange as an
// independent job on ctx.Queue instead of recursing locally. This keeps
// the bottom-frame intuition (a frame's own lt/eq/gt children are the
// coldest work it holds, since this frame is itself the thing a worker
// is actively running) without tracking which in-flight Go call frame
// is structurally oldest.
func mkqs(ctx *Context, bundle *strset.Bundle, depth int, parent *jobtree.Counter) {
	n := bundle.Size()
	if n <= ctx.Cfg.InsSortThresh || n < 3 {
		insertionSort(bundle, depth)
		parent.Done()
		return
	}

	active := bundle.Active
	cache := make([]uint64, n)
	for i := range active {
		cache[i] = active.GetU64(i, depth)
	}

	pivot := medianOf9(cache)
	lt, gt, maxLT, minGT := partition3Way(active, cache, pivot)

	subs := jobtree.NewCounter(func() {
		if lt > 0 {
			lcp := depth + strset.LcpOf(maxLT, pivot)
			bundle.SetLCP(lt, uint32(lcp))
			bundle.SetCache(lt, strset.ByteAt(active[lt], lcp))
		}
		if gt > 0 && gt < n {
			lcp := depth + strset.LcpOf(minGT, pivot)
			bundle.SetLCP(gt, uint32(lcp))
			bundle.SetCache(gt, strset.ByteAt(active[gt], lcp))
		}
		parent.Done()
	})
	subs.Add(1) // anonymous, held until every child below has been registered

	dispatch := func(sub *strset.Bundle, d int) {
		subs.Add(1)
		if ctx.Queue.HasIdle() {
			ctx.Queue.Enqueue(queue.JobFunc(func(*queue.Pool) { mkqs(ctx, sub, d, subs) }))
			return
		}
		mkqs(ctx, sub, d, subs)
	}

	if lt > 0 {
		dispatch(bundle.Sub(0, lt), depth)
	}
	if gt < n {
		dispatch(bundle.Sub(gt, n-gt), depth)
	}
	switch {
	case pivot&0xFF == 0:
		eqLCP := uint32(depth + strset.DepthOf(pivot))
		for i := lt + 1; i < gt; i++ {
			bundle.SetLCP(i, eqLCP)
			bundle.SetCache(i, 0)
		}
	case gt-lt > 1:
		dispatch(bundle.Sub(lt, gt-lt), depth+8)
	}

	subs.Done()
}

// medianOf9 picks a pivot from three medians-of-3, sampled at the
// positions spec.md §4.F step 2 lists, grounded on the teacher's
// PivotSampled/PivotMedianOf3 (hwy/contrib/sort/helpers.go).
func medianOf9(cache []uint64) uint64 {
	n := len(cache)
	m1 := med3(cache[0], cache[n/8], cache[n/4])
	m2 := med3(cache[n/2-n/8], cache[n/2], cache[n/2+n/8])
	m3 := med3(cache[n-1-n/4], cache[n-1-n/8], cache[n-3])
	return med3(m1, m2, m3)
}

func med3(a, b, c uint64) uint64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
		if a > b {
			b = a
		}
	}
	return b
}

// partition3Way is a single-pass Dutch-national-flag 3-way partition
// grounded on the teacher's scalarPartition3Way
// (hwy/contrib/sort/helpers.go), adapted to move (active[i], cache[i])
// pairs together and to track the largest lt value and smallest gt
// value seen, needed for the boundary LCPs.
func partition3Way(active strset.Slice, cache []uint64, pivot uint64) (lt, gt int, maxLT, minGT uint64) {
	n := len(cache)
	lo, i, hi := 0, 0, n
	haveLT, haveGT := false, false
	for i < hi {
		v := cache[i]
		switch {
		case v < pivot:
			if !haveLT || v > maxLT {
				maxLT, haveLT = v, true
			}
			cache[lo], cache[i] = cache[i], cache[lo]
			active[lo], active[i] = active[i], active[lo]
			lo++
			i++
		case v > pivot:
			if !haveGT || v < minGT {
				minGT, haveGT = v, true
			}
			hi--
			cache[i], cache[hi] = cache[hi], cache[i]
			active[i], active[hi] = active[hi], active[i]
		default:
			i++
		}
	}
	return lo, hi, maxLT, minGT
}
