package smallsort

import (
	"github.com/ajroetker/pss5/internal/jobtree"
	"github.com/ajroetker/pss5/strset"
)

// Run resolves bundle entirely on the calling goroutine, unless the
// work-sharing in MKQS or in the sequential sample-sort publishes part
// of it to the shared queue (spec.md §4.F
// "Entry rule"): sequential sample-sort for the largest sequential
// inputs, MKQS-with-cache in between, plain insertion sort for the
// smallest runs. parent.Done() fires exactly once, either directly or
// via the completion chain runSeqSampleSort/mkqs sets up internally.
func Run(ctx *Context, bundle *strset.Bundle, depth int, parent *jobtree.Counter) {
	n := bundle.Size()
	switch {
	case n == 0:
		parent.Done()
	case n == 1:
		bundle.CopyBack()
		parent.Done()
	case n <= ctx.Cfg.InsSortThresh:
		insertionSort(bundle, depth)
		bundle.CopyBack()
		parent.Done()
	case n >= ctx.Cfg.SeqSSThresh:
		runSeqSampleSort(ctx, bundle, depth, parent)
	default:
		// mkqs may publish sub-ranges to the queue and return before they
		// finish, so the CopyBack has to wait for its whole subtree, not
		// just the call itself: done via a one-shot counter between mkqs
		// and the real parent.
		done := jobtree.NewCounter(func() {
			bundle.CopyBack()
			parent.Done()
		})
		done.Add(1)
		mkqs(ctx, bundle, depth, done)
	}
}
