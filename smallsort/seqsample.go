package smallsort

import (
	"github.com/ajroetker/pss5/classifier"
	"github.com/ajroetker/pss5/internal/jobtree"
	"github.com/ajroetker/pss5/queue"
	"github.com/ajroetker/pss5/strset"
)

// runSeqSampleSort implements spec.md §4.F's sequential sample-sort
// step for one bundle: sample, build a classifier, classify, histogram,
// prefix-sum, permute into the shadow buffer, then recurse into each
// bucket, exactly the same phase structure as the parallel
// sample.Step, single-threaded. Recursion is plain Go call recursion
// (the natural analogue of the source's local ss_stack) rather than a
// hand-rolled stack: a Go call frame already *is* one "pushed frame",
// and its LCP boundaries are written once its own children, whether
// recursed here synchronously or handed to the shared queue, have
// all completed, via the same jobtree.Counter pattern sample.Step uses.
//
// Work-sharing (spec.md §4.G) triggers per bucket rather than strictly
// from the stack's bottom frame: whenever the queue reports an idle
// worker, this bucket's recursion is submitted to queue.Pool instead of
// being recursed into locally. This keeps the policy's effect (work
// flows to idle workers instead of piling up behind one busy one)
// without needing to track which of potentially many in-flight Go call
// frames is the structurally "oldest" one.
func runSeqSampleSort(ctx *Context, bundle *strset.Bundle, depth int, parent *jobtree.Counter) {
	flipped, tree, bounds := buildLocalClassifier(ctx, bundle, depth)

	subs := jobtree.NewCounter(func() {
		classifier.FillBucketLCPs(flipped, tree, bounds, depth)
		parent.Done()
	})
	subs.Add(1) // anonymous, held until the dispatch loop below finishes

	for i := range tree.Buckets() {
		begin, end := bounds[i], bounds[i+1]
		sz := end - begin
		if sz == 0 {
			continue
		}
		sub := flipped.Sub(begin, sz)
		if sz == 1 {
			sub.CopyBack()
			continue
		}

		var d int
		if i%2 == 0 {
			d = depth + classifier.LCPLen(tree.LCPByteAt(i/2))
		} else {
			rank := i / 2
			lb := tree.LCPByteAt(rank)
			if classifier.Terminal(lb) {
				sub.CopyBack()
				sub.FillLCP(uint32(depth + strset.DepthOf(tree.SplitterAt(rank))))
				continue
			}
			d = depth + 8
		}

		if ctx.Queue.HasIdle() {
			subs.Add(1)
			d, sub := d, sub
			ctx.Queue.Enqueue(queue.JobFunc(func(*queue.Pool) {
				Run(ctx, sub, d, subs)
			}))
			continue
		}

		if sub.Size() >= ctx.Cfg.SeqSSThresh {
			subs.Add(1)
			runSeqSampleSort(ctx, sub, d, subs)
		} else {
			subs.Add(1)
			done := jobtree.NewCounter(func() {
				sub.CopyBack()
				subs.Done()
			})
			done.Add(1)
			mkqs(ctx, sub, d, done)
		}
	}

	subs.Done()
}

// buildLocalClassifier draws samples, builds a classifier.Tree, then
// classifies and permutes bundle's active elements into its shadow
// buffer, returning the flipped bundle (shadow now active) along with
// the tree and each bucket's [begin,end) boundaries.
func buildLocalClassifier(ctx *Context, bundle *strset.Bundle, depth int) (*strset.Bundle, *classifier.Tree, []int) {
	n := bundle.Size()
	ns := classifier.DefaultNS(ctx.Cfg.L2Cache)
	for 2*ns > n && ns > 1 {
		ns /= 2
	}

	samples := make([]uint64, 2*ns)
	lcg := ctx.lcg()
	for i := range samples {
		samples[i] = bundle.Active.GetU64(lcg.Intn(n), depth)
	}
	tree := classifier.Build(ns, samples)

	bktcache := make([]uint16, n)
	classifier.ClassifyRange(tree, bundle.Active, 0, n, bktcache, depth)

	buckets := tree.Buckets()
	bkt := make([]int, buckets)
	for _, b := range bktcache {
		bkt[b]++
	}
	sum := 0
	for i := range bkt {
		sum += bkt[i]
		bkt[i] = sum
	}

	bounds := make([]int, buckets+1)
	for i := range buckets {
		bounds[i+1] = bkt[i]
	}

	for j := n - 1; j >= 0; j-- {
		b := bktcache[j]
		bkt[b]--
		bundle.Shadow[bkt[b]] = bundle.Active[j]
	}

	return bundle.Flip(0, n), tree, bounds
}
