package sample

import (
	"sync/atomic"

	"github.com/ajroetker/pss5/classifier"
	"github.com/ajroetker/pss5/internal/jobtree"
	"github.com/ajroetker/pss5/queue"
	"github.com/ajroetker/pss5/strset"
)

// Step is one node of spec.md §3's "dynamic tree of outstanding work":
// a parallel sample-sort step over a range, carrying its parent's
// completion counter, its own classifier, and the per-partition
// scratch state for its current phase. It runs through
// NEW → SAMPLING → COUNTING → DISTRIBUTING → RECURSING → DONE as a
// chain of queue.Jobs, never blocking the calling worker.
type Step struct {
	ctx    *Context
	bundle *strset.Bundle
	depth  int
	parent *jobtree.Counter

	ns   int
	k    int
	tree *classifier.Tree

	bktcache [][]uint16
	bkt      [][]int
	bounds   []int

	pending atomic.Int32
	subs    *jobtree.Counter
}

// NewStep allocates a Step; call Start to enter SAMPLING.
func NewStep(ctx *Context, bundle *strset.Bundle, depth int, parent *jobtree.Counter) *Step {
	return &Step{ctx: ctx, bundle: bundle, depth: depth, parent: parent}
}

// Start enqueues this step's sample job.
func (s *Step) Start() {
	n := s.bundle.Size()
	s.ns = classifier.DefaultNS(s.ctx.Cfg.L2Cache)
	s.k = s.ctx.partitionCount(n)
	s.ctx.Queue.Enqueue(queue.JobFunc(func(*queue.Pool) { s.sample() }))
}

func (s *Step) partRange(c int) (begin, end int) {
	n := s.bundle.Size()
	partSize := (n + s.k - 1) / s.k
	begin = c * partSize
	end = min(begin+partSize, n)
	begin = min(begin, n)
	return
}

// sample draws 2*NS random keys at depth, builds the classifier, and
// fans out the COUNTING phase (spec.md §4.E "SAMPLING job").
func (s *Step) sample() {
	n := s.bundle.Size()
	for 2*s.ns > n && s.ns > 1 {
		s.ns /= 2
	}
	samples := make([]uint64, 2*s.ns)
	lcg := strset.NewLCG(s.ctx.seed())
	for i := range samples {
		samples[i] = s.bundle.Active.GetU64(lcg.Intn(n), s.depth)
	}
	s.tree = classifier.Build(s.ns, samples)

	s.bktcache = make([][]uint16, s.k)
	s.bkt = make([][]int, s.k)
	s.pending.Store(int32(s.k))
	for c := range s.k {
		c := c
		s.ctx.Queue.Enqueue(queue.JobFunc(func(*queue.Pool) { s.count(c) }))
	}
}

// count classifies partition c and histograms it into s.bkt[c]
// (spec.md §4.E "COUNTING job").
func (s *Step) count(c int) {
	begin, end := s.partRange(c)
	out := getCacheSlice(end - begin)
	classifier.ClassifyRange(s.tree, s.bundle.Active, begin, end, out, s.depth)
	s.bktcache[c] = out

	bkt := getBucketSlice(s.tree.Buckets())
	for _, b := range out {
		bkt[b]++
	}
	s.bkt[c] = bkt

	if s.pending.Add(-1) == 0 {
		s.countFinished()
	}
}

// countFinished performs the inclusive prefix sum across threads then
// buckets (spec.md §4.E "count_finished") and fans out DISTRIBUTING.
func (s *Step) countFinished() {
	buckets := s.tree.Buckets()
	bounds := make([]int, buckets+1)
	sum := 0
	for i := range buckets {
		for p := range s.k {
			sum += s.bkt[p][i]
			s.bkt[p][i] = sum
		}
		// s.bkt[p][i] is about to be consumed (decremented down to each
		// partition's own start offset) as distribute places strings, so
		// the bucket's true end boundary is captured here, before that
		// happens, rather than re-read from s.bkt afterward.
		bounds[i+1] = sum
	}
	s.bounds = bounds

	s.pending.Store(int32(s.k))
	for c := range s.k {
		c := c
		s.ctx.Queue.Enqueue(queue.JobFunc(func(*queue.Pool) { s.distribute(c) }))
	}
}

// distribute moves partition c's strings from the active buffer into
// the shadow buffer at their final bucketized positions (spec.md §4.E
// "DISTRIBUTING job").
func (s *Step) distribute(c int) {
	begin, end := s.partRange(c)
	cache := s.bktcache[c]
	bkt := s.bkt[c]
	for j := begin; j < end; j++ {
		b := cache[j-begin]
		bkt[b]--
		s.bundle.Shadow[bkt[b]] = s.bundle.Active[j]
	}
	putCacheSlice(s.bktcache[c])
	s.bktcache[c] = nil
	putBucketSlice(s.bkt[c])
	s.bkt[c] = nil

	if s.pending.Add(-1) == 0 {
		s.distributeFinished()
	}
}

// distributeFinished walks the now-bucketized shadow buffer, copying
// back or recursing into each bucket, then arranges for
// classifier.FillBucketLCPs to run once every recursive child has
// finished (spec.md §4.E "distribute_finished").
func (s *Step) distributeFinished() {
	buckets := s.tree.Buckets()
	bounds := s.bounds
	s.bkt = nil
	s.bounds = nil

	flipped := s.bundle.Flip(0, s.bundle.Size())

	if s.ctx.Cfg.SingleStep && s.depth == 0 {
		for i := range buckets {
			begin, end := bounds[i], bounds[i+1]
			if end > begin {
				flipped.Sub(begin, end-begin).CopyBack()
			}
		}
		classifier.FillBucketLCPs(flipped, s.tree, bounds, s.depth)
		s.parent.Done()
		return
	}

	s.subs = jobtree.NewCounter(func() {
		classifier.FillBucketLCPs(flipped, s.tree, bounds, s.depth)
		s.parent.Done()
	})
	s.subs.Add(1) // anonymous, held until every bucket below has been registered

	for i := range buckets {
		begin, end := bounds[i], bounds[i+1]
		sz := end - begin
		switch {
		case sz == 0:
		case sz == 1:
			flipped.Sub(begin, 1).CopyBack()
		case i%2 == 0:
			d := s.depth + classifier.LCPLen(s.tree.LCPByteAt(i/2))
			s.subs.Add(1)
			Route(s.ctx, flipped.Sub(begin, sz), d, s.subs)
		default:
			rank := i / 2
			lb := s.tree.LCPByteAt(rank)
			sub := flipped.Sub(begin, sz)
			if classifier.Terminal(lb) {
				sub.CopyBack()
				sub.FillLCP(uint32(s.depth + strset.DepthOf(s.tree.SplitterAt(rank))))
			} else {
				s.subs.Add(1)
				Route(s.ctx, sub, s.depth+8, s.subs)
			}
		}
	}

	s.subs.Done()
}
