// Package pss5 implements the parallel, cache-aware, LCP-computing
// Super Scalar String Sample-Sort (pS5): a splitter-tree classifier
// (classifier), a persistent job queue with idle-worker signalling
// (queue), a parallel sample-sort step (sample), and a sequential
// in-cache sample-sort falling through to MKQS and insertion sort
// (smallsort), composed into the five entry points below.
package pss5

import (
	"fmt"
	"runtime"

	"github.com/ajroetker/pss5/config"
	"github.com/ajroetker/pss5/internal/jobtree"
	"github.com/ajroetker/pss5/locality"
	"github.com/ajroetker/pss5/queue"
	"github.com/ajroetker/pss5/sample"
	"github.com/ajroetker/pss5/strset"
)

// Sort sorts set in place, lexicographically by NUL-terminated byte
// content, using config.Defaults().
func Sort(set strset.StringSet) {
	run(toSlice(set), nil, nil, config.Defaults())
}

// SortOut sorts set's contents into out, leaving set unmodified. set and
// out must have equal length.
func SortOut(set, out strset.StringSet) {
	requireSameLength(set, out)
	run(seedOut(set, out), nil, nil, config.Defaults())
}

// SortLCP sorts set in place and additionally fills lcp[i] with the
// common-prefix length between the sorted output's elements i-1 and i
// (lcp[0] is left untouched). lcp must have the same length as set.
func SortLCP(set strset.StringSet, lcp []uint32) {
	requireSameLengthLCP(set, lcp)
	run(toSlice(set), lcp, nil, config.Defaults())
}

// SortLCPCacheOut sorts set's contents into out and fills both lcp and
// cache: cache[i] is the output's byte at offset lcp[i] (0 if that
// offset is at or past the string's NUL terminator). set, out, lcp, and
// cache must all have equal length.
func SortLCPCacheOut(set, out strset.StringSet, lcp []uint32, cache []byte) {
	requireSameLength(set, out)
	requireSameLengthLCP(set, lcp)
	requireSameLengthCache(set, cache)
	run(seedOut(set, out), lcp, cache, config.Defaults())
}

// SortNUMA behaves like SortLCPCacheOut, but restricts every worker
// goroutine to the CPU set belonging to the given locality group, using
// the given number of worker threads (spec.md §5's NUMA hook).
func SortNUMA(set, out strset.StringSet, lcp []uint32, cache []byte, locality_, threads int) {
	requireSameLength(set, out)
	requireSameLengthLCP(set, lcp)
	requireSameLengthCache(set, cache)
	cfg := config.Defaults()
	cfg.Threads = threads
	g := locality_
	cfg.Locality = &g
	run(seedOut(set, out), lcp, cache, cfg)
}

// seedOut copies set's string handles into out and returns out: the
// sorter always converges its final permutation back into whatever
// slice it was handed as the active buffer (see run/Bundle.CopyBack), so
// an out-of-place sort must start the algorithm on a copy living in out,
// never on set itself, or set would end up reordered too.
func seedOut(set, out strset.StringSet) strset.Slice {
	s, o := toSlice(set), toSlice(out)
	copy(o, s)
	return o
}

func requireSameLength(set, out strset.StringSet) {
	if set.Size() != out.Size() {
		panic(fmt.Sprintf("pss5: set has %d elements, out has %d", set.Size(), out.Size()))
	}
}

func requireSameLengthLCP(set strset.StringSet, lcp []uint32) {
	if len(lcp) != set.Size() {
		panic(fmt.Sprintf("pss5: set has %d elements, lcp has %d", set.Size(), len(lcp)))
	}
}

func requireSameLengthCache(set strset.StringSet, cache []byte) {
	if len(cache) != set.Size() {
		panic(fmt.Sprintf("pss5: set has %d elements, cache has %d", set.Size(), len(cache)))
	}
}

// toSlice asserts set's concrete type. strset.Slice is the only
// StringSet implementation in this module; the interface exists so
// classifier/sample/smallsort depend on a contract rather than a
// concrete type, not so callers can plug in arbitrary implementations
// of the out-of-place permutation this sorter performs internally.
func toSlice(set strset.StringSet) strset.Slice {
	if set == nil {
		panic("pss5: set is nil")
	}
	s, ok := set.(strset.Slice)
	if !ok {
		panic(fmt.Sprintf("pss5: unsupported StringSet implementation %T (want strset.Slice)", set))
	}
	return s
}

// run wires one sort call together: builds the bundle over active (the
// buffer the final sorted permutation must land in: set itself for an
// in-place sort, or a pre-seeded out for an out-of-place one), starts a
// worker pool (restricted to cfg.Locality if set), routes the whole
// range through sample.Route, blocks until the root step's completion
// counter reaches zero, then closes the pool.
func run(active strset.Slice, lcp []uint32, cache []byte, cfg config.Options) {
	cfg = cfg.Normalized()

	bundle := strset.NewBundle(active, lcp, cache)

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	pin := locality.Hook(locality.None{})
	if cfg.Locality != nil {
		pin = locality.ForGroup(*cfg.Locality, threads)
	}

	q := queue.New(threads, pin)
	ctx := sample.NewContext(q, cfg, bundle.Size())

	done := make(chan struct{})
	root := jobtree.NewCounter(func() { close(done) })
	root.Add(1)
	sample.Route(ctx, bundle, 0, root)
	<-done

	if err := q.Close(); err != nil {
		panic(err)
	}
}
