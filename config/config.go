// Package config holds the sorter's build-time tuning knobs (spec.md §6,
// "recognized build-time options"). These are plain in-process values,
// not file/env/flag-driven configuration; there is nothing here for a
// config-parsing library to bind to.
package config

// Default tuning values, taken directly from spec.md §6.
const (
	// DefaultSeqSSThresh is the cross-over from sequential sample-sort to
	// MKQS (1 MiB).
	DefaultSeqSSThresh = 1 << 20

	// DefaultInsSortThresh is the cross-over from MKQS to insertion sort.
	DefaultInsSortThresh = 32

	// DefaultL2Cache tunes the classifier splitter count NS so that the
	// splitter tree and its bucket-count vectors fit in L2 (256 KiB).
	DefaultL2Cache = 256 << 10

	// DefaultMaxProcs bounds the partition count per sample-sort step.
	DefaultMaxProcs = 129

	// DefaultSeqMin is the floor used when deriving seqThresh from the
	// root problem size and thread count (spec.md §4.E: "seqThresh =
	// max(SEQ_MIN, n_root/threadnum)").
	DefaultSeqMin = 64 << 10
)

// Options bundles the tunables a caller may override. The zero value is
// not meant to be used directly: call Defaults() and mutate the fields
// that matter, or pass an Options literal through Normalized().
type Options struct {
	// SeqSSThresh is the cross-over from sequential sample-sort to MKQS.
	SeqSSThresh int
	// InsSortThresh is the cross-over from MKQS to insertion sort.
	InsSortThresh int
	// L2Cache tunes the classifier's splitter count.
	L2Cache int
	// MaxProcs upper-bounds partition count per sample-sort step.
	MaxProcs int
	// SeqMin floors the per-partition sequential threshold.
	SeqMin int
	// SingleStep runs only the top sample-sort level then stops
	// (benchmark mode, spec.md §6).
	SingleStep bool
	// Threads is the worker-pool size; <=0 means runtime.GOMAXPROCS(0).
	Threads int
	// Locality, when non-nil, restricts the worker pool to the named
	// locality group (spec.md §5 NUMA hook; used by SortNUMA).
	Locality *int
}

// Defaults returns the spec's documented default Options.
func Defaults() Options {
	return Options{
		SeqSSThresh:   DefaultSeqSSThresh,
		InsSortThresh: DefaultInsSortThresh,
		L2Cache:       DefaultL2Cache,
		MaxProcs:      DefaultMaxProcs,
		SeqMin:        DefaultSeqMin,
	}
}

// Normalized fills in any zero-valued (unset) numeric field with its
// documented default, leaving explicit overrides untouched.
func (o Options) Normalized() Options {
	if o.SeqSSThresh <= 0 {
		o.SeqSSThresh = DefaultSeqSSThresh
	}
	if o.InsSortThresh <= 0 {
		o.InsSortThresh = DefaultInsSortThresh
	}
	if o.L2Cache <= 0 {
		o.L2Cache = DefaultL2Cache
	}
	if o.MaxProcs <= 0 {
		o.MaxProcs = DefaultMaxProcs
	}
	if o.SeqMin <= 0 {
		o.SeqMin = DefaultSeqMin
	}
	return o
}
