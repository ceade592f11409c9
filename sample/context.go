// Package sample implements spec.md §4.E's parallel sample-sort step:
// the dynamic three-phase (sample → classify/count → distribute)
// divide-and-conquer that runs atop the shared queue.Pool, recursively
// routing sub-ranges either to a further parallel Step or down into
// smallsort once they shrink below the sequential threshold.
package sample

import (
	"sync/atomic"

	"github.com/ajroetker/pss5/config"
	"github.com/ajroetker/pss5/queue"
)

// Context carries the state shared by every Step and routed
// smallsort job spawned for one sort call: the queue they all run on,
// tuning configuration, the size threshold that separates "parallel
// step" from "sequential small-sort", and a source of LCG seeds.
type Context struct {
	Queue     *queue.Pool
	Cfg       config.Options
	SeqThresh int

	seedCtr atomic.Uint64
}

// NewContext derives SeqThresh from cfg and nRoot (spec.md §6:
// "seqThresh = max(SEQ_MIN, n_root/threadnum)").
func NewContext(q *queue.Pool, cfg config.Options, nRoot int) *Context {
	threadNum := max(1, q.Workers())
	seqThresh := nRoot / threadNum
	if seqThresh < cfg.SeqMin {
		seqThresh = cfg.SeqMin
	}
	return &Context{Queue: q, Cfg: cfg, SeqThresh: seqThresh}
}

func (c *Context) seed() uint64 {
	return c.seedCtr.Add(0x9E3779B97F4A7C15) ^ 0xBF58476D1CE4E5B9
}

// partitionCount computes k = clamp(ceil(n/seqThresh)*2, 1, MAXPROCS)
// (spec.md §4.E "NEW → SAMPLING").
func (c *Context) partitionCount(n int) int {
	k := ((n + c.SeqThresh - 1) / c.SeqThresh) * 2
	if k < 1 {
		k = 1
	}
	if k > c.Cfg.MaxProcs {
		k = c.Cfg.MaxProcs
	}
	return k
}
