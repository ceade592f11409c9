// Package smallsort implements spec.md §4.F/§4.G: the sequential,
// per-worker small-sort job. A bundle below the parallel step's
// seqThresh is handed here, where it is resolved entirely on the
// calling goroutine, falling through sequential sample-sort (for the
// largest sequential inputs), to MKQS with a cached-key block, to
// plain insertion sort for the smallest runs, while still publishing
// its coldest pending work to the shared queue.Pool when other workers
// go idle (component G).
package smallsort

import (
	"sync/atomic"

	"github.com/ajroetker/pss5/config"
	"github.com/ajroetker/pss5/queue"
	"github.com/ajroetker/pss5/strset"
)

// Context carries everything a small-sort job needs that isn't local
// to one bundle: tuning thresholds, the shared queue.Pool used only
// for HasIdle/Enqueue work-sharing, and a source of LCG seeds for this
// job's own internal sampling.
type Context struct {
	Cfg     config.Options
	Queue   *queue.Pool
	seedCtr atomic.Uint64
}

// NewContext builds a Context for one small-sort entry.
func NewContext(cfg config.Options, q *queue.Pool) *Context {
	return &Context{Cfg: cfg, Queue: q}
}

func (c *Context) seed() uint64 {
	return c.seedCtr.Add(0x9E3779B97F4A7C15) ^ 0xD1B54A32D192ED03
}

func (c *Context) lcg() *strset.LCG { return strset.NewLCG(c.seed()) }
