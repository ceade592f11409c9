package sample

import (
	"github.com/ajroetker/pss5/internal/jobtree"
	"github.com/ajroetker/pss5/queue"
	"github.com/ajroetker/pss5/smallsort"
	"github.com/ajroetker/pss5/strset"
)

// Route implements spec.md §4.E's "Enqueue router": a sub-bundle
// larger than ctx.SeqThresh becomes a new parallel Step; otherwise it
// is handed to smallsort.Run. Sizes 0 and 1 are resolved immediately
// without touching the queue at all.
func Route(ctx *Context, bundle *strset.Bundle, depth int, parent *jobtree.Counter) {
	switch n := bundle.Size(); {
	case n == 0:
		parent.Done()
	case n == 1:
		bundle.CopyBack()
		parent.Done()
	case n > ctx.SeqThresh:
		ctx.Queue.Enqueue(queue.JobFunc(func(*queue.Pool) {
			NewStep(ctx, bundle, depth, parent).Start()
		}))
	default:
		sctx := smallsort.NewContext(ctx.Cfg, ctx.Queue)
		ctx.Queue.Enqueue(queue.JobFunc(func(*queue.Pool) {
			smallsort.Run(sctx, bundle, depth, parent)
		}))
	}
}
