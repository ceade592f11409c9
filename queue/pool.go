package queue

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/pss5/locality"
)

// Pool is a persistent pool of worker goroutines draining a shared FIFO
// of Jobs. Workers are spawned once in New and run until Close.
//
// Grounded on workerpool.Pool's persistent-worker-goroutine structure
// (hwy/contrib/workerpool/workerpool.go), but replaces its fixed-size
// buffered channel with an unbounded mutex+cond queue: Jobs here
// recursively enqueue further Jobs from within Run, and a bounded
// channel can deadlock when every worker is blocked trying to enqueue
// a child job into a full channel.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []Job
	closed bool
	idle   atomic.Int32

	workers int
	g       *errgroup.Group
}

// New starts a Pool of workers goroutines, each pinned via pin.Pin
// (locality.None{} for no pinning). If workers <= 0, GOMAXPROCS is used.
func New(workers int, pin locality.Hook) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if pin == nil {
		pin = locality.None{}
	}
	var g errgroup.Group
	p := &Pool{workers: workers, g: &g}
	p.cond = sync.NewCond(&p.mu)
	for w := range workers {
		w := w
		g.Go(func() error { return p.loop(w, pin) })
	}
	return p
}

// Workers returns the number of worker goroutines in the pool.
func (p *Pool) Workers() int { return p.workers }

// loop drains jobs until the pool closes, recovering a Job panic into
// an error so one bad job surfaces at Close instead of taking the whole
// process down silently.
func (p *Pool) loop(id int, pin locality.Hook) (err error) {
	pin.Pin(id)
	for {
		job, ok := p.pop()
		if !ok {
			return nil
		}
		if rerr := runJob(job, p); rerr != nil {
			return rerr
		}
	}
}

func runJob(job Job, p *Pool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue: job panicked: %v", r)
		}
	}()
	job.Run(p)
	return nil
}

func (p *Pool) pop() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.jobs) == 0 && !p.closed {
		p.idle.Add(1)
		p.cond.Wait()
		p.idle.Add(-1)
	}
	if len(p.jobs) == 0 {
		return nil, false
	}
	j := p.jobs[0]
	p.jobs = p.jobs[1:]
	if len(p.jobs) == 0 {
		p.jobs = nil
	}
	return j, true
}

// Enqueue submits j to the shared queue and wakes one idle worker, if
// any is currently blocked in pop.
func (p *Pool) Enqueue(j Job) {
	p.mu.Lock()
	p.jobs = append(p.jobs, j)
	p.mu.Unlock()
	p.cond.Signal()
}

// HasIdle reports whether at least one worker is currently blocked
// waiting for work. spec.md §5's work-sharing rule uses this as the
// trigger for a worker to publish some of its own pending stack frames
// to the shared queue instead of keeping all of them local.
func (p *Pool) HasIdle() bool { return p.idle.Load() > 0 }

// Close stops all workers once the queue is empty and waits for them to
// exit, returning the first panic any Job raised (wrapped as an error).
// Jobs still queued when Close is called are run before the workers
// exit; a job enqueued after every worker has exited is never run.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
	return p.g.Wait()
}
