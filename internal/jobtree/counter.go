// Package jobtree provides the substep-counter primitive that ties the
// dynamic job graph together: every sort step (parallel or sequential)
// tracks how many dependent jobs it is still waiting on, and runs its
// completion callback exactly once, the moment the count reaches zero.
package jobtree

import "sync/atomic"

// Counter tracks outstanding substeps for one node in the job graph.
// The zero value is not usable; construct with NewCounter.
type Counter struct {
	n      atomic.Int64
	onZero func()
	fired  atomic.Bool
}

// NewCounter returns a Counter that invokes onZero exactly once, the
// first time a Done() call observes the pending count reaching zero.
// Callers typically Add the known initial work before any Done can race
// ahead of it (see the "anonymous substep" pattern used while a parent is
// still registering its children in distribute_finished).
func NewCounter(onZero func()) *Counter {
	return &Counter{onZero: onZero}
}

// Add registers delta additional outstanding substeps. delta may be
// negative, but callers normally use Done for decrements so the
// onZero bookkeeping stays centralized.
func (c *Counter) Add(delta int32) {
	c.n.Add(int64(delta))
}

// Done marks one substep complete. If this call observes the counter
// reaching zero, it invokes onZero. onZero fires at most once even if
// multiple goroutines race to zero (only one can observe the
// CompareAndSwap below succeed).
func (c *Counter) Done() {
	if c.n.Add(-1) == 0 {
		if c.fired.CompareAndSwap(false, true) {
			c.onZero()
		}
	}
}

// Pending reports the current outstanding count. Intended for assertions
// and tests, not for control flow (it is stale the instant it is read).
func (c *Counter) Pending() int64 {
	return c.n.Load()
}
