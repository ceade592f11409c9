// Package locality implements spec.md §7's "opaque NUMA locality hook":
// SortNUMA accepts a locality group number and a thread count so that,
// on platforms that support it, worker goroutines can be pinned to the
// CPUs of that locality group. Everywhere else it is a documented no-op.
package locality

// Hook pins worker goroutines to a given locality group. Pin is called
// once per worker, from the worker's own goroutine, with the worker's
// index within the pool (0..workers-1).
type Hook interface {
	Pin(worker int)
}

// None is a Hook that does nothing, the default when spec.md's
// locality parameter is unset or unsupported by the platform.
type None struct{}

// Pin is a no-op.
func (None) Pin(int) {}

// ForGroup returns the platform's best-effort Hook for binding workers
// to the CPUs of NUMA/locality group group, spread across threads
// total workers. On platforms without CPU-affinity support it returns
// None. group < 0 also returns None (no pinning requested).
func ForGroup(group, threads int) Hook {
	if group < 0 {
		return None{}
	}
	return newAffinityHook(group, threads)
}
