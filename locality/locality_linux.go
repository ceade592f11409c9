//go:build linux

package locality

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// affinityHook pins each worker to one CPU of a contiguous CPU range
// assigned to a locality group, via sched_setaffinity.
type affinityHook struct {
	cpus []int
}

func newAffinityHook(group, threads int) Hook {
	ncpu := runtime.NumCPU()
	if threads <= 0 {
		threads = ncpu
	}
	base := group * threads
	cpus := make([]int, 0, threads)
	for i := range threads {
		cpu := base + i
		if cpu >= ncpu {
			break
		}
		cpus = append(cpus, cpu)
	}
	if len(cpus) == 0 {
		return None{}
	}
	return &affinityHook{cpus: cpus}
}

func (h *affinityHook) Pin(worker int) {
	if len(h.cpus) == 0 {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(h.cpus[worker%len(h.cpus)])
	// Best-effort: a sandboxed or containerized process may not hold
	// CAP_SYS_NICE for the target CPU, in which case we just run
	// unpinned rather than fail the sort.
	_ = unix.SchedSetaffinity(0, &set)
}
