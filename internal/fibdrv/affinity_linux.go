//go:build linux

package fibdrv

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// maxCPUs is the number of CPUs a unix.CPUSet can describe.
const maxCPUs = 1024

// defaultCPU returns the lowest CPU in the process affinity mask, or -1.
func defaultCPU() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return -1
	}
	for cpu := 0; cpu < maxCPUs; cpu++ {
		if set.IsSet(cpu) {
			return cpu
		}
	}
	return -1
}

// pinToCPU binds the calling OS thread to cpu. The caller must hold the
// thread with runtime.LockOSThread.
func pinToCPU(cpu int) (int, error) {
	if cpu < 0 || cpu >= maxCPUs {
		return -1, fmt.Errorf("cpu %d out of range", cpu)
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return -1, fmt.Errorf("sched_setaffinity cpu %d: %w", cpu, err)
	}
	return cpu, nil
}
