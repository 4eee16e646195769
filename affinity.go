//go:build linux

package fastflow

import (
	"golang.org/x/sys/unix"
)

// PinToCPU binds the calling OS thread to a single CPU.
// The goroutine must already be locked to its thread.
func PinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
