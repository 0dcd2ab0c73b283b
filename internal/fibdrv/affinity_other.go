//go:build !linux

package fibdrv

import "errors"

func defaultCPU() int {
	return -1
}

// pinToCPU is unsupported off Linux; timings run unpinned.
func pinToCPU(int) (int, error) {
	return -1, errors.New("cpu pinning not supported on this platform")
}
