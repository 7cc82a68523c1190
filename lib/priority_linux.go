//go:build linux

package fissionlib

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Highest niceness value
const idleNice = 19

// lowerPriority drops the calling goroutine's OS thread to the idle niceness.
// The goroutine stays locked to the thread so the thread is discarded when
// the goroutine exits instead of returning to the scheduler's pool.
func lowerPriority() error {
	runtime.LockOSThread()
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), idleNice)
}
