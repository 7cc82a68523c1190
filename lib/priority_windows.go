//go:build windows

package fissionlib

import (
	"runtime"

	"golang.org/x/sys/windows"
)

// THREAD_PRIORITY_LOWEST, sign extended when passed to the syscall
var threadPriorityLowest int32 = -2

var procSetThreadPriority = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetThreadPriority")

func lowerPriority() error {
	runtime.LockOSThread()

	ret, _, err := procSetThreadPriority.Call(
		uintptr(windows.CurrentThread()),
		uintptr(threadPriorityLowest))
	if ret == 0 {
		return err
	}
	return nil
}
