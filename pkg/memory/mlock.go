//go:build linux

package memory

import (
	"golang.org/x/sys/unix"
)

// MlockAll pins current and future pages to RAM so the hot path never
// takes a major page fault.
func MlockAll() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}

func MunlockAll() error {
	return unix.Munlockall()
}
