//go:build !linux

package sys

import "runtime"

// PinToCore locks the goroutine to its OS thread; affinity is a no-op
// off linux.
func PinToCore(coreID int) error {
	runtime.LockOSThread()
	return nil
}
