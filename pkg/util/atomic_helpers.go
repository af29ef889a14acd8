package util

import (
	"sync/atomic"
)

func AtomicLoadU32(ptr *uint32) uint32 {
	return atomic.LoadUint32(ptr)
}

func AtomicStoreU32(ptr *uint32, val uint32) {
	atomic.StoreUint32(ptr, val)
}

func AtomicAddU32(ptr *uint32, delta uint32) uint32 {
	return atomic.AddUint32(ptr, delta)
}

func AtomicLoadU64(ptr *uint64) uint64 {
	return atomic.LoadUint64(ptr)
}

func AtomicAddU64(ptr *uint64, delta uint64) uint64 {
	return atomic.AddUint64(ptr, delta)
}

func AtomicIncU64(ptr *uint64) uint64 {
	return atomic.AddUint64(ptr, 1)
}
