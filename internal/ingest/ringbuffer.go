package ingest

import (
	"go-heatguard/pkg/util"
)

// RingBuffer is a single-producer single-consumer queue between the
// audit-log gateway handler and the anti-nuke engine loop. Capacity is
// rounded up to a power of two so index wrap is a mask.
type RingBuffer struct {
	buffer  []Event
	mask    uint32
	head    uint32
	tail    uint32
	dropped uint64
}

func NewRingBuffer(size uint32) *RingBuffer {
	if size&(size-1) != 0 {
		size = nextPowerOf2(size)
	}

	return &RingBuffer{
		buffer: make([]Event, size),
		mask:   size - 1,
	}
}

// Enqueue copies the event in. A full buffer drops the event and bumps
// the drop counter; shedding load is preferred over stalling the
// gateway handler.
func (rb *RingBuffer) Enqueue(event *Event) bool {
	head := util.AtomicLoadU32(&rb.head)
	tail := util.AtomicLoadU32(&rb.tail)

	nextHead := (head + 1) & rb.mask
	if nextHead == tail {
		util.AtomicIncU64(&rb.dropped)
		return false
	}

	rb.buffer[head] = *event
	util.AtomicStoreU32(&rb.head, nextHead)
	return true
}

func (rb *RingBuffer) Dequeue() (*Event, bool) {
	head := util.AtomicLoadU32(&rb.head)
	tail := util.AtomicLoadU32(&rb.tail)

	if tail == head {
		return nil, false
	}

	event := &rb.buffer[tail]
	util.AtomicStoreU32(&rb.tail, (tail+1)&rb.mask)
	return event, true
}

func (rb *RingBuffer) Size() uint32 {
	head := util.AtomicLoadU32(&rb.head)
	tail := util.AtomicLoadU32(&rb.tail)

	if head >= tail {
		return head - tail
	}
	return (rb.mask + 1) - (tail - head)
}

func (rb *RingBuffer) Capacity() uint32 {
	return rb.mask + 1
}

func (rb *RingBuffer) Dropped() uint64 {
	return util.AtomicLoadU64(&rb.dropped)
}

func nextPowerOf2(n uint32) uint32 {
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}
