package crossput

import "sync/atomic"

// ID is a process-unique, monotonically allocated device/force/aggregate
// handle. The zero value denotes the "global/no-device" sentinel and is
// never assigned to a real entity.
type ID uint64

// NoID is the sentinel identifier used by the callback manager to mean
// "any device" / "global registration".
const NoID ID = 0

// idAllocator hands out monotonically increasing, never-reused ids
// starting at 1.
type idAllocator struct {
	next atomic.Uint64
}

func newIDAllocator() *idAllocator {
	a := &idAllocator{}
	a.next.Store(1)
	return a
}

func (a *idAllocator) allocate() ID {
	return ID(a.next.Add(1) - 1)
}
