package owned

import (
	"sync/atomic"

	"fortio.org/safecast"
)

// Usage reports what the bridge currently tracks. Useful for leak checks in
// tests and long-running processes.
type Usage struct {
	// LiveControlBlocks counts control blocks with at least one handle.
	LiveControlBlocks int
	// LiveObjects counts objects allocated through New/NewUnique whose
	// destruction has not been observed. Objects handed away with
	// Unique.Release stay counted; the bridge no longer sees their end.
	LiveObjects int
	// Acquisitions counts successful exclusive-ownership withdrawals since
	// process start.
	Acquisitions int
}

var (
	liveBlocks   atomic.Int64
	liveObjects  atomic.Int64
	acquisitions atomic.Int64
)

// LiveUsage returns the current usage counters.
func LiveUsage() Usage {
	var u Usage
	if n, err := safecast.Conv[int](liveBlocks.Load()); err == nil {
		u.LiveControlBlocks = n
	}
	if n, err := safecast.Conv[int](liveObjects.Load()); err == nil {
		u.LiveObjects = n
	}
	if n, err := safecast.Conv[int](acquisitions.Load()); err == nil {
		u.Acquisitions = n
	}
	return u
}
