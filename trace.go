package owned

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Ownership-event tracing. Off by default and free when off: the hot paths
// load one atomic pointer and return.
//
// Events: alloc, adopt, link, share, release, final-release, acquire,
// destroy, denied (an access refused on an expired handle).

var tracer atomic.Pointer[zerolog.Logger]

// SetTraceLogger installs a logger for ownership events. Events are emitted
// at debug level with the object address and the observer count at the time
// of the event.
func SetTraceLogger(l zerolog.Logger) {
	tracer.Store(&l)
}

// DisableTrace turns ownership-event tracing back off.
func DisableTrace() {
	tracer.Store(nil)
}

func traceEvent(event string, addr uintptr, refs int64) {
	lg := tracer.Load()
	if lg == nil {
		return
	}
	lg.Debug().
		Str("event", event).
		Uint64("addr", uint64(addr)).
		Int64("refs", refs).
		Msg("ownership event")
}

// traceFinalRelease reports a control block dying. The acquired flag makes
// never-acquired blocks visible: an object that was bridged for acquisition
// but never acquired died on the shared side.
func traceFinalRelease(addr uintptr, acquired bool) {
	lg := tracer.Load()
	if lg == nil {
		return
	}
	lg.Debug().
		Str("event", "final-release").
		Uint64("addr", uint64(addr)).
		Bool("acquired", acquired).
		Msg("ownership event")
}
