package owned

import "errors"

// The bridge has exactly two failure modes. Construction, sharing,
// comparisons and the predicate queries never fail.
var (
	// ErrAlreadyAcquired indicates exclusive ownership of the object was
	// already granted away; the grant is one-shot per object's lifetime.
	// Recoverable: it flags a protocol violation, not a corrupted state.
	ErrAlreadyAcquired = errors.New("owned: exclusive ownership already acquired")

	// ErrAlreadyDeleted indicates the object behind the handle has been
	// destroyed. Returned by access operations before any stale view can
	// escape; the dangling reference is caught while it is still just an
	// error value.
	ErrAlreadyDeleted = errors.New("owned: object already deleted")
)
