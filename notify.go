package owned

import "github.com/pobu/owned/internal/cblock"

// Notifier is the destruction-detection capability. A type opts in by
// embedding it:
//
//	type Widget struct {
//		owned.Notifier
//		Value int
//	}
//
// The embedded notifier carries a weak back-reference to the object's control
// block, installed the first time the object is wrapped in a handle. When the
// object is destroyed through any path, the notifier flips the control
// block's deleted flag so every remaining handle reports Expired. The back
// reference never keeps the control block alive; if the block has already
// been fully released there is nothing left to notify and the destruction is
// silent.
//
// Types that do not embed Notifier never report Expired.
type Notifier struct {
	weak cblock.Weak
}

func (n *Notifier) ownershipNotifier() *Notifier { return n }

// notifiable is how the bridge discovers the capability on an arbitrary
// object: a checked interface assertion against the promoted method.
type notifiable interface {
	ownershipNotifier() *Notifier
}

// Destructor is the optional destruction hook. When an owned object
// implements it, Destroy runs exactly once, at the moment the object is
// destroyed: either by the last handle releasing an unacquired object, or by
// its exclusive owner's Delete.
type Destructor interface {
	Destroy()
}

// destroy is the single destruction path for every tracked object. The
// Destroy hook runs first; the deleted flag flips after, while the real
// destructor's effects are already in place.
func destroy(v any, addr uintptr) {
	if d, ok := v.(Destructor); ok {
		d.Destroy()
	}
	if n, ok := v.(notifiable); ok {
		if b := n.ownershipNotifier().weak.Lock(); b != nil {
			b.MarkDeleted()
		}
	}
	liveObjects.Add(-1)
	traceEvent("destroy", addr, 0)
}
