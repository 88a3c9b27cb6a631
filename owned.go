// Package owned provides a pointer-ownership bridge: a reference-counted
// handle (Ptr) through which many parties observe one heap-allocated object,
// while exclusive ownership of that object (Unique) can be granted away at
// most once and destruction through any path is reported back to every
// remaining observer.
//
// For most use cases, create objects with New and hand out copies via Share.
// Call Unique on a handle to withdraw exclusive ownership, and Link to observe
// an object whose exclusive owner keeps it.
//
// Destruction detection is opt-in: embed Notifier in the object type. Types
// without an embedded Notifier never report Expired; that is an accepted
// limitation, not an error.
package owned

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/pobu/owned/internal/cblock"
)

// Ptr is a shared, reference-counted handle to a single object.
//
// The element type T is the typed view of the object: a pointer type such as
// *Widget, or an interface type reached via As or LinkAs. All handles sharing
// one object observe the same acquired/deleted state regardless of their view
// type. Copies must be made with Share and returned with Release; the zero
// Ptr and the nil *Ptr are both the null handle.
//
// Comparisons between handles use the object's address only and stay safe on
// expired handles; see Compare, Equal and Less.
type Ptr[T any] struct {
	v  T
	cb *cblock.Block
}

// New allocates a copy of v on the heap and returns a fresh handle over it
// with a new control block. When *T embeds Notifier, the object participates
// in destruction detection.
func New[T any](v T) *Ptr[*T] {
	return FromUnique(NewUnique(v))
}

// FromUnique converts an exclusive owner into a shared handle, taking logical
// ownership and emptying u. When the last handle releases with exclusive
// ownership never granted away, the object is destroyed.
//
// A nil or empty u yields the null handle.
func FromUnique[T any](u *Unique[T]) *Ptr[T] {
	if u == nil || u.addr == 0 {
		return &Ptr[T]{}
	}
	v, addr := u.v, u.addr
	var zero T
	u.v, u.addr, u.del = zero, 0, nil

	cb := controlFor(any(v), addr, false)
	traceEvent("adopt", addr, cb.UseCount())
	return &Ptr[T]{v: v, cb: cb}
}

// Link creates a non-owning observer of u's object. The returned handle is
// pre-marked acquired, so the bridge never destroys the object: u keeps real
// ownership, and the handle merely reports staleness once u deletes it
// (for Notifier-embedding types).
func Link[T any](u *Unique[T]) *Ptr[T] {
	if u == nil || u.addr == 0 {
		return &Ptr[T]{}
	}
	cb := controlFor(any(u.v), u.addr, true)
	traceEvent("link", u.addr, cb.UseCount())
	return &Ptr[T]{v: u.v, cb: cb}
}

// LinkAs is Link with the handle viewing the object as a related type R,
// typically an interface the object implements. LinkAs panics when the object
// cannot be viewed as R; requesting an unrelated view is a programming error,
// not a runtime condition.
func LinkAs[R any, T any](u *Unique[T]) *Ptr[R] {
	if u == nil || u.addr == 0 {
		return &Ptr[R]{}
	}
	r, ok := any(u.v).(R)
	if !ok {
		panic(fmt.Sprintf("owned: %T cannot be viewed as %s", u.v, reflect.TypeOf((*R)(nil)).Elem().String()))
	}
	cb := controlFor(any(u.v), u.addr, true)
	traceEvent("link", u.addr, cb.UseCount())
	return &Ptr[R]{v: r, cb: cb}
}

// As returns a new sharing handle whose view of the object is the related
// type R. The control block, address and flags are shared with p. As panics
// when the object cannot be viewed as R.
func As[R any, T any](p *Ptr[T]) *Ptr[R] {
	if p == nil || p.cb == nil {
		return &Ptr[R]{}
	}
	r, ok := any(p.v).(R)
	if !ok {
		panic(fmt.Sprintf("owned: %T cannot be viewed as %s", p.v, reflect.TypeOf((*R)(nil)).Elem().String()))
	}
	p.cb.Retain()
	traceEvent("share", p.cb.Addr(), p.cb.UseCount())
	return &Ptr[R]{v: r, cb: p.cb}
}

// Share returns a new handle referencing the same object. Copies observe the
// same acquired/deleted state. Share never fails; sharing the null handle
// yields another null handle.
func (p *Ptr[T]) Share() *Ptr[T] {
	if p == nil || p.cb == nil {
		return &Ptr[T]{}
	}
	p.cb.Retain()
	traceEvent("share", p.cb.Addr(), p.cb.UseCount())
	return &Ptr[T]{v: p.v, cb: p.cb}
}

// Release drops this handle's reference. When the final reference goes and
// exclusive ownership was never granted away, the object is destroyed. The
// handle becomes null; releasing it again is a no-op.
func (p *Ptr[T]) Release() {
	if p == nil || p.cb == nil {
		return
	}
	cb := p.cb
	var zero T
	p.v, p.cb = zero, nil

	addr, acquired := cb.Addr(), cb.Acquired()
	if cb.Release() {
		liveBlocks.Add(-1)
		traceFinalRelease(addr, acquired)
		return
	}
	traceEvent("release", addr, cb.UseCount())
}

// Get returns the typed view of the object.
//
// Once the object's destruction has been observed, Get fails with
// ErrAlreadyDeleted before the stale view can escape. The null handle returns
// the zero view and no error: having nothing to access is distinct from
// accessing something deleted. Get keeps working after exclusive ownership
// has been granted away, as long as the object still exists.
func (p *Ptr[T]) Get() (T, error) {
	var zero T
	if p.IsNil() {
		return zero, nil
	}
	if p.cb.Deleted() {
		traceEvent("denied", p.cb.Addr(), p.cb.UseCount())
		return zero, fmt.Errorf("owned: access object at %#x: %w", p.cb.Addr(), ErrAlreadyDeleted)
	}
	return p.v, nil
}

// Addr returns the object's raw address, subject to the same deleted check
// as Get. The null handle returns 0 and no error.
func (p *Ptr[T]) Addr() (uintptr, error) {
	if p.IsNil() {
		return 0, nil
	}
	if p.cb.Deleted() {
		traceEvent("denied", p.cb.Addr(), p.cb.UseCount())
		return 0, fmt.Errorf("owned: address of object at %#x: %w", p.cb.Addr(), ErrAlreadyDeleted)
	}
	return p.cb.Addr(), nil
}

// Unique withdraws exclusive ownership of the object.
//
// The null handle returns (nil, nil): there is nothing to own, which is not
// an error. Once any sharing handle has withdrawn ownership, every further
// call fails with ErrAlreadyAcquired; the grant is one-shot per object. The
// handles remain valid for shared observation afterwards, they just no longer
// own the memory.
func (p *Ptr[T]) Unique() (*Unique[T], error) {
	if p.IsNil() {
		return nil, nil
	}
	if !p.cb.Acquire() {
		return nil, fmt.Errorf("owned: object at %#x: %w", p.cb.Addr(), ErrAlreadyAcquired)
	}
	acquisitions.Add(1)
	addr := p.cb.Addr()
	traceEvent("acquire", addr, p.cb.UseCount())

	v := p.v
	return &Unique[T]{v: v, addr: addr, del: func() { destroy(any(v), addr) }}, nil
}

// Acquired reports whether exclusive ownership of the object has been granted
// away. It never fails.
func (p *Ptr[T]) Acquired() bool {
	return p != nil && p.cb.Acquired()
}

// Expired reports whether the object has actually been destroyed. It never
// fails, and is permanently false for types that do not embed Notifier.
func (p *Ptr[T]) Expired() bool {
	return p != nil && p.cb.Deleted()
}

// IsNil reports whether the handle references no object.
func (p *Ptr[T]) IsNil() bool {
	return p == nil || p.cb == nil || p.cb.Addr() == 0
}

// UseCount returns the number of handles sharing the object's control block.
func (p *Ptr[T]) UseCount() int64 {
	if p == nil {
		return 0
	}
	return p.cb.UseCount()
}

// controlFor finds or creates the control block for the object at addr.
//
// For Notifier-embedding objects the block is recovered through the object's
// own weak back-reference when one is still alive, so every wrap of the same
// object shares one block. The back-reference is installed lazily here, on
// first wrap.
func controlFor(v any, addr uintptr, acquire bool) *cblock.Block {
	if n, ok := v.(notifiable); ok {
		nt := n.ownershipNotifier()
		if b := nt.weak.Lock(); b != nil {
			b.Retain()
			if acquire {
				b.Acquire()
			}
			return b
		}
		b := cblock.New(addr, func() { destroy(v, addr) })
		nt.weak = b.Weak()
		if acquire {
			b.Acquire()
		}
		liveBlocks.Add(1)
		return b
	}
	b := cblock.New(addr, func() { destroy(v, addr) })
	if acquire {
		b.Acquire()
	}
	liveBlocks.Add(1)
	return b
}

// heapAddr is the identity used for all handle comparisons.
func heapAddr[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p))
}
