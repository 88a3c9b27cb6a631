package owned

// Unique is the exclusive owner of one heap-allocated object: exactly one
// party is responsible for the object's destruction. A Unique comes either
// from NewUnique (an object that has not entered the bridge yet) or from
// Ptr.Unique (ownership withdrawn from the shared side).
//
// The zero Unique and the nil *Unique are both the empty owner; all methods
// are safe on them.
type Unique[T any] struct {
	v    T
	addr uintptr
	del  func()
}

// NewUnique heap-allocates a copy of v and returns its exclusive owner.
// When *T embeds Notifier, the copy's notifier state is reset so the fresh
// object starts untracked regardless of where v came from.
func NewUnique[T any](v T) *Unique[*T] {
	p := new(T)
	*p = v
	if n, ok := any(p).(notifiable); ok {
		*n.ownershipNotifier() = Notifier{}
	}
	liveObjects.Add(1)
	addr := heapAddr(p)
	traceEvent("alloc", addr, 0)
	return &Unique[*T]{v: p, addr: addr, del: func() { destroy(p, addr) }}
}

// Get returns the typed view of the owned object, or the zero view when
// empty.
func (u *Unique[T]) Get() T {
	if u == nil {
		var zero T
		return zero
	}
	return u.v
}

// Addr returns the owned object's raw address, or 0 when empty.
func (u *Unique[T]) Addr() uintptr {
	if u == nil {
		return 0
	}
	return u.addr
}

// IsNil reports whether the owner holds no object.
func (u *Unique[T]) IsNil() bool {
	return u == nil || u.addr == 0
}

// Delete destroys the owned object now: the object's Destroy method runs
// when it has one, and every handle still observing the object sees Expired
// from this point on (for Notifier-embedding types). Delete empties the
// owner; calling it again is a no-op.
func (u *Unique[T]) Delete() {
	if u == nil || u.del == nil {
		return
	}
	del := u.del
	var zero T
	u.v, u.addr, u.del = zero, 0, nil
	del()
}

// Release relinquishes ownership without destroying the object and returns
// the typed view. The caller takes over the object's lifetime; the bridge
// will never destroy it.
func (u *Unique[T]) Release() T {
	if u == nil {
		var zero T
		return zero
	}
	v := u.v
	var zero T
	u.v, u.addr, u.del = zero, 0, nil
	return v
}
