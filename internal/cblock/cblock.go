// Package cblock implements the per-object control block shared by every
// handle that references the same object.
//
// A Block records the object's raw address, whether exclusive ownership has
// been granted away, and whether the object has actually been destroyed. The
// reference count is atomic; the two flags are not. Flag mutation follows the
// single-writer discipline documented in the root package.
package cblock

import "sync/atomic"

// Block is the shared bookkeeping state for one tracked object.
//
// The zero Block is not usable; create one with New.
type Block struct {
	refs     atomic.Int64
	addr     uintptr
	acquired bool
	deleted  bool

	// drop destroys the object through its original concrete type. Captured
	// at creation so the Block itself can stay type-erased.
	drop func()
}

// New creates a Block for the object at addr with one reference held.
// drop is invoked when the last reference is released while the object has
// not been acquired by an exclusive owner.
func New(addr uintptr, drop func()) *Block {
	b := &Block{addr: addr, drop: drop}
	b.refs.Store(1)
	return b
}

// Addr returns the raw address recorded at creation. It stays readable after
// the object is destroyed; callers gate access on Deleted themselves.
func (b *Block) Addr() uintptr {
	if b == nil {
		return 0
	}
	return b.addr
}

// Retain adds a reference.
func (b *Block) Retain() {
	b.refs.Add(1)
}

// Release drops a reference. When the count reaches zero and exclusive
// ownership was never granted, the captured drop runs and destroys the
// object. Returns true when this call released the final reference.
//
// Releasing more often than Retain+New is a programming error and panics.
func (b *Block) Release() bool {
	n := b.refs.Add(-1)
	if n > 0 {
		return false
	}
	if n < 0 {
		panic("cblock: control block released below zero")
	}
	if !b.acquired && b.drop != nil {
		b.drop()
	}
	b.drop = nil
	return true
}

// UseCount returns the current reference count.
func (b *Block) UseCount() int64 {
	if b == nil {
		return 0
	}
	return b.refs.Load()
}

// Acquire grants exclusive ownership. It succeeds at most once per Block;
// the flag never resets. Returns false when ownership was already granted.
func (b *Block) Acquire() bool {
	if b.acquired {
		return false
	}
	b.acquired = true
	return true
}

// Acquired reports whether exclusive ownership has been granted away.
func (b *Block) Acquired() bool {
	return b != nil && b.acquired
}

// MarkDeleted records that the object's destructor has run. It never unsets.
func (b *Block) MarkDeleted() {
	b.deleted = true
}

// Deleted reports whether the object has been destroyed.
func (b *Block) Deleted() bool {
	return b != nil && b.deleted
}

// Weak returns a non-owning reference to b. A Weak never keeps the Block's
// object alive and resolves to nothing once the final reference is released.
func (b *Block) Weak() Weak {
	return Weak{b: b}
}

// Weak is a non-owning reference to a Block.
//
// The zero Weak resolves to nothing.
type Weak struct {
	b *Block
}

// Lock resolves the weak reference. It returns nil once the Block's reference
// count has dropped to zero, including while the final Release is still
// running its drop closure.
func (w Weak) Lock() *Block {
	if w.b == nil || w.b.refs.Load() <= 0 {
		return nil
	}
	return w.b
}
