package owned

// Handle comparisons use the object's raw address and nothing else: the
// acquired and deleted flags never participate, and no comparison can fail,
// so handles stay usable as keys in ordered collections through their whole
// lifecycle, expired included. The null handle compares as address 0.

// Compare orders two handles by object address, returning -1, 0 or +1.
// The handles may view the object through different element types.
func Compare[T1, T2 any](a *Ptr[T1], b *Ptr[T2]) int {
	return compareAddrs(blockAddr(a), blockAddr(b))
}

// Equal reports whether two handles reference the same object.
func Equal[T1, T2 any](a *Ptr[T1], b *Ptr[T2]) bool {
	return blockAddr(a) == blockAddr(b)
}

// Less reports whether a's object address orders before b's.
func Less[T1, T2 any](a *Ptr[T1], b *Ptr[T2]) bool {
	return blockAddr(a) < blockAddr(b)
}

// CompareAddr orders a handle against a raw address.
func CompareAddr[T any](p *Ptr[T], addr uintptr) int {
	return compareAddrs(blockAddr(p), addr)
}

// CompareUnique orders a handle against an exclusive owner by address.
func CompareUnique[T1, T2 any](p *Ptr[T1], u *Unique[T2]) int {
	return compareAddrs(blockAddr(p), u.Addr())
}

// EqualUnique reports whether a handle and an exclusive owner reference the
// same object.
func EqualUnique[T1, T2 any](p *Ptr[T1], u *Unique[T2]) bool {
	return blockAddr(p) == u.Addr()
}

// Compare orders p against another handle of the same element type. Handy as
// a slices.SortFunc comparator.
func (p *Ptr[T]) Compare(o *Ptr[T]) int {
	return Compare(p, o)
}

// Equal reports whether p and o reference the same object.
func (p *Ptr[T]) Equal(o *Ptr[T]) bool {
	return Equal(p, o)
}

// blockAddr reads the comparison identity straight off the control block,
// bypassing the deleted check that guards Addr.
func blockAddr[T any](p *Ptr[T]) uintptr {
	if p == nil {
		return 0
	}
	return p.cb.Addr()
}

func compareAddrs(a, b uintptr) int {
	switch {
	case a == b:
		return 0
	case a < b:
		return -1
	default:
		return +1
	}
}
