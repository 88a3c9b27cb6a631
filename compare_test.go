package owned

import (
	"slices"
	"testing"
)

func TestCompareFollowsAddressOrder(t *testing.T) {
	handles := make([]*Ptr[*plain], 0, 8)
	for i := 0; i < 8; i++ {
		handles = append(handles, New(plain{value: i}))
	}
	defer func() {
		for _, h := range handles {
			h.Release()
		}
	}()

	sorted := slices.Clone(handles)
	slices.SortFunc(sorted, (*Ptr[*plain]).Compare)

	for i := 1; i < len(sorted); i++ {
		if !Less(sorted[i-1], sorted[i]) {
			t.Fatalf("sort order broken at %d", i)
		}
		if Compare(sorted[i-1], sorted[i]) != -1 || Compare(sorted[i], sorted[i-1]) != +1 {
			t.Fatalf("Compare is not antisymmetric at %d", i)
		}
	}

	for _, h := range handles {
		a, err := h.Addr()
		if err != nil {
			t.Fatalf("Addr failed: %v", err)
		}
		if CompareAddr(h, a) != 0 {
			t.Fatalf("handle should compare equal to its own address")
		}
		cp := h.Share()
		if !h.Equal(cp) {
			t.Fatalf("a copy should compare equal")
		}
		cp.Release()
	}
}

func TestCompareNeverFailsOnExpiredHandles(t *testing.T) {
	p1, _ := newTracked(t, 1)
	p2, _ := newTracked(t, 2)
	defer p1.Release()
	defer p2.Release()

	before := Compare(p1, p2)

	u, err := p1.Unique()
	if err != nil {
		t.Fatalf("Unique failed: %v", err)
	}
	u.Delete()
	if !p1.Expired() {
		t.Fatalf("expected p1 to be expired")
	}

	// Identity survives expiry: same addresses, same order, no failure path.
	if got := Compare(p1, p2); got != before {
		t.Fatalf("ordering changed across expiry: before=%d after=%d", before, got)
	}
	cp := p1.Share()
	if !p1.Equal(cp) {
		t.Fatalf("expired handle should still compare equal to its copy")
	}
	cp.Release()
}

func TestCompareNullHandles(t *testing.T) {
	var null *Ptr[*plain]
	zero := &Ptr[*plain]{}
	p := New(plain{value: 1})
	defer p.Release()

	if !Equal(null, zero) {
		t.Fatalf("nil handle and zero handle are both null")
	}
	if Compare(null, p) != -1 || Compare(p, null) != +1 {
		t.Fatalf("null should order before any live handle")
	}
	if CompareAddr(null, 0) != 0 {
		t.Fatalf("null compares as address 0")
	}
}

func TestCompareAgainstUnique(t *testing.T) {
	u := NewUnique(plain{value: 1})
	p := Link(u)
	defer p.Release()

	if !EqualUnique(p, u) {
		t.Fatalf("linked handle should equal its owner")
	}
	if CompareUnique(p, u) != 0 {
		t.Fatalf("CompareUnique on the same object should be 0")
	}

	other := New(plain{value: 2})
	defer other.Release()
	if EqualUnique(other, u) {
		t.Fatalf("distinct objects should not compare equal")
	}

	var empty *Unique[*plain]
	if EqualUnique(p, empty) {
		t.Fatalf("live handle should not equal the empty owner")
	}
	if !EqualUnique(FromUnique[*plain](nil), empty) {
		t.Fatalf("null handle should equal the empty owner")
	}
}
