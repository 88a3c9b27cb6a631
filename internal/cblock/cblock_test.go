package cblock

import "testing"

func TestReleaseRunsDropOnlyWhenUnacquired(t *testing.T) {
	dropped := 0
	b := New(0x1000, func() { dropped++ })

	b.Retain()
	if b.Release() {
		t.Fatalf("first release should not be final")
	}
	if !b.Release() {
		t.Fatalf("second release should be final")
	}
	if dropped != 1 {
		t.Fatalf("drop runs: got %d want 1", dropped)
	}
}

func TestAcquiredBlockNeverDrops(t *testing.T) {
	dropped := 0
	b := New(0x1000, func() { dropped++ })

	if !b.Acquire() {
		t.Fatalf("first acquire should succeed")
	}
	if b.Acquire() {
		t.Fatalf("acquire is one-shot")
	}
	if !b.Acquired() {
		t.Fatalf("acquired flag should stick")
	}

	b.Release()
	if dropped != 0 {
		t.Fatalf("acquired block must not drop the object")
	}
}

func TestDeletedFlagNeverUnsets(t *testing.T) {
	b := New(0x1000, nil)
	if b.Deleted() {
		t.Fatalf("fresh block should not be deleted")
	}
	b.MarkDeleted()
	b.MarkDeleted()
	if !b.Deleted() {
		t.Fatalf("deleted flag should stick")
	}
	b.Release()
}

func TestWeakResolvesOnlyWhileReferenced(t *testing.T) {
	b := New(0x1000, nil)
	w := b.Weak()

	if w.Lock() != b {
		t.Fatalf("weak should resolve while the block is referenced")
	}
	b.Release()
	if w.Lock() != nil {
		t.Fatalf("weak should resolve to nothing after the final release")
	}

	var zero Weak
	if zero.Lock() != nil {
		t.Fatalf("the zero weak resolves to nothing")
	}
}

func TestWeakResolvesToNothingDuringDrop(t *testing.T) {
	b := New(0x1000, nil)
	w := b.Weak()

	saw := (*Block)(nil)
	b.drop = func() { saw = w.Lock() }
	b.Release()

	if saw != nil {
		t.Fatalf("weak must not resolve while the final release runs")
	}
}

func TestOverReleasePanics(t *testing.T) {
	b := New(0x1000, nil)
	b.Release()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on over-release")
		}
	}()
	b.Release()
}

func TestNilBlockQueries(t *testing.T) {
	var b *Block
	if b.Addr() != 0 || b.UseCount() != 0 || b.Acquired() || b.Deleted() {
		t.Fatalf("nil block queries should report the empty state")
	}
}
