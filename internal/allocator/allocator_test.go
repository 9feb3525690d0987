package allocator

import "testing"

func TestAllocateReturnsStableHandles(t *testing.T) {
	a := New()
	h1, impl1 := a.Allocate()
	h2, impl2 := a.Allocate()

	if h1 == h2 {
		t.Fatalf("expected distinct handles, got %v and %v", h1, h2)
	}
	impl1.Payload = "first"
	impl2.Payload = "second"

	if a.Lookup(h1).Payload != "first" {
		t.Fatalf("handle %v did not resolve to the original table", h1)
	}
	if a.Lookup(h2).Payload != "second" {
		t.Fatalf("handle %v did not resolve to the original table", h2)
	}
}

func TestFreeAllResetsLength(t *testing.T) {
	a := New()
	a.Allocate()
	a.Allocate()
	if a.Len() != 2 {
		t.Fatalf("expected 2 allocations, got %d", a.Len())
	}
	a.FreeAll()
	if a.Len() != 0 {
		t.Fatalf("expected 0 allocations after FreeAll, got %d", a.Len())
	}
}

func TestDistinctArenasHaveDistinctIDs(t *testing.T) {
	a1 := New()
	a2 := New()
	if a1.ID == a2.ID {
		t.Fatalf("expected distinct arena ids")
	}
}
