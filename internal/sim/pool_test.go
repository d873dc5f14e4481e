package sim

import "testing"

func TestPoolFindFreeLowestFirst(t *testing.T) {
	pool := NewPool(3)

	slot, ok := pool.FindFree()
	if !ok || slot != 1 {
		t.Fatalf("expected slot 1 free, got %d (ok=%v)", slot, ok)
	}

	if err := pool.Occupy(1, "T1"); err != nil {
		t.Fatalf("occupy failed: %v", err)
	}
	slot, ok = pool.FindFree()
	if !ok || slot != 2 {
		t.Errorf("expected slot 2 free, got %d (ok=%v)", slot, ok)
	}

	// Vacating slot 1 makes it the lowest free slot again.
	if err := pool.Occupy(2, "T2"); err != nil {
		t.Fatalf("occupy failed: %v", err)
	}
	if err := pool.Vacate(1); err != nil {
		t.Fatalf("vacate failed: %v", err)
	}
	slot, ok = pool.FindFree()
	if !ok || slot != 1 {
		t.Errorf("expected slot 1 free again, got %d (ok=%v)", slot, ok)
	}
}

func TestPoolFindFreeNone(t *testing.T) {
	pool := NewPool(2)
	pool.Occupy(1, "T1")
	pool.Occupy(2, "T2")

	if _, ok := pool.FindFree(); ok {
		t.Error("expected no free slot")
	}
}

func TestPoolOccupyInvariants(t *testing.T) {
	pool := NewPool(2)

	if err := pool.Occupy(1, "T1"); err != nil {
		t.Fatalf("occupy failed: %v", err)
	}
	if err := pool.Occupy(1, "T2"); err == nil {
		t.Error("expected error occupying an occupied slot")
	}
	if err := pool.Occupy(5, "T2"); err == nil {
		t.Error("expected error occupying an unknown slot")
	}
	if err := pool.Vacate(2); err == nil {
		t.Error("expected error vacating an empty slot")
	}
	if err := pool.Vacate(0); err == nil {
		t.Error("expected error vacating an unknown slot")
	}
}

func TestPoolConservation(t *testing.T) {
	pool := NewPool(4)
	pool.Occupy(1, "T1")
	pool.Occupy(3, "T3")

	occupied := pool.Count() - pool.FreeCount()
	if occupied+pool.FreeCount() != pool.Count() {
		t.Errorf("conservation violated: occupied=%d free=%d total=%d", occupied, pool.FreeCount(), pool.Count())
	}
	if occupied != 2 {
		t.Errorf("expected 2 occupied, got %d", occupied)
	}
}

func TestPoolResizeDropsOccupancy(t *testing.T) {
	pool := NewPool(3)
	pool.Occupy(2, "T1")

	pool.Resize(5)

	if pool.Count() != 5 {
		t.Fatalf("expected 5 slots, got %d", pool.Count())
	}
	if pool.FreeCount() != 5 {
		t.Errorf("expected all slots empty after resize, got %d free", pool.FreeCount())
	}
	slots := pool.Slots()
	for i, slot := range slots {
		if slot.Number != i+1 {
			t.Errorf("expected slot %d numbered %d, got %d", i, i+1, slot.Number)
		}
	}
}

func TestPoolOccupant(t *testing.T) {
	pool := NewPool(2)
	pool.Occupy(2, "T9")

	if occupant, ok := pool.Occupant(2); !ok || occupant != "T9" {
		t.Errorf("expected T9 on platform 2, got %q (ok=%v)", occupant, ok)
	}
	if _, ok := pool.Occupant(1); ok {
		t.Error("expected platform 1 empty")
	}
	if _, ok := pool.Occupant(9); ok {
		t.Error("expected unknown platform to report empty")
	}
}
