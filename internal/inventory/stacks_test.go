package inventory

import (
	"testing"
	"time"

	"orrery/internal/catalog"
	"orrery/internal/model"
	"orrery/internal/store"
)

func TestUpsertResourceAddsAndConsumes(t *testing.T) {
	st := store.NewMemory()
	reg := &catalog.Registry{DensityKgM3: map[string]float64{"water": 1000}}
	now := time.Now()

	if err := UpsertResource(st, reg, "leo", "corp1", "water", 500, now); err != nil {
		t.Fatalf("add: %v", err)
	}
	stack, ok, err := st.GetStack("leo", "corp1", model.StackResource, "water")
	if err != nil || !ok {
		t.Fatalf("expected stack, err=%v ok=%v", err, ok)
	}
	if stack.MassKg != 500 {
		t.Fatalf("mass = %v, want 500", stack.MassKg)
	}
	if stack.VolumeM3 != 0.5 {
		t.Fatalf("volume = %v, want 0.5", stack.VolumeM3)
	}

	if err := UpsertResource(st, reg, "leo", "corp1", "water", -500, now); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if _, ok, _ := st.GetStack("leo", "corp1", model.StackResource, "water"); ok {
		t.Fatalf("expected stack to be deleted once emptied")
	}
}

func TestUpsertResourceRejectsOverdraft(t *testing.T) {
	st := store.NewMemory()
	reg := &catalog.Registry{}
	now := time.Now()
	if err := UpsertResource(st, reg, "leo", "corp1", "iron", 10, now); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := UpsertResource(st, reg, "leo", "corp1", "iron", -20, now); err == nil {
		t.Fatalf("expected overdraft to be rejected")
	}
}

func TestUpsertPartCoalescesIdenticalParts(t *testing.T) {
	st := store.NewMemory()
	now := time.Now()
	part := model.Part{ItemID: "scn_1_pioneer", Category: model.CategoryThruster, MassKg: 100, IspS: 300, ThrustKN: 5}

	if err := UpsertPart(st, "leo", "corp1", part, 2, now); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := UpsertPart(st, "leo", "corp1", part, 1, now); err != nil {
		t.Fatalf("add more: %v", err)
	}

	stacks, err := st.ListStacks("leo", "corp1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stacks) != 1 {
		t.Fatalf("expected one coalesced stack, got %d", len(stacks))
	}
	if stacks[0].Quantity != 3 {
		t.Fatalf("quantity = %v, want 3", stacks[0].Quantity)
	}
}

func TestTransferMovesResourceBetweenOwners(t *testing.T) {
	st := store.NewMemory()
	reg := &catalog.Registry{}
	now := time.Now()
	if err := UpsertResource(st, reg, "leo", "corp1", "iron", 100, now); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := Transfer(st, model.StackResource, "leo", "corp1", "iron", "leo", "corp2", "", 40, now); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	src, _, _ := st.GetStack("leo", "corp1", model.StackResource, "iron")
	dst, _, _ := st.GetStack("leo", "corp2", model.StackResource, "iron")
	if src.MassKg != 60 {
		t.Fatalf("src mass = %v, want 60", src.MassKg)
	}
	if dst.MassKg != 40 {
		t.Fatalf("dst mass = %v, want 40", dst.MassKg)
	}
}

func TestTransferRejectsOverAmount(t *testing.T) {
	st := store.NewMemory()
	reg := &catalog.Registry{}
	now := time.Now()
	UpsertResource(st, reg, "leo", "corp1", "iron", 10, now)
	if err := Transfer(st, model.StackResource, "leo", "corp1", "iron", "leo", "corp2", "", 20, now); err == nil {
		t.Fatalf("expected rejection for over-amount transfer")
	}
}

func TestFingerprintCoalescesByContentNotIdentity(t *testing.T) {
	a := model.Part{ItemID: "x", Category: model.CategoryStorage, MassKg: 50, CapacityM3: 10, ResourceID: "water"}
	b := model.Part{ItemID: "x", Category: model.CategoryStorage, MassKg: 50, CapacityM3: 10, ResourceID: "water"}
	c := model.Part{ItemID: "x", Category: model.CategoryStorage, MassKg: 50, CapacityM3: 20, ResourceID: "water"}

	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("identical parts should fingerprint identically")
	}
	if Fingerprint(a) == Fingerprint(c) {
		t.Fatalf("differing parts should fingerprint differently")
	}
}
