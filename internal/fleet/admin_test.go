package fleet

import (
	"testing"
	"time"

	"orrery/internal/model"
)

func TestSpawnCreatesDockedShip(t *testing.T) {
	w := testWorld(t)
	s, err := Spawn(w, "corp1", "pioneer", "leo", []model.Part{{ItemID: "x", Category: model.CategoryGeneric, MassKg: 10}}, 500)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected generated ship id")
	}
	if s.LocationID != "leo" {
		t.Fatalf("location = %q, want leo", s.LocationID)
	}

	fetched, err := w.Store.GetShip(s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.FuelKg != 500 {
		t.Fatalf("fuel = %v, want 500", fetched.FuelKg)
	}
}

func TestSpawnRejectsUnknownLocation(t *testing.T) {
	w := testWorld(t)
	if _, err := Spawn(w, "corp1", "pioneer", "nowhere", nil, 0); err == nil {
		t.Fatalf("expected rejection for unknown location")
	}
}

func TestTeleportRelocatesDockedShip(t *testing.T) {
	w := testWorld(t)
	s := testShip("ship1", "leo")
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	out, err := Teleport(w, "ship1", "heo")
	if err != nil {
		t.Fatalf("teleport: %v", err)
	}
	if out.LocationID != "heo" {
		t.Fatalf("location = %q, want heo", out.LocationID)
	}
}

func TestRefuelFillsToCapacity(t *testing.T) {
	w := testWorld(t)
	s := testShip("ship1", "leo")
	s.FuelKg = 1000 // partially fueled; capacity is 10000 from the 10 m3 water tank
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := Refuel(w, "ship1")
	if err != nil {
		t.Fatalf("refuel: %v", err)
	}
	if out.FuelKg != 10000 {
		t.Fatalf("fuel = %v, want 10000", out.FuelKg)
	}
	if out.Stats.FuelCapacityKg != 10000 {
		t.Fatalf("fuel capacity = %v, want 10000", out.Stats.FuelCapacityKg)
	}
}

func TestRefuelRejectsInTransitShip(t *testing.T) {
	w := testWorld(t)
	s := model.Ship{
		ID:        "ship1",
		From:      "leo",
		To:        "heo",
		ArrivesAt: w.Clock.NowTime().Add(time.Hour),
	}
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := Refuel(w, "ship1"); err == nil {
		t.Fatalf("expected rejection for in-transit ship")
	}
}

func TestDeleteRemovesShip(t *testing.T) {
	w := testWorld(t)
	s := testShip("ship1", "leo")
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Delete(w, "ship1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := w.Store.GetShip("ship1"); err == nil {
		t.Fatalf("expected ship to be gone")
	}
}

func TestDeconstructReturnsPartsToInventoryAndDeletesShip(t *testing.T) {
	w := testWorld(t)
	s := testShip("ship1", "leo")
	s.OwnerCorpID = "corp1"
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := Deconstruct(w, "ship1", false, time.Now())
	if err != nil {
		t.Fatalf("deconstruct: %v", err)
	}
	if len(out.Parts) != 0 {
		t.Fatalf("expected parts cleared in the returned snapshot")
	}
	if _, err := w.Store.GetShip("ship1"); err == nil {
		t.Fatalf("expected ship to be deleted")
	}

	stacks, err := w.Store.ListStacks("leo", "corp1")
	if err != nil {
		t.Fatalf("list stacks: %v", err)
	}
	if len(stacks) != len(s.Parts)+1 { // parts plus the returned fuel-water stack
		t.Fatalf("expected %d stacks, got %d", len(s.Parts)+1, len(stacks))
	}
}

func TestDeconstructKeepShellLeavesHulk(t *testing.T) {
	w := testWorld(t)
	s := testShip("ship1", "leo")
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := Deconstruct(w, "ship1", true, time.Now()); err != nil {
		t.Fatalf("deconstruct: %v", err)
	}
	hulk, err := w.Store.GetShip("ship1")
	if err != nil {
		t.Fatalf("expected hulk to survive: %v", err)
	}
	if len(hulk.Parts) != 0 || hulk.FuelKg != 0 {
		t.Fatalf("expected an empty hulk, got %+v", hulk)
	}
}

func TestDeconstructRejectsInTransitShip(t *testing.T) {
	w := testWorld(t)
	s := model.Ship{
		ID:        "ship1",
		From:      "leo",
		To:        "heo",
		ArrivesAt: w.Clock.NowTime().Add(time.Hour),
	}
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := Deconstruct(w, "ship1", false, time.Now()); err == nil {
		t.Fatalf("expected rejection for in-transit ship")
	}
}
