package fleet

import (
	"testing"
	"time"

	"orrery/internal/catalog"
	"orrery/internal/celestial"
	"orrery/internal/engine"
	"orrery/internal/model"
	"orrery/internal/store"
	"orrery/pkg/logger"
)

func testWorld(t *testing.T) *engine.World {
	t.Helper()

	reg := &celestial.Registry{
		Locations: map[string]model.Location{
			"leo": {ID: "leo", Kind: model.KindOrbitNode, BodyID: "earth"},
			"heo": {ID: "heo", Kind: model.KindOrbitNode, BodyID: "earth"},
		},
		Edges: []model.TransferEdge{
			{From: "leo", To: "heo", DvMS: 900, TofS: 7200, Type: model.EdgeOrbital},
			{From: "heo", To: "leo", DvMS: 900, TofS: 7200, Type: model.EdgeOrbital},
		},
	}

	st := store.NewMemory()
	w := engine.New(st, reg, &catalog.Registry{}, 0, 0, logger.NewStdLogger("test", "127.0.0.1"))
	return w
}

func testShip(id, locationID string) model.Ship {
	return model.Ship{
		ID:         id,
		Name:       "pioneer",
		LocationID: locationID,
		FuelKg:     10000,
		Parts: []model.Part{
			{ItemID: "scn_1_pioneer", Category: model.CategoryThruster, MassKg: 200, IspS: 3000, ThrustKN: 50},
			{ItemID: "water_tank_10_m3", Category: model.CategoryStorage, MassKg: 50, CapacityM3: 10, ResourceID: "water"},
		},
	}
}

func TestDispatchHappyPath(t *testing.T) {
	w := testWorld(t)
	s := testShip("ship1", "leo")
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed ship: %v", err)
	}

	result, err := Dispatch(w, "ship1", "heo")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Ship.LocationID != "" {
		t.Fatalf("ship should be in transit, location_id = %q", result.Ship.LocationID)
	}
	if result.Ship.From != "leo" || result.Ship.To != "heo" {
		t.Fatalf("from/to = %q/%q, want leo/heo", result.Ship.From, result.Ship.To)
	}
	if result.DvMS != 900 {
		t.Fatalf("dv = %v, want 900", result.DvMS)
	}
	if result.FuelUsedKg <= 0 {
		t.Fatalf("expected positive fuel use")
	}
	if result.Ship.FuelKg >= s.FuelKg {
		t.Fatalf("fuel should have decreased")
	}
}

func TestDispatchRejectsDoubleTransfer(t *testing.T) {
	w := testWorld(t)
	s := testShip("ship1", "leo")
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed ship: %v", err)
	}
	if _, err := Dispatch(w, "ship1", "heo"); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	if _, err := Dispatch(w, "ship1", "leo"); err == nil {
		t.Fatalf("expected rejection of dispatch while in transit")
	}
}

func TestDispatchRejectsMissingRoute(t *testing.T) {
	w := testWorld(t)
	s := testShip("ship1", "leo")
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed ship: %v", err)
	}
	if _, err := Dispatch(w, "ship1", "nowhere"); err == nil {
		t.Fatalf("expected rejection for missing route")
	}
}

func TestDispatchRejectsInsufficientDeltaV(t *testing.T) {
	w := testWorld(t)
	s := testShip("ship1", "leo")
	s.FuelKg = 1 // starves delta-v
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed ship: %v", err)
	}
	if _, err := Dispatch(w, "ship1", "heo"); err == nil {
		t.Fatalf("expected rejection for insufficient delta-v")
	}
}

func TestSettleOnAccessDocksArrivedShip(t *testing.T) {
	w := testWorld(t)

	arrived := model.Ship{
		ID:         "ship2",
		LocationID: "",
		From:       "leo",
		To:         "heo",
		ArrivesAt:  w.Clock.NowTime().Add(-time.Hour),
	}
	changed, err := SettleOnAccess(w, &arrived)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !changed {
		t.Fatalf("expected settlement to occur")
	}
	if arrived.LocationID != "heo" {
		t.Fatalf("location = %q, want heo", arrived.LocationID)
	}
	if arrived.InTransit() {
		t.Fatalf("ship should be docked after settlement")
	}
}

func TestSettleOnAccessLeavesInFlightShipAlone(t *testing.T) {
	w := testWorld(t)
	s := model.Ship{
		ID:        "ship3",
		From:      "leo",
		To:        "heo",
		ArrivesAt: w.Clock.NowTime().Add(time.Hour),
	}
	changed, err := SettleOnAccess(w, &s)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if changed {
		t.Fatalf("ship not yet arrived should not settle")
	}
	if !s.InTransit() {
		t.Fatalf("ship should still be in transit")
	}
}
