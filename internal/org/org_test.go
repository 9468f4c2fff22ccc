package org

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

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
			"leo": {ID: "leo", Kind: model.KindOrbitNode, BodyID: "earth", Coord: model.Vec2{X: 0, Y: 0}},
			"site": {
				ID: "site", Kind: model.KindSurfaceSite, BodyID: "earth", SiteGravityG: 9.8,
				Coord:     model.Vec2{X: 100, Y: 0},
				Resources: []model.SiteResource{{ResourceID: "ore", MassFraction: 0.4}, {ResourceID: "ice", MassFraction: 0.1}},
			},
			"far_site": {
				ID: "far_site", Kind: model.KindSurfaceSite, BodyID: "earth", SiteGravityG: 9.8,
				Coord:     model.Vec2{X: 1_000_000, Y: 0},
				Resources: []model.SiteResource{{ResourceID: "ore", MassFraction: 0.3}},
			},
			"barren_site": {
				ID: "barren_site", Kind: model.KindSurfaceSite, BodyID: "earth", SiteGravityG: 9.8,
				Coord: model.Vec2{X: 50, Y: 0},
			},
		},
	}
	cat := &catalog.Registry{
		Items:       map[string]model.Part{},
		Recipes:     map[string]catalog.Recipe{},
		DensityKgM3: map[string]float64{},
	}
	st := store.NewMemory()
	return engine.New(st, reg, cat, 0, 0, logger.NewStdLogger("test", "127.0.0.1"))
}

func seedCorp(t *testing.T, w *engine.World, id string, balance decimal.Decimal) model.Corporation {
	t.Helper()
	c := model.Corporation{ID: id, Name: id, BalanceUSD: balance}
	if err := w.Store.SaveCorp(c); err != nil {
		t.Fatalf("seed corp: %v", err)
	}
	return c
}

func seedRobonautShip(t *testing.T, w *engine.World, id, corpID, locationID string, rangeKm float64) model.Ship {
	t.Helper()
	s := model.Ship{
		ID: id, Name: id, OwnerCorpID: corpID, LocationID: locationID,
		Parts: []model.Part{{ItemID: "robonaut_1", Category: model.CategoryRobonaut, ProspectRangeKm: rangeKm}},
	}
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed ship: %v", err)
	}
	return s
}

func TestSettleAccruesCostAndPoints(t *testing.T) {
	start := time.Now()
	c := model.Corporation{
		ID:             "corp1",
		BalanceUSD:     decimal.NewFromInt(1000),
		ResearchPoints: 0,
		LastSettledAt:  start,
		Teams: []model.ResearchTeam{
			{ID: "t1", CostPerMonthUSD: decimal.NewFromInt(30), PointsPerWeek: 7},
		},
	}

	// one week later: cost = 30 * (1/4.2857) months, points = 7 * 1 week
	later := start.Add(7 * 24 * time.Hour)
	Settle(&c, later)

	if c.ResearchPoints < 6.9 || c.ResearchPoints > 7.1 {
		t.Fatalf("expected ~7 research points, got %v", c.ResearchPoints)
	}
	if !c.BalanceUSD.LessThan(decimal.NewFromInt(1000)) {
		t.Fatalf("expected balance to be debited, got %v", c.BalanceUSD)
	}
	if !c.LastSettledAt.Equal(later) {
		t.Fatalf("expected LastSettledAt to advance")
	}
}

func TestSettleFirstCallOnlyStampsClock(t *testing.T) {
	c := model.Corporation{ID: "corp1", BalanceUSD: decimal.NewFromInt(100)}
	now := time.Now()
	Settle(&c, now)
	if !c.BalanceUSD.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("first settle must not debit anything, got %v", c.BalanceUSD)
	}
	if !c.LastSettledAt.Equal(now) {
		t.Fatalf("expected LastSettledAt stamped")
	}
}

func TestHireAndFireTeam(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	seedCorp(t, w, "corp1", decimal.NewFromInt(500))

	team, err := HireTeam(w, "corp1", "prospectors", decimal.NewFromInt(50), 3, now)
	if err != nil {
		t.Fatalf("hire team: %v", err)
	}
	if team.ID == "" {
		t.Fatalf("expected a generated team id")
	}

	if err := FireTeam(w, "corp1", team.ID, now.Add(time.Hour)); err != nil {
		t.Fatalf("fire team: %v", err)
	}
}

func TestHireTeamRejectsNegativeCost(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	seedCorp(t, w, "corp1", decimal.NewFromInt(500))

	if _, err := HireTeam(w, "corp1", "bad", decimal.NewFromInt(-1), 3, now); err == nil {
		t.Fatalf("expected rejection of negative cost")
	}
}

func TestUnlockTechDebitsPointsAndChecksPrereqs(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	c := seedCorp(t, w, "corp1", decimal.NewFromInt(0))
	c.ResearchPoints = 100
	if err := w.Store.SaveCorp(c); err != nil {
		t.Fatalf("seed points: %v", err)
	}

	if _, err := UnlockTech(w, "corp1", "advanced_thrusters", 20, []string{"basic_thrusters"}, now); err == nil {
		t.Fatalf("expected rejection for missing prerequisite")
	}

	if err := w.Store.SaveUnlock(model.ResearchUnlock{OrgID: "corp1", TechID: "basic_thrusters", UnlockedAt: now}); err != nil {
		t.Fatalf("seed prereq: %v", err)
	}

	got, err := UnlockTech(w, "corp1", "advanced_thrusters", 20, []string{"basic_thrusters"}, now)
	if err != nil {
		t.Fatalf("unlock tech: %v", err)
	}
	if got.ResearchPoints != 80 {
		t.Fatalf("expected 80 points remaining, got %v", got.ResearchPoints)
	}

	if _, err := UnlockTech(w, "corp1", "advanced_thrusters", 1, nil, now); err == nil {
		t.Fatalf("expected rejection of already-unlocked tech")
	}
}

func TestUnlockTechRejectsInsufficientPoints(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	seedCorp(t, w, "corp1", decimal.NewFromInt(0))

	if _, err := UnlockTech(w, "corp1", "advanced_thrusters", 20, nil, now); err == nil {
		t.Fatalf("expected rejection for insufficient research points")
	}
}

func TestProspectRecordsSiteResources(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	seedRobonautShip(t, w, "ship1", "corp1", "leo", 500)

	results, err := Prospect(w, "ship1", "site", now)
	if err != nil {
		t.Fatalf("prospect: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 resource rows, got %d", len(results))
	}

	prospected, err := w.Store.HasProspected("corp1", "site")
	if err != nil {
		t.Fatalf("has prospected: %v", err)
	}
	if !prospected {
		t.Fatalf("expected site to be marked prospected")
	}
}

func TestProspectRejectsOutOfRange(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	seedRobonautShip(t, w, "ship1", "corp1", "leo", 10)

	if _, err := Prospect(w, "ship1", "far_site", now); err == nil {
		t.Fatalf("expected rejection for out-of-range site")
	}
}

func TestProspectRejectsSiteWithNoResources(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	seedRobonautShip(t, w, "ship1", "corp1", "leo", 1_000_000)

	if _, err := Prospect(w, "ship1", "barren_site", now); err == nil {
		t.Fatalf("expected rejection for a site with nothing to prospect")
	}
}

func TestProspectRejectsShipWithoutRobonaut(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	s := model.Ship{ID: "ship1", OwnerCorpID: "corp1", LocationID: "leo"}
	if err := w.Store.SaveShip(s); err != nil {
		t.Fatalf("seed ship: %v", err)
	}

	if _, err := Prospect(w, "ship1", "site", now); err == nil {
		t.Fatalf("expected rejection for a ship without a robonaut")
	}
}

func TestBoostToLEODebitsBalance(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	seedCorp(t, w, "corp1", decimal.NewFromInt(1000))

	entry, err := BoostToLEO(w, "corp1", "water_tank", 2, decimal.NewFromInt(300), now)
	if err != nil {
		t.Fatalf("boost to leo: %v", err)
	}
	if !entry.CostUSD.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected cost to be recorded, got %v", entry.CostUSD)
	}

	c, err := GetCorp(w, "corp1", now)
	if err != nil {
		t.Fatalf("get corp: %v", err)
	}
	if !c.BalanceUSD.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("expected balance 700, got %v", c.BalanceUSD)
	}
}

func TestBoostToLEORejectsInsufficientFunds(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	seedCorp(t, w, "corp1", decimal.NewFromInt(100))

	if _, err := BoostToLEO(w, "corp1", "water_tank", 1, decimal.NewFromInt(300), now); err == nil {
		t.Fatalf("expected rejection for insufficient funds")
	}
}
