package planner

import (
	"math"
	"testing"

	"orrery/internal/celestial"
)

// twoPlanetDoc builds a minimal sun + two-planet system loosely shaped
// like Earth and Mars, close enough for Lambert solves to converge on
// a realistic Hohmann-ish transfer.
func twoPlanetDoc() *celestial.Document {
	return &celestial.Document{
		Bodies: []celestial.RawBody{
			{ID: "sun", Name: "Sun", MuKm3S2: 1.32712440018e11, RadiusKm: 696000,
				Position: celestial.RawPosition{Type: "fixed"}},
			{ID: "earth", Name: "Earth", Parent: "sun", MuKm3S2: 398600.4418, RadiusKm: 6371,
				Position: celestial.RawPosition{Type: "keplerian", SemiMajorAxisKm: 149.6e6, PeriodS: 365.25 * 86400}},
			{ID: "mars", Name: "Mars", Parent: "sun", MuKm3S2: 42828.3, RadiusKm: 3389.5,
				Position: celestial.RawPosition{Type: "keplerian", SemiMajorAxisKm: 227.9e6, PeriodS: 687 * 86400}},
		},
		OrbitNodes: []celestial.RawOrbitNode{
			{ID: "leo", Name: "LEO", Body: "earth", AltitudeKm: 400},
			{ID: "mars-orbit", Name: "Mars Orbit", Body: "mars", AltitudeKm: 400},
		},
	}
}

func buildRegistry(t *testing.T) *celestial.Registry {
	t.Helper()
	r, err := celestial.Build(twoPlanetDoc())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return r
}

func TestComputeLegReturnsNilForSameBodyLeg(t *testing.T) {
	reg := buildRegistry(t)
	leg, err := ComputeLeg(reg, "earth", "earth", 0, 0)
	if err != nil {
		t.Fatalf("ComputeLeg: %v", err)
	}
	if leg != nil {
		t.Fatalf("expected nil leg for a same-body hop, got %+v", leg)
	}
}

func TestComputeLegFindsPositiveDeltaVTransfer(t *testing.T) {
	reg := buildRegistry(t)
	leg, err := ComputeLeg(reg, "earth", "mars", 0, 0)
	if err != nil {
		t.Fatalf("ComputeLeg: %v", err)
	}
	if leg == nil {
		t.Fatalf("expected a resolvable earth->mars leg")
	}
	if leg.BaseDvMS <= 0 {
		t.Fatalf("BaseDvMS = %v, want positive", leg.BaseDvMS)
	}
	if leg.TofS <= 0 {
		t.Fatalf("TofS = %v, want positive", leg.TofS)
	}
}

func TestComputeLegExtraDvFracInflatesDvAndShortensTof(t *testing.T) {
	reg := buildRegistry(t)
	base, err := ComputeLeg(reg, "earth", "mars", 0, 0)
	if err != nil || base == nil {
		t.Fatalf("ComputeLeg(base): leg=%+v err=%v", base, err)
	}
	padded, err := ComputeLeg(reg, "earth", "mars", 0, 0.2)
	if err != nil || padded == nil {
		t.Fatalf("ComputeLeg(padded): leg=%+v err=%v", padded, err)
	}
	if padded.AdjustedDvMS <= base.AdjustedDvMS {
		t.Fatalf("padded AdjustedDvMS = %v, want > base %v", padded.AdjustedDvMS, base.AdjustedDvMS)
	}
}

func TestScanDepartureWindowReturnsSortedCandidates(t *testing.T) {
	reg := buildRegistry(t)
	candidates, err := ScanDepartureWindow(reg, "earth", "mars", 0, 0)
	if err != nil {
		t.Fatalf("ScanDepartureWindow: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatalf("expected at least one departure candidate")
	}
	if len(candidates) > 3 {
		t.Fatalf("expected at most 3 candidates, got %d", len(candidates))
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Leg.AdjustedDvMS < candidates[i-1].Leg.AdjustedDvMS {
			t.Fatalf("candidates not sorted by ascending delta-v: %+v", candidates)
		}
	}
}

func TestBuildPorkchopProducesDispersedMinima(t *testing.T) {
	reg := buildRegistry(t)
	grid, err := BuildPorkchop(reg, "earth", "mars", 0, 60*daySeconds, 6, 100*daySeconds, 400*daySeconds, 6, 1)
	if err != nil {
		t.Fatalf("BuildPorkchop: %v", err)
	}
	if len(grid.Cells) != grid.DepSteps*grid.TofSteps {
		t.Fatalf("grid has %d cells, want dense %dx%d", len(grid.Cells), grid.DepSteps, grid.TofSteps)
	}
	if len(grid.BestMinima) == 0 {
		t.Fatalf("expected at least one dispersed minimum")
	}
	if len(grid.BestMinima) > 5 {
		t.Fatalf("expected at most 5 dispersed minima, got %d", len(grid.BestMinima))
	}
	finite := 0
	for di := 0; di < grid.DepSteps; di++ {
		for ti := 0; ti < grid.TofSteps; ti++ {
			c := grid.Cells[di*grid.TofSteps+ti]
			if math.IsInf(c.DvMS, 1) {
				continue
			}
			finite++
			if c.DvMS <= 0 {
				t.Fatalf("solved cell has non-positive delta-v: %+v", c)
			}
		}
	}
	if finite < len(grid.Cells)/2 {
		t.Fatalf("only %d of %d cells solved, expected a mostly-finite grid", finite, len(grid.Cells))
	}
	for _, m := range grid.BestMinima {
		if math.IsInf(m.DvMS, 1) {
			t.Fatalf("dispersed minimum carries an infinite delta-v: %+v", m)
		}
	}
}

func TestLegCacheHitsOnRepeatedQuery(t *testing.T) {
	reg := buildRegistry(t)
	cache := NewLegCache(10, 0)

	leg1, err := cache.Get(reg, "earth", "mars", 0, 0)
	if err != nil || leg1 == nil {
		t.Fatalf("Get(1): leg=%+v err=%v", leg1, err)
	}
	leg2, err := cache.Get(reg, "earth", "mars", 0, 0)
	if err != nil || leg2 == nil {
		t.Fatalf("Get(2): leg=%+v err=%v", leg2, err)
	}

	stats := cache.Stats()
	if stats.Hits != 1 {
		t.Fatalf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Fatalf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Size != 1 {
		t.Fatalf("Size = %d, want 1", stats.Size)
	}

	cache.Clear()
	if s := cache.Stats(); s.Size != 0 || s.Hits != 0 || s.Misses != 0 {
		t.Fatalf("Stats after Clear = %+v, want all zero", s)
	}
}

func TestLegCacheBucketsDistinctDeparturesSeparately(t *testing.T) {
	reg := buildRegistry(t)
	cache := NewLegCache(10, 0)

	if _, err := cache.Get(reg, "earth", "mars", 0, 0); err != nil {
		t.Fatalf("Get(t=0): %v", err)
	}
	if _, err := cache.Get(reg, "earth", "mars", 30*daySeconds, 0); err != nil {
		t.Fatalf("Get(t=30d): %v", err)
	}

	stats := cache.Stats()
	if stats.Size != 2 {
		t.Fatalf("Size = %d, want 2 distinct bucketed entries", stats.Size)
	}
}

func TestQualityScoreStrictlyIncreasingInEachArgument(t *testing.T) {
	base := qualityScore(5000, 200*daySeconds, 0)
	if qualityScore(8000, 200*daySeconds, 0) <= base {
		t.Fatalf("score did not increase with delta-v")
	}
	if qualityScore(5000, 500*daySeconds, 0) <= base {
		t.Fatalf("score did not increase with time of flight")
	}
	if qualityScore(5000, 200*daySeconds, 1) <= base {
		t.Fatalf("score did not increase with revolution count")
	}
}
