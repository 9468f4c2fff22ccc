package shipdyn

import (
	"math"
	"testing"

	"orrery/internal/model"
)

func TestDerivedStatsComputesRocketEquationDeltaV(t *testing.T) {
	parts := []model.Part{
		{ItemID: "hull", MassKg: 500, Category: model.CategoryGeneric},
		{ItemID: "tank", MassKg: 50, Category: model.CategoryStorage, ResourceID: "water", CapacityM3: 1},
		{ItemID: "engine", MassKg: 20, Category: model.CategoryThruster, IspS: 300, ThrustKN: 5},
	}
	stats := DerivedStats(parts, 1000) // capacity is only 1000 kg (1 m^3 of water)

	wantCapacity := 1000.0
	if math.Abs(stats.FuelCapacityKg-wantCapacity) > 1e-9 {
		t.Fatalf("FuelCapacityKg = %v, want %v", stats.FuelCapacityKg, wantCapacity)
	}

	wantDryMass := 570.0
	if stats.DryMassKg != wantDryMass {
		t.Fatalf("DryMassKg = %v, want %v", stats.DryMassKg, wantDryMass)
	}

	wantDv := 300 * g0 * math.Log((wantDryMass+1000)/wantDryMass)
	if math.Abs(stats.DeltaVRemainingMS-wantDv) > 1e-6 {
		t.Fatalf("DeltaVRemainingMS = %v, want %v", stats.DeltaVRemainingMS, wantDv)
	}
}

func TestDerivedStatsZeroWithNoParts(t *testing.T) {
	stats := DerivedStats(nil, 0)
	if stats.DeltaVRemainingMS != 0 {
		t.Fatalf("expected zero delta-v with no parts, got %v", stats.DeltaVRemainingMS)
	}
}

func TestFuelNeededKgSignalsImpossibleWithZeroIsp(t *testing.T) {
	got := FuelNeededKg(1000, 500, 0, 100, 200)
	if got <= 200 {
		t.Fatalf("expected an out-of-range sentinel when isp is zero, got %v", got)
	}
}

func TestFuelNeededKgClampsToAvailableFuel(t *testing.T) {
	got := FuelNeededKg(1000, 500, 300, 1e9, 50)
	if got != 50 {
		t.Fatalf("FuelNeededKg = %v, want clamped to 50", got)
	}
}

// deltaVFor is the rocket-equation remaining delta-v for a bare
// (dry, fuel, isp) triple, bypassing part aggregation.
func deltaVFor(dryKg, fuelKg, ispS float64) float64 {
	if dryKg <= 0 || fuelKg <= 0 || ispS <= 0 {
		return 0
	}
	return ispS * g0 * math.Log((dryKg+fuelKg)/dryKg)
}

func TestDeltaVMonotonicInFuelAndIsp(t *testing.T) {
	base := deltaVFor(500, 200, 300)
	if deltaVFor(500, 400, 300) < base {
		t.Fatalf("delta-v decreased when fuel increased")
	}
	if deltaVFor(500, 200, 450) < base {
		t.Fatalf("delta-v decreased when isp increased")
	}
	if deltaVFor(0, 200, 300) != 0 || deltaVFor(500, 0, 300) != 0 || deltaVFor(500, 200, 0) != 0 {
		t.Fatalf("delta-v must be zero when any argument is zero")
	}
}

func TestFuelNeededKgComposesWithRemainingDeltaV(t *testing.T) {
	cases := []struct {
		dryKg, fuelKg, ispS, burnDvMS float64
	}{
		{500, 200, 300, 500},
		{500, 200, 300, 900},
		{1200, 5000, 450, 3000},
		{50, 10, 250, 100},
	}
	for _, tc := range cases {
		total := deltaVFor(tc.dryKg, tc.fuelKg, tc.ispS)
		if tc.burnDvMS > total {
			t.Fatalf("case %+v: burn exceeds available delta-v, bad fixture", tc)
		}
		used := FuelNeededKg(tc.dryKg+tc.fuelKg, tc.dryKg, tc.ispS, tc.burnDvMS, tc.fuelKg)
		rest := deltaVFor(tc.dryKg, tc.fuelKg-used, tc.ispS)
		if math.Abs(tc.burnDvMS+rest-total) > 1.0 {
			t.Fatalf("case %+v: burn %v + remaining %v != total %v", tc, tc.burnDvMS, rest, total)
		}
	}
}
