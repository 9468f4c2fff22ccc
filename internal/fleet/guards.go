package fleet

import (
	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/model"
	"orrery/internal/shipdyn"
)

const deltaVEpsilonMS = 1e-6

// checkOverheatingGate rejects dispatch when the ship's steady-state
// waste heat exceeds its radiator capacity.
func checkOverheatingGate(power shipdyn.PowerBalance) error {
	if power.Overheating() {
		return apperrors.PreconditionFailedf("ship is overheating: waste heat surplus %.3f MW", power.WasteHeatSurplusMW)
	}
	return nil
}

// checkDeltaVGate rejects dispatch when the requested leg's dv exceeds
// the ship's remaining delta-v budget.
func checkDeltaVGate(stats model.ShipStats, requestedDvMS float64) error {
	if requestedDvMS > stats.DeltaVRemainingMS+deltaVEpsilonMS {
		return apperrors.PreconditionFailedf("insufficient delta-v: need %.1f m/s, have %.1f m/s", requestedDvMS, stats.DeltaVRemainingMS)
	}
	return nil
}

// checkTWRGate rejects dispatch when the ship's thrust-to-weight ratio
// at any surface site along the path is below 1.0: ascent and descent
// legs need enough thrust to lift off at all.
func checkTWRGate(w *engine.World, path []string, stats model.ShipStats) error {
	for _, locID := range path {
		loc, ok := w.Celestial.Locations[locID]
		if !ok || loc.Kind != model.KindSurfaceSite {
			continue
		}
		if loc.SiteGravityG <= 0 || stats.WetMassKg <= 0 {
			continue
		}
		thrustN := stats.ThrustKN * 1000
		twr := thrustN / (stats.WetMassKg * loc.SiteGravityG)
		if twr < 1.0 {
			return apperrors.PreconditionFailedf("thrust-to-weight ratio %.3f at %q is below 1.0", twr, locID)
		}
	}
	return nil
}
