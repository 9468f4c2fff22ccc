package fleet

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/model"
	"orrery/internal/shipdyn"
	"orrery/pkg/duration"
)

// DispatchResult summarizes a successful dispatch for the caller.
type DispatchResult struct {
	Ship         model.Ship
	Path         []string
	DvMS         float64
	TofS         float64
	TimeOfFlight duration.Duration `json:"time_of_flight"`
	FuelUsedKg   float64

	// PhaseAngleDeg is ResolvedLeg.PhaseAngleDeg, carried through for
	// display; see its doc comment. Omitted (zero value) when the path
	// has no interplanetary hop.
	PhaseAngleDeg float64 `json:"phase_angle_deg,omitempty"`
	HasPhaseAngle bool    `json:"has_phase_angle"`
}

// Dispatch runs the full transfer-lifecycle sequence:
// settle-on-access, docked validation, route resolution, gate checks,
// fuel deduction and the atomic ship mutation. The per-ship lock
// ensures settle-on-access always precedes validation even under
// concurrent callers.
func Dispatch(w *engine.World, shipID, toLocationID string) (DispatchResult, error) {
	lock := w.Ships.Acquire(shipID)
	lock.Lock()
	defer func() {
		lock.Release()
		w.Ships.Release(lock)
	}()

	s, err := w.Store.GetShip(shipID)
	if err != nil {
		return DispatchResult{}, translateNotFound(err, "ship", shipID)
	}

	if _, err := SettleOnAccess(w, &s); err != nil {
		return DispatchResult{}, err
	}

	if s.InTransit() {
		return DispatchResult{}, apperrors.PreconditionFailedf("ship %q is still in transit", shipID)
	}

	leg, err := ResolveLeg(w, s.LocationID, toLocationID, w.Clock.Now())
	if err != nil {
		return DispatchResult{}, err
	}

	stats := shipdyn.DerivedStats(s.Parts, s.FuelKg)
	power := shipdyn.EvaluatePower(s.Parts, 0, 0)

	if err := checkOverheatingGate(power); err != nil {
		return DispatchResult{}, err
	}
	if err := checkDeltaVGate(stats, leg.DvMS); err != nil {
		return DispatchResult{}, err
	}
	if err := checkTWRGate(w, leg.Path, stats); err != nil {
		return DispatchResult{}, err
	}

	fuelUsedKg := shipdyn.FuelNeededKg(stats.WetMassKg, stats.DryMassKg, stats.IspS, leg.DvMS, s.FuelKg)
	if fuelUsedKg > s.FuelKg {
		return DispatchResult{}, apperrors.PreconditionFailedf("maneuver requires more fuel than is aboard")
	}

	now := w.Clock.NowTime()
	s.Stats = stats
	s.FuelKg = s.FuelKg - fuelUsedKg
	s.From = s.LocationID
	s.To = toLocationID
	s.LocationID = ""
	s.DepartedAt = now
	s.ArrivesAt = now.Add(secondsToDuration(leg.TofS))
	s.TransferPath = leg.Path
	s.PlannedDvMS = leg.DvMS

	if err := w.Store.SaveShip(s); err != nil {
		return DispatchResult{}, err
	}

	return DispatchResult{
		Ship:          s,
		Path:          leg.Path,
		DvMS:          leg.DvMS,
		TofS:          leg.TofS,
		TimeOfFlight:  duration.NewDuration(secondsToDuration(leg.TofS)),
		FuelUsedKg:    fuelUsedKg,
		PhaseAngleDeg: leg.PhaseAngleDeg,
		HasPhaseAngle: leg.HasPhaseAngle,
	}, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
