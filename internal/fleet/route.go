// Package fleet implements the ship transfer lifecycle:
// settle-on-access arrival, dispatch validation against fuel, TWR and
// waste-heat gates, and the admin operations (spawn, teleport, delete,
// deconstruct).
package fleet

import (
	"math"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/model"
)

// ResolvedLeg is a matrix path annotated with the actual dv/tof to
// charge for the requested departure, after substituting any
// interplanetary hop's static estimate with the Lambert result for the
// requested departure time.
type ResolvedLeg struct {
	Path []string
	DvMS float64
	TofS float64

	// PhaseAngleDeg is planner.Leg.PhaseAngleDeg for this path's
	// interplanetary hop, decorative metadata only; see that field's
	// doc comment. HasPhaseAngle is false for a purely same-body path,
	// which has no such hop to report one for.
	PhaseAngleDeg float64
	HasPhaseAngle bool
}

// ResolveLeg looks up the static matrix row for (from, to) and replaces
// the contribution of any interplanetary edge on the path with a live
// Lambert computation at depT. Same-body legs are left as the matrix
// already has them.
func ResolveLeg(w *engine.World, from, to string, depT float64) (ResolvedLeg, error) {
	row, ok := w.Matrix.Row(from, to)
	if !ok {
		return ResolvedLeg{}, apperrors.NotFoundf("no route from %q to %q", from, to)
	}

	edgeByPair := make(map[[2]string]model.TransferEdge, len(w.Celestial.Edges))
	for _, e := range w.Celestial.Edges {
		edgeByPair[[2]string{e.From, e.To}] = e
	}

	dv, tof := row.DvMS, row.TofS
	t := depT
	var phaseAngle float64
	var hasPhaseAngle bool
	for i := 0; i+1 < len(row.Path); i++ {
		hop, ok := edgeByPair[[2]string{row.Path[i], row.Path[i+1]}]
		if !ok || hop.Type != model.EdgeInterplanetary {
			t += staticHopTof(hop)
			continue
		}

		fromBody := w.Celestial.Locations[row.Path[i]].BodyID
		toBody := w.Celestial.Locations[row.Path[i+1]].BodyID
		leg, err := w.Legs.Get(w.Celestial, fromBody, toBody, t, 0)
		if err != nil {
			return ResolvedLeg{}, err
		}
		if leg == nil {
			return ResolvedLeg{}, apperrors.PreconditionFailedf("no interplanetary solution from %q to %q at t=%.0f", row.Path[i], row.Path[i+1], t)
		}

		dv = dv - hop.DvMS + leg.AdjustedDvMS
		tof = tof - hop.TofS + leg.TofS
		t = leg.ArrivalT
		phaseAngle = leg.PhaseAngleDeg
		hasPhaseAngle = true
	}

	return ResolvedLeg{
		Path:          row.Path,
		DvMS:          dv,
		TofS:          tof,
		PhaseAngleDeg: phaseAngle,
		HasPhaseAngle: hasPhaseAngle,
	}, nil
}

func staticHopTof(e model.TransferEdge) float64 { return e.TofS }

// PhaseAngleDeg computes decorative phase-angle metadata: the angular
// separation, at departure time, between the two bodies as seen from
// the sun. Informational only; the authoritative dv/tof always comes
// from ResolveLeg and planner.ComputeLeg.
func PhaseAngleDeg(w *engine.World, fromBodyID, toBodyID string, depT float64) (float64, bool) {
	r1, err := w.Celestial.BodyState(fromBodyID, depT)
	if err != nil {
		return 0, false
	}
	r2, err := w.Celestial.BodyState(toBodyID, depT)
	if err != nil {
		return 0, false
	}
	angle1 := math.Atan2(r1.R.Y, r1.R.X)
	angle2 := math.Atan2(r2.R.Y, r2.R.X)
	deg := (angle2 - angle1) * 180 / math.Pi
	for deg < -180 {
		deg += 360
	}
	for deg > 180 {
		deg -= 360
	}
	return deg, true
}
