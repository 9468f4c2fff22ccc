// Package planner computes interplanetary transfer legs: a patched-conic
// Lambert solve between two heliocentric bodies at a requested departure
// time, a departure-window scan over a synodic period, and a porkchop
// grid for visual trade-off exploration. Results are memoized in a
// bucketed LRU cache since the same (from, to, rough-departure-time)
// query recurs often across a session.
package planner

import (
	"math"

	"orrery/internal/celestial"
	"orrery/internal/model"
	"orrery/internal/orbital"
)

// parkingAltitudeKm is the assumed low-circular parking orbit altitude
// used to convert a hyperbolic excess speed into a departure/arrival
// burn via vis-viva.
const parkingAltitudeKm = 300.0

// tofMultipliers are swept against the Hohmann time-of-flight estimate
// to find the minimum-delta-v Lambert solution; ordered innermost-first
// since most transfers are won close to 1.0.
var tofMultipliers = []float64{
	1.0, 0.9, 1.1, 0.8, 1.2, 0.7, 1.3, 0.5, 1.5, 0.4, 1.8, 2.0, 2.5, 0.3,
}

// Leg is a computed interplanetary transfer leg.
type Leg struct {
	BaseDvMS     float64
	AdjustedDvMS float64
	TofS         float64
	DepartureT   float64
	ArrivalT     float64
	DepartVInfMS float64
	ArriveVInfMS float64

	// PhaseAngleDeg is the angle, in degrees [0, 360), from the departure
	// body to the arrival body as seen from the sun at DepartureT,
	// projected onto the ecliptic plane. It's informational only: the
	// Lambert solve already accounts for the actual geometry, so this
	// plays no part in picking the transfer, and exists purely so a UI
	// can show how far off a Hohmann-optimal alignment the window is.
	PhaseAngleDeg float64

	// Heliocentric departure state, retained for trajectory rendering.
	R1 model.Vec3
	V1 model.Vec3
	Mu float64
}

// phaseAngleDeg returns the ecliptic-plane angle from a to b, measured
// counterclockwise about the sun, in degrees [0, 360).
func phaseAngleDeg(a, b model.Vec3) float64 {
	thetaA := math.Atan2(a.Y, a.X)
	thetaB := math.Atan2(b.Y, b.X)

	rad := math.Mod(thetaB-thetaA, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}

	return rad * 180 / math.Pi
}

// ComputeLeg finds the minimum-delta-v interplanetary transfer between
// the heliocentric parent bodies of fromBodyID and toBodyID, departing
// at depT. Returns (nil, nil) when both bodies share the same
// heliocentric parent; that case is a same-body leg, handled by the
// static route matrix instead.
func ComputeLeg(reg *celestial.Registry, fromBodyID, toBodyID string, depT, extraDvFrac float64) (*Leg, error) {
	fromHelio, err := reg.HeliocentricParent(fromBodyID)
	if err != nil {
		return nil, err
	}
	toHelio, err := reg.HeliocentricParent(toBodyID)
	if err != nil {
		return nil, err
	}
	if fromHelio == toHelio {
		return nil, nil
	}

	sunMu := sunGravitationalParameter(reg)
	if sunMu <= 0 {
		return nil, nil
	}

	fromBody := reg.Bodies[fromHelio]
	toBody := reg.Bodies[toHelio]

	r1State, err := reg.BodyState(fromHelio, depT)
	if err != nil {
		return nil, err
	}

	var phaseAngle float64
	if toDepState, err := reg.BodyState(toHelio, depT); err == nil {
		phaseAngle = phaseAngleDeg(r1State.R, toDepState.R)
	}

	hohmannTof := orbital.HohmannTofS(fromBody.Elements.SemiMajorAxisKm, toBody.Elements.SemiMajorAxisKm, sunMu)
	if hohmannTof <= 0 {
		return nil, nil
	}

	var best *Leg
	for _, mult := range tofMultipliers {
		tof := hohmannTof * mult
		if tof <= 0 {
			continue
		}
		arrivalT := depT + tof

		r2State, err := reg.BodyState(toHelio, arrivalT)
		if err != nil {
			continue
		}

		sol, ok := orbital.Solve(r1State.R, r2State.R, tof, sunMu, false)
		if !ok {
			continue
		}

		departVInf := sol.V1.Sub(r1State.V).Norm() * 1000 // km/s -> m/s
		arriveVInf := sol.V2.Sub(r2State.V).Norm() * 1000

		dv := patchedConicDv(departVInf, fromBody.MuKm3S2, fromBody.RadiusKm) +
			patchedConicDv(arriveVInf, toBody.MuKm3S2, toBody.RadiusKm)

		if best == nil || dv < best.BaseDvMS {
			best = &Leg{
				BaseDvMS:      dv,
				TofS:          tof,
				DepartureT:    depT,
				ArrivalT:      arrivalT,
				DepartVInfMS:  departVInf,
				ArriveVInfMS:  arriveVInf,
				PhaseAngleDeg: phaseAngle,
				R1:            r1State.R,
				V1:            sol.V1,
				Mu:            sunMu,
			}
		}
	}

	if best == nil {
		return nil, nil
	}

	best.AdjustedDvMS = best.BaseDvMS
	if extraDvFrac > 0 {
		best.AdjustedDvMS = best.BaseDvMS * (1 + extraDvFrac)
		adjustedTof := best.TofS / math.Pow(1+extraDvFrac, 0.6)
		if adjustedTof < 3600 {
			adjustedTof = 3600
		}
		best.ArrivalT = best.DepartureT + adjustedTof
		best.TofS = adjustedTof
	}

	return best, nil
}

// patchedConicDv converts a hyperbolic excess speed (m/s) into the
// circular-parking-orbit departure or arrival burn, via vis-viva around
// a body with gravitational parameter muKm3S2.
func patchedConicDv(vInfMS, muKm3S2, radiusKm float64) float64 {
	if muKm3S2 <= 0 {
		return 0
	}
	rParkKm := radiusKm + parkingAltitudeKm
	vParkKmS := math.Sqrt(muKm3S2 / rParkKm)
	vInfKmS := vInfMS / 1000
	vHypKmS := math.Sqrt(vInfKmS*vInfKmS + 2*muKm3S2/rParkKm)
	return math.Abs(vHypKmS-vParkKmS) * 1000
}

func sunGravitationalParameter(reg *celestial.Registry) float64 {
	for _, b := range reg.Bodies {
		if b.Parent == "" {
			return b.MuKm3S2
		}
	}
	return 0
}
