package celestial

import (
	"math"

	"orrery/internal/apperrors"
	"orrery/internal/model"
)

// BodyState evaluates the position and velocity of a body at a given
// game-time: given a body id and game-time t, produce (position, velocity) by
// solving Kepler's equation, assembling the perifocal state, and
// rotating into the parent frame, recursing through the parent chain
// for planet-centric bodies (e.g. a moon's Keplerian elements are
// relative to its planet, whose own heliocentric state must be added).
func (r *Registry) BodyState(id string, t float64) (model.State, error) {
	return r.bodyState(id, t, 0)
}

const maxBodyChainDepth = 32

func (r *Registry) bodyState(id string, t float64, depth int) (model.State, error) {
	if depth > maxBodyChainDepth {
		return model.State{}, apperrors.Internalf("body position chain too deep or cyclic at %q", id)
	}
	body, ok := r.Bodies[id]
	if !ok {
		return model.State{}, apperrors.NotFoundf("unknown body %q", id)
	}

	switch body.PositionKind {
	case model.PositionFixed:
		return model.State{R: model.Vec3{X: body.FixedX, Y: body.FixedY}}, nil

	case model.PositionPolarFromBody:
		pos, ok := r.staticPositions[id]
		if !ok {
			return model.State{}, apperrors.Internalf("static position for %q was not resolved", id)
		}
		return model.State{R: model.Vec3{X: pos.X, Y: pos.Y}}, nil

	case model.PositionKeplerian:
		local, err := keplerianState(body.Elements, t, r.centralMu(body.Parent, body.MuKm3S2))
		if err != nil {
			return model.State{}, err
		}
		if body.Parent == "" {
			return local, nil
		}
		parentState, err := r.bodyState(body.Parent, t, depth+1)
		if err != nil {
			return model.State{}, err
		}
		return model.State{
			R: local.R.Add(parentState.R),
			V: local.V.Add(parentState.V),
		}, nil

	default:
		return model.State{}, apperrors.ConfigErrorf("bodies."+id+".position.type", "unknown position kind")
	}
}

// centralMu resolves the gravitational parameter of the body a
// Keplerian orbit is defined around: the parent, or the body's own mu if
// it has no parent (a central star).
func (r *Registry) centralMu(parentID string, ownMu float64) float64 {
	if parentID == "" {
		return ownMu
	}
	if parent, ok := r.Bodies[parentID]; ok && parent.MuKm3S2 > 0 {
		return parent.MuKm3S2
	}
	return ownMu
}

// keplerianState solves Kepler's equation for the eccentric anomaly by
// Newton's method on E - e*sin(E) = M, derives the true anomaly, and
// assembles the perifocal state before rotating by Rz(Omega) Rx(i)
// Rz(omega) into the reference frame.
func keplerianState(el model.KeplerianElements, t, mu float64) (model.State, error) {
	if mu <= 0 || el.SemiMajorAxisKm <= 0 {
		return model.State{}, apperrors.ConfigErrorf("position", "keplerian body requires mu > 0 and a > 0")
	}
	if el.PeriodS <= 0 {
		return model.State{}, apperrors.ConfigErrorf("position.period_s", "period must be positive")
	}

	n := 2 * math.Pi / el.PeriodS // mean motion
	m := el.MeanAnomaly0Rad + n*(t-el.EpochS)
	m = math.Mod(m, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}

	e := el.Eccentricity
	ecc := solveKeplerEquation(m, e)

	// True anomaly from eccentric anomaly.
	nu := 2 * math.Atan2(math.Sqrt(1+e)*math.Sin(ecc/2), math.Sqrt(1-e)*math.Cos(ecc/2))

	p := el.SemiMajorAxisKm * (1 - e*e)
	rMag := p / (1 + e*math.Cos(nu))

	// Perifocal position and velocity.
	rPf := model.Vec3{X: rMag * math.Cos(nu), Y: rMag * math.Sin(nu)}
	h := math.Sqrt(mu * p)
	vPf := model.Vec3{
		X: -(mu / h) * math.Sin(nu),
		Y: (mu / h) * (e + math.Cos(nu)),
	}

	rRot := rotatePerifocal(rPf, el.RAANRad, el.InclinationRad, el.ArgPeriapsisRad)
	vRot := rotatePerifocal(vPf, el.RAANRad, el.InclinationRad, el.ArgPeriapsisRad)

	return model.State{R: rRot, V: vRot}, nil
}

// solveKeplerEquation finds E such that E - e*sin(E) = M via Newton's
// method, bounded at 200 iterations.
func solveKeplerEquation(m, e float64) float64 {
	ecc := m
	if e > 0.8 {
		ecc = math.Pi
	}
	for i := 0; i < 200; i++ {
		f := ecc - e*math.Sin(ecc) - m
		fPrime := 1 - e*math.Cos(ecc)
		if fPrime == 0 {
			break
		}
		d := f / fPrime
		ecc -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return ecc
}

// rotatePerifocal applies Rz(Omega) * Rx(i) * Rz(omega) to a perifocal
// vector.
func rotatePerifocal(v model.Vec3, raan, inc, argp float64) model.Vec3 {
	cosO, sinO := math.Cos(raan), math.Sin(raan)
	cosI, sinI := math.Cos(inc), math.Sin(inc)
	cosW, sinW := math.Cos(argp), math.Sin(argp)

	r11 := cosO*cosW - sinO*sinW*cosI
	r12 := -cosO*sinW - sinO*cosW*cosI
	r21 := sinO*cosW + cosO*sinW*cosI
	r22 := -sinO*sinW + cosO*cosW*cosI
	r31 := sinW * sinI
	r32 := cosW * sinI

	return model.Vec3{
		X: r11*v.X + r12*v.Y,
		Y: r21*v.X + r22*v.Y,
		Z: r31*v.X + r32*v.Y,
	}
}
