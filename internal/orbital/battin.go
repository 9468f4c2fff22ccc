package orbital

import (
	"math"

	"orrery/internal/model"
)

// Battin's method for Lambert's problem, used as the recovery path when
// the universal-variable Newton iteration fails to converge. That
// failure mode clusters around transfer angles near 180 degrees, where
// the A parameter of the universal formulation collapses; Battin's
// formulation has no singularity there. The iteration runs on Battin's
// free parameter x and leans on two continued fractions: xiFraction
// (the hypergeometric xi(x)) and kFraction (K(u)).

const maxBattinIterations = 60

// etaFraction evaluates eta(x) = x / (sqrt(1+x) + 1) through the
// continued fraction x/(2 + x/(2 + x/(2 + ...))), which follows from
// the classic expansion sqrt(1+x) = 1 + x/(2 + x/(2 + ...)).
func etaFraction(x float64) float64 {
	acc := 2.0
	for i := 0; i < 30; i++ {
		acc = 2 + x/acc
	}
	return x / acc
}

// kFraction evaluates Battin's K(u) continued fraction. K(0) = 1/3 and
// the level coefficients alternate between the two closed forms below.
func kFraction(u float64) float64 {
	const levels = 27
	acc := 1.0
	for i := levels; i >= 1; i-- {
		var c float64
		switch {
		case i == 1:
			c = 4.0 / 27.0
		case i%2 == 0:
			n := float64(i / 2)
			c = 2 * (3*n + 1) * (6*n - 1) / (9 * (4*n - 1) * (4*n + 1))
		default:
			n := float64((i - 1) / 2)
			c = 2 * (3*n + 2) * (6*n + 1) / (9 * (4*n + 1) * (4*n + 3))
		}
		acc = 1 + c*u/acc
	}
	return (1.0 / 3.0) / acc
}

// xiFraction evaluates Battin's xi(x) hypergeometric continued
// fraction in terms of eta = x / (1 + sqrt(1+x))^2.
func xiFraction(x float64) float64 {
	sqrtopx := math.Sqrt(1 + x)
	eta := x / ((1 + sqrtopx) * (1 + sqrtopx))

	const levels = 25
	acc := 1.0
	for i := levels; i >= 1; i-- {
		k := float64(i)
		c := (k + 2) * (k + 2) / ((2*k + 3) * (2*k + 5))
		acc = 1 + c*eta/acc
	}
	return 8 * (sqrtopx + 1) / (3 + 1/(5+eta+(9.0/7.0)*eta/acc))
}

// solveBattin solves the zero-revolution Lambert problem by Battin's
// method. Returns ok=false on degenerate inputs or when the x
// iteration fails to settle.
func solveBattin(r1, r2 model.Vec3, tof, mu float64, clockwise bool) (Solution, bool) {
	r1Mag := r1.Norm()
	r2Mag := r2.Norm()
	if r1Mag < 1e-10 || r2Mag < 1e-10 || tof <= 0 || mu <= 0 {
		return Solution{}, false
	}

	dnu, r2adj, okAngle := transferAngle(r1, r2, clockwise)
	if !okAngle {
		return Solution{}, false
	}
	r2 = r2adj
	r2Mag = r2.Norm()

	chord := r2.Sub(r1).Norm()
	if chord < 1e-10 {
		return Solution{}, false
	}
	s := (r1Mag + r2Mag + chord) / 2

	ror := r2Mag / r1Mag
	eps := ror - 1
	tan2w := 0.25 * eps * eps / (math.Sqrt(ror) + ror*(2+math.Sqrt(ror)))

	sinQ := math.Sin(dnu / 4)
	cosQ := math.Cos(dnu / 4)
	rop := math.Sqrt(r1Mag*r2Mag) * (cosQ*cosQ + tan2w)

	var l float64
	if dnu < math.Pi {
		l = (sinQ*sinQ + tan2w) / (sinQ*sinQ + tan2w + math.Cos(dnu/2))
	} else {
		l = (cosQ*cosQ + tan2w - math.Cos(dnu/2)) / (cosQ*cosQ + tan2w)
	}

	m := mu * tof * tof / (8 * rop * rop * rop)

	x := l
	y := 1.0
	converged := false
	for i := 0; i < maxBattinIterations; i++ {
		xi := xiFraction(x)
		denom := 1 / ((1 + 2*x + l) * (4*x + xi*(3+x)))
		h1 := (l + x) * (l + x) * (1 + 3*x + xi) * denom
		h2 := m * (x - l + xi) * denom

		b := 0.25 * 27 * h2 / math.Pow(1+h1, 3)
		if b < -1 {
			return Solution{}, false
		}
		u := 0.5 * b / (1 + math.Sqrt(1+b))
		k := kFraction(u)
		y = ((1 + h1) / 3) * (2 + math.Sqrt(1+b)/(1+2*u*k*k))

		xNew := math.Sqrt(((1-l)/2)*((1-l)/2)+m/(y*y)) - (1+l)/2
		if math.IsNaN(xNew) || math.IsInf(xNew, 0) {
			return Solution{}, false
		}
		if math.Abs(xNew-x) < 1e-12 {
			x = xNew
			converged = true
			break
		}
		x = xNew
	}
	if !converged || math.Abs(x) < 1e-12 {
		return Solution{}, false
	}

	a := mu * tof * tof / (16 * rop * rop * x * y * y)

	f, g, gDot, ok := battinLagrange(a, s, chord, dnu, r1Mag, r2Mag, tof, mu)
	if !ok {
		return Solution{}, false
	}

	v1 := r2.Sub(r1.Scale(f)).Scale(1 / g)
	v2 := r2.Scale(gDot).Sub(r1).Scale(1 / g)
	if !finiteVec(v1) || !finiteVec(v2) {
		return Solution{}, false
	}
	return Solution{V1: v1, V2: v2}, true
}

// battinLagrange recovers the Lagrange coefficients from the
// semi-major axis found by the Battin iteration, through Lagrange's
// time-of-flight geometry on the (s, chord) triangle. For the ellipse
// the principal alpha has a 2*pi - alpha twin past the minimum-energy
// time; the branch whose Lagrange time matches the requested tof wins.
func battinLagrange(a, s, chord, dnu, r1Mag, r2Mag, tof, mu float64) (f, g, gDot float64, ok bool) {
	if a > 0 {
		sinHalfAlpha := clamp(math.Sqrt(s/(2*a)), -1, 1)
		sinHalfBeta := clamp(math.Sqrt((s-chord)/(2*a)), -1, 1)
		alpha := 2 * math.Asin(sinHalfAlpha)
		beta := 2 * math.Asin(sinHalfBeta)
		if dnu > math.Pi {
			beta = -beta
		}

		sqrtA3Mu := math.Sqrt(a * a * a / mu)
		lagrangeTof := func(al float64) float64 {
			return sqrtA3Mu * ((al - math.Sin(al)) - (beta - math.Sin(beta)))
		}
		if math.Abs(lagrangeTof(2*math.Pi-alpha)-tof) < math.Abs(lagrangeTof(alpha)-tof) {
			alpha = 2*math.Pi - alpha
		}

		dE := alpha - beta
		f = 1 - a/r1Mag*(1-math.Cos(dE))
		g = tof - sqrtA3Mu*(dE-math.Sin(dE))
		gDot = 1 - a/r2Mag*(1-math.Cos(dE))
	} else {
		alpha := 2 * math.Asinh(math.Sqrt(s/(-2*a)))
		beta := 2 * math.Asinh(math.Sqrt((s-chord)/(-2*a)))
		if dnu > math.Pi {
			beta = -beta
		}
		dH := alpha - beta
		f = 1 - a/r1Mag*(1-math.Cosh(dH))
		g = tof - math.Sqrt(-a*a*a/mu)*(math.Sinh(dH)-dH)
		gDot = 1 - a/r2Mag*(1-math.Cosh(dH))
	}
	if math.Abs(g) < 1e-15 || math.IsNaN(g) {
		return 0, 0, 0, false
	}
	return f, g, gDot, true
}

func finiteVec(v model.Vec3) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
