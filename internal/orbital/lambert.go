package orbital

import (
	"math"

	"orrery/internal/model"
)

// Solution is a Lambert boundary-value solution: the velocity vectors at
// r1 and r2 that connect them in the requested time of flight.
type Solution struct {
	V1 model.Vec3
	V2 model.Vec3
}

const (
	maxNewtonIterations    = 200
	maxBisectionIterations = 100
	maxGoldenIterations    = 80
)

// transferAngle computes the transfer angle and the stability-perturbed
// r2, handling the near-180-degree degeneracy by nudging r2 sideways,
// perpendicular to r1, in the direction that makes the z-component of
// r1 x r2 positive (a prograde bias), since the orbit plane is otherwise
// undefined. The nudge is 1e-5 of |r2|, and at least 1 km.
func transferAngle(r1, r2 model.Vec3, clockwise bool) (dnu float64, r2adj model.Vec3, ok bool) {
	r1Mag := r1.Norm()
	r2Mag := r2.Norm()
	if r1Mag < 1e-10 || r2Mag < 1e-10 {
		return 0, r2, false
	}

	cosDnu := clamp(r1.Dot(r2)/(r1Mag*r2Mag), -1, 1)
	cross := r1.Cross(r2)
	crossZ := cross.Z

	if cross.Norm() < 1e-6*r1Mag*r2Mag && cosDnu < -0.99 {
		ir1 := r1.Scale(1 / r1Mag)
		var perp model.Vec3
		if math.Abs(ir1.Z) < 0.9 {
			perp = model.Vec3{Z: 1}.Cross(ir1)
		} else {
			perp = model.Vec3{Y: 1}.Cross(ir1)
		}
		if pm := perp.Norm(); pm > 1e-15 {
			perp = perp.Scale(1 / pm)
		}
		perturb := math.Max(r2Mag*1e-5, 1.0)
		r2 = r2.Add(perp.Scale(perturb))
		r2Mag = r2.Norm()
		cosDnu = clamp(r1.Dot(r2)/(r1Mag*r2Mag), -1, 1)
		cross = r1.Cross(r2)
		crossZ = cross.Z
	}

	acos := math.Acos(cosDnu)
	if clockwise {
		if crossZ >= 0 {
			dnu = 2*math.Pi - acos
		} else {
			dnu = acos
		}
	} else {
		if crossZ >= 0 {
			dnu = acos
		} else {
			dnu = 2*math.Pi - acos
		}
	}
	return dnu, r2, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// chordParameter computes the A parameter of Curtis Algorithm 5.2 using
// the sin/cos half-angle form for numerical stability near 180 degrees.
func chordParameter(r1Mag, r2Mag, dnu float64) (a float64, ok bool) {
	sinDnu := math.Sin(dnu)
	denom := 1 - math.Cos(dnu)
	if math.Abs(denom) < 1e-14 {
		return 0, false
	}
	a = sinDnu * math.Sqrt(r1Mag*r2Mag/denom)
	if math.Abs(a) < 1e-14 {
		return 0, false
	}
	return a, true
}

// Solve solves Lambert's problem for a direct (zero-revolution)
// transfer. Returns ok=false when tof <= 0, mu <= 0, r1 ~= r2, or
// every stage (Newton on the universal variable, the Battin recovery,
// wide-bracket bisection) fails to converge within its iteration
// budget.
func Solve(r1, r2 model.Vec3, tof, mu float64, clockwise bool) (Solution, bool) {
	r1Mag := r1.Norm()
	r2Mag := r2.Norm()
	if r1Mag < 1e-10 || r2Mag < 1e-10 || tof <= 0 || mu <= 0 {
		return Solution{}, false
	}

	dnu, r2, okAngle := transferAngle(r1, r2, clockwise)
	if !okAngle {
		return Solution{}, false
	}
	r2Mag = r2.Norm()

	a, okA := chordParameter(r1Mag, r2Mag, dnu)
	if !okA {
		return Solution{}, false
	}

	sqrtMu := math.Sqrt(mu)

	yOf := func(z, c, s float64) float64 {
		return r1Mag + r2Mag + a*(z*s-1)/math.Sqrt(c)
	}

	z, converged := newtonSolveZ(a, r1Mag, r2Mag, tof, sqrtMu, yOf)
	if !converged {
		// Battin handles the geometries Newton diverges on (near-180
		// transfer angles in particular); bisection over a wide z
		// bracket is the last resort.
		if sol, okB := solveBattin(r1, r2, tof, mu, clockwise); okB {
			return sol, true
		}
		z, converged = bisectSolveZ(a, r1Mag, r2Mag, tof, sqrtMu, yOf)
		if !converged {
			return Solution{}, false
		}
	}

	c := stumpffC(z)
	s := stumpffS(z)
	y := yOf(z, c, s)
	if y < 0 {
		return Solution{}, false
	}

	f := 1 - y/r1Mag
	g := a * math.Sqrt(y/mu)
	gDot := 1 - y/r2Mag
	if math.Abs(g) < 1e-15 {
		return Solution{}, false
	}

	v1 := r2.Sub(r1.Scale(f)).Scale(1 / g)
	v2 := r2.Scale(gDot).Sub(r1).Scale(1 / g)

	return Solution{V1: v1, V2: v2}, true
}

func fOfZ(z, a, r1Mag, r2Mag, tof, sqrtMu float64, yOf func(z, c, s float64) float64) float64 {
	c := stumpffC(z)
	s := stumpffS(z)
	y := yOf(z, c, s)
	if y < 0 {
		return math.Inf(1)
	}
	chi := math.Sqrt(y / c)
	return (chi*chi*chi*s+a*math.Sqrt(y))/sqrtMu - tof
}

// newtonSolveZ performs Newton-Raphson on the universal variable z,
// following Curtis Algorithm 5.2's F(z) zero-finding with a numeric
// derivative (the analytic derivative is cheap but the numeric one is
// robust across the z=0 removable singularity, and the iteration budget
// here is generous).
func newtonSolveZ(a, r1Mag, r2Mag, tof, sqrtMu float64, yOf func(z, c, s float64) float64) (float64, bool) {
	z := 0.0
	const h = 1e-6
	for i := 0; i < maxNewtonIterations; i++ {
		c := stumpffC(z)
		s := stumpffS(z)
		y := yOf(z, c, s)
		for y < 0 {
			z += 0.1
			c = stumpffC(z)
			s = stumpffS(z)
			y = yOf(z, c, s)
		}
		chi := math.Sqrt(y / c)
		fVal := (chi*chi*chi*s+a*math.Sqrt(y))/sqrtMu - tof
		if math.Abs(fVal) < 1e-8 {
			return z, true
		}

		fPlus := fOfZ(z+h, a, r1Mag, r2Mag, tof, sqrtMu, yOf)
		fMinus := fOfZ(z-h, a, r1Mag, r2Mag, tof, sqrtMu, yOf)
		dFdz := (fPlus - fMinus) / (2 * h)
		if math.Abs(dFdz) < 1e-30 || math.IsInf(dFdz, 0) || math.IsNaN(dFdz) {
			break
		}

		zNew := z - fVal/dFdz
		if math.Abs(zNew-z) > 10*math.Abs(z)+10 {
			zNew = z - 0.5*fVal/dFdz
		}
		z = zNew
	}
	return z, false
}

// bisectSolveZ is the robust fallback used when Newton fails to converge:
// bracket z over a wide elliptic-to-hyperbolic range and bisect on the
// sign of F(z).
func bisectSolveZ(a, r1Mag, r2Mag, tof, sqrtMu float64, yOf func(z, c, s float64) float64) (float64, bool) {
	lo, hi := -4*math.Pi*math.Pi, 4*math.Pi*math.Pi
	fLo := fOfZ(lo, a, r1Mag, r2Mag, tof, sqrtMu, yOf)
	fHi := fOfZ(hi, a, r1Mag, r2Mag, tof, sqrtMu, yOf)
	for fLo*fHi > 0 && hi < 1e8 {
		hi *= 2
		fHi = fOfZ(hi, a, r1Mag, r2Mag, tof, sqrtMu, yOf)
	}
	if fLo*fHi > 0 {
		return 0, false
	}
	for i := 0; i < maxBisectionIterations; i++ {
		mid := (lo + hi) / 2
		fMid := fOfZ(mid, a, r1Mag, r2Mag, tof, sqrtMu, yOf)
		if math.Abs(fMid) < 1e-6 {
			return mid, true
		}
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi, fHi = mid, fMid
		}
	}
	return (lo + hi) / 2, true
}

// SolveMultiRev solves Lambert's problem for exactly N complete
// revolutions, picking the short- or long-period branch via longPeriod.
// For each N there are two z brackets on either side of the minimum-TOF
// point; this finds the minimum via golden-section search and bisects on
// the requested side.
func SolveMultiRev(r1, r2 model.Vec3, tof, mu float64, clockwise bool, n int, longPeriod bool) (Solution, bool) {
	r1Mag := r1.Norm()
	r2Mag := r2.Norm()
	if r1Mag < 1e-10 || r2Mag < 1e-10 || tof <= 0 || mu <= 0 || n < 1 {
		return Solution{}, false
	}

	dnu, r2adj, okAngle := transferAngle(r1, r2, clockwise)
	if !okAngle {
		return Solution{}, false
	}
	r2 = r2adj
	r2Mag = r2.Norm()

	a, okA := chordParameter(r1Mag, r2Mag, dnu)
	if !okA {
		return Solution{}, false
	}

	sqrtMu := math.Sqrt(mu)
	yOf := func(z, c, s float64) float64 {
		return r1Mag + r2Mag + a*(z*s-1)/math.Sqrt(c)
	}
	tofOfZ := func(z float64) float64 {
		c := stumpffC(z)
		s := stumpffS(z)
		y := yOf(z, c, s)
		if y < 0 {
			return math.Inf(1)
		}
		chi := math.Sqrt(y / c)
		return (chi*chi*chi*s + a*math.Sqrt(y)) / sqrtMu
	}

	zLo := math.Pow(2*math.Pi*float64(n), 2) + 1e-4
	zHi := math.Pow(2*math.Pi*float64(n+1), 2) - 1e-4

	zMin := goldenSectionMinimize(tofOfZ, zLo, zHi, maxGoldenIterations)

	var z float64
	var ok bool
	if longPeriod {
		z, ok = bisectOnTof(tofOfZ, zMin, zHi, tof)
	} else {
		z, ok = bisectOnTof(tofOfZ, zLo, zMin, tof)
	}
	if !ok {
		return Solution{}, false
	}

	c := stumpffC(z)
	s := stumpffS(z)
	y := yOf(z, c, s)
	if y < 0 {
		return Solution{}, false
	}

	f := 1 - y/r1Mag
	g := a * math.Sqrt(y/mu)
	gDot := 1 - y/r2Mag
	if math.Abs(g) < 1e-15 {
		return Solution{}, false
	}

	v1 := r2.Sub(r1.Scale(f)).Scale(1 / g)
	v2 := r2.Scale(gDot).Sub(r1).Scale(1 / g)
	return Solution{V1: v1, V2: v2}, true
}

// goldenSectionMinimize finds the argument minimizing a unimodal function
// f over [lo, hi].
func goldenSectionMinimize(f func(float64) float64, lo, hi float64, iterations int) float64 {
	const invPhi = 0.6180339887498949 // (sqrt(5)-1)/2
	a, b := lo, hi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	for i := 0; i < iterations; i++ {
		if f(c) < f(d) {
			b = d
		} else {
			a = c
		}
		c = b - invPhi*(b-a)
		d = a + invPhi*(b-a)
	}
	return (a + b) / 2
}

// bisectOnTof finds z in [lo, hi] such that tofOfZ(z) == targetTof,
// assuming tofOfZ is monotonic on that interval (true on each side of the
// minimum found by goldenSectionMinimize).
func bisectOnTof(tofOfZ func(float64) float64, lo, hi, targetTof float64) (float64, bool) {
	fLo := tofOfZ(lo) - targetTof
	fHi := tofOfZ(hi) - targetTof
	if fLo*fHi > 0 {
		return 0, false
	}
	for i := 0; i < maxBisectionIterations; i++ {
		mid := (lo + hi) / 2
		fMid := tofOfZ(mid) - targetTof
		if math.Abs(fMid) < 1e-3 {
			return mid, true
		}
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi, fHi = mid, fMid
		}
	}
	return (lo + hi) / 2, true
}
