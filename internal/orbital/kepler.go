package orbital

import (
	"math"

	"orrery/internal/model"
)

// Propagate advances a two-body state (r0, v0) by dt seconds under
// gravitational parameter mu, using the universal-variable formulation
// and sharing its Stumpff-function machinery with the Lambert solver.
func Propagate(r0, v0 model.Vec3, mu, dt float64) model.Vec3 {
	r0Mag := r0.Norm()
	v0Mag := v0.Norm()
	if r0Mag < 1e-12 || mu <= 0 {
		return r0
	}

	vr0 := r0.Dot(v0) / r0Mag
	alpha := 2/r0Mag - (v0Mag*v0Mag)/mu

	sqrtMu := math.Sqrt(mu)
	chi := initialChiGuess(r0Mag, vr0, alpha, mu, dt)

	for i := 0; i < maxNewtonIterations; i++ {
		psi := chi * chi * alpha
		c := stumpffC(psi)
		s := stumpffS(psi)

		f := (r0Mag*vr0/sqrtMu)*chi*chi*c + (1-r0Mag*alpha)*chi*chi*chi*s + r0Mag*chi - sqrtMu*dt
		dfdchi := (r0Mag*vr0/sqrtMu)*chi*(1-alpha*chi*chi*s) + (1-r0Mag*alpha)*chi*chi*c + r0Mag

		if dfdchi == 0 {
			break
		}
		dChi := -f / dfdchi
		chi += dChi
		if math.Abs(dChi) < 1e-10 {
			break
		}
	}

	psi := chi * chi * alpha
	c := stumpffC(psi)
	s := stumpffS(psi)

	fCoef := 1 - (chi*chi*c)/r0Mag
	gCoef := dt - (chi*chi*chi*s)/sqrtMu

	return r0.Scale(fCoef).Add(v0.Scale(gCoef))
}

// initialChiGuess seeds the Newton iteration with a closed-form
// estimate of the universal anomaly, branching on orbit type.
func initialChiGuess(r0Mag, vr0, alpha, mu, dt float64) float64 {
	sqrtMu := math.Sqrt(mu)
	switch {
	case alpha > 1e-9: // ellipse
		return sqrtMu * dt * alpha
	case alpha < -1e-9: // hyperbola
		a := 1 / alpha
		sign := 1.0
		if dt < 0 {
			sign = -1.0
		}
		num := -2 * mu * alpha * dt
		den := r0Mag*vr0 + sign*math.Sqrt(-mu*a)*(1-r0Mag*alpha)
		if den == 0 {
			den = 1e-12
		}
		return sign * math.Sqrt(-a) * math.Log(math.Abs(num/den))
	default: // parabola
		return sqrtMu * dt / r0Mag
	}
}

// SampleTrajectory returns n points projected onto the ecliptic (x, y)
// plane, evenly spaced over t in [0, T], for rendering a transfer arc.
func SampleTrajectory(r0, v0 model.Vec3, mu, totalS float64, n int) []model.Vec2 {
	if n <= 0 {
		return nil
	}
	points := make([]model.Vec2, n)
	for i := 0; i < n; i++ {
		t := totalS * float64(i) / float64(n-1)
		if n == 1 {
			t = 0
		}
		r := Propagate(r0, v0, mu, t)
		points[i] = model.Vec2{X: r.X, Y: r.Y}
	}
	return points
}
