package orbital

import (
	"math"
	"testing"

	"orrery/internal/model"
)

const muSun = 1.32712440018e11 // km^3/s^2

func TestSolveRejectsDegenerateInputs(t *testing.T) {
	r1 := model.Vec3{X: 1e8}
	r2 := model.Vec3{X: 2e8}

	if _, ok := Solve(r1, r2, 0, muSun, false); ok {
		t.Fatalf("Solve accepted tof <= 0")
	}
	if _, ok := Solve(r1, r2, 1e7, 0, false); ok {
		t.Fatalf("Solve accepted mu <= 0")
	}
	if _, ok := Solve(r1, r1, 1e7, muSun, false); ok {
		t.Fatalf("Solve accepted r1 ~= r2")
	}
}

func TestSolveQuarterOrbitMatchesCircularSpeed(t *testing.T) {
	rEarth := 149.6e6 // km
	v := math.Sqrt(muSun / rEarth)
	period := 2 * math.Pi * math.Sqrt(rEarth*rEarth*rEarth/muSun)

	r1 := model.Vec3{X: rEarth}
	r2 := model.Vec3{Y: rEarth}
	tof := period / 4

	sol, ok := Solve(r1, r2, tof, muSun, false)
	if !ok {
		t.Fatalf("Solve failed to converge on a circular quarter-orbit case")
	}

	gotSpeed := sol.V1.Norm()
	if math.Abs(gotSpeed-v)/v > 0.01 {
		t.Fatalf("departure speed = %v, want ~%v", gotSpeed, v)
	}
}

func TestSolveHohmannMatchesClosedForm(t *testing.T) {
	rEarth := 149.6e6
	rMars := 227.9e6

	a := (rEarth + rMars) / 2
	tof := math.Pi * math.Sqrt(a*a*a/muSun)

	r1 := model.Vec3{X: rEarth}
	r2 := model.Vec3{X: -rMars}

	sol, ok := Solve(r1, r2, tof, muSun, false)
	if !ok {
		t.Fatalf("Solve failed to converge on the Hohmann geometry")
	}

	vCircular := math.Sqrt(muSun / rEarth)
	vInfDeparture := math.Abs(sol.V1.Norm() - vCircular) * 1000 // m/s

	wantVInf := math.Abs(math.Sqrt(muSun*(2/rEarth-1/a)) - vCircular) * 1000
	if math.Abs(vInfDeparture-wantVInf) > 100 {
		t.Fatalf("departure v_inf = %v m/s, want within 100 m/s of %v", vInfDeparture, wantVInf)
	}
}

func TestPropagateCircularOrbitReturnsAfterFullPeriod(t *testing.T) {
	rEarth := 149.6e6
	v := math.Sqrt(muSun / rEarth)
	period := 2 * math.Pi * math.Sqrt(rEarth*rEarth*rEarth/muSun)

	r0 := model.Vec3{X: rEarth}
	v0 := model.Vec3{Y: v}

	r1 := Propagate(r0, v0, muSun, period)
	diff := r1.Sub(r0).Norm()
	if diff/rEarth > 0.001 {
		t.Fatalf("propagating by a full period drifted %v km (%.4f%% of r)", diff, 100*diff/rEarth)
	}
}

func TestPropagateQuarterPeriodAdvances90Degrees(t *testing.T) {
	rEarth := 149.6e6
	v := math.Sqrt(muSun / rEarth)
	period := 2 * math.Pi * math.Sqrt(rEarth*rEarth*rEarth/muSun)

	r0 := model.Vec3{X: rEarth}
	v0 := model.Vec3{Y: v}

	r1 := Propagate(r0, v0, muSun, period/4)
	angle := math.Atan2(r1.Y, r1.X)
	want := math.Pi / 2
	if math.Abs(angle-want)/want > 0.01 {
		t.Fatalf("true anomaly advanced to %v rad, want ~%v rad", angle, want)
	}
}

func TestHohmannDvMonotonicInRatio(t *testing.T) {
	rEarth := 149.6e6
	dvMars := HohmannDvMS(rEarth, 227.9e6, muSun)
	dvJupiter := HohmannDvMS(rEarth, 778.5e6, muSun)
	if dvJupiter <= dvMars {
		t.Fatalf("expected a Jupiter Hohmann transfer to cost more dv than Mars: %v vs %v", dvJupiter, dvMars)
	}
}
