package orbital

import "math"

// HohmannTofS estimates the time of flight of a Hohmann transfer between
// two circular orbits of semi-major axis r1Km and r2Km around a body with
// gravitational parameter mu.
func HohmannTofS(r1Km, r2Km, mu float64) float64 {
	a := (r1Km + r2Km) / 2
	if a <= 0 || mu <= 0 {
		return 0
	}
	return math.Pi * math.Sqrt((a*a*a)/mu)
}

// HohmannDvMS computes the two-impulse delta-v of a Hohmann transfer
// between circular orbits of radius r1Km and r2Km.
func HohmannDvMS(r1Km, r2Km, mu float64) float64 {
	if r1Km <= 0 || r2Km <= 0 || mu <= 0 {
		return 0
	}
	v1 := math.Sqrt(mu / r1Km)
	v2 := math.Sqrt(mu / r2Km)
	a := (r1Km + r2Km) / 2

	vTransfer1 := math.Sqrt(mu * (2/r1Km - 1/a))
	vTransfer2 := math.Sqrt(mu * (2/r2Km - 1/a))

	dv1 := math.Abs(vTransfer1 - v1)
	dv2 := math.Abs(v2 - vTransfer2)

	// Convert km/s to m/s.
	return (dv1 + dv2) * 1000
}

// VisViva returns the orbital speed (km/s) at radius rKm on an orbit of
// semi-major axis aKm around a body of gravitational parameter mu, used
// by the patched-conic departure/arrival burn evaluation.
func VisViva(rKm, aKm, mu float64) float64 {
	if rKm <= 0 || mu <= 0 {
		return 0
	}
	v2 := mu * (2/rKm - 1/aKm)
	if v2 < 0 {
		return 0
	}
	return math.Sqrt(v2)
}
