package shipdyn

import (
	"math"

	"orrery/internal/model"
)

// DerivedStats computes a ship's stats from its parts and requested fuel
// load: dry mass, fuel capacity/actual, isp, thrust, wet mass, g-relative
// acceleration, and remaining delta-v.
func DerivedStats(parts []model.Part, requestedFuelKg float64) model.ShipStats {
	var dryMassKg, fuelCapacityKg, thrustKN, maxIspS float64

	for _, p := range parts {
		dryMassKg += p.MassKg
		if p.IsWaterTank() {
			fuelCapacityKg += p.CapacityM3 * densityWater
		}
		if p.Category == model.CategoryThruster {
			thrustKN += p.ThrustKN
			if p.IspS > maxIspS {
				maxIspS = p.IspS
			}
		}
	}

	fuelKg := requestedFuelKg
	if fuelKg <= 0 || fuelKg > fuelCapacityKg {
		fuelKg = fuelCapacityKg
	}

	wetMassKg := dryMassKg + fuelKg
	thrustN := thrustKN * 1000

	var accelG float64
	if wetMassKg > 0 {
		accelG = thrustN / (wetMassKg * g0)
	}

	var deltaV float64
	if maxIspS > 0 && dryMassKg > 0 && wetMassKg > 0 {
		deltaV = maxIspS * g0 * math.Log(wetMassKg/dryMassKg)
	}

	return model.ShipStats{
		DryMassKg:         dryMassKg,
		FuelCapacityKg:    fuelCapacityKg,
		IspS:              maxIspS,
		ThrustKN:          thrustKN,
		WetMassKg:         wetMassKg,
		AccelG:            accelG,
		DeltaVRemainingMS: deltaV,
	}
}

// FuelNeededKg returns the propellant mass the rocket equation requires
// to produce deltaVMS of delta-v starting from wetMassKg, clamped to
// [0, fuelKg]. When isp or dryMassKg is non-positive the maneuver is
// impossible, signaled by returning fuelKg+1 (an out-of-range sentinel
// any caller comparing against available fuel will reject).
func FuelNeededKg(wetMassKg, dryMassKg, ispS, deltaVMS, fuelKg float64) float64 {
	if ispS <= 0 || dryMassKg <= 0 {
		return fuelKg + 1
	}
	fuelUsed := wetMassKg - wetMassKg/math.Exp(deltaVMS/(ispS*g0))
	if fuelUsed < 0 {
		fuelUsed = 0
	}
	if fuelUsed > fuelKg {
		fuelUsed = fuelKg
	}
	return fuelUsed
}
