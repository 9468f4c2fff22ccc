package shipdyn

import "orrery/internal/model"

// PowerBalance is the steady-state power/thermal snapshot evaluated at
// dispatch time.
type PowerBalance struct {
	ReactorSupplyMW   float64
	DemandMW          float64
	ThrottleCap       float64 // fraction in [0, 1]
	GeneratorOutputMW float64
	GeneratorWasteMW  float64
	RadiatorRejectMW  float64
	ElectricSurplusMW float64
	WasteHeatSurplusMW float64 // positive means overheating
}

// EvaluatePower computes the single-snapshot power balance of a ship's
// parts. robonautDemandMW and constructorDemandMW are the electric loads
// drawn by deployed equipment of those categories, if any are carried
// aboard (usually zero for a ship in flight).
func EvaluatePower(parts []model.Part, robonautDemandMW, constructorDemandMW float64) PowerBalance {
	var reactorSupply, thrusterThermal, generatorThermalInput, radiatorReject float64
	var generatorOutput, generatorWaste float64

	for _, p := range parts {
		switch p.Category {
		case model.CategoryReactor:
			reactorSupply += p.ReactorThermalMW
		case model.CategoryThruster:
			thrusterThermal += p.ThermalMW
		case model.CategoryGenerator:
			generatorThermalInput += p.GeneratorThermalInputMW
			generatorOutput += p.ConversionEfficiency * p.GeneratorThermalInputMW
			generatorWaste += (1 - p.ConversionEfficiency) * p.GeneratorThermalInputMW
		case model.CategoryRadiator:
			radiatorReject += p.HeatRejectionMW
		}
	}

	throttleCap := 1.0
	if thrusterThermal > 0 {
		throttleCap = reactorSupply / thrusterThermal
		if throttleCap > 1 {
			throttleCap = 1
		}
	}

	return PowerBalance{
		ReactorSupplyMW:    reactorSupply,
		DemandMW:           thrusterThermal + generatorThermalInput,
		ThrottleCap:        throttleCap,
		GeneratorOutputMW:  generatorOutput,
		GeneratorWasteMW:   generatorWaste,
		RadiatorRejectMW:   radiatorReject,
		ElectricSurplusMW:  generatorOutput - robonautDemandMW - constructorDemandMW,
		WasteHeatSurplusMW: generatorWaste - radiatorReject,
	}
}

// Overheating reports whether the ship's waste heat exceeds its
// radiator capacity, the gate checked at dispatch.
func (b PowerBalance) Overheating() bool {
	return b.WasteHeatSurplusMW > 0
}
