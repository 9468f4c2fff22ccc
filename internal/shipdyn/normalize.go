// Package shipdyn derives a ship's performance stats from its parts:
// mass, fuel capacity, thrust, specific impulse, delta-v remaining, the
// rocket-equation fuel budget for a maneuver, and the steady-state power
// and thermal balance that gates dispatch.
package shipdyn

import (
	"orrery/internal/catalog"
	"orrery/internal/model"
)

const (
	g0            = 9.80665 // m/s^2, standard gravity for Isp/rocket-equation conversions
	densityWater  = 1000.0  // kg/m^3
)

// RawPartRef is a loosely-typed part reference as supplied by a caller: a
// bare item id, or an id plus override fields (e.g. an explicit cargo
// fill).
type RawPartRef struct {
	ItemID       string
	Overrides    map[string]float64
	CargoFillKg  float64
	HasCargoFill bool
}

// Normalize resolves a list of raw part references against the catalog,
// merging any caller-supplied overrides onto the catalog definition.
// Unknown ids fall back to a generic part so a ship can still be built
// from an item not yet in the catalog, flagged via CategoryGeneric.
func Normalize(reg *catalog.Registry, refs []RawPartRef) []model.Part {
	parts := make([]model.Part, 0, len(refs))
	for _, ref := range refs {
		base, ok := reg.Lookup(ref.ItemID)
		if !ok {
			base = model.Part{ItemID: ref.ItemID, Name: ref.ItemID, Category: model.CategoryGeneric}
		}
		applyOverrides(&base, ref.Overrides)
		if ref.HasCargoFill {
			base.CargoFillKg = ref.CargoFillKg
			base.HasCargoFill = true
		}
		parts = append(parts, base)
	}
	return parts
}

func applyOverrides(p *model.Part, overrides map[string]float64) {
	for k, v := range overrides {
		switch k {
		case "mass_kg":
			p.MassKg = v
		case "isp_s":
			p.IspS = v
		case "thrust_kn":
			p.ThrustKN = v
		case "thermal_mw":
			p.ThermalMW = v
		case "reactor_thermal_mw":
			p.ReactorThermalMW = v
		case "generator_thermal_mw_input":
			p.GeneratorThermalInputMW = v
		case "conversion_efficiency":
			p.ConversionEfficiency = v
		case "heat_rejection_mw":
			p.HeatRejectionMW = v
		case "capacity_m3":
			p.CapacityM3 = v
		case "construction_rate_kg_per_hr":
			p.ConstructionRateKgPerH = v
		}
	}
}
