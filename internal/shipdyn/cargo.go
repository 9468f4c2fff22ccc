package shipdyn

import "orrery/internal/model"

// CargoFills derives the per-container fill levels of a ship's storage
// parts: water-capacity containers are filled proportionally so their
// total mass equals fuelKg; other containers use their own explicit
// cargo fill when the part carries one.
func CargoFills(parts []model.Part, fuelKg float64) []model.CargoFill {
	var waterCapacityM3 float64
	for _, p := range parts {
		if p.IsWaterTank() {
			waterCapacityM3 += p.CapacityM3
		}
	}

	fills := make([]model.CargoFill, 0, len(parts))
	for i, p := range parts {
		switch {
		case p.IsWaterTank():
			var massKg float64
			if waterCapacityM3 > 0 {
				massKg = fuelKg * (p.CapacityM3 / waterCapacityM3)
			}
			fills = append(fills, model.CargoFill{ContainerIndex: i, ResourceID: p.ResourceID, MassKg: massKg})
		case p.Category == model.CategoryStorage && p.HasCargoFill:
			fills = append(fills, model.CargoFill{ContainerIndex: i, ResourceID: p.ResourceID, MassKg: p.CargoFillKg})
		}
	}
	return fills
}
