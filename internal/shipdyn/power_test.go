package shipdyn

import (
	"testing"

	"orrery/internal/model"
)

func TestEvaluatePowerDetectsOverheating(t *testing.T) {
	parts := []model.Part{
		{Category: model.CategoryReactor, ReactorThermalMW: 10},
		{Category: model.CategoryThruster, ThermalMW: 2},
		{Category: model.CategoryGenerator, GeneratorThermalInputMW: 8, ConversionEfficiency: 0.3},
		{Category: model.CategoryRadiator, HeatRejectionMW: 1},
	}
	bal := EvaluatePower(parts, 0, 0)

	wantWaste := (1 - 0.3) * 8
	if bal.GeneratorWasteMW != wantWaste {
		t.Fatalf("GeneratorWasteMW = %v, want %v", bal.GeneratorWasteMW, wantWaste)
	}
	if !bal.Overheating() {
		t.Fatalf("expected overheating when waste heat (%v) exceeds radiator capacity (1)", wantWaste)
	}
}

func TestEvaluatePowerThrottleCapIsBoundedByOne(t *testing.T) {
	parts := []model.Part{
		{Category: model.CategoryReactor, ReactorThermalMW: 100},
		{Category: model.CategoryThruster, ThermalMW: 2},
	}
	bal := EvaluatePower(parts, 0, 0)
	if bal.ThrottleCap != 1 {
		t.Fatalf("ThrottleCap = %v, want capped at 1", bal.ThrottleCap)
	}
}
