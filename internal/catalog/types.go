package catalog

import "orrery/internal/model"

// RawItem is the on-disk JSON representation of a catalog item: one file
// per part, with only the fields relevant to its category populated.
type RawItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	MassKg   float64 `json:"mass_kg"`

	IspS      float64 `json:"isp_s"`
	ThrustKN  float64 `json:"thrust_kn"`
	ThermalMW float64 `json:"thermal_mw"`

	ReactorThermalMW float64 `json:"reactor_thermal_mw"`

	GeneratorThermalInputMW float64 `json:"generator_thermal_mw_input"`
	ConversionEfficiency    float64 `json:"conversion_efficiency"`

	HeatRejectionMW float64 `json:"heat_rejection_mw"`

	CapacityM3 float64 `json:"capacity_m3"`
	ResourceID string  `json:"resource_id"`
	TankPhase  string  `json:"tank_phase"`

	Specialization         string  `json:"specialization"`
	ConstructionRateKgPerH float64 `json:"construction_rate_kg_per_hr"`
	MiningRateKgPerH       float64 `json:"mining_rate_kg_per_hr"`
	ThroughputMultiplier   float64 `json:"throughput_mult"`
	MinSurfaceGravityG     float64 `json:"min_surface_gravity_ms2"`

	Aliases []string `json:"aliases"`

	DensityKgM3 float64 `json:"density_kg_m3"` // resource files only
}

// RawRecipe is the on-disk JSON representation of a refine/construct
// recipe.
type RawRecipe struct {
	ID               string                  `json:"id"`
	RefineryCategory string                  `json:"refinery_category"` // empty for shipyard (constructor) recipes
	BaseTimeS        float64                 `json:"base_time_s"`
	Efficiency       float64                 `json:"efficiency"`
	Inputs           []model.ResourceAmount  `json:"inputs"`
	Outputs          []RawRecipeOutput       `json:"outputs"`
}

// RawRecipeOutput is one output line of a recipe, including byproducts.
type RawRecipeOutput struct {
	ResourceID string  `json:"resource"`
	MassKg     float64 `json:"mass_kg"`
	Byproduct  bool    `json:"byproduct"`
}

// Recipe is the parsed, validated form of RawRecipe.
type Recipe struct {
	ID               string
	RefineryCategory string // empty => shipyard/constructor recipe
	BaseTimeS        float64
	Efficiency       float64
	Inputs           []model.ResourceAmount
	Outputs          []RawRecipeOutput
}

// IsShipyardRecipe reports whether this recipe runs on constructors
// rather than refineries.
func (r Recipe) IsShipyardRecipe() bool { return r.RefineryCategory == "" }
