package industry

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/catalog"
	"orrery/internal/engine"
	"orrery/internal/inventory"
	"orrery/internal/model"
)

// StartJob dispatches a refine or construct job on idle equipment.
func StartJob(w *engine.World, equipmentID, recipeID string, batchCount int, now time.Time) (model.ProductionJob, error) {
	if batchCount <= 0 {
		return model.ProductionJob{}, apperrors.Validationf("batch_count must be positive")
	}

	e, err := GetEquipment(w, equipmentID, now)
	if err != nil {
		return model.ProductionJob{}, err
	}
	if e.Status != model.EquipmentIdle {
		return model.ProductionJob{}, apperrors.PreconditionFailedf("equipment %q is not idle", equipmentID)
	}

	recipe, ok := w.Catalog.Recipes[recipeID]
	if !ok {
		return model.ProductionJob{}, apperrors.NotFoundf("recipe %q not found", recipeID)
	}
	if err := validateRecipeCompatibility(e, recipe); err != nil {
		return model.ProductionJob{}, err
	}

	for _, in := range recipe.Inputs {
		needed := in.MassKg * float64(batchCount)
		stack, ok, err := w.Store.GetStack(e.LocationID, e.OwnerCorpID, model.StackResource, in.ResourceID)
		if err != nil {
			return model.ProductionJob{}, err
		}
		if !ok || stack.MassKg < needed {
			have := 0.0
			if ok {
				have = stack.MassKg
			}
			return model.ProductionJob{}, apperrors.PreconditionFailedf("insufficient %s at %s: have %.3f kg, need %.3f kg", in.ResourceID, e.LocationID, have, needed)
		}
	}

	for _, in := range recipe.Inputs {
		needed := in.MassKg * float64(batchCount)
		if err := inventory.UpsertResource(w.Store, w.Catalog, e.LocationID, e.OwnerCorpID, in.ResourceID, -needed, now); err != nil {
			return model.ProductionJob{}, err
		}
	}

	throughput := jobThroughput(e, recipe)
	completesAt := now.Add(time.Duration(recipe.BaseTimeS * float64(batchCount) / throughput * float64(time.Second)))

	outputs := make([]model.ResourceAmount, 0, len(recipe.Outputs))
	for _, out := range recipe.Outputs {
		qty := out.MassKg * float64(batchCount)
		if !out.Byproduct {
			qty *= recipe.Efficiency
		}
		outputs = append(outputs, model.ResourceAmount{ResourceID: out.ResourceID, MassKg: qty})
	}

	job := model.ProductionJob{
		ID:          w.Store.NewJobID(),
		LocationID:  e.LocationID,
		EquipmentID: e.ID,
		OwnerCorpID: e.OwnerCorpID,
		Type:        jobTypeFor(e.Category),
		Status:      model.JobActive,
		StartedAt:   now,
		CompletesAt: completesAt,
		Inputs:      scaleInputs(recipe.Inputs, batchCount),
		Outputs:     outputs,
		RecipeID:    recipeID,
		BatchCount:  batchCount,
	}
	if err := w.Store.SaveJob(job); err != nil {
		return model.ProductionJob{}, err
	}

	e.Status = model.EquipmentActive
	if err := w.Store.SaveEquipment(e); err != nil {
		return model.ProductionJob{}, err
	}
	return job, nil
}

func jobTypeFor(cat model.PartCategory) model.JobType {
	if cat == model.CategoryConstructor {
		return model.JobConstruct
	}
	return model.JobRefine
}

func scaleInputs(in []model.ResourceAmount, batchCount int) []model.ResourceAmount {
	out := make([]model.ResourceAmount, len(in))
	for i, r := range in {
		out[i] = model.ResourceAmount{ResourceID: r.ResourceID, MassKg: r.MassKg * float64(batchCount)}
	}
	return out
}

func validateRecipeCompatibility(e model.DeployedEquipment, recipe catalog.Recipe) error {
	switch e.Category {
	case model.CategoryRefinery:
		if recipe.IsShipyardRecipe() || recipe.RefineryCategory != e.Config.Specialization {
			return apperrors.Validationf("recipe %q does not match refinery specialization %q", recipe.ID, e.Config.Specialization)
		}
	case model.CategoryConstructor:
		if !recipe.IsShipyardRecipe() {
			return apperrors.Validationf("recipe %q is not a shipyard recipe", recipe.ID)
		}
	default:
		return apperrors.Validationf("equipment category %s cannot run production jobs", e.Category)
	}
	return nil
}

// jobThroughput returns the recipe-and-equipment-dependent divisor
// applied to a job's base build time: a refinery's configured throughput
// multiplier, or construction_rate_kg_per_hr / 50.0 for constructors.
func jobThroughput(e model.DeployedEquipment, recipe catalog.Recipe) float64 {
	if e.Category == model.CategoryConstructor {
		if e.Config.ConstructionRateKgPerH > 0 {
			return e.Config.ConstructionRateKgPerH / 50.0
		}
		return 1
	}
	return throughputMultiplier(e.Config.ThroughputMultiplier)
}
