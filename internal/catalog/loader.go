package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"orrery/internal/apperrors"
	"orrery/internal/model"
)

// LoadDir walks a catalog root directory (items/thrusters/<family>/*.json,
// items/Resources/*.json, items/Recipes/*.json, …) and parses every item
// and recipe file it finds. Validation errors are collected across all
// files and returned together, each naming its offending file path.
func LoadDir(root string) (*Registry, error) {
	reg := &Registry{
		Items:          make(map[string]model.Part),
		Recipes:        make(map[string]Recipe),
		GenericAliases: make(map[string]string),
		ResourceIDs:    make(map[string]bool),
		DensityKgM3:    make(map[string]float64),
	}

	var errs []string

	recipesDir := filepath.Join(root, "Recipes")
	var recipeFiles []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		if strings.HasPrefix(path, recipesDir+string(filepath.Separator)) {
			recipeFiles = append(recipeFiles, path)
			return nil
		}
		if err := loadItemFile(reg, path); err != nil {
			errs = append(errs, err.Error())
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.ConfigErrorf(root, "could not walk catalog directory: %v", err)
	}

	for _, path := range recipeFiles {
		if err := loadRecipeFile(reg, path); err != nil {
			errs = append(errs, err.Error())
		}
	}

	for id, r := range reg.Recipes {
		for _, in := range r.Inputs {
			if !reg.ResourceIDs[in.ResourceID] {
				errs = append(errs, fmt.Sprintf("recipe %q references unknown input resource %q", id, in.ResourceID))
			}
		}
		for _, out := range r.Outputs {
			if !reg.ResourceIDs[out.ResourceID] && !reg.HasPart(out.ResourceID) {
				errs = append(errs, fmt.Sprintf("recipe %q references unknown output %q", id, out.ResourceID))
			}
		}
	}

	if len(errs) > 0 {
		return nil, apperrors.ConfigErrorf(root, "catalog validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return reg, nil
}

// HasPart reports whether id names a known catalog part (used to permit
// construct-recipe outputs that are ships' parts rather than resources).
func (r *Registry) HasPart(id string) bool {
	_, ok := r.Items[id]
	return ok
}

func loadItemFile(reg *Registry, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return apperrors.ConfigErrorf(path, "could not read item file: %v", err)
	}

	var item RawItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return apperrors.ConfigErrorf(path, "invalid JSON: %v", err)
	}
	if item.ID == "" {
		return apperrors.ConfigErrorf(path, "item missing id")
	}
	if _, dup := reg.Items[item.ID]; dup {
		return apperrors.ConfigErrorf(path, "duplicate item id %q", item.ID)
	}

	category, err := categoryFromString(item.Category)
	if err != nil {
		return apperrors.ConfigErrorf(path, "%v", err)
	}

	part := model.Part{
		ItemID:                  item.ID,
		Name:                    item.Name,
		Category:                category,
		MassKg:                  item.MassKg,
		IspS:                    item.IspS,
		ThrustKN:                item.ThrustKN,
		ThermalMW:               item.ThermalMW,
		ReactorThermalMW:        item.ReactorThermalMW,
		GeneratorThermalInputMW: item.GeneratorThermalInputMW,
		ConversionEfficiency:    item.ConversionEfficiency,
		HeatRejectionMW:         item.HeatRejectionMW,
		CapacityM3:              item.CapacityM3,
		ResourceID:              item.ResourceID,
		TankPhase:               tankPhaseFromString(item.TankPhase),
		Specialization:          item.Specialization,
		ConstructionRateKgPerH:  item.ConstructionRateKgPerH,
		MiningRateKgPerH:        item.MiningRateKgPerH,
		ThroughputMultiplier:    item.ThroughputMultiplier,
		MinSurfaceGravityG:      item.MinSurfaceGravityG,
	}

	reg.Items[item.ID] = part
	for _, alias := range item.Aliases {
		reg.GenericAliases[alias] = item.ID
	}

	if category == model.CategoryMaterial || category == model.CategoryFuel {
		reg.ResourceIDs[item.ID] = true
		if item.DensityKgM3 > 0 {
			reg.DensityKgM3[item.ID] = item.DensityKgM3
		}
	}
	return nil
}

func loadRecipeFile(reg *Registry, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return apperrors.ConfigErrorf(path, "could not read recipe file: %v", err)
	}

	var rr RawRecipe
	if err := json.Unmarshal(raw, &rr); err != nil {
		return apperrors.ConfigErrorf(path, "invalid JSON: %v", err)
	}
	if rr.ID == "" {
		return apperrors.ConfigErrorf(path, "recipe missing id")
	}
	if _, dup := reg.Recipes[rr.ID]; dup {
		return apperrors.ConfigErrorf(path, "duplicate recipe id %q", rr.ID)
	}

	reg.Recipes[rr.ID] = Recipe{
		ID:               rr.ID,
		RefineryCategory: rr.RefineryCategory,
		BaseTimeS:        rr.BaseTimeS,
		Efficiency:       rr.Efficiency,
		Inputs:           rr.Inputs,
		Outputs:          rr.Outputs,
	}
	return nil
}
