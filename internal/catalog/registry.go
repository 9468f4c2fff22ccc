package catalog

import (
	"sync"

	"orrery/internal/apperrors"
	"orrery/internal/model"
)

// Registry is the parsed, validated item and recipe catalog.
type Registry struct {
	Items          map[string]model.Part
	Recipes        map[string]Recipe
	GenericAliases map[string]string // alias id -> canonical item id
	ResourceIDs    map[string]bool
	DensityKgM3    map[string]float64 // known resource densities
}

// Lookup resolves an item id (or a generic alias) to its catalog Part.
func (r *Registry) Lookup(id string) (model.Part, bool) {
	if p, ok := r.Items[id]; ok {
		return p, true
	}
	if canonical, ok := r.GenericAliases[id]; ok {
		if p, ok := r.Items[canonical]; ok {
			return p, true
		}
	}
	return model.Part{}, false
}

// DensityOf returns the known density of a resource, or 0 if unknown
// (volume deltas for unknown resources are left at 0 by the caller).
func (r *Registry) DensityOf(resourceID string) float64 {
	return r.DensityKgM3[resourceID]
}

var (
	processMu       sync.Mutex
	processRegistry *Registry
	processRoot     string
)

// LoadAndCache loads a catalog from root and memoizes it process-wide;
// a subsequent call with the same root returns the cached Registry
// without re-reading disk. Call Invalidate to force a re-read after an
// item-file change.
func LoadAndCache(root string) (*Registry, error) {
	processMu.Lock()
	defer processMu.Unlock()

	if processRegistry != nil && processRoot == root {
		return processRegistry, nil
	}

	reg, err := LoadDir(root)
	if err != nil {
		return nil, err
	}
	processRegistry = reg
	processRoot = root
	return reg, nil
}

// Invalidate clears the process-wide catalog cache.
func Invalidate() {
	processMu.Lock()
	defer processMu.Unlock()
	processRegistry = nil
	processRoot = ""
}

func categoryFromString(s string) (model.PartCategory, error) {
	switch s {
	case "thruster":
		return model.CategoryThruster, nil
	case "reactor":
		return model.CategoryReactor, nil
	case "generator":
		return model.CategoryGenerator, nil
	case "radiator":
		return model.CategoryRadiator, nil
	case "robonaut":
		return model.CategoryRobonaut, nil
	case "refinery":
		return model.CategoryRefinery, nil
	case "constructor":
		return model.CategoryConstructor, nil
	case "storage":
		return model.CategoryStorage, nil
	case "material":
		return model.CategoryMaterial, nil
	case "fuel":
		return model.CategoryFuel, nil
	case "generic", "":
		return model.CategoryGeneric, nil
	default:
		return 0, apperrors.ConfigErrorf("category", "unknown item category %q", s)
	}
}

func tankPhaseFromString(s string) model.TankPhase {
	switch s {
	case "liquid":
		return model.PhaseLiquid
	case "gas":
		return model.PhaseGas
	default:
		return model.PhaseSolid
	}
}
