// Package industry implements the deployed-equipment lifecycle and the
// three on-access production job kinds: refine,
// construct and mine. Equipment is deployed from and undeployed back
// into a location's inventory (internal/inventory), and every job
// settles lazily the way fleet.SettleOnAccess settles ship arrivals.
package industry

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/inventory"
	"orrery/internal/model"
)

func deployable(cat model.PartCategory) bool {
	switch cat {
	case model.CategoryRefinery, model.CategoryConstructor, model.CategoryReactor, model.CategoryGenerator, model.CategoryRadiator:
		return true
	default:
		return false
	}
}

// Deploy consumes one matching part from the location's inventory and
// installs it as idle equipment.
func Deploy(w *engine.World, locationID, ownerCorpID, itemID string, now time.Time) (model.DeployedEquipment, error) {
	part, ok := w.Catalog.Lookup(itemID)
	if !ok {
		return model.DeployedEquipment{}, apperrors.NotFoundf("item %q not found in catalog", itemID)
	}
	if !deployable(part.Category) {
		return model.DeployedEquipment{}, apperrors.Validationf("item %q (category %s) is not deployable equipment", itemID, part.Category)
	}

	loc, ok := w.Celestial.Locations[locationID]
	if !ok {
		return model.DeployedEquipment{}, apperrors.NotFoundf("location %q not found", locationID)
	}
	if part.Category == model.CategoryConstructor {
		if loc.Kind != model.KindSurfaceSite {
			return model.DeployedEquipment{}, apperrors.PreconditionFailedf("constructors can only be deployed at surface sites")
		}
		if loc.SiteGravityG < part.MinSurfaceGravityG {
			return model.DeployedEquipment{}, apperrors.PreconditionFailedf("surface gravity %.2f m/s^2 is below %q's minimum %.2f", loc.SiteGravityG, itemID, part.MinSurfaceGravityG)
		}
	}

	if err := inventory.UpsertPart(w.Store, locationID, ownerCorpID, part, -1, now); err != nil {
		return model.DeployedEquipment{}, err
	}

	e := model.DeployedEquipment{
		ID:          w.Store.NewEquipmentID(),
		LocationID:  locationID,
		OwnerCorpID: ownerCorpID,
		ItemID:      itemID,
		Category:    part.Category,
		Status:      model.EquipmentIdle,
		DeployedAt:  now,
		Config:      part,
	}
	if err := w.Store.SaveEquipment(e); err != nil {
		return model.DeployedEquipment{}, err
	}
	return e, nil
}

// Undeploy removes equipment and returns it as a single part to the
// location's inventory, forbidden while any job on it is active.
func Undeploy(w *engine.World, equipmentID string, now time.Time) error {
	e, err := GetEquipment(w, equipmentID, now)
	if err != nil {
		return err
	}
	active, err := w.Store.ListActiveJobsForEquipment(equipmentID)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return apperrors.PreconditionFailedf("equipment %q has %d active job(s)", equipmentID, len(active))
	}

	if err := inventory.UpsertPart(w.Store, e.LocationID, e.OwnerCorpID, e.Config, 1, now); err != nil {
		return err
	}
	if err := w.Store.DeleteCompletedJobsForEquipment(equipmentID); err != nil {
		return err
	}
	return w.Store.DeleteEquipment(equipmentID)
}

// GetEquipment fetches equipment, settling any completed job on it
// first so callers always observe post-settlement state.
func GetEquipment(w *engine.World, equipmentID string, now time.Time) (model.DeployedEquipment, error) {
	e, err := w.Store.GetEquipment(equipmentID)
	if err != nil {
		return model.DeployedEquipment{}, apperrors.NotFoundf("equipment %q not found", equipmentID)
	}
	if err := SettleEquipment(w, &e, now); err != nil {
		return model.DeployedEquipment{}, err
	}
	return e, nil
}

func throughputMultiplier(m float64) float64 {
	if m <= 0 {
		return 1
	}
	return m
}
