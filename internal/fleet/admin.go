package fleet

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/inventory"
	"orrery/internal/model"
	"orrery/internal/shipdyn"
)

// Spawn creates a new docked ship at a leaf location, normalized parts
// already resolved by the caller via shipdyn.Normalize.
func Spawn(w *engine.World, ownerCorpID, name, locationID string, parts []model.Part, fuelKg float64) (model.Ship, error) {
	if _, ok := w.Celestial.Locations[locationID]; !ok {
		return model.Ship{}, apperrors.NotFoundf("location %q not found", locationID)
	}
	s := model.Ship{
		ID:          w.Store.NewShipID(),
		Name:        name,
		OwnerCorpID: ownerCorpID,
		LocationID:  locationID,
		Parts:       parts,
		FuelKg:      fuelKg,
	}
	if err := w.Store.SaveShip(s); err != nil {
		return model.Ship{}, err
	}
	return s, nil
}

// Teleport admin-relocates a ship to another leaf location, bypassing
// every dispatch gate. It settles on access first, so a ship whose
// arrival time has passed is docked at its destination before it moves;
// a ship still in flight is taken out of its transfer, with every motion
// field cleared, and docked at the new location.
func Teleport(w *engine.World, shipID, locationID string) (model.Ship, error) {
	if _, ok := w.Celestial.Locations[locationID]; !ok {
		return model.Ship{}, apperrors.NotFoundf("location %q not found", locationID)
	}

	lock := w.Ships.Acquire(shipID)
	lock.Lock()
	defer func() {
		lock.Release()
		w.Ships.Release(lock)
	}()

	s, err := w.Store.GetShip(shipID)
	if err != nil {
		return model.Ship{}, translateNotFound(err, "ship", shipID)
	}
	if _, err := SettleOnAccess(w, &s); err != nil {
		return model.Ship{}, err
	}

	s.LocationID = locationID
	s.From = ""
	s.To = ""
	s.DepartedAt = time.Time{}
	s.ArrivesAt = time.Time{}
	s.TransferPath = nil
	s.PlannedDvMS = 0

	if err := w.Store.SaveShip(s); err != nil {
		return model.Ship{}, err
	}
	return s, nil
}

// Refuel tops a docked ship's fuel to its full capacity and re-derives
// its stats and cargo fills from the refreshed load.
func Refuel(w *engine.World, shipID string) (model.Ship, error) {
	lock := w.Ships.Acquire(shipID)
	lock.Lock()
	defer func() {
		lock.Release()
		w.Ships.Release(lock)
	}()

	s, err := w.Store.GetShip(shipID)
	if err != nil {
		return model.Ship{}, translateNotFound(err, "ship", shipID)
	}
	if _, err := SettleOnAccess(w, &s); err != nil {
		return model.Ship{}, err
	}
	if s.InTransit() {
		return model.Ship{}, apperrors.PreconditionFailedf("ship %q must be docked to refuel", shipID)
	}

	stats := shipdyn.DerivedStats(s.Parts, -1)
	s.FuelKg = stats.FuelCapacityKg
	s.Stats = stats
	s.Cargo = shipdyn.CargoFills(s.Parts, s.FuelKg)

	if err := w.Store.SaveShip(s); err != nil {
		return model.Ship{}, err
	}
	return s, nil
}

// Delete removes a ship outright with no return-to-inventory.
func Delete(w *engine.World, shipID string) error {
	return w.Store.DeleteShip(shipID)
}

// Deconstruct dismantles a docked ship, returning its parts and any
// cargo fuel to the leaf location's inventory. When keepShell is true the ship row survives as an
// empty hulk (no parts, no fuel) rather than being deleted, so it can
// be refitted in place instead of respawned.
func Deconstruct(w *engine.World, shipID string, keepShell bool, now time.Time) (model.Ship, error) {
	lock := w.Ships.Acquire(shipID)
	lock.Lock()
	defer func() {
		lock.Release()
		w.Ships.Release(lock)
	}()

	s, err := w.Store.GetShip(shipID)
	if err != nil {
		return model.Ship{}, translateNotFound(err, "ship", shipID)
	}
	if _, err := SettleOnAccess(w, &s); err != nil {
		return model.Ship{}, err
	}
	if s.InTransit() {
		return model.Ship{}, apperrors.PreconditionFailedf("ship %q must be docked to deconstruct", shipID)
	}

	for _, p := range s.Parts {
		if err := inventory.UpsertPart(w.Store, s.LocationID, s.OwnerCorpID, p, 1, now); err != nil {
			return model.Ship{}, err
		}
	}
	if s.FuelKg > 0 {
		if err := inventory.UpsertResource(w.Store, w.Catalog, s.LocationID, s.OwnerCorpID, "water", s.FuelKg, now); err != nil {
			return model.Ship{}, err
		}
	}

	if !keepShell {
		if err := w.Store.DeleteShip(shipID); err != nil {
			return model.Ship{}, err
		}
		s.Parts, s.FuelKg, s.Cargo = nil, 0, nil
		return s, nil
	}

	s.Parts = nil
	s.FuelKg = 0
	s.Cargo = nil
	s.Stats = model.ShipStats{}
	if err := w.Store.SaveShip(s); err != nil {
		return model.Ship{}, err
	}
	return s, nil
}
