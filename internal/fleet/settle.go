package fleet

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/model"
)

// SettleOnAccess advances a ship in-transit whose arrival time has
// passed: it becomes docked at its destination with every motion field
// cleared. It is a no-op for docked ships or
// ships still in flight. Every read-or-write operation in this package
// calls it first, so reads observe a causally consistent view.
func SettleOnAccess(w *engine.World, s *model.Ship) (bool, error) {
	if !s.InTransit() {
		return false, nil
	}
	if w.Clock.NowTime().Before(s.ArrivesAt) {
		return false, nil
	}

	s.LocationID = s.To
	s.From = ""
	s.To = ""
	s.DepartedAt = time.Time{}
	s.ArrivesAt = time.Time{}
	s.TransferPath = nil
	s.PlannedDvMS = 0
	return true, nil
}

// GetShip fetches a ship and settles it on access before returning,
// persisting the settled state when it changed.
func GetShip(w *engine.World, shipID string) (model.Ship, error) {
	if shipID == "" {
		return model.Ship{}, apperrors.Validationf("ship id must not be empty")
	}
	s, err := w.Store.GetShip(shipID)
	if err != nil {
		return model.Ship{}, translateNotFound(err, "ship", shipID)
	}
	settled, err := SettleOnAccess(w, &s)
	if err != nil {
		return model.Ship{}, err
	}
	if settled {
		if err := w.Store.SaveShip(s); err != nil {
			return model.Ship{}, err
		}
	}
	return s, nil
}

func translateNotFound(err error, kind, id string) error {
	if err == nil {
		return nil
	}
	return apperrors.NotFoundf("%s %q not found", kind, id)
}
