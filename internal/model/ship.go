package model

import "time"

// CargoFill is an observed fill level of one of a ship's storage parts.
type CargoFill struct {
	ContainerIndex int // index into Ship.Parts
	ResourceID     string
	MassKg         float64
}

// Ship is a mobile entity owned by a corporation.
//
// Exactly one of LocationID vs ArrivesAt is set at a time: a ship is
// either docked or in-transit, never both, never neither.
type Ship struct {
	ID          string
	Name        string
	OwnerCorpID string

	ColorHex string
	Shape    string
	SizeM    float64

	Parts []Part

	// Derived, recomputed on demand rather than persisted redundantly;
	// kept here as a cache for callers that already paid for the
	// derivation.
	Stats ShipStats

	FuelKg float64
	Cargo  []CargoFill

	// Motion state. When docked, LocationID is set and the rest are
	// zero values. When in-transit, LocationID is empty and the rest
	// describe the leg.
	LocationID string

	From          string
	To            string
	DepartedAt    time.Time
	ArrivesAt     time.Time
	TransferPath  []string
	PlannedDvMS   float64
}

// InTransit reports whether the ship is currently between locations.
func (s Ship) InTransit() bool {
	return s.LocationID == ""
}

// ShipStats are a ship's derived performance figures: mass, capacity,
// thrust and remaining delta-v.
type ShipStats struct {
	DryMassKg      float64
	FuelCapacityKg float64
	IspS           float64
	ThrustKN       float64
	WetMassKg      float64
	AccelG         float64
	DeltaVRemainingMS float64
}
