package model

import "time"

// EquipmentStatus is the lifecycle state of a DeployedEquipment row.
type EquipmentStatus int

const (
	EquipmentIdle EquipmentStatus = iota
	EquipmentActive
)

// DeployedEquipment is a refinery / constructor / reactor / generator /
// radiator installed at a location.
type DeployedEquipment struct {
	ID          string
	LocationID  string
	OwnerCorpID string
	ItemID      string
	Category    PartCategory
	Status      EquipmentStatus
	DeployedAt  time.Time

	// Config is a flattened snapshot of the catalog entry taken at
	// deploy time, so later catalog edits don't retroactively change
	// equipment already placed in the world.
	Config Part
}
