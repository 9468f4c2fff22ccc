// Package store defines the persistence boundary between the simulation
// core and whatever database backs it. Every subsystem that mutates
// durable state (fleet dispatch, industry jobs, inventory stacks, org
// settlement) depends on the narrow Store interface below rather than
// on a concrete driver, mirroring the design notes' instruction to keep
// the core's only external dependency an opaque persistent store.
//
// The Postgres-backed implementation (pg.go) keeps a proxy style (one
// method per query shape, InsertReq-driven mutations through named
// stored procedures) consolidated into a single type instead of one
// struct per table, since the core owns a small schema.
package store

import (
	"time"

	"orrery/internal/clock"
	"orrery/internal/model"
)

// ErrNotFound is returned by single-row lookups when no row matches. Core
// packages translate it to apperrors.NotFoundf at their boundary.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "store: not found" }

// Store is the full persistence surface the core needs. A single
// implementation backs all of it in production (pg.go); tests use the
// in-memory fake (memory.go).
type Store interface {
	// Meta / clock.
	LoadClockSnapshot() (clock.Snapshot, bool, error)
	SaveClockSnapshot(clock.Snapshot) error
	LoadEdgesHash() (string, bool, error)
	SaveEdgesHash(string) error

	// Ships.
	GetShip(id string) (model.Ship, error)
	SaveShip(model.Ship) error
	DeleteShip(id string) error
	NewShipID() string

	// Inventory stacks.
	GetStack(locationID, ownerCorpID string, kind model.StackType, stackKey string) (model.InventoryStack, bool, error)
	SaveStack(model.InventoryStack) error
	DeleteStack(locationID, ownerCorpID string, kind model.StackType, stackKey string) error
	ListStacks(locationID, ownerCorpID string) ([]model.InventoryStack, error)

	// Deployed equipment.
	GetEquipment(id string) (model.DeployedEquipment, error)
	SaveEquipment(model.DeployedEquipment) error
	DeleteEquipment(id string) error
	ListEquipmentAtLocation(locationID string) ([]model.DeployedEquipment, error)
	NewEquipmentID() string

	// Production jobs.
	GetJob(id string) (model.ProductionJob, error)
	SaveJob(model.ProductionJob) error
	ListActiveJobsForEquipment(equipmentID string) ([]model.ProductionJob, error)
	DeleteCompletedJobsForEquipment(equipmentID string) error
	NewJobID() string

	// Organizations.
	GetCorp(id string) (model.Corporation, error)
	SaveCorp(model.Corporation) error
	SaveTeam(model.ResearchTeam) error
	DeleteTeam(orgID, teamID string) error
	NewTeamID() string

	// Research unlocks.
	HasUnlock(orgID, techID string) (bool, error)
	SaveUnlock(model.ResearchUnlock) error
	ListUnlocks(orgID string) ([]string, error)

	// Prospecting. A site's resource distribution is recorded as one row
	// per resource found; HasProspected gates mining, ListProspectedResources
	// feeds the effective mining rate.
	HasProspected(orgID, siteID string) (bool, error)
	ListProspectedResources(orgID, siteID string) ([]model.ProspectingResult, error)
	SaveProspect(model.ProspectingResult) error

	// LEO-boost ledger.
	AppendLEOBoost(model.LEOBoostLedgerEntry) error
}

// isZeroTime reports whether t is the zero time.Time, which counts as
// "never settled" for the purpose of first-run accrual. Neither
// implementation calls it.
func isZeroTime(t time.Time) bool { return t.IsZero() }
