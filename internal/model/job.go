package model

import "time"

// JobType enumerates the three industry job kinds.
type JobType int

const (
	JobRefine JobType = iota
	JobConstruct
	JobMine
)

// JobStatus is the lifecycle state of a ProductionJob.
type JobStatus int

const (
	JobActive JobStatus = iota
	JobCompleted
	JobCancelled
)

// ResourceAmount pairs a resource id with a mass, reused for recipe
// inputs/outputs and cargo manifests.
type ResourceAmount struct {
	ResourceID string  `json:"resource"`
	MassKg     float64 `json:"mass_kg"`
}

// ProductionJob is a running or completed task on deployed equipment.
type ProductionJob struct {
	ID          string
	LocationID  string
	EquipmentID string
	OwnerCorpID string
	Type        JobType
	Status      JobStatus

	StartedAt   time.Time
	CompletesAt time.Time

	Inputs  []ResourceAmount
	Outputs []ResourceAmount

	RecipeID   string // refine/construct
	ResourceID string // mine

	BatchCount int

	// Mine-job bookkeeping: elapsed work accrues on every
	// settle call rather than at a fixed completion time.
	LastSettledAt time.Time
	TotalMinedKg  float64
	EffectiveRate float64 // kg/hour
}
