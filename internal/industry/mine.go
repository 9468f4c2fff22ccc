package industry

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/model"
)

// farFutureHorizon is the placeholder completes_at for a mine job: it
// never itself completes, it only accrues on each settle.
const farFutureHorizon = 100 * 365 * 24 * time.Hour

// StartMining dispatches a continuous mining job on a constructor
// deployed at a surface site the owner's org has already prospected.
func StartMining(w *engine.World, equipmentID, resourceID string, now time.Time) (model.ProductionJob, error) {
	e, err := GetEquipment(w, equipmentID, now)
	if err != nil {
		return model.ProductionJob{}, err
	}
	if e.Category != model.CategoryConstructor {
		return model.ProductionJob{}, apperrors.Validationf("equipment %q is not a constructor", equipmentID)
	}
	if e.Status != model.EquipmentIdle {
		return model.ProductionJob{}, apperrors.PreconditionFailedf("equipment %q is not idle", equipmentID)
	}
	loc, ok := w.Celestial.Locations[e.LocationID]
	if !ok || loc.Kind != model.KindSurfaceSite {
		return model.ProductionJob{}, apperrors.PreconditionFailedf("equipment %q is not at a surface site", equipmentID)
	}

	prospected, err := w.Store.HasProspected(e.OwnerCorpID, e.LocationID)
	if err != nil {
		return model.ProductionJob{}, err
	}
	if !prospected {
		return model.ProductionJob{}, apperrors.PreconditionFailedf("site %q has not been prospected by this org", e.LocationID)
	}

	results, err := w.Store.ListProspectedResources(e.OwnerCorpID, e.LocationID)
	if err != nil {
		return model.ProductionJob{}, err
	}
	var massFraction float64
	found := false
	for _, r := range results {
		if r.ResourceID == resourceID {
			massFraction = r.MassFraction
			found = true
			break
		}
	}
	if !found {
		return model.ProductionJob{}, apperrors.NotFoundf("resource %q was not found at site %q", resourceID, e.LocationID)
	}

	effectiveRate := e.Config.MiningRateKgPerH * massFraction
	if effectiveRate <= 0 {
		return model.ProductionJob{}, apperrors.PreconditionFailedf("effective mining rate for %q is zero", resourceID)
	}

	job := model.ProductionJob{
		ID:            w.Store.NewJobID(),
		LocationID:    e.LocationID,
		EquipmentID:   e.ID,
		OwnerCorpID:   e.OwnerCorpID,
		Type:          model.JobMine,
		Status:        model.JobActive,
		StartedAt:     now,
		CompletesAt:   now.Add(farFutureHorizon),
		ResourceID:    resourceID,
		LastSettledAt: now,
		EffectiveRate: effectiveRate,
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

// StopMining settles any accrued-but-unflushed mined mass one last
// time, then marks the job completed and frees the equipment.
func StopMining(w *engine.World, jobID string, now time.Time) (model.ProductionJob, error) {
	job, err := w.Store.GetJob(jobID)
	if err != nil {
		return model.ProductionJob{}, apperrors.NotFoundf("job %q not found", jobID)
	}
	if job.Type != model.JobMine || job.Status != model.JobActive {
		return model.ProductionJob{}, apperrors.PreconditionFailedf("job %q is not an active mine job", jobID)
	}

	if err := settleMineJob(w, &job, now); err != nil {
		return model.ProductionJob{}, err
	}
	job.Status = model.JobCompleted
	if err := w.Store.SaveJob(job); err != nil {
		return model.ProductionJob{}, err
	}

	e, err := w.Store.GetEquipment(job.EquipmentID)
	if err != nil {
		return model.ProductionJob{}, err
	}
	e.Status = model.EquipmentIdle
	if err := w.Store.SaveEquipment(e); err != nil {
		return model.ProductionJob{}, err
	}
	return job, nil
}
