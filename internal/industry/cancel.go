package industry

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/inventory"
	"orrery/internal/model"
)

// CancelJob cancels an active refine/construct job, refunding the
// unconsumed fraction of its inputs back to the location inventory.
func CancelJob(w *engine.World, jobID string, now time.Time) (model.ProductionJob, error) {
	job, err := w.Store.GetJob(jobID)
	if err != nil {
		return model.ProductionJob{}, apperrors.NotFoundf("job %q not found", jobID)
	}
	if job.Type == model.JobMine {
		return model.ProductionJob{}, apperrors.Validationf("mine jobs are stopped, not cancelled")
	}
	if job.Status != model.JobActive {
		return model.ProductionJob{}, apperrors.PreconditionFailedf("job %q is not active", jobID)
	}

	progress := jobProgress(job, now)
	refundFrac := 1 - progress
	if refundFrac > 0 {
		for _, in := range job.Inputs {
			if err := inventory.UpsertResource(w.Store, w.Catalog, job.LocationID, job.OwnerCorpID, in.ResourceID, in.MassKg*refundFrac, now); err != nil {
				return model.ProductionJob{}, err
			}
		}
	}

	job.Status = model.JobCancelled
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

func jobProgress(job model.ProductionJob, now time.Time) float64 {
	total := job.CompletesAt.Sub(job.StartedAt).Seconds()
	if total <= 0 {
		return 1
	}
	elapsed := now.Sub(job.StartedAt).Seconds()
	progress := elapsed / total
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
