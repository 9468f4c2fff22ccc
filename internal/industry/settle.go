package industry

import (
	"time"

	"orrery/internal/engine"
	"orrery/internal/inventory"
	"orrery/internal/model"
)

// SettleEquipment settles every active job on e: refine/construct jobs
// whose completes_at has passed are credited and completed; mine jobs
// accrue elapsed-work every call. e is updated in place to idle if its
// active job completed. Mirrors fleet.SettleOnAccess's lazy-advancement
// shape for the industry domain.
func SettleEquipment(w *engine.World, e *model.DeployedEquipment, now time.Time) error {
	if e.Status != model.EquipmentActive {
		return nil
	}

	active, err := w.Store.ListActiveJobsForEquipment(e.ID)
	if err != nil {
		return err
	}

	wentIdle := false
	for _, job := range active {
		switch job.Type {
		case model.JobMine:
			if err := settleMineJob(w, &job, now); err != nil {
				return err
			}
			if err := w.Store.SaveJob(job); err != nil {
				return err
			}
		default:
			if now.Before(job.CompletesAt) {
				continue
			}
			if err := settleProductionJob(w, &job, now); err != nil {
				return err
			}
			job.Status = model.JobCompleted
			if err := w.Store.SaveJob(job); err != nil {
				return err
			}
			wentIdle = true
		}
	}

	if wentIdle {
		e.Status = model.EquipmentIdle
		if err := w.Store.SaveEquipment(*e); err != nil {
			return err
		}
	}
	return nil
}

// settleProductionJob credits a completed refine/construct job's
// outputs to the location inventory: parts via catalog lookup for
// construct jobs, otherwise as plain resources.
func settleProductionJob(w *engine.World, job *model.ProductionJob, now time.Time) error {
	for _, out := range job.Outputs {
		if job.Type == model.JobConstruct {
			if part, ok := w.Catalog.Lookup(out.ResourceID); ok {
				count := 1
				if part.MassKg > 0 {
					count = int(out.MassKg / part.MassKg)
					if count < 1 {
						count = 1
					}
				}
				if err := inventory.UpsertPart(w.Store, job.LocationID, job.OwnerCorpID, part, count, now); err != nil {
					return err
				}
				continue
			}
		}
		if err := inventory.UpsertResource(w.Store, w.Catalog, job.LocationID, job.OwnerCorpID, out.ResourceID, out.MassKg, now); err != nil {
			return err
		}
	}
	return nil
}

// settleMineJob adds the mass mined since the job's last settlement to
// the location inventory and advances its bookkeeping.
func settleMineJob(w *engine.World, job *model.ProductionJob, now time.Time) error {
	elapsedS := now.Sub(job.LastSettledAt).Seconds()
	if elapsedS <= 0 {
		return nil
	}
	minedKg := job.EffectiveRate * elapsedS / 3600.0
	if minedKg <= 0 {
		job.LastSettledAt = now
		return nil
	}
	if err := inventory.UpsertResource(w.Store, w.Catalog, job.LocationID, job.OwnerCorpID, job.ResourceID, minedKg, now); err != nil {
		return err
	}
	job.LastSettledAt = now
	job.TotalMinedKg += minedKg
	return nil
}
