package org

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/model"
)

// UnlockTech settles the org, then spends research points on a tech
// unlock, rejecting if the cost exceeds the current balance of points
// or any named prerequisite is missing. cost and prereqs are supplied
// by the caller; the core has no tech-tree catalog of its own to look
// them up from.
func UnlockTech(w *engine.World, orgID, techID string, costPts float64, prereqs []string, now time.Time) (model.Corporation, error) {
	if techID == "" {
		return model.Corporation{}, apperrors.Validationf("tech id must not be empty")
	}

	c, err := GetCorp(w, orgID, now)
	if err != nil {
		return model.Corporation{}, err
	}

	has, err := w.Store.HasUnlock(orgID, techID)
	if err != nil {
		return model.Corporation{}, err
	}
	if has {
		return model.Corporation{}, apperrors.PreconditionFailedf("tech %q is already unlocked", techID)
	}

	for _, prereq := range prereqs {
		ok, err := w.Store.HasUnlock(orgID, prereq)
		if err != nil {
			return model.Corporation{}, err
		}
		if !ok {
			return model.Corporation{}, apperrors.PreconditionFailedf("missing prerequisite %q for tech %q", prereq, techID)
		}
	}

	if costPts > c.ResearchPoints {
		return model.Corporation{}, apperrors.PreconditionFailedf("insufficient research points: have %.1f, need %.1f", c.ResearchPoints, costPts)
	}

	c.ResearchPoints -= costPts
	if err := w.Store.SaveCorp(c); err != nil {
		return model.Corporation{}, err
	}
	if err := w.Store.SaveUnlock(model.ResearchUnlock{OrgID: orgID, TechID: techID, CostPts: costPts, UnlockedAt: now}); err != nil {
		return model.Corporation{}, err
	}
	return c, nil
}
