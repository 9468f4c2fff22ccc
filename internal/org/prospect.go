package org

import (
	"time"

	"orrery/internal/apperrors"
	"orrery/internal/engine"
	"orrery/internal/fleet"
	"orrery/internal/model"
)

// Prospect sends a docked ship's robonaut out to survey a surface site,
// recording the site's declared resource distribution against the
// ship's owning corp. The ship must be
// docked, carry a robonaut part, and be within that part's prospecting
// range of the site; the site must actually have a resource
// distribution to find. Re-prospecting an already-prospected site is
// allowed and simply re-records the same rows with a fresh timestamp.
func Prospect(w *engine.World, shipID, siteID string, now time.Time) ([]model.ProspectingResult, error) {
	s, err := fleet.GetShip(w, shipID)
	if err != nil {
		return nil, err
	}
	if s.InTransit() {
		return nil, apperrors.PreconditionFailedf("ship %q is in transit", shipID)
	}

	var robonaut *model.Part
	for i := range s.Parts {
		if s.Parts[i].Category == model.CategoryRobonaut {
			robonaut = &s.Parts[i]
			break
		}
	}
	if robonaut == nil {
		return nil, apperrors.PreconditionFailedf("ship %q carries no robonaut", shipID)
	}

	site, ok := w.Celestial.Locations[siteID]
	if !ok {
		return nil, apperrors.NotFoundf("location %q not found", siteID)
	}
	if site.Kind != model.KindSurfaceSite {
		return nil, apperrors.Validationf("location %q is not a surface site", siteID)
	}

	shipLoc, ok := w.Celestial.Locations[s.LocationID]
	if !ok {
		return nil, apperrors.NotFoundf("location %q not found", s.LocationID)
	}
	dist := shipLoc.Coord.DistanceTo(site.Coord)
	if dist > robonaut.ProspectRangeKm {
		return nil, apperrors.PreconditionFailedf("site %q is %.1f km away, outside robonaut range of %.1f km", siteID, dist, robonaut.ProspectRangeKm)
	}

	if len(site.Resources) == 0 {
		return nil, apperrors.PreconditionFailedf("site %q has nothing to prospect", siteID)
	}

	results := make([]model.ProspectingResult, 0, len(site.Resources))
	for _, res := range site.Resources {
		result := model.ProspectingResult{
			OrgID:        s.OwnerCorpID,
			SiteID:       siteID,
			ResourceID:   res.ResourceID,
			MassFraction: res.MassFraction,
			ProspectedAt: now,
		}
		if err := w.Store.SaveProspect(result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
