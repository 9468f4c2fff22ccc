package planner

import (
	"sort"

	"orrery/internal/celestial"
)

const daySeconds = 86400.0

// Candidate is one scored departure opportunity.
type Candidate struct {
	DepartureT float64
	WaitS      float64
	Leg        *Leg
}

// ScanDepartureWindow steps forward in 1-day increments from earliestT
// over one synodic period between the two bodies, recomputing the leg
// at each sample, and returns up to the three best candidates sorted by
// delta-v then wait time.
func ScanDepartureWindow(reg *celestial.Registry, fromBodyID, toBodyID string, earliestT, extraDvFrac float64) ([]Candidate, error) {
	synodicS, ok := synodicPeriodS(reg, fromBodyID, toBodyID)
	if !ok {
		return nil, nil
	}

	var candidates []Candidate
	for t := earliestT; t < earliestT+synodicS; t += daySeconds {
		leg, err := ComputeLeg(reg, fromBodyID, toBodyID, t, extraDvFrac)
		if err != nil {
			return nil, err
		}
		if leg == nil {
			continue
		}
		candidates = append(candidates, Candidate{
			DepartureT: t,
			WaitS:      t - earliestT,
			Leg:        leg,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Leg.AdjustedDvMS != candidates[j].Leg.AdjustedDvMS {
			return candidates[i].Leg.AdjustedDvMS < candidates[j].Leg.AdjustedDvMS
		}
		return candidates[i].WaitS < candidates[j].WaitS
	})

	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	return candidates, nil
}

// synodicPeriodS returns the synodic period between two heliocentric
// bodies' orbital periods: 1 / |1/T1 - 1/T2|.
func synodicPeriodS(reg *celestial.Registry, fromBodyID, toBodyID string) (float64, bool) {
	fromHelio, err := reg.HeliocentricParent(fromBodyID)
	if err != nil {
		return 0, false
	}
	toHelio, err := reg.HeliocentricParent(toBodyID)
	if err != nil {
		return 0, false
	}
	t1 := reg.Bodies[fromHelio].Elements.PeriodS
	t2 := reg.Bodies[toHelio].Elements.PeriodS
	if t1 <= 0 || t2 <= 0 {
		return 0, false
	}
	diff := 1/t1 - 1/t2
	if diff == 0 {
		return 0, false
	}
	period := 1 / diff
	if period < 0 {
		period = -period
	}
	return period, true
}
