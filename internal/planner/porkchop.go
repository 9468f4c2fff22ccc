package planner

import (
	"encoding/json"
	"math"
	"sort"

	"orrery/internal/celestial"
	"orrery/internal/orbital"
)

// GridCell is one (departure, time-of-flight) sample of a porkchop
// plot. A cell with no Lambert solution carries an infinite DvMS and
// Score so it still occupies its grid position.
type GridCell struct {
	DepartureT    float64
	TofS          float64
	DvMS          float64
	Revs          int
	Score         float64
	PhaseAngleDeg float64
}

// MarshalJSON renders unsolvable cells with null dv and score, since
// JSON has no infinity literal.
func (c GridCell) MarshalJSON() ([]byte, error) {
	type cell struct {
		DepartureT    float64  `json:"departure_t"`
		TofS          float64  `json:"tof_s"`
		DvMS          *float64 `json:"dv_m_s"`
		Revs          int      `json:"revs"`
		Score         *float64 `json:"score"`
		PhaseAngleDeg float64  `json:"phase_angle_deg"`
	}
	out := cell{DepartureT: c.DepartureT, TofS: c.TofS, Revs: c.Revs, PhaseAngleDeg: c.PhaseAngleDeg}
	if !math.IsInf(c.DvMS, 0) && !math.IsNaN(c.DvMS) {
		dv := c.DvMS
		out.DvMS = &dv
	}
	if !math.IsInf(c.Score, 0) && !math.IsNaN(c.Score) {
		score := c.Score
		out.Score = &score
	}
	return json.Marshal(out)
}

// Grid is a computed porkchop plot: a dense row-major grid of
// DepSteps*TofSteps cells (cell (di, ti) lives at index di*TofSteps+ti)
// plus the top-5 spatially-dispersed local minima among the solved
// cells.
type Grid struct {
	DepSteps   int
	TofSteps   int
	Cells      []GridCell
	BestMinima []GridCell
}

// qualityScore implements the multi-rev ranking function: delta-v plus
// 1 m/s per day of flight time plus 50 m/s-equivalent per revolution,
// so a solution with an extra revolution outranks a direct one only
// when its delta-v is lower by more than 50 m/s plus 1 m/s for each
// extra day flown.
func qualityScore(dvMS, tofS float64, revs int) float64 {
	tofDays := tofS / daySeconds
	return dvMS + tofDays*1.0 + float64(revs)*50.0
}

// BuildPorkchop samples a 2-D grid of (departure time, time-of-flight)
// and solves Lambert (with up to maxRevs revolutions) at each cell,
// scoring by qualityScore. depSteps and tofSteps control the grid
// resolution; depStartT/depEndT and tofStartS/tofEndS its extent.
// Every cell is emitted in row-major order; cells with no solution
// keep their position with an infinite dv.
func BuildPorkchop(reg *celestial.Registry, fromBodyID, toBodyID string,
	depStartT, depEndT float64, depSteps int,
	tofStartS, tofEndS float64, tofSteps int,
	maxRevs int) (*Grid, error) {

	fromHelio, err := reg.HeliocentricParent(fromBodyID)
	if err != nil {
		return nil, err
	}
	toHelio, err := reg.HeliocentricParent(toBodyID)
	if err != nil {
		return nil, err
	}
	sunMu := sunGravitationalParameter(reg)
	if sunMu <= 0 || depSteps <= 0 || tofSteps <= 0 {
		return &Grid{}, nil
	}

	depStep := spanStep(depStartT, depEndT, depSteps)
	tofStep := spanStep(tofStartS, tofEndS, tofSteps)

	cells := make([]GridCell, 0, depSteps*tofSteps)
	var solved []GridCell
	for di := 0; di < depSteps; di++ {
		depT := depStartT + depStep*float64(di)
		r1State, r1Err := reg.BodyState(fromHelio, depT)

		var phaseAngle float64
		if r1Err == nil {
			if toDepState, err := reg.BodyState(toHelio, depT); err == nil {
				phaseAngle = phaseAngleDeg(r1State.R, toDepState.R)
			}
		}

		for ti := 0; ti < tofSteps; ti++ {
			tof := tofStartS + tofStep*float64(ti)
			cell := GridCell{
				DepartureT: depT, TofS: tof,
				DvMS: math.Inf(1), Score: math.Inf(1),
				PhaseAngleDeg: phaseAngle,
			}

			if r1Err == nil && tof > 0 {
				if r2State, err := reg.BodyState(toHelio, depT+tof); err == nil {
					bestDv := -1.0
					bestRevs := 0
					for revs := 0; revs <= maxRevs; revs++ {
						var sol orbital.Solution
						var ok bool
						if revs == 0 {
							sol, ok = orbital.Solve(r1State.R, r2State.R, tof, sunMu, false)
						} else {
							sol, ok = orbital.SolveMultiRev(r1State.R, r2State.R, tof, sunMu, false, revs, false)
						}
						if !ok {
							continue
						}
						dv := sol.V1.Sub(r1State.V).Norm()*1000 + sol.V2.Sub(r2State.V).Norm()*1000
						if bestDv < 0 || dv < bestDv {
							bestDv = dv
							bestRevs = revs
						}
					}
					if bestDv >= 0 {
						cell.DvMS = bestDv
						cell.Revs = bestRevs
						cell.Score = qualityScore(bestDv, tof, bestRevs)
						solved = append(solved, cell)
					}
				}
			}
			cells = append(cells, cell)
		}
	}

	sort.Slice(solved, func(i, j int) bool { return solved[i].Score < solved[j].Score })
	return &Grid{
		DepSteps: depSteps, TofSteps: tofSteps,
		Cells:      cells,
		BestMinima: dispersedMinima(solved, depStep, tofStep),
	}, nil
}

func spanStep(start, end float64, steps int) float64 {
	if steps <= 1 {
		return 0
	}
	return (end - start) / float64(steps-1)
}

// dispersedMinima picks up to 5 of the best-scoring solved cells,
// skipping any candidate too close (within one grid cell) to an
// already-chosen one, so the result isn't five adjacent samples of the
// same basin.
func dispersedMinima(sorted []GridCell, depStep, tofStep float64) []GridCell {
	var picked []GridCell
	for _, c := range sorted {
		if len(picked) >= 5 {
			break
		}
		tooClose := false
		const slack = 1 + 1e-9
		for _, p := range picked {
			if absF(c.DepartureT-p.DepartureT) <= depStep*slack && absF(c.TofS-p.TofS) <= tofStep*slack {
				tooClose = true
				break
			}
		}
		if !tooClose {
			picked = append(picked, c)
		}
	}
	return picked
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
