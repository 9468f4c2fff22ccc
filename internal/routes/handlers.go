package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"orrery/internal/apperrors"
	"orrery/internal/fleet"
	"orrery/internal/org"
	"orrery/internal/planner"
	"orrery/pkg/handlers"
	"orrery/pkg/logger"
)

// writeError maps an apperrors.Kind onto an HTTP status code:
// not-found is 404, validation is 400, precondition failures and
// conflicts are 409, and everything else degrades to a 500.
func writeError(w http.ResponseWriter, log logger.Logger, module string, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.Is(err, apperrors.NotFound):
		status = http.StatusNotFound
	case apperrors.Is(err, apperrors.Validation):
		status = http.StatusBadRequest
	case apperrors.Is(err, apperrors.PreconditionFailed):
		status = http.StatusConflict
	case apperrors.Is(err, apperrors.Conflict):
		status = http.StatusConflict
	}
	log.Trace(logger.Error, module, fmt.Sprintf("request failed (err: %v)", err))
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, log logger.Logger, module string, data interface{}) {
	out, err := json.Marshal(data)
	if err != nil {
		log.Trace(logger.Error, module, fmt.Sprintf("could not marshal response (err: %v)", err))
		http.Error(w, handlers.InternalServerErrorString(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func (s *Server) getShip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars, err := extractVars("/ships", r)
		if err != nil {
			panic(err)
		}
		if len(vars.RouteElems) == 0 {
			http.Error(w, "missing ship id", http.StatusBadRequest)
			return
		}

		ship, err := fleet.GetShip(s.world, vars.RouteElems[0])
		if err != nil {
			writeError(w, s.log, "ships", err)
			return
		}
		writeJSON(w, s.log, "ships", ship)
	}
}

type dispatchRequest struct {
	ToLocationID string `json:"to_location_id"`
}

func (s *Server) dispatchShip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars, err := extractVars("/ships", r)
		if err != nil {
			panic(err)
		}
		if len(vars.RouteElems) == 0 {
			http.Error(w, "missing ship id", http.StatusBadRequest)
			return
		}

		var req dispatchRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}

		result, err := fleet.Dispatch(s.world, vars.RouteElems[0], req.ToLocationID)
		if err != nil {
			writeError(w, s.log, "ships", err)
			return
		}
		writeJSON(w, s.log, "ships", result)
	}
}

func (s *Server) refuelShip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars, err := extractVars("/ships", r)
		if err != nil {
			panic(err)
		}
		if len(vars.RouteElems) == 0 {
			http.Error(w, "missing ship id", http.StatusBadRequest)
			return
		}

		ship, err := fleet.Refuel(s.world, vars.RouteElems[0])
		if err != nil {
			writeError(w, s.log, "ships", err)
			return
		}
		writeJSON(w, s.log, "ships", ship)
	}
}

func (s *Server) getCorp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars, err := extractVars("/corps", r)
		if err != nil {
			panic(err)
		}
		if len(vars.RouteElems) == 0 {
			http.Error(w, "missing corp id", http.StatusBadRequest)
			return
		}

		c, err := org.GetCorp(s.world, vars.RouteElems[0], s.world.Clock.NowTime())
		if err != nil {
			writeError(w, s.log, "corps", err)
			return
		}
		writeJSON(w, s.log, "corps", c)
	}
}

type hireTeamRequest struct {
	Name            string          `json:"name"`
	CostPerMonthUSD decimal.Decimal `json:"cost_per_month_usd"`
	PointsPerWeek   float64         `json:"points_per_week"`
}

func (s *Server) hireTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars, err := extractVars("/corps", r)
		if err != nil {
			panic(err)
		}
		if len(vars.RouteElems) == 0 {
			http.Error(w, "missing corp id", http.StatusBadRequest)
			return
		}

		var req hireTeamRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}

		team, err := org.HireTeam(s.world, vars.RouteElems[0], req.Name, req.CostPerMonthUSD, req.PointsPerWeek, s.world.Clock.NowTime())
		if err != nil {
			writeError(w, s.log, "corps", err)
			return
		}
		writeJSON(w, s.log, "corps", team)
	}
}

type unlockTechRequest struct {
	TechID  string   `json:"tech_id"`
	CostPts float64  `json:"cost_points"`
	Prereqs []string `json:"prereqs"`
}

func (s *Server) unlockTech() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars, err := extractVars("/corps", r)
		if err != nil {
			panic(err)
		}
		if len(vars.RouteElems) == 0 {
			http.Error(w, "missing corp id", http.StatusBadRequest)
			return
		}

		var req unlockTechRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}

		c, err := org.UnlockTech(s.world, vars.RouteElems[0], req.TechID, req.CostPts, req.Prereqs, s.world.Clock.NowTime())
		if err != nil {
			writeError(w, s.log, "corps", err)
			return
		}
		writeJSON(w, s.log, "corps", c)
	}
}

type boostToLEORequest struct {
	ItemID  string          `json:"item_id"`
	Qty     float64         `json:"quantity"`
	CostUSD decimal.Decimal `json:"cost_usd"`
}

func (s *Server) boostToLEO() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars, err := extractVars("/corps", r)
		if err != nil {
			panic(err)
		}
		if len(vars.RouteElems) == 0 {
			http.Error(w, "missing corp id", http.StatusBadRequest)
			return
		}

		var req boostToLEORequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}

		entry, err := org.BoostToLEO(s.world, vars.RouteElems[0], req.ItemID, req.Qty, req.CostUSD, s.world.Clock.NowTime())
		if err != nil {
			writeError(w, s.log, "corps", err)
			return
		}
		writeJSON(w, s.log, "corps", entry)
	}
}

type prospectRequest struct {
	ShipID string `json:"ship_id"`
	SiteID string `json:"site_id"`
}

func (s *Server) prospectSite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req prospectRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}

		results, err := org.Prospect(s.world, req.ShipID, req.SiteID, s.world.Clock.NowTime())
		if err != nil {
			writeError(w, s.log, "prospect", err)
			return
		}
		writeJSON(w, s.log, "prospect", results)
	}
}

type clockView struct {
	GameSeconds float64   `json:"game_seconds"`
	GameTime    time.Time `json:"game_time"`
	Paused      bool      `json:"paused"`
	Scale       float64   `json:"scale"`
}

func (s *Server) getClock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.log, "clock", clockView{
			GameSeconds: s.world.Clock.Now(),
			GameTime:    s.world.Clock.NowTime(),
			Paused:      s.world.Clock.Paused(),
			Scale:       s.world.Clock.Scale(),
		})
	}
}

func queryParam(vars handlers.RouteVars, key, fallback string) string {
	if vals, ok := vars.Params[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return fallback
}

func queryParamFloat(vars handlers.RouteVars, key string, fallback float64) float64 {
	raw := queryParam(vars, key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func queryParamInt(vars handlers.RouteVars, key string, fallback int) int {
	raw := queryParam(vars, key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// getPorkchop serves the 2-D (departure, time-of-flight) porkchop
// grid. It is rate-limited per World.Legs.AllowPorkchop since a
// full grid re-solves Lambert at every cell.
func (s *Server) getPorkchop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars, err := extractVars("/legs/porkchop", r)
		if err != nil {
			panic(err)
		}

		if !s.world.Legs.AllowPorkchop() {
			http.Error(w, "porkchop grid requests are rate-limited, try again shortly", http.StatusTooManyRequests)
			return
		}

		from := queryParam(vars, "from", "")
		to := queryParam(vars, "to", "")
		if from == "" || to == "" {
			http.Error(w, "missing from/to body ids", http.StatusBadRequest)
			return
		}

		now := s.world.Clock.Now()
		depStart := queryParamFloat(vars, "dep_start", now)
		depEnd := queryParamFloat(vars, "dep_end", now+2*365*86400)
		depSteps := queryParamInt(vars, "dep_steps", 40)
		tofStart := queryParamFloat(vars, "tof_start", 100*86400)
		tofEnd := queryParamFloat(vars, "tof_end", 400*86400)
		tofSteps := queryParamInt(vars, "tof_steps", 40)
		maxRevs := queryParamInt(vars, "max_revs", 0)

		grid, err := planner.BuildPorkchop(s.world.Celestial, from, to, depStart, depEnd, depSteps, tofStart, tofEnd, tofSteps, maxRevs)
		if err != nil {
			writeError(w, s.log, "legs", err)
			return
		}
		writeJSON(w, s.log, "legs", grid)
	}
}

// extractVars strips the given route prefix from the request and
// splits whatever remains into path elements, the same convention
// pkg/handlers.ServeRoute uses for GET/collection endpoints.
func extractVars(prefix string, r *http.Request) (handlers.RouteVars, error) {
	return handlers.ExtractRouteVars(prefix, r)
}
