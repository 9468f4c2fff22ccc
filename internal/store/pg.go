package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"orrery/internal/clock"
	"orrery/internal/model"
	"orrery/pkg/db"
)

// Postgres is the production Store, a thin layer over db.Proxy:
// fetches go through QueryDesc, mutations go through named stored
// procedures via InsertReq.
// Complex nested fields (parts, cargo, transfer path, recipe snapshots)
// round-trip as jsonb columns.
type Postgres struct {
	proxy db.Proxy
}

// NewPostgres wraps an already-connected db.Proxy.
func NewPostgres(proxy db.Proxy) *Postgres {
	return &Postgres{proxy: proxy}
}

func (p *Postgres) NewShipID() string      { return uuid.New().String() }
func (p *Postgres) NewEquipmentID() string { return uuid.New().String() }
func (p *Postgres) NewJobID() string       { return uuid.New().String() }
func (p *Postgres) NewTeamID() string      { return uuid.New().String() }

func (p *Postgres) LoadClockSnapshot() (clock.Snapshot, bool, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props: []string{"key", "value"},
		Table: "sim_meta",
		Filters: []db.Filter{
			{Key: "key", Values: []interface{}{
				"sim_real_time_anchor_s", "sim_game_time_anchor_s", "sim_paused", "sim_scale",
			}},
		},
	})
	if err != nil {
		return clock.Snapshot{}, false, err
	}
	defer res.Close()
	if res.Err != nil {
		return clock.Snapshot{}, false, res.Err
	}

	values := map[string]string{}
	var key, value string
	for res.Next() {
		if err := res.Scan(&key, &value); err != nil {
			return clock.Snapshot{}, false, err
		}
		values[key] = value
	}
	if len(values) == 0 {
		return clock.Snapshot{}, false, nil
	}

	var snap clock.Snapshot
	fmt.Sscanf(values["sim_real_time_anchor_s"], "%g", &snap.RealAnchorS)
	fmt.Sscanf(values["sim_game_time_anchor_s"], "%g", &snap.GameAnchorS)
	fmt.Sscanf(values["sim_scale"], "%g", &snap.Scale)
	snap.Paused = values["sim_paused"] == "true"
	return snap, true, nil
}

func (p *Postgres) SaveClockSnapshot(s clock.Snapshot) error {
	entries := map[string]interface{}{
		"sim_real_time_anchor_s": s.RealAnchorS,
		"sim_game_time_anchor_s": s.GameAnchorS,
		"sim_paused":             s.Paused,
		"sim_scale":              s.Scale,
	}
	for key, value := range entries {
		if err := p.proxy.InsertToDB(db.InsertReq{
			Script:     "upsert_sim_meta",
			Args:       []interface{}{key, fmt.Sprintf("%v", value)},
			SkipReturn: true,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) LoadEdgesHash() (string, bool, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props:   []string{"value"},
		Table:   "sim_meta",
		Filters: []db.Filter{{Key: "key", Values: []interface{}{"edges_hash"}}},
	})
	if err != nil {
		return "", false, err
	}
	defer res.Close()
	if res.Err != nil {
		return "", false, res.Err
	}
	if !res.Next() {
		return "", false, nil
	}
	var hash string
	if err := res.Scan(&hash); err != nil {
		return "", false, err
	}
	return hash, true, nil
}

func (p *Postgres) SaveEdgesHash(hash string) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "upsert_sim_meta",
		Args:       []interface{}{"edges_hash", hash},
		SkipReturn: true,
	})
}

// shipRow is the jsonb-carrying wire shape persisted for a ship; Parts,
// Cargo and TransferPath are opaque blobs from the DB's point of view.
type shipRow struct {
	ID          string
	Name        string
	OwnerCorpID string
	ColorHex    string
	Shape       string
	SizeM       float64
	PartsJSON   []byte
	StatsJSON   []byte
	FuelKg      float64
	CargoJSON   []byte
	LocationID  string
	From        string
	To          string
	DepartedAt  time.Time
	ArrivesAt   time.Time
	PathJSON    []byte
	PlannedDv   float64
}

func (p *Postgres) GetShip(id string) (model.Ship, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props: []string{
			"id", "name", "owner_corp_id", "color_hex", "shape", "size_m",
			"parts", "stats", "fuel_kg", "cargo", "location_id",
			"from_location_id", "to_location_id", "departed_at", "arrives_at",
			"transfer_path", "planned_dv_m_s",
		},
		Table:   "ships",
		Filters: []db.Filter{{Key: "id", Values: []interface{}{id}}},
	})
	if err != nil {
		return model.Ship{}, err
	}
	defer res.Close()
	if res.Err != nil {
		return model.Ship{}, res.Err
	}
	if !res.Next() {
		return model.Ship{}, ErrNotFound
	}

	var row shipRow
	if err := res.Scan(
		&row.ID, &row.Name, &row.OwnerCorpID, &row.ColorHex, &row.Shape, &row.SizeM,
		&row.PartsJSON, &row.StatsJSON, &row.FuelKg, &row.CargoJSON, &row.LocationID,
		&row.From, &row.To, &row.DepartedAt, &row.ArrivesAt, &row.PathJSON, &row.PlannedDv,
	); err != nil {
		return model.Ship{}, err
	}
	return shipFromRow(row)
}

func shipFromRow(row shipRow) (model.Ship, error) {
	s := model.Ship{
		ID: row.ID, Name: row.Name, OwnerCorpID: row.OwnerCorpID,
		ColorHex: row.ColorHex, Shape: row.Shape, SizeM: row.SizeM,
		FuelKg: row.FuelKg, LocationID: row.LocationID,
		From: row.From, To: row.To, DepartedAt: row.DepartedAt, ArrivesAt: row.ArrivesAt,
		PlannedDvMS: row.PlannedDv,
	}
	if len(row.PartsJSON) > 0 {
		if err := json.Unmarshal(row.PartsJSON, &s.Parts); err != nil {
			return model.Ship{}, err
		}
	}
	if len(row.StatsJSON) > 0 {
		if err := json.Unmarshal(row.StatsJSON, &s.Stats); err != nil {
			return model.Ship{}, err
		}
	}
	if len(row.CargoJSON) > 0 {
		if err := json.Unmarshal(row.CargoJSON, &s.Cargo); err != nil {
			return model.Ship{}, err
		}
	}
	if len(row.PathJSON) > 0 {
		if err := json.Unmarshal(row.PathJSON, &s.TransferPath); err != nil {
			return model.Ship{}, err
		}
	}
	return s, nil
}

func (p *Postgres) SaveShip(s model.Ship) error {
	parts, err := json.Marshal(s.Parts)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(s.Stats)
	if err != nil {
		return err
	}
	cargo, err := json.Marshal(s.Cargo)
	if err != nil {
		return err
	}
	path, err := json.Marshal(s.TransferPath)
	if err != nil {
		return err
	}
	return p.proxy.InsertToDB(db.InsertReq{
		Script: "upsert_ship",
		Args: []interface{}{
			s.ID, s.Name, s.OwnerCorpID, s.ColorHex, s.Shape, s.SizeM,
			string(parts), string(stats), s.FuelKg, string(cargo), s.LocationID,
			s.From, s.To, s.DepartedAt, s.ArrivesAt, string(path), s.PlannedDvMS,
		},
		SkipReturn: true,
	})
}

func (p *Postgres) DeleteShip(id string) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "delete_ship",
		Args:       []interface{}{id},
		SkipReturn: true,
	})
}

func (p *Postgres) GetStack(loc, owner string, kind model.StackType, key string) (model.InventoryStack, bool, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props: []string{"location_id", "owner_corp_id", "stack_type", "stack_key",
			"item_id", "name", "quantity", "mass_kg", "volume_m3", "payload", "updated_at"},
		Table: "inventory_stacks",
		Filters: []db.Filter{
			{Key: "location_id", Values: []interface{}{loc}},
			{Key: "owner_corp_id", Values: []interface{}{owner}},
			{Key: "stack_type", Values: []interface{}{int(kind)}},
			{Key: "stack_key", Values: []interface{}{key}},
		},
	})
	if err != nil {
		return model.InventoryStack{}, false, err
	}
	defer res.Close()
	if res.Err != nil {
		return model.InventoryStack{}, false, res.Err
	}
	if !res.Next() {
		return model.InventoryStack{}, false, nil
	}
	s, err := scanStack(res)
	return s, err == nil, err
}

func (p *Postgres) ListStacks(loc, owner string) ([]model.InventoryStack, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props: []string{"location_id", "owner_corp_id", "stack_type", "stack_key",
			"item_id", "name", "quantity", "mass_kg", "volume_m3", "payload", "updated_at"},
		Table: "inventory_stacks",
		Filters: []db.Filter{
			{Key: "location_id", Values: []interface{}{loc}},
			{Key: "owner_corp_id", Values: []interface{}{owner}},
		},
	})
	if err != nil {
		return nil, err
	}
	defer res.Close()
	if res.Err != nil {
		return nil, res.Err
	}
	var out []model.InventoryStack
	for res.Next() {
		s, err := scanStack(res)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func scanStack(res db.QueryResult) (model.InventoryStack, error) {
	var s model.InventoryStack
	var kind int
	var payload []byte
	if err := res.Scan(&s.LocationID, &s.OwnerCorpID, &kind, &s.StackKey,
		&s.ItemID, &s.Name, &s.Quantity, &s.MassKg, &s.VolumeM3, &payload, &s.UpdatedAt); err != nil {
		return model.InventoryStack{}, err
	}
	s.Type = model.StackType(kind)
	if len(payload) > 0 {
		var v interface{}
		if err := json.Unmarshal(payload, &v); err != nil {
			return model.InventoryStack{}, err
		}
		s.Payload = v
	}
	return s, nil
}

func (p *Postgres) SaveStack(s model.InventoryStack) error {
	if s.Empty() {
		return p.DeleteStack(s.LocationID, s.OwnerCorpID, s.Type, s.StackKey)
	}
	payload, err := json.Marshal(s.Payload)
	if err != nil {
		return err
	}
	return p.proxy.InsertToDB(db.InsertReq{
		Script: "upsert_inventory_stack",
		Args: []interface{}{
			s.LocationID, s.OwnerCorpID, int(s.Type), s.StackKey,
			s.ItemID, s.Name, s.Quantity, s.MassKg, s.VolumeM3, string(payload), s.UpdatedAt,
		},
		SkipReturn: true,
	})
}

func (p *Postgres) DeleteStack(loc, owner string, kind model.StackType, key string) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "delete_inventory_stack",
		Args:       []interface{}{loc, owner, int(kind), key},
		SkipReturn: true,
	})
}

func (p *Postgres) GetEquipment(id string) (model.DeployedEquipment, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props:   []string{"id", "location_id", "owner_corp_id", "item_id", "category", "status", "deployed_at", "config"},
		Table:   "deployed_equipment",
		Filters: []db.Filter{{Key: "id", Values: []interface{}{id}}},
	})
	if err != nil {
		return model.DeployedEquipment{}, err
	}
	defer res.Close()
	if res.Err != nil {
		return model.DeployedEquipment{}, res.Err
	}
	if !res.Next() {
		return model.DeployedEquipment{}, ErrNotFound
	}
	return scanEquipment(res)
}

func (p *Postgres) ListEquipmentAtLocation(loc string) ([]model.DeployedEquipment, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props:   []string{"id", "location_id", "owner_corp_id", "item_id", "category", "status", "deployed_at", "config"},
		Table:   "deployed_equipment",
		Filters: []db.Filter{{Key: "location_id", Values: []interface{}{loc}}},
	})
	if err != nil {
		return nil, err
	}
	defer res.Close()
	if res.Err != nil {
		return nil, res.Err
	}
	var out []model.DeployedEquipment
	for res.Next() {
		e, err := scanEquipment(res)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func scanEquipment(res db.QueryResult) (model.DeployedEquipment, error) {
	var e model.DeployedEquipment
	var category, status int
	var config []byte
	if err := res.Scan(&e.ID, &e.LocationID, &e.OwnerCorpID, &e.ItemID, &category, &status, &e.DeployedAt, &config); err != nil {
		return model.DeployedEquipment{}, err
	}
	e.Category = model.PartCategory(category)
	e.Status = model.EquipmentStatus(status)
	if len(config) > 0 {
		if err := json.Unmarshal(config, &e.Config); err != nil {
			return model.DeployedEquipment{}, err
		}
	}
	return e, nil
}

func (p *Postgres) SaveEquipment(e model.DeployedEquipment) error {
	config, err := json.Marshal(e.Config)
	if err != nil {
		return err
	}
	return p.proxy.InsertToDB(db.InsertReq{
		Script: "upsert_deployed_equipment",
		Args: []interface{}{
			e.ID, e.LocationID, e.OwnerCorpID, e.ItemID, int(e.Category), int(e.Status),
			e.DeployedAt, string(config),
		},
		SkipReturn: true,
	})
}

func (p *Postgres) DeleteEquipment(id string) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "delete_deployed_equipment",
		Args:       []interface{}{id},
		SkipReturn: true,
	})
}

func (p *Postgres) GetJob(id string) (model.ProductionJob, error) {
	res, err := p.proxy.FetchFromDB(jobQuery([]db.Filter{{Key: "id", Values: []interface{}{id}}}))
	if err != nil {
		return model.ProductionJob{}, err
	}
	defer res.Close()
	if res.Err != nil {
		return model.ProductionJob{}, res.Err
	}
	if !res.Next() {
		return model.ProductionJob{}, ErrNotFound
	}
	return scanJob(res)
}

func (p *Postgres) ListActiveJobsForEquipment(equipmentID string) ([]model.ProductionJob, error) {
	res, err := p.proxy.FetchFromDB(jobQuery([]db.Filter{
		{Key: "equipment_id", Values: []interface{}{equipmentID}},
		{Key: "status", Values: []interface{}{int(model.JobActive)}},
	}))
	if err != nil {
		return nil, err
	}
	defer res.Close()
	if res.Err != nil {
		return nil, res.Err
	}
	var out []model.ProductionJob
	for res.Next() {
		j, err := scanJob(res)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func jobQuery(filters []db.Filter) db.QueryDesc {
	return db.QueryDesc{
		Props: []string{
			"id", "location_id", "equipment_id", "owner_corp_id", "job_type", "status",
			"started_at", "completes_at", "inputs", "outputs", "recipe_id", "resource_id",
			"batch_count", "last_settled_at", "total_mined_kg", "effective_rate_kg_h",
		},
		Table:   "production_jobs",
		Filters: filters,
	}
}

func scanJob(res db.QueryResult) (model.ProductionJob, error) {
	var j model.ProductionJob
	var jobType, status int
	var inputs, outputs []byte
	if err := res.Scan(&j.ID, &j.LocationID, &j.EquipmentID, &j.OwnerCorpID, &jobType, &status,
		&j.StartedAt, &j.CompletesAt, &inputs, &outputs, &j.RecipeID, &j.ResourceID,
		&j.BatchCount, &j.LastSettledAt, &j.TotalMinedKg, &j.EffectiveRate); err != nil {
		return model.ProductionJob{}, err
	}
	j.Type, j.Status = model.JobType(jobType), model.JobStatus(status)
	if len(inputs) > 0 {
		if err := json.Unmarshal(inputs, &j.Inputs); err != nil {
			return model.ProductionJob{}, err
		}
	}
	if len(outputs) > 0 {
		if err := json.Unmarshal(outputs, &j.Outputs); err != nil {
			return model.ProductionJob{}, err
		}
	}
	return j, nil
}

func (p *Postgres) SaveJob(j model.ProductionJob) error {
	inputs, err := json.Marshal(j.Inputs)
	if err != nil {
		return err
	}
	outputs, err := json.Marshal(j.Outputs)
	if err != nil {
		return err
	}
	return p.proxy.InsertToDB(db.InsertReq{
		Script: "upsert_production_job",
		Args: []interface{}{
			j.ID, j.LocationID, j.EquipmentID, j.OwnerCorpID, int(j.Type), int(j.Status),
			j.StartedAt, j.CompletesAt, string(inputs), string(outputs), j.RecipeID, j.ResourceID,
			j.BatchCount, j.LastSettledAt, j.TotalMinedKg, j.EffectiveRate,
		},
		SkipReturn: true,
	})
}

func (p *Postgres) DeleteCompletedJobsForEquipment(equipmentID string) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "delete_completed_jobs_for_equipment",
		Args:       []interface{}{equipmentID},
		SkipReturn: true,
	})
}

func (p *Postgres) GetCorp(id string) (model.Corporation, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props:   []string{"id", "name", "balance_usd", "research_points", "last_settled_at"},
		Table:   "corporations",
		Filters: []db.Filter{{Key: "id", Values: []interface{}{id}}},
	})
	if err != nil {
		return model.Corporation{}, err
	}
	defer res.Close()
	if res.Err != nil {
		return model.Corporation{}, res.Err
	}
	if !res.Next() {
		return model.Corporation{}, ErrNotFound
	}
	var c model.Corporation
	if err := res.Scan(&c.ID, &c.Name, &c.BalanceUSD, &c.ResearchPoints, &c.LastSettledAt); err != nil {
		return model.Corporation{}, err
	}

	teamRes, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props:   []string{"id", "org_id", "name", "cost_per_month_usd", "points_per_week", "hired_at"},
		Table:   "research_teams",
		Filters: []db.Filter{{Key: "org_id", Values: []interface{}{id}}},
	})
	if err != nil {
		return model.Corporation{}, err
	}
	defer teamRes.Close()
	for teamRes.Next() {
		var t model.ResearchTeam
		if err := teamRes.Scan(&t.ID, &t.OrgID, &t.Name, &t.CostPerMonthUSD, &t.PointsPerWeek, &t.HiredAt); err != nil {
			return model.Corporation{}, err
		}
		c.Teams = append(c.Teams, t)
	}
	return c, nil
}

func (p *Postgres) SaveCorp(c model.Corporation) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "upsert_corporation",
		Args:       []interface{}{c.ID, c.Name, c.BalanceUSD, c.ResearchPoints, c.LastSettledAt},
		SkipReturn: true,
	})
}

func (p *Postgres) SaveTeam(t model.ResearchTeam) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "upsert_research_team",
		Args:       []interface{}{t.ID, t.OrgID, t.Name, t.CostPerMonthUSD, t.PointsPerWeek, t.HiredAt},
		SkipReturn: true,
	})
}

func (p *Postgres) DeleteTeam(orgID, teamID string) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "delete_research_team",
		Args:       []interface{}{orgID, teamID},
		SkipReturn: true,
	})
}

func (p *Postgres) HasUnlock(orgID, techID string) (bool, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props: []string{"tech_id"},
		Table: "research_unlocks",
		Filters: []db.Filter{
			{Key: "org_id", Values: []interface{}{orgID}},
			{Key: "tech_id", Values: []interface{}{techID}},
		},
	})
	if err != nil {
		return false, err
	}
	defer res.Close()
	if res.Err != nil {
		return false, res.Err
	}
	return res.Next(), nil
}

func (p *Postgres) SaveUnlock(u model.ResearchUnlock) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "insert_research_unlock",
		Args:       []interface{}{u.OrgID, u.TechID, u.CostPts, u.UnlockedAt},
		SkipReturn: true,
	})
}

func (p *Postgres) ListUnlocks(orgID string) ([]string, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props:   []string{"tech_id"},
		Table:   "research_unlocks",
		Filters: []db.Filter{{Key: "org_id", Values: []interface{}{orgID}}},
	})
	if err != nil {
		return nil, err
	}
	defer res.Close()
	if res.Err != nil {
		return nil, res.Err
	}
	var out []string
	var tech string
	for res.Next() {
		if err := res.Scan(&tech); err != nil {
			return nil, err
		}
		out = append(out, tech)
	}
	return out, nil
}

func (p *Postgres) HasProspected(orgID, siteID string) (bool, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props: []string{"resource_id"},
		Table: "prospecting_results",
		Filters: []db.Filter{
			{Key: "org_id", Values: []interface{}{orgID}},
			{Key: "site_id", Values: []interface{}{siteID}},
		},
	})
	if err != nil {
		return false, err
	}
	defer res.Close()
	if res.Err != nil {
		return false, res.Err
	}
	return res.Next(), nil
}

func (p *Postgres) ListProspectedResources(orgID, siteID string) ([]model.ProspectingResult, error) {
	res, err := p.proxy.FetchFromDB(db.QueryDesc{
		Props: []string{"org_id", "site_id", "resource_id", "mass_fraction", "prospected_at"},
		Table: "prospecting_results",
		Filters: []db.Filter{
			{Key: "org_id", Values: []interface{}{orgID}},
			{Key: "site_id", Values: []interface{}{siteID}},
		},
	})
	if err != nil {
		return nil, err
	}
	defer res.Close()
	if res.Err != nil {
		return nil, res.Err
	}
	var out []model.ProspectingResult
	for res.Next() {
		var r model.ProspectingResult
		if err := res.Scan(&r.OrgID, &r.SiteID, &r.ResourceID, &r.MassFraction, &r.ProspectedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (p *Postgres) SaveProspect(r model.ProspectingResult) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "upsert_prospecting_result",
		Args:       []interface{}{r.OrgID, r.SiteID, r.ResourceID, r.MassFraction, r.ProspectedAt},
		SkipReturn: true,
	})
}

func (p *Postgres) AppendLEOBoost(e model.LEOBoostLedgerEntry) error {
	return p.proxy.InsertToDB(db.InsertReq{
		Script:     "insert_leo_boost_ledger",
		Args:       []interface{}{e.OrgID, e.ItemID, e.Quantity, e.CostUSD, e.BoostedAt},
		SkipReturn: true,
	})
}
