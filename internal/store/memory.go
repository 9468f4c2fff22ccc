package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"orrery/internal/clock"
	"orrery/internal/model"
)

// Memory is an in-process Store used by unit tests for the packages
// that depend on Store, so their logic can be exercised without a live
// database. cmd/orreryd also uses it when run without -postgres.
type Memory struct {
	mu sync.Mutex

	clockSnap   clock.Snapshot
	clockSet    bool
	edgesHash   string
	edgesHashOK bool

	ships     map[string]model.Ship
	stacks    map[stackKey]model.InventoryStack
	equipment map[string]model.DeployedEquipment
	jobs      map[string]model.ProductionJob
	corps     map[string]model.Corporation
	teams     map[string]model.ResearchTeam
	unlocks   map[string]map[string]bool
	prospects map[string][]model.ProspectingResult
	leoLedger []model.LEOBoostLedgerEntry

	seq int
}

type stackKey struct {
	loc, owner string
	kind       model.StackType
	key        string
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		ships:     map[string]model.Ship{},
		stacks:    map[stackKey]model.InventoryStack{},
		equipment: map[string]model.DeployedEquipment{},
		jobs:      map[string]model.ProductionJob{},
		corps:     map[string]model.Corporation{},
		teams:     map[string]model.ResearchTeam{},
		unlocks:   map[string]map[string]bool{},
		prospects: map[string][]model.ProspectingResult{},
	}
}

func (m *Memory) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d-%s", prefix, m.seq, uuid.New().String()[:8])
}

func (m *Memory) LoadClockSnapshot() (clock.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clockSnap, m.clockSet, nil
}

func (m *Memory) SaveClockSnapshot(s clock.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clockSnap, m.clockSet = s, true
	return nil
}

func (m *Memory) LoadEdgesHash() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edgesHash, m.edgesHashOK, nil
}

func (m *Memory) SaveEdgesHash(h string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edgesHash, m.edgesHashOK = h, true
	return nil
}

func (m *Memory) GetShip(id string) (model.Ship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.ships[id]
	if !ok {
		return model.Ship{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) SaveShip(s model.Ship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ships[s.ID] = s
	return nil
}

func (m *Memory) DeleteShip(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ships, id)
	return nil
}

func (m *Memory) NewShipID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextID("ship")
}

func (m *Memory) GetStack(loc, owner string, kind model.StackType, key string) (model.InventoryStack, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stacks[stackKey{loc, owner, kind, key}]
	return s, ok, nil
}

func (m *Memory) SaveStack(s model.InventoryStack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stacks[stackKey{s.LocationID, s.OwnerCorpID, s.Type, s.StackKey}] = s
	return nil
}

func (m *Memory) DeleteStack(loc, owner string, kind model.StackType, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stacks, stackKey{loc, owner, kind, key})
	return nil
}

func (m *Memory) ListStacks(loc, owner string) ([]model.InventoryStack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.InventoryStack
	for k, s := range m.stacks {
		if k.loc == loc && k.owner == owner {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) GetEquipment(id string) (model.DeployedEquipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.equipment[id]
	if !ok {
		return model.DeployedEquipment{}, ErrNotFound
	}
	return e, nil
}

func (m *Memory) SaveEquipment(e model.DeployedEquipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equipment[e.ID] = e
	return nil
}

func (m *Memory) DeleteEquipment(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.equipment, id)
	return nil
}

func (m *Memory) ListEquipmentAtLocation(loc string) ([]model.DeployedEquipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.DeployedEquipment
	for _, e := range m.equipment {
		if e.LocationID == loc {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Memory) NewEquipmentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextID("equip")
}

func (m *Memory) GetJob(id string) (model.ProductionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return model.ProductionJob{}, ErrNotFound
	}
	return j, nil
}

func (m *Memory) SaveJob(j model.ProductionJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = j
	return nil
}

func (m *Memory) ListActiveJobsForEquipment(equipmentID string) ([]model.ProductionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ProductionJob
	for _, j := range m.jobs {
		if j.EquipmentID == equipmentID && j.Status == model.JobActive {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *Memory) DeleteCompletedJobsForEquipment(equipmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, j := range m.jobs {
		if j.EquipmentID == equipmentID && j.Status != model.JobActive {
			delete(m.jobs, id)
		}
	}
	return nil
}

func (m *Memory) NewJobID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextID("job")
}

func (m *Memory) GetCorp(id string) (model.Corporation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.corps[id]
	if !ok {
		return model.Corporation{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) SaveCorp(c model.Corporation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corps[c.ID] = c
	return nil
}

func (m *Memory) SaveTeam(t model.ResearchTeam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[t.ID] = t
	c := m.corps[t.OrgID]
	for i, existing := range c.Teams {
		if existing.ID == t.ID {
			c.Teams[i] = t
			m.corps[t.OrgID] = c
			return nil
		}
	}
	c.Teams = append(c.Teams, t)
	m.corps[t.OrgID] = c
	return nil
}

func (m *Memory) DeleteTeam(orgID, teamID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.teams, teamID)
	c := m.corps[orgID]
	kept := c.Teams[:0]
	for _, t := range c.Teams {
		if t.ID != teamID {
			kept = append(kept, t)
		}
	}
	c.Teams = kept
	m.corps[orgID] = c
	return nil
}

func (m *Memory) NewTeamID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextID("team")
}

func (m *Memory) HasUnlock(orgID, techID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unlocks[orgID][techID], nil
}

func (m *Memory) SaveUnlock(u model.ResearchUnlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unlocks[u.OrgID] == nil {
		m.unlocks[u.OrgID] = map[string]bool{}
	}
	m.unlocks[u.OrgID][u.TechID] = true
	return nil
}

func (m *Memory) ListUnlocks(orgID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for id := range m.unlocks[orgID] {
		out = append(out, id)
	}
	return out, nil
}

func (m *Memory) HasProspected(orgID, siteID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prospects[orgID+"|"+siteID]) > 0, nil
}

func (m *Memory) ListProspectedResources(orgID, siteID string) ([]model.ProspectingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ProspectingResult(nil), m.prospects[orgID+"|"+siteID]...), nil
}

func (m *Memory) SaveProspect(p model.ProspectingResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := p.OrgID + "|" + p.SiteID
	list := m.prospects[key]
	for i, existing := range list {
		if existing.ResourceID == p.ResourceID {
			list[i] = p
			m.prospects[key] = list
			return nil
		}
	}
	m.prospects[key] = append(list, p)
	return nil
}

func (m *Memory) AppendLEOBoost(e model.LEOBoostLedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leoLedger = append(m.leoLedger, e)
	return nil
}
