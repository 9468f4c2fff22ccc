package industry

import (
	"testing"
	"time"

	"orrery/internal/catalog"
	"orrery/internal/celestial"
	"orrery/internal/engine"
	"orrery/internal/inventory"
	"orrery/internal/model"
	"orrery/internal/store"
	"orrery/pkg/logger"
)

func testWorld(t *testing.T) *engine.World {
	t.Helper()

	reg := &celestial.Registry{
		Locations: map[string]model.Location{
			"leo":  {ID: "leo", Kind: model.KindOrbitNode, BodyID: "earth"},
			"site": {ID: "site", Kind: model.KindSurfaceSite, BodyID: "earth", SiteGravityG: 9.8},
		},
	}
	cat := &catalog.Registry{
		Items: map[string]model.Part{
			"refinery_basic": {ItemID: "refinery_basic", Category: model.CategoryRefinery, MassKg: 500, Specialization: "ore", ThroughputMultiplier: 1},
			"constructor_1":  {ItemID: "constructor_1", Category: model.CategoryConstructor, MassKg: 800, ConstructionRateKgPerH: 500, MiningRateKgPerH: 100, MinSurfaceGravityG: 1},
			"widget":         {ItemID: "widget", Category: model.CategoryGeneric, MassKg: 20},
		},
		Recipes: map[string]catalog.Recipe{
			"smelt_ore": {
				ID: "smelt_ore", RefineryCategory: "ore", BaseTimeS: 3600, Efficiency: 0.9,
				Inputs:  []model.ResourceAmount{{ResourceID: "ore", MassKg: 100}},
				Outputs: []catalog.RawRecipeOutput{{ResourceID: "iron", MassKg: 100}, {ResourceID: "slag", MassKg: 10, Byproduct: true}},
			},
			"build_widget": {
				ID: "build_widget", RefineryCategory: "", BaseTimeS: 1000, Efficiency: 1,
				Inputs:  []model.ResourceAmount{{ResourceID: "iron", MassKg: 20}},
				Outputs: []catalog.RawRecipeOutput{{ResourceID: "widget", MassKg: 20}},
			},
		},
		DensityKgM3: map[string]float64{},
	}

	st := store.NewMemory()
	return engine.New(st, reg, cat, 0, 0, logger.NewStdLogger("test", "127.0.0.1"))
}

func seedOre(t *testing.T, w *engine.World, locationID, ownerCorpID string, kg float64) {
	t.Helper()
	if err := inventory.UpsertResource(w.Store, w.Catalog, locationID, ownerCorpID, "ore", kg, time.Now()); err != nil {
		t.Fatalf("seed ore: %v", err)
	}
}

func TestDeployConsumesPartAndCreatesIdleEquipment(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "leo", "corp1", w.Catalog.Items["refinery_basic"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}

	e, err := Deploy(w, "leo", "corp1", "refinery_basic", now)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if e.Status != model.EquipmentIdle {
		t.Fatalf("expected idle equipment")
	}

	stacks, err := w.Store.ListStacks("leo", "corp1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stacks) != 0 {
		t.Fatalf("expected the part to be fully consumed, got %d stacks", len(stacks))
	}
}

func TestDeployConstructorRequiresSurfaceSite(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "leo", "corp1", w.Catalog.Items["constructor_1"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}
	if _, err := Deploy(w, "leo", "corp1", "constructor_1", now); err == nil {
		t.Fatalf("expected rejection for non-surface-site deploy")
	}
}

func TestStartJobDeductsInputsAndComputesCompletion(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "leo", "corp1", w.Catalog.Items["refinery_basic"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}
	e, err := Deploy(w, "leo", "corp1", "refinery_basic", now)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	seedOre(t, w, "leo", "corp1", 200)

	job, err := StartJob(w, e.ID, "smelt_ore", 1, now)
	if err != nil {
		t.Fatalf("start job: %v", err)
	}
	if job.Status != model.JobActive {
		t.Fatalf("expected active job")
	}
	wantCompletes := now.Add(3600 * time.Second)
	if !job.CompletesAt.Equal(wantCompletes) {
		t.Fatalf("completes_at = %v, want %v", job.CompletesAt, wantCompletes)
	}

	oreStack, ok, err := w.Store.GetStack("leo", "corp1", model.StackResource, "ore")
	if err != nil {
		t.Fatalf("get stack: %v", err)
	}
	if !ok || oreStack.MassKg != 100 {
		t.Fatalf("expected 100kg ore remaining, got ok=%v mass=%v", ok, oreStack.MassKg)
	}

	equip, err := w.Store.GetEquipment(e.ID)
	if err != nil {
		t.Fatalf("get equip: %v", err)
	}
	if equip.Status != model.EquipmentActive {
		t.Fatalf("expected active equipment")
	}
}

func TestStartJobRejectsShortage(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "leo", "corp1", w.Catalog.Items["refinery_basic"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}
	e, err := Deploy(w, "leo", "corp1", "refinery_basic", now)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	seedOre(t, w, "leo", "corp1", 10)

	if _, err := StartJob(w, e.ID, "smelt_ore", 1, now); err == nil {
		t.Fatalf("expected rejection for insufficient ore")
	}
}

func TestSettleCreditsOutputsAndFreesEquipment(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "leo", "corp1", w.Catalog.Items["refinery_basic"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}
	e, err := Deploy(w, "leo", "corp1", "refinery_basic", now)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	seedOre(t, w, "leo", "corp1", 100)
	if _, err := StartJob(w, e.ID, "smelt_ore", 1, now); err != nil {
		t.Fatalf("start job: %v", err)
	}

	later := now.Add(2 * time.Hour)
	settled, err := GetEquipment(w, e.ID, later)
	if err != nil {
		t.Fatalf("get equipment at later time: %v", err)
	}
	if settled.Status != model.EquipmentIdle {
		t.Fatalf("expected equipment to return to idle after settlement")
	}

	ironStack, ok, err := w.Store.GetStack("leo", "corp1", model.StackResource, "iron")
	if err != nil || !ok {
		t.Fatalf("expected iron credited, err=%v ok=%v", err, ok)
	}
	if ironStack.MassKg != 90 { // 100kg * 0.9 efficiency
		t.Fatalf("iron mass = %v, want 90", ironStack.MassKg)
	}
	slagStack, ok, err := w.Store.GetStack("leo", "corp1", model.StackResource, "slag")
	if err != nil || !ok {
		t.Fatalf("expected slag byproduct credited")
	}
	if slagStack.MassKg != 10 {
		t.Fatalf("slag mass = %v, want 10 (byproducts are not efficiency-scaled)", slagStack.MassKg)
	}
}

func TestCancelJobRefundsRemainingFraction(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "leo", "corp1", w.Catalog.Items["refinery_basic"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}
	e, err := Deploy(w, "leo", "corp1", "refinery_basic", now)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	seedOre(t, w, "leo", "corp1", 100)
	job, err := StartJob(w, e.ID, "smelt_ore", 1, now)
	if err != nil {
		t.Fatalf("start job: %v", err)
	}

	halfway := now.Add(1800 * time.Second)
	if _, err := CancelJob(w, job.ID, halfway); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	oreStack, ok, err := w.Store.GetStack("leo", "corp1", model.StackResource, "ore")
	if err != nil || !ok {
		t.Fatalf("expected remaining ore stack")
	}
	if oreStack.MassKg < 49 || oreStack.MassKg > 51 {
		t.Fatalf("ore mass = %v, want ~50 (half refunded)", oreStack.MassKg)
	}

	equip, err := w.Store.GetEquipment(e.ID)
	if err != nil {
		t.Fatalf("get equip: %v", err)
	}
	if equip.Status != model.EquipmentIdle {
		t.Fatalf("expected equipment idle after cancel")
	}
}

func TestUndeployForbiddenWithActiveJob(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "leo", "corp1", w.Catalog.Items["refinery_basic"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}
	e, err := Deploy(w, "leo", "corp1", "refinery_basic", now)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	seedOre(t, w, "leo", "corp1", 100)
	if _, err := StartJob(w, e.ID, "smelt_ore", 1, now); err != nil {
		t.Fatalf("start job: %v", err)
	}

	if err := Undeploy(w, e.ID, now); err == nil {
		t.Fatalf("expected undeploy to be rejected with an active job")
	}
}

func TestUndeployReturnsPartWhenIdle(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "leo", "corp1", w.Catalog.Items["refinery_basic"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}
	e, err := Deploy(w, "leo", "corp1", "refinery_basic", now)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}

	if err := Undeploy(w, e.ID, now); err != nil {
		t.Fatalf("undeploy: %v", err)
	}
	stacks, err := w.Store.ListStacks("leo", "corp1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stacks) != 1 {
		t.Fatalf("expected part returned to inventory, got %d stacks", len(stacks))
	}
}

func TestMiningRequiresProspect(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "site", "corp1", w.Catalog.Items["constructor_1"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}
	e, err := Deploy(w, "site", "corp1", "constructor_1", now)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if _, err := StartMining(w, e.ID, "iron_ore", now); err == nil {
		t.Fatalf("expected rejection without a prospect record")
	}
}

func TestMiningAccruesOverTimeAndStops(t *testing.T) {
	w := testWorld(t)
	now := time.Now()
	if err := inventory.UpsertPart(w.Store, "site", "corp1", w.Catalog.Items["constructor_1"], 1, now); err != nil {
		t.Fatalf("seed part: %v", err)
	}
	e, err := Deploy(w, "site", "corp1", "constructor_1", now)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if err := w.Store.SaveProspect(model.ProspectingResult{OrgID: "corp1", SiteID: "site", ResourceID: "iron_ore", MassFraction: 0.5, ProspectedAt: now}); err != nil {
		t.Fatalf("seed prospect: %v", err)
	}

	job, err := StartMining(w, e.ID, "iron_ore", now)
	if err != nil {
		t.Fatalf("start mining: %v", err)
	}
	if job.EffectiveRate != 50 { // 100 kg/hr base * 0.5 mass fraction
		t.Fatalf("effective rate = %v, want 50", job.EffectiveRate)
	}

	later := now.Add(2 * time.Hour)
	if _, err := GetEquipment(w, e.ID, later); err != nil {
		t.Fatalf("settle at later time: %v", err)
	}
	stack, ok, err := w.Store.GetStack("site", "corp1", model.StackResource, "iron_ore")
	if err != nil || !ok {
		t.Fatalf("expected mined resource credited, err=%v ok=%v", err, ok)
	}
	if stack.MassKg != 100 {
		t.Fatalf("mined mass = %v, want 100 (50 kg/hr * 2 hr)", stack.MassKg)
	}

	stopped, err := StopMining(w, job.ID, later.Add(time.Hour))
	if err != nil {
		t.Fatalf("stop mining: %v", err)
	}
	if stopped.Status != model.JobCompleted {
		t.Fatalf("expected completed job status")
	}
	equip, err := w.Store.GetEquipment(e.ID)
	if err != nil {
		t.Fatalf("get equip: %v", err)
	}
	if equip.Status != model.EquipmentIdle {
		t.Fatalf("expected equipment idle after stop mining")
	}
}
