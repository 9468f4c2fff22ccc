package fleet

import (
	"math"
	"testing"

	"orrery/internal/catalog"
	"orrery/internal/celestial"
	"orrery/internal/engine"
	"orrery/internal/model"
	"orrery/internal/store"
	"orrery/pkg/logger"
)

func TestResolveLegUsesStaticMatrixForNonInterplanetaryPath(t *testing.T) {
	w := testWorld(t)
	leg, err := ResolveLeg(w, "leo", "heo", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if leg.DvMS != 900 || leg.TofS != 7200 {
		t.Fatalf("leg = %+v, want dv=900 tof=7200", leg)
	}
	if len(leg.Path) != 2 || leg.Path[0] != "leo" || leg.Path[1] != "heo" {
		t.Fatalf("unexpected path %v", leg.Path)
	}
}

func TestResolveLegRejectsUnknownRoute(t *testing.T) {
	w := testWorld(t)
	if _, err := ResolveLeg(w, "leo", "mars-base", 0); err == nil {
		t.Fatalf("expected error for unknown route")
	}
}

func TestPhaseAngleDegComputesAngularSeparation(t *testing.T) {
	reg := &celestial.Registry{
		Bodies: map[string]model.Body{
			"earth": {ID: "earth", PositionKind: model.PositionFixed, FixedX: 1, FixedY: 0},
			"mars":  {ID: "mars", PositionKind: model.PositionFixed, FixedX: 0, FixedY: 1},
		},
	}
	w := engine.New(store.NewMemory(), reg, &catalog.Registry{}, 0, 0, logger.NewStdLogger("test", "127.0.0.1"))

	deg, ok := PhaseAngleDeg(w, "earth", "mars", 0)
	if !ok {
		t.Fatalf("expected a phase angle")
	}
	if math.Abs(deg-90) > 1e-6 {
		t.Fatalf("phase angle = %v, want 90", deg)
	}
}

func TestPhaseAngleDegFalseOnUnknownBody(t *testing.T) {
	w := testWorld(t)
	if _, ok := PhaseAngleDeg(w, "earth", "nowhere", 0); ok {
		t.Fatalf("expected false for unknown body")
	}
}
