package celestial

import (
	"math"
	"testing"

	"orrery/internal/model"
)

func twoBodyDoc() *Document {
	return &Document{
		Bodies: []RawBody{
			{ID: "sun", Name: "Sun", MuKm3S2: 1.32712440018e11, RadiusKm: 696000,
				Position: RawPosition{Type: "fixed"}},
			{ID: "earth", Name: "Earth", Parent: "sun", MuKm3S2: 398600.4418, RadiusKm: 6371,
				SurfaceGravity: 9.80665,
				Position: RawPosition{Type: "keplerian", SemiMajorAxisKm: 149.6e6, PeriodS: 365.25 * 86400}},
		},
		OrbitNodes: []RawOrbitNode{
			{ID: "leo", Name: "LEO", Body: "earth", AltitudeKm: 400},
		},
		SurfaceSites: []RawSurfaceSite{
			{ID: "ksc", Name: "KSC", Body: "earth", OrbitNode: "leo", LandingDvMS: 9400, LandingTofS: 600},
		},
		TransferEdges: []RawEdge{
			{From: "leo", To: "leo", DvMS: 0, TofS: 0},
		},
		DisplayEpochS: 0,
	}
}

func TestBuildResolvesOrbitNodeAroundMovingBody(t *testing.T) {
	r, err := Build(twoBodyDoc())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	earthState, err := r.BodyState("earth", 0)
	if err != nil {
		t.Fatalf("BodyState(earth): %v", err)
	}

	leo := r.Locations["leo"]
	dist := math.Hypot(leo.Coord.X-earthState.R.X, leo.Coord.Y-earthState.R.Y)
	want := 6371.0 + 400.0
	if math.Abs(dist-want) > 1e-6 {
		t.Fatalf("leo offset from earth = %v km, want %v km", dist, want)
	}
}

func TestBuildSynthesizesSurfaceOrbitEdgePair(t *testing.T) {
	r, err := Build(twoBodyDoc())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var up, down bool
	for _, e := range r.Edges {
		if e.From == "ksc" && e.To == "leo" && e.Type == model.EdgeSurface {
			up = true
		}
		if e.From == "leo" && e.To == "ksc" && e.Type == model.EdgeSurface {
			down = true
		}
	}
	if !up || !down {
		t.Fatalf("expected a synthesized ksc<->leo edge pair, got %+v", r.Edges)
	}
}

func TestBuildRejectsCyclicParentChain(t *testing.T) {
	doc := &Document{
		Bodies: []RawBody{
			{ID: "a", Parent: "b", MuKm3S2: 1, Position: RawPosition{Type: "fixed"}},
			{ID: "b", Parent: "a", MuKm3S2: 1, Position: RawPosition{Type: "fixed"}},
		},
	}
	if _, err := Build(doc); err == nil {
		t.Fatalf("expected a cyclic parent chain to be rejected")
	}
}

func TestBuildRejectsUnresolvablePolarCenter(t *testing.T) {
	doc := &Document{
		Bodies: []RawBody{
			{ID: "sun", MuKm3S2: 1, Position: RawPosition{Type: "keplerian", SemiMajorAxisKm: 1, PeriodS: 1}},
			{ID: "station", Parent: "sun", MuKm3S2: 0,
				Position: RawPosition{Type: "polar_from_body", CenterBody: "sun", RadiusKm: 10}},
		},
	}
	if _, err := Build(doc); err == nil {
		t.Fatalf("expected polar_from_body centered on a keplerian body to fail")
	}
}

func TestHeliocentricParentWalksUpToPlanet(t *testing.T) {
	doc := &Document{
		Bodies: []RawBody{
			{ID: "sun", MuKm3S2: 1, Position: RawPosition{Type: "fixed"}},
			{ID: "earth", Parent: "sun", MuKm3S2: 1,
				Position: RawPosition{Type: "keplerian", SemiMajorAxisKm: 1, PeriodS: 1}},
			{ID: "moon", Parent: "earth", MuKm3S2: 1,
				Position: RawPosition{Type: "keplerian", SemiMajorAxisKm: 1, PeriodS: 1}},
		},
	}
	r, err := Build(doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	got, err := r.HeliocentricParent("moon")
	if err != nil {
		t.Fatalf("HeliocentricParent: %v", err)
	}
	if got != "earth" {
		t.Fatalf("HeliocentricParent(moon) = %q, want earth", got)
	}
}
