package routematrix

import (
	"testing"

	"orrery/internal/model"
)

func TestBuildFindsShortestPathByDeltaV(t *testing.T) {
	edges := []model.TransferEdge{
		{From: "a", To: "b", DvMS: 100, TofS: 10},
		{From: "b", To: "c", DvMS: 100, TofS: 10},
		{From: "a", To: "c", DvMS: 500, TofS: 5},
	}

	m := Build(edges)
	row, ok := m.Row("a", "c")
	if !ok {
		t.Fatalf("expected a route from a to c")
	}
	if row.DvMS != 200 {
		t.Fatalf("DvMS = %v, want 200 (via b)", row.DvMS)
	}
	wantPath := []string{"a", "b", "c"}
	if len(row.Path) != len(wantPath) {
		t.Fatalf("path = %v, want %v", row.Path, wantPath)
	}
	for i := range wantPath {
		if row.Path[i] != wantPath[i] {
			t.Fatalf("path = %v, want %v", row.Path, wantPath)
		}
	}
}

func TestBuildHasNoRouteBetweenDisconnectedNodes(t *testing.T) {
	edges := []model.TransferEdge{
		{From: "a", To: "b", DvMS: 1, TofS: 1},
		{From: "x", To: "y", DvMS: 1, TofS: 1},
	}
	m := Build(edges)
	if _, ok := m.Row("a", "y"); ok {
		t.Fatalf("expected no route between disconnected components")
	}
}

func TestEdgesHashIsOrderIndependent(t *testing.T) {
	a := []model.TransferEdge{
		{From: "a", To: "b", DvMS: 1, TofS: 2},
		{From: "b", To: "c", DvMS: 3, TofS: 4},
	}
	b := []model.TransferEdge{
		{From: "b", To: "c", DvMS: 3, TofS: 4},
		{From: "a", To: "b", DvMS: 1, TofS: 2},
	}
	if EdgesHash(a) != EdgesHash(b) {
		t.Fatalf("hash should not depend on slice order")
	}
}

func TestEdgesHashChangesWithEdgeData(t *testing.T) {
	a := []model.TransferEdge{{From: "a", To: "b", DvMS: 1, TofS: 2}}
	b := []model.TransferEdge{{From: "a", To: "b", DvMS: 2, TofS: 2}}
	if EdgesHash(a) == EdgesHash(b) {
		t.Fatalf("hash should change when dv changes")
	}
}
