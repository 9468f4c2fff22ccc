// Package routematrix computes and caches the all-pairs shortest path
// over the static transfer edge graph: Dijkstra by delta-v, carrying
// time-of-flight and the full path along the chosen route. The result
// is rebuilt only when the edge set actually changes, detected by
// hashing a canonical JSON encoding of the edges.
package routematrix

import (
	"container/heap"

	"orrery/internal/model"
)

// Matrix is the built all-pairs shortest path table, indexed by
// (from, to) location id pairs.
type Matrix struct {
	Rows map[rowKey]model.MatrixRow
}

type rowKey struct {
	From, To string
}

// Row looks up the shortest path between two locations.
func (m *Matrix) Row(from, to string) (model.MatrixRow, bool) {
	r, ok := m.Rows[rowKey{from, to}]
	return r, ok
}

type adjacency map[string][]model.TransferEdge

// Build runs Dijkstra from every leaf location, weighted by DvMS, and
// returns the complete all-pairs table.
func Build(edges []model.TransferEdge) *Matrix {
	adj := make(adjacency)
	nodes := map[string]bool{}
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e)
		nodes[e.From] = true
		nodes[e.To] = true
	}

	m := &Matrix{Rows: make(map[rowKey]model.MatrixRow)}
	for src := range nodes {
		for _, row := range dijkstraFrom(src, adj, nodes) {
			m.Rows[rowKey{row.From, row.To}] = row
		}
	}
	return m
}

type heapItem struct {
	node string
	dv   float64
	tof  float64
	path []string
}

type priorityQueue []heapItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dv < pq[j].dv }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(heapItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func dijkstraFrom(src string, adj adjacency, nodes map[string]bool) []model.MatrixRow {
	best := map[string]heapItem{src: {node: src, dv: 0, tof: 0, path: []string{src}}}
	visited := map[string]bool{}

	pq := &priorityQueue{best[src]}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(heapItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		for _, e := range adj[cur.node] {
			if visited[e.To] {
				continue
			}
			candidate := heapItem{
				node: e.To,
				dv:   cur.dv + e.DvMS,
				tof:  cur.tof + e.TofS,
				path: appendPath(cur.path, e.To),
			}
			if existing, ok := best[e.To]; !ok || candidate.dv < existing.dv {
				best[e.To] = candidate
				heap.Push(pq, candidate)
			}
		}
	}

	rows := make([]model.MatrixRow, 0, len(best))
	for dst, item := range best {
		if dst == src {
			continue
		}
		rows = append(rows, model.MatrixRow{
			From: src, To: dst, DvMS: item.dv, TofS: item.tof, Path: item.path,
		})
	}
	return rows
}

func appendPath(path []string, next string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = next
	return out
}
