// Package engine bundles the subsystems every request-handling
// operation needs into a single instance: the
// celestial registry, catalog, route matrix, Lambert cache, clock and
// store, passed by reference into fleet/industry/org/inventory
// operations instead of each of them re-deriving its own context.
package engine

import (
	"orrery/internal/catalog"
	"orrery/internal/celestial"
	"orrery/internal/clock"
	"orrery/internal/locker"
	"orrery/internal/planner"
	"orrery/internal/routematrix"
	"orrery/internal/store"
	"orrery/pkg/logger"
)

// World is the read-mostly simulation context shared by every core
// operation within one request/transaction.
type World struct {
	Store     store.Store
	Celestial *celestial.Registry
	Catalog   *catalog.Registry
	Matrix    *routematrix.Matrix
	Legs      *planner.LegCache
	Clock     *clock.Clock

	// Ships serializes settle-on-access plus mutation per ship id, so
	// settle-on-access always precedes validation even when two
	// requests race on the same ship outside of a DB transaction (the
	// in-memory Store and concurrent handlers both need this).
	Ships *locker.ConcurrentLocker
}

// New assembles a World from its already-built parts. legCacheSize bounds
// the Lambert-leg LRU (0 falls back to the hard 1024-entry cap).
func New(st store.Store, cel *celestial.Registry, cat *catalog.Registry, porkchopPerSecond float64, legCacheSize int, log logger.Logger) *World {
	return &World{
		Store:     st,
		Celestial: cel,
		Catalog:   cat,
		Matrix:    routematrix.Build(cel.Edges),
		Legs:      planner.NewLegCache(porkchopPerSecond, legCacheSize),
		Clock:     clock.New(),
		Ships:     locker.NewConcurrentLocker(log),
	}
}

// RefreshMatrixIfStale rebuilds the route matrix when the edge set's
// hash no longer matches the persisted one, and
// persists the new hash. It also clears the Lambert leg cache since a
// changed topology can change which legs are even valid.
func (w *World) RefreshMatrixIfStale() error {
	currentHash := routematrix.EdgesHash(w.Celestial.Edges)
	stored, ok, err := w.Store.LoadEdgesHash()
	if err != nil {
		return err
	}
	if ok && stored == currentHash {
		return nil
	}
	w.Matrix = routematrix.Build(w.Celestial.Edges)
	w.Legs.Clear()
	return w.Store.SaveEdgesHash(currentHash)
}

// RestoreClock replaces the World's clock with one built from the
// persisted snapshot, if any; called once at startup after the Store is
// available.
func (w *World) RestoreClock() error {
	snap, ok, err := w.Store.LoadClockSnapshot()
	if err != nil {
		return err
	}
	if ok {
		w.Clock = clock.Import(snap)
	}
	return nil
}

// PersistClock writes the clock's current anchors back to the store, so
// a restart sees continuous game time.
func (w *World) PersistClock() error {
	return w.Store.SaveClockSnapshot(w.Clock.Export())
}
