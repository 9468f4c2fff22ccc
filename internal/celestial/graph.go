package celestial

import (
	"math"
	"sort"

	"orrery/internal/apperrors"
	"orrery/internal/model"
	"orrery/internal/orbital"
)

// Registry is the built, queryable form of a Document: every Body and
// Location keyed by id, the static transfer edges, and the resolved
// display-epoch positions needed to seed routematrix and planner.
type Registry struct {
	Bodies    map[string]model.Body
	Locations map[string]model.Location
	Edges     []model.TransferEdge

	displayEpochS float64

	// staticPositions holds the resolved (x, y) for every fixed or
	// polar_from_body body, computed once at build time since both kinds
	// are time-invariant by definition.
	staticPositions map[string]model.Vec2
}

// Build validates a parsed Document and derives the full location graph:
// body ephemeris inputs, location coordinates at the display epoch, and
// the static transfer edge set (authored, surface/orbit pairs, and
// optionally auto-generated interplanetary hops).
func Build(doc *Document) (*Registry, error) {
	r := &Registry{
		Bodies:          make(map[string]model.Body, len(doc.Bodies)),
		Locations:       make(map[string]model.Location),
		staticPositions: make(map[string]model.Vec2),
		displayEpochS:   doc.DisplayEpochS,
	}

	for _, rb := range doc.Bodies {
		body, err := convertBody(rb)
		if err != nil {
			return nil, err
		}
		if _, dup := r.Bodies[body.ID]; dup {
			return nil, apperrors.ConfigErrorf("bodies", "duplicate body id %q", body.ID)
		}
		r.Bodies[body.ID] = body
	}

	if err := r.checkParentChains(); err != nil {
		return nil, err
	}
	if err := r.resolveStaticPositions(doc.Bodies); err != nil {
		return nil, err
	}

	if err := r.addGroups(doc.Groups); err != nil {
		return nil, err
	}
	if err := r.addOrbitNodes(doc.OrbitNodes); err != nil {
		return nil, err
	}
	if err := r.addLagrangeSystems(doc.LagrangeSystems); err != nil {
		return nil, err
	}
	if err := r.addMarkers(doc.Markers); err != nil {
		return nil, err
	}
	if err := r.addSurfaceSites(doc.SurfaceSites); err != nil {
		return nil, err
	}

	if err := r.addAuthoredEdges(doc.TransferEdges); err != nil {
		return nil, err
	}
	r.addSurfaceOrbitEdges()
	if doc.AutoInterplanetaryEdges {
		r.addAutoInterplanetaryEdges()
	}

	return r, nil
}

func convertBody(rb RawBody) (model.Body, error) {
	if rb.ID == "" {
		return model.Body{}, apperrors.ConfigErrorf("bodies", "body missing id")
	}
	body := model.Body{
		ID:             rb.ID,
		Name:           rb.Name,
		Parent:         rb.Parent,
		MuKm3S2:        rb.MuKm3S2,
		RadiusKm:       rb.RadiusKm,
		SurfaceGravity: rb.SurfaceGravity,
	}

	switch rb.Position.Type {
	case "fixed":
		body.PositionKind = model.PositionFixed
		body.FixedX = rb.Position.XKm
		body.FixedY = rb.Position.YKm
	case "polar_from_body":
		body.PositionKind = model.PositionPolarFromBody
		body.PolarRadiusKm = rb.Position.RadiusKm
		body.PolarAngleRad = degToRad(rb.Position.AngleDeg)
	case "keplerian":
		body.PositionKind = model.PositionKeplerian
		body.Elements = model.KeplerianElements{
			SemiMajorAxisKm: rb.Position.SemiMajorAxisKm,
			Eccentricity:    rb.Position.Eccentricity,
			InclinationRad:  degToRad(rb.Position.InclinationDeg),
			RAANRad:         degToRad(rb.Position.RAANDeg),
			ArgPeriapsisRad: degToRad(rb.Position.ArgPeriapsisDeg),
			MeanAnomaly0Rad: degToRad(rb.Position.MeanAnomaly0Deg),
			PeriodS:         rb.Position.PeriodS,
			EpochS:          rb.Position.EpochS,
		}
	default:
		return model.Body{}, apperrors.ConfigErrorf("bodies."+rb.ID+".position.type",
			"unknown position type %q, want fixed, polar_from_body or keplerian", rb.Position.Type)
	}

	return body, nil
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

// checkParentChains walks every body's Parent reference and rejects
// cycles, so the heliocentric walk and Keplerian mu lookup always
// terminate.
func (r *Registry) checkParentChains() error {
	for id := range r.Bodies {
		visited := map[string]bool{}
		cur := id
		for {
			if cur == "" {
				break
			}
			if visited[cur] {
				return apperrors.ConfigErrorf("bodies", "cyclic parent chain starting at %q", id)
			}
			visited[cur] = true
			b, ok := r.Bodies[cur]
			if !ok {
				return apperrors.ConfigErrorf("bodies."+id, "references unknown parent %q", cur)
			}
			cur = b.Parent
		}
	}
	return nil
}

// resolveStaticPositions computes the (x, y) of every fixed or
// polar_from_body body by repeated passes over the raw position specs:
// fixed bodies seed the map directly, and each pass resolves any
// polar_from_body body whose center is already known. A pass that adds
// nothing with unresolved bodies remaining means the chain is cyclic or
// references an unresolvable (keplerian) center.
func (r *Registry) resolveStaticPositions(raw []RawBody) error {
	byID := make(map[string]RawBody, len(raw))
	for _, rb := range raw {
		byID[rb.ID] = rb
	}

	pending := map[string]bool{}
	for id, b := range r.Bodies {
		switch b.PositionKind {
		case model.PositionFixed:
			r.staticPositions[id] = model.Vec2{X: b.FixedX, Y: b.FixedY}
		case model.PositionPolarFromBody:
			pending[id] = true
		}
	}

	for len(pending) > 0 {
		progressed := false
		for id := range pending {
			rb := byID[id]
			center, ok := r.staticPositions[rb.Position.CenterBody]
			if !ok {
				continue
			}
			b := r.Bodies[id]
			r.staticPositions[id] = model.Vec2{
				X: center.X + b.PolarRadiusKm*math.Cos(b.PolarAngleRad),
				Y: center.Y + b.PolarRadiusKm*math.Sin(b.PolarAngleRad),
			}
			delete(pending, id)
			progressed = true
		}
		if !progressed {
			ids := make([]string, 0, len(pending))
			for id := range pending {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			return apperrors.ConfigErrorf("bodies", "polar_from_body center chain unresolved for %v (cycle or keplerian center)", ids)
		}
	}
	return nil
}

// bodyDisplayXY returns a body's projected (x, y) at the display epoch,
// used to anchor every location kind that hangs off a body.
func (r *Registry) bodyDisplayXY(bodyID string) (model.Vec2, error) {
	if pos, ok := r.staticPositions[bodyID]; ok {
		return pos, nil
	}
	st, err := r.BodyState(bodyID, r.displayEpochS)
	if err != nil {
		return model.Vec2{}, err
	}
	return model.Vec2{X: st.R.X, Y: st.R.Y}, nil
}

func (r *Registry) addGroups(groups []RawGroup) error {
	for _, g := range groups {
		if _, dup := r.Locations[g.ID]; dup {
			return apperrors.ConfigErrorf("groups", "duplicate location id %q", g.ID)
		}
		r.Locations[g.ID] = model.Location{
			ID: g.ID, Name: g.Name, Parent: g.Parent, IsGroup: true,
			Kind: model.KindGroup, SortKey: g.SortKey,
		}
	}
	return nil
}

func (r *Registry) addOrbitNodes(nodes []RawOrbitNode) error {
	for _, n := range nodes {
		if _, dup := r.Locations[n.ID]; dup {
			return apperrors.ConfigErrorf("orbit_nodes", "duplicate location id %q", n.ID)
		}
		body, ok := r.Bodies[n.Body]
		if !ok {
			return apperrors.ConfigErrorf("orbit_nodes."+n.ID, "references unknown body %q", n.Body)
		}
		center, err := r.bodyDisplayXY(n.Body)
		if err != nil {
			return err
		}
		radius := n.RadiusKm
		if radius == 0 {
			radius = body.RadiusKm + n.AltitudeKm
		}
		angle := degToRad(n.AngleDeg)
		r.Locations[n.ID] = model.Location{
			ID: n.ID, Name: n.Name, Parent: n.Parent, Kind: model.KindOrbitNode,
			SortKey: n.SortKey, BodyID: n.Body,
			Coord: model.Vec2{
				X: center.X + radius*math.Cos(angle),
				Y: center.Y + radius*math.Sin(angle),
			},
		}
	}
	return nil
}

// addLagrangeSystems places L1/L2/L3 along the primary-secondary line and
// L4/L5 at the apex of the equilateral triangle they form with the
// primary and secondary, per the circular restricted three-body problem.
func (r *Registry) addLagrangeSystems(systems []RawLagrangeSystem) error {
	for _, sys := range systems {
		primary, err := r.bodyDisplayXY(sys.Primary)
		if err != nil {
			return apperrors.ConfigErrorf("lagrange_systems."+sys.ID, "unknown primary: %v", err)
		}
		secondary, err := r.bodyDisplayXY(sys.Secondary)
		if err != nil {
			return apperrors.ConfigErrorf("lagrange_systems."+sys.ID, "unknown secondary: %v", err)
		}

		dx, dy := secondary.X-primary.X, secondary.Y-primary.Y
		baseAngle := math.Atan2(dy, dx)
		baseDist := math.Hypot(dx, dy)
		if baseDist == 0 {
			return apperrors.ConfigErrorf("lagrange_systems."+sys.ID, "primary and secondary coincide")
		}
		ux, uy := dx/baseDist, dy/baseDist

		for _, pt := range sys.Points {
			if _, dup := r.Locations[pt.ID]; dup {
				return apperrors.ConfigErrorf("lagrange_systems."+sys.ID, "duplicate location id %q", pt.ID)
			}
			var coord model.Vec2
			switch pt.Kind {
			case "line":
				coord = model.Vec2{
					X: secondary.X + pt.Sign*pt.DistanceKm*ux,
					Y: secondary.Y + pt.Sign*pt.DistanceKm*uy,
				}
			case "triangle":
				angle := baseAngle + pt.Sign*(math.Pi/3)
				coord = model.Vec2{
					X: primary.X + sys.SeparationKm*math.Cos(angle),
					Y: primary.Y + sys.SeparationKm*math.Sin(angle),
				}
			default:
				return apperrors.ConfigErrorf("lagrange_systems."+sys.ID, "unknown point kind %q", pt.Kind)
			}
			r.Locations[pt.ID] = model.Location{
				ID: pt.ID, Name: pt.Name, Kind: model.KindLagrange,
				SortKey: pt.SortKey, Coord: coord,
			}
		}
	}
	return nil
}

func (r *Registry) addMarkers(markers []RawMarker) error {
	for _, m := range markers {
		if _, dup := r.Locations[m.ID]; dup {
			return apperrors.ConfigErrorf("markers", "duplicate location id %q", m.ID)
		}
		center, err := r.bodyDisplayXY(m.Body)
		if err != nil {
			return apperrors.ConfigErrorf("markers."+m.ID, "unknown body: %v", err)
		}
		r.Locations[m.ID] = model.Location{
			ID: m.ID, Name: m.Name, Parent: m.Parent, Kind: model.KindMarker,
			SortKey: m.SortKey, BodyID: m.Body,
			Coord: model.Vec2{X: center.X + m.OffsetXKm, Y: center.Y + m.OffsetYKm},
		}
	}
	return nil
}

func (r *Registry) addSurfaceSites(sites []RawSurfaceSite) error {
	for _, s := range sites {
		if _, dup := r.Locations[s.ID]; dup {
			return apperrors.ConfigErrorf("surface_sites", "duplicate location id %q", s.ID)
		}
		body, ok := r.Bodies[s.Body]
		if !ok {
			return apperrors.ConfigErrorf("surface_sites."+s.ID, "references unknown body %q", s.Body)
		}
		if _, ok := r.Locations[s.OrbitNode]; !ok {
			return apperrors.ConfigErrorf("surface_sites."+s.ID, "references unknown orbit node %q", s.OrbitNode)
		}
		center, err := r.bodyDisplayXY(s.Body)
		if err != nil {
			return err
		}
		angle := degToRad(s.SiteAngleDeg)
		resources := make([]model.SiteResource, 0, len(s.Resources))
		for _, res := range s.Resources {
			resources = append(resources, model.SiteResource{ResourceID: res.ResourceID, MassFraction: res.MassFraction})
		}
		r.Locations[s.ID] = model.Location{
			ID: s.ID, Name: s.Name, Parent: s.Parent, Kind: model.KindSurfaceSite,
			SortKey: s.SortKey, BodyID: s.Body, OrbitRef: s.OrbitNode,
			LandingDvMS: s.LandingDvMS, LandingTofS: s.LandingTofS,
			SiteGravityG: body.SurfaceGravity,
			Resources:    resources,
			Coord: model.Vec2{
				X: center.X + body.RadiusKm*math.Cos(angle),
				Y: center.Y + body.RadiusKm*math.Sin(angle),
			},
		}
	}
	return nil
}

func (r *Registry) addAuthoredEdges(edges []RawEdge) error {
	for _, e := range edges {
		if _, ok := r.Locations[e.From]; !ok {
			return apperrors.ConfigErrorf("transfer_edges", "unknown from location %q", e.From)
		}
		if _, ok := r.Locations[e.To]; !ok {
			return apperrors.ConfigErrorf("transfer_edges", "unknown to location %q", e.To)
		}
		r.Edges = append(r.Edges, model.TransferEdge{
			From: e.From, To: e.To, DvMS: e.DvMS, TofS: e.TofS, Type: model.EdgeOrbital,
		})
	}
	return nil
}

// addSurfaceOrbitEdges synthesizes the bidirectional ascent/descent edge
// pair for every surface site, using its authored landing dv and tof.
func (r *Registry) addSurfaceOrbitEdges() {
	ids := make([]string, 0, len(r.Locations))
	for id := range r.Locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		loc := r.Locations[id]
		if loc.Kind != model.KindSurfaceSite {
			continue
		}
		r.Edges = append(r.Edges,
			model.TransferEdge{From: loc.ID, To: loc.OrbitRef, DvMS: loc.LandingDvMS, TofS: loc.LandingTofS, Type: model.EdgeSurface},
			model.TransferEdge{From: loc.OrbitRef, To: loc.ID, DvMS: loc.LandingDvMS, TofS: loc.LandingTofS, Type: model.EdgeSurface},
		)
	}
}

// addAutoInterplanetaryEdges connects the lowest-altitude orbit node of
// every planetary body to every other such node with a Hohmann-estimate
// dv and tof, when the document opts in via "auto_interplanetary_edges".
// Moons and surface-only bodies are excluded since they have no
// heliocentric orbit of their own to base the estimate on.
func (r *Registry) addAutoInterplanetaryEdges() {
	altitude := func(loc model.Location) float64 {
		center, err := r.bodyDisplayXY(loc.BodyID)
		if err != nil {
			return math.Inf(1)
		}
		return math.Hypot(loc.Coord.X-center.X, loc.Coord.Y-center.Y)
	}

	primaryNode := map[string]model.Location{}
	for _, loc := range r.Locations {
		if loc.Kind != model.KindOrbitNode {
			continue
		}
		body, ok := r.Bodies[loc.BodyID]
		if !ok || body.Parent != heliocentricAnchor(r.Bodies) {
			continue
		}
		cur, exists := primaryNode[loc.BodyID]
		if !exists || altitude(loc) < altitude(cur) {
			primaryNode[loc.BodyID] = loc
		}
	}

	bodyIDs := make([]string, 0, len(primaryNode))
	for id := range primaryNode {
		bodyIDs = append(bodyIDs, id)
	}
	sort.Strings(bodyIDs)

	sunMu := 0.0
	for _, b := range r.Bodies {
		if b.Parent == "" {
			sunMu = b.MuKm3S2
			break
		}
	}
	if sunMu <= 0 {
		return
	}

	for i, fromBody := range bodyIDs {
		for _, toBody := range bodyIDs[i+1:] {
			fromLoc, toLoc := primaryNode[fromBody], primaryNode[toBody]
			r1, r2 := nodeRadius(fromLoc), nodeRadius(toLoc)
			dv := orbital.HohmannDvMS(r1, r2, sunMu)
			tof := orbital.HohmannTofS(r1, r2, sunMu)
			r.Edges = append(r.Edges,
				model.TransferEdge{From: fromLoc.ID, To: toLoc.ID, DvMS: dv, TofS: tof, Type: model.EdgeInterplanetary},
				model.TransferEdge{From: toLoc.ID, To: fromLoc.ID, DvMS: dv, TofS: tof, Type: model.EdgeInterplanetary},
			)
		}
	}
}

func nodeRadius(loc model.Location) float64 {
	return math.Hypot(loc.Coord.X, loc.Coord.Y)
}

func heliocentricAnchor(bodies map[string]model.Body) string {
	for _, b := range bodies {
		if b.Parent == "" {
			return b.ID
		}
	}
	return ""
}

// HeliocentricParent walks up a body's Parent chain to the body directly
// orbiting the central star, used by the planner to pick which Lambert
// frame to solve a leg in.
func (r *Registry) HeliocentricParent(bodyID string) (string, error) {
	cur, ok := r.Bodies[bodyID]
	if !ok {
		return "", apperrors.NotFoundf("unknown body %q", bodyID)
	}
	for cur.Parent != "" {
		next, ok := r.Bodies[cur.Parent]
		if !ok {
			return "", apperrors.Internalf("body %q has unknown parent %q", cur.ID, cur.Parent)
		}
		if next.Parent == "" {
			return cur.ID, nil
		}
		cur = next
	}
	return cur.ID, nil
}
