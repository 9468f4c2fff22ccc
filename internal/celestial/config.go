// Package celestial parses the declarative topology document (the
// ground truth for the universe) and exposes the derived location
// graph, static transfer edges, and body ephemeris.
//
// Validation errors name the offending field rather than returning a
// bare "invalid config".
package celestial

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"orrery/internal/apperrors"
)

// RawPosition is the JSON/YAML representation of a body's position
// specification.
type RawPosition struct {
	Type string `json:"type" yaml:"type"`

	XKm float64 `json:"x_km" yaml:"x_km"`
	YKm float64 `json:"y_km" yaml:"y_km"`

	CenterBody string  `json:"center_body" yaml:"center_body"`
	RadiusKm   float64 `json:"radius_km" yaml:"radius_km"`
	AngleDeg   float64 `json:"angle_deg" yaml:"angle_deg"`

	SemiMajorAxisKm float64 `json:"a_km" yaml:"a_km"`
	Eccentricity    float64 `json:"e" yaml:"e"`
	InclinationDeg  float64 `json:"i_deg" yaml:"i_deg"`
	RAANDeg         float64 `json:"raan_deg" yaml:"raan_deg"`
	ArgPeriapsisDeg float64 `json:"arg_periapsis_deg" yaml:"arg_periapsis_deg"`
	MeanAnomaly0Deg float64 `json:"mean_anomaly0_deg" yaml:"mean_anomaly0_deg"`
	PeriodS         float64 `json:"period_s" yaml:"period_s"`
	EpochS          float64 `json:"epoch_s" yaml:"epoch_s"`
}

// RawBody is the JSON/YAML representation of a Body.
type RawBody struct {
	ID             string      `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name"`
	Parent         string      `json:"parent" yaml:"parent"`
	MuKm3S2        float64     `json:"mu_km3_s2" yaml:"mu_km3_s2"`
	RadiusKm       float64     `json:"radius_km" yaml:"radius_km"`
	SurfaceGravity float64     `json:"surface_gravity_m_s2" yaml:"surface_gravity_m_s2"`
	Position       RawPosition `json:"position" yaml:"position"`
}

// RawGroup is a non-navigable grouping location.
type RawGroup struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Parent  string `json:"parent" yaml:"parent"`
	SortKey int    `json:"sort_key" yaml:"sort_key"`
}

// RawOrbitNode is a navigable node orbiting a body.
type RawOrbitNode struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Parent      string  `json:"parent" yaml:"parent"`
	Body        string  `json:"body" yaml:"body"`
	RadiusKm    float64 `json:"radius_km" yaml:"radius_km"`
	AltitudeKm  float64 `json:"altitude_km" yaml:"altitude_km"`
	AngleDeg    float64 `json:"angle_deg" yaml:"angle_deg"`
	SortKey     int     `json:"sort_key" yaml:"sort_key"`
}

// RawLagrangeSystem declares either a line solution (L1/L2/L3) or a
// triangle solution (L4/L5) of the circular restricted three-body
// problem, around a primary/secondary pair.
type RawLagrangeSystem struct {
	ID             string  `json:"id" yaml:"id"`
	Primary        string  `json:"primary" yaml:"primary"`
	Secondary      string  `json:"secondary" yaml:"secondary"`
	SeparationKm   float64 `json:"separation_km" yaml:"separation_km"`
	Points         []RawLagrangePoint `json:"points" yaml:"points"`
}

// RawLagrangePoint is one point (L1..L5) within a RawLagrangeSystem.
type RawLagrangePoint struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Kind       string  `json:"kind" yaml:"kind"` // "line" or "triangle"
	DistanceKm float64 `json:"distance_km" yaml:"distance_km"`
	Sign       float64 `json:"sign" yaml:"sign"` // +1 or -1 for line points
	SortKey    int     `json:"sort_key" yaml:"sort_key"`
}

// RawMarker is a fixed offset from a body with no navigation meaning
// beyond display.
type RawMarker struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Parent     string  `json:"parent" yaml:"parent"`
	Body       string  `json:"body" yaml:"body"`
	OffsetXKm  float64 `json:"offset_x_km" yaml:"offset_x_km"`
	OffsetYKm  float64 `json:"offset_y_km" yaml:"offset_y_km"`
	SortKey    int     `json:"sort_key" yaml:"sort_key"`
}

// RawSurfaceSite is a site on a body's surface, linked to exactly one
// orbit node for ascent/descent.
type RawSurfaceSite struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Parent       string  `json:"parent" yaml:"parent"`
	Body         string  `json:"body" yaml:"body"`
	OrbitNode    string  `json:"orbit_node" yaml:"orbit_node"`
	SiteAngleDeg float64 `json:"site_angle_deg" yaml:"site_angle_deg"`
	LandingDvMS  float64 `json:"landing_dv_m_s" yaml:"landing_dv_m_s"`
	LandingTofS  float64 `json:"landing_tof_s" yaml:"landing_tof_s"`
	SortKey      int     `json:"sort_key" yaml:"sort_key"`
	Resources    []RawSiteResource `json:"resources" yaml:"resources"`
}

// RawSiteResource declares one resource a surface site can be
// prospected and mined for.
type RawSiteResource struct {
	ResourceID   string  `json:"resource_id" yaml:"resource_id"`
	MassFraction float64 `json:"mass_fraction" yaml:"mass_fraction"`
}

// RawEdge is an authored directed transfer edge.
type RawEdge struct {
	From string  `json:"from" yaml:"from"`
	To   string  `json:"to" yaml:"to"`
	DvMS float64 `json:"dv_m_s" yaml:"dv_m_s"`
	TofS float64 `json:"tof_s" yaml:"tof_s"`
}

// Document is the top-level celestial config document.
type Document struct {
	Bodies                 []RawBody           `json:"bodies" yaml:"bodies"`
	Groups                 []RawGroup          `json:"groups" yaml:"groups"`
	OrbitNodes             []RawOrbitNode      `json:"orbit_nodes" yaml:"orbit_nodes"`
	LagrangeSystems        []RawLagrangeSystem `json:"lagrange_systems" yaml:"lagrange_systems"`
	SurfaceSites           []RawSurfaceSite    `json:"surface_sites" yaml:"surface_sites"`
	Markers                []RawMarker         `json:"markers" yaml:"markers"`
	TransferEdges          []RawEdge           `json:"transfer_edges" yaml:"transfer_edges"`
	AutoInterplanetaryEdges bool               `json:"auto_interplanetary_edges" yaml:"auto_interplanetary_edges"`
	DisplayEpochS          float64             `json:"display_epoch_s" yaml:"display_epoch_s"`
}

// LoadFile reads and parses a celestial config document from path. It
// accepts either JSON or YAML, selected by the file extension; YAML is
// the preferred format for hand-authored topology files, JSON remains
// available for machine-generated ones.
func LoadFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.ConfigErrorf(path, "could not read celestial config: %v", err)
	}

	var doc Document
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, apperrors.ConfigErrorf(path, "invalid YAML: %v", err)
		}
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, apperrors.ConfigErrorf(path, "invalid JSON: %v", err)
		}
	}

	return &doc, nil
}
