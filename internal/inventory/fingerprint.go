package inventory

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"

	"orrery/internal/model"
)

// Fingerprint computes the stable content hash used as a part stack's
// key: SHA1 of a canonical JSON encoding of the
// normalized part, so two identical parts coalesce into the same
// inventory row regardless of arrival order.
func Fingerprint(p model.Part) string {
	canon := canonicalPart(p)
	raw, _ := json.Marshal(map[string]interface{}{"part": canon})
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:])
}

// canonicalPart re-encodes a Part as a sorted-key map so JSON field
// order never affects the hash even if the struct gains fields later.
func canonicalPart(p model.Part) map[string]interface{} {
	m := map[string]interface{}{
		"item_id":  p.ItemID,
		"category": p.Category.String(),
		"mass_kg":  p.MassKg,
	}
	switch p.Category {
	case model.CategoryThruster:
		m["isp_s"] = p.IspS
		m["thrust_kn"] = p.ThrustKN
		m["thermal_mw"] = p.ThermalMW
	case model.CategoryReactor:
		m["reactor_thermal_mw"] = p.ReactorThermalMW
	case model.CategoryGenerator:
		m["generator_thermal_mw_input"] = p.GeneratorThermalInputMW
		m["conversion_efficiency"] = p.ConversionEfficiency
	case model.CategoryRadiator:
		m["heat_rejection_mw"] = p.HeatRejectionMW
	case model.CategoryStorage:
		m["capacity_m3"] = p.CapacityM3
		m["resource_id"] = p.ResourceID
		m["tank_phase"] = int(p.TankPhase)
	case model.CategoryRobonaut, model.CategoryRefinery, model.CategoryConstructor:
		m["specialization"] = p.Specialization
		m["construction_rate_kg_per_hr"] = p.ConstructionRateKgPerH
	}
	return m
}
