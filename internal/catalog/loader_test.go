package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadDirParsesItemsAndRecipes(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "thrusters", "ion", "dawn.json"), `{
		"id": "thruster.ion.dawn", "name": "Dawn Ion Thruster", "category": "thruster",
		"mass_kg": 8.5, "isp_s": 3100, "thrust_kn": 0.00009, "thermal_mw": 0.002425,
		"aliases": ["thruster"]
	}`)
	writeFile(t, filepath.Join(root, "Resources", "water.json"), `{
		"id": "water", "name": "Water", "category": "fuel", "density_kg_m3": 1000
	}`)
	writeFile(t, filepath.Join(root, "Resources", "iron_ore.json"), `{
		"id": "iron_ore", "name": "Iron Ore", "category": "material", "density_kg_m3": 5000
	}`)
	writeFile(t, filepath.Join(root, "Recipes", "smelt_iron.json"), `{
		"id": "smelt_iron", "refinery_category": "metals", "base_time_s": 3600, "efficiency": 0.9,
		"inputs": [{"resource": "iron_ore", "mass_kg": 100}],
		"outputs": [{"resource": "iron_ore", "mass_kg": 90}]
	}`)

	reg, err := LoadDir(root)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	part, ok := reg.Lookup("thruster.ion.dawn")
	if !ok {
		t.Fatalf("expected thruster.ion.dawn to be found")
	}
	if part.IspS != 3100 {
		t.Fatalf("IspS = %v, want 3100", part.IspS)
	}

	if _, ok := reg.Lookup("thruster"); !ok {
		t.Fatalf("expected generic alias 'thruster' to resolve")
	}

	recipe, ok := reg.Recipes["smelt_iron"]
	if !ok {
		t.Fatalf("expected smelt_iron recipe to be loaded")
	}
	if recipe.IsShipyardRecipe() {
		t.Fatalf("smelt_iron should not be a shipyard recipe")
	}
	if reg.DensityOf("water") != 1000 {
		t.Fatalf("DensityOf(water) = %v, want 1000", reg.DensityOf("water"))
	}
}

func TestLoadDirRejectsRecipeWithUnknownInput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Recipes", "bad.json"), `{
		"id": "bad", "refinery_category": "metals", "base_time_s": 1,
		"inputs": [{"resource": "nonexistent", "mass_kg": 1}],
		"outputs": []
	}`)

	if _, err := LoadDir(root); err == nil {
		t.Fatalf("expected validation error for unknown input resource")
	}
}

func TestLoadDirRejectsDuplicateItemID(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.json"), `{"id": "dup", "category": "material"}`)
	writeFile(t, filepath.Join(root, "sub", "b.json"), `{"id": "dup", "category": "material"}`)

	if _, err := LoadDir(root); err == nil {
		t.Fatalf("expected duplicate id to be rejected")
	}
}
