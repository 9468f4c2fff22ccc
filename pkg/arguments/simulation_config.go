package arguments

import (
	"time"

	"github.com/spf13/viper"
)

// SimulationConfig :
// Describes the properties needed to stand up one instance of the
// simulation: where to load the celestial topology and part catalog
// from, what clock scale to start at, how large the Lambert-solution
// cache should be, and how to reach the backing database.
// Each simulation field is read from the viper key `Simulation.<Field>`
// and each DB field from `Database.Host`, `Database.Port`,
// `Database.Name`, `Database.User` or `Database.Password`
// (case-insensitive), so it can be supplied through the same config
// file or environment variables `Parse` already reads.
//
// The `CelestialConfigPath` points at the YAML or JSON document parsed
// by the celestial package into the navigable location graph.
//
// The `CatalogRoot` is the directory the catalog package walks to
// build the part/recipe registry.
//
// The `ClockScale` is the simulation-seconds-per-real-second ratio the
// clock starts at before any persisted snapshot is restored.
//
// The `LegCacheSize` bounds the Lambert-leg LRU cache's entry count.
//
// The `PorkchopPerSecond` bounds how often a full porkchop-grid
// recomputation may run; one limit is shared by every caller.
//
// The `BackgroundUpdate` is the interval at which the server's cron
// process persists the clock snapshot and refreshes the route matrix.
//
// The `DBHost`, `DBPort`, `DBName`, `DBUser` and `DBPassword` describe
// the Postgres connection used by the store package.
type SimulationConfig struct {
	CelestialConfigPath string
	CatalogRoot         string
	ClockScale          float64
	LegCacheSize        int
	PorkchopPerSecond   float64
	BackgroundUpdate    time.Duration

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
}

// ParseSimulationConfig :
// Reads the simulation-specific configuration on top of whatever
// config file `Parse` already loaded into viper, applying defaults
// suited to a local development environment.
func ParseSimulationConfig() SimulationConfig {
	cfg := SimulationConfig{
		CelestialConfigPath: "data/config/celestial.yaml",
		CatalogRoot:         "data/catalog",
		ClockScale:          1,
		LegCacheSize:        4096,
		PorkchopPerSecond:   0.2,
		BackgroundUpdate:    30 * time.Second,

		DBHost: "localhost",
		DBPort: 5432,
		DBName: "orrery",
		DBUser: "orrery",
	}

	if viper.IsSet("Simulation.CelestialConfigPath") {
		cfg.CelestialConfigPath = viper.GetString("Simulation.CelestialConfigPath")
	}
	if viper.IsSet("Simulation.CatalogRoot") {
		cfg.CatalogRoot = viper.GetString("Simulation.CatalogRoot")
	}
	if viper.IsSet("Simulation.ClockScale") {
		cfg.ClockScale = viper.GetFloat64("Simulation.ClockScale")
	}
	if viper.IsSet("Simulation.LegCacheSize") {
		cfg.LegCacheSize = viper.GetInt("Simulation.LegCacheSize")
	}
	if viper.IsSet("Simulation.PorkchopPerSecond") {
		cfg.PorkchopPerSecond = viper.GetFloat64("Simulation.PorkchopPerSecond")
	}
	if viper.IsSet("Simulation.BackgroundUpdate") {
		cfg.BackgroundUpdate = viper.GetDuration("Simulation.BackgroundUpdate")
	}

	if viper.IsSet("Database.Host") {
		cfg.DBHost = viper.GetString("Database.Host")
	}
	if viper.IsSet("Database.Port") {
		cfg.DBPort = viper.GetInt("Database.Port")
	}
	if viper.IsSet("Database.Name") {
		cfg.DBName = viper.GetString("Database.Name")
	}
	if viper.IsSet("Database.User") {
		cfg.DBUser = viper.GetString("Database.User")
	}
	if viper.IsSet("Database.Password") {
		cfg.DBPassword = viper.GetString("Database.Password")
	}

	return cfg
}
