package main

import (
	"flag"
	"fmt"
	"runtime/debug"

	"orrery/internal/catalog"
	"orrery/internal/celestial"
	"orrery/internal/engine"
	"orrery/internal/routes"
	"orrery/internal/store"
	"orrery/pkg/arguments"
	"orrery/pkg/db"
	"orrery/pkg/logger"
)

// usage prints a short usage line for the -config flag.
func usage() {
	fmt.Println("Usage:")
	fmt.Println("./orreryd -config=[file] for configuration file to use (development/production)")
}

// main loads the celestial topology and part catalog, assembles the
// simulation World, and serves the HTTP API built on top of it.
func main() {
	help := flag.Bool("h", false, "Print usage")
	conf := flag.String("config", "", "Configuration file to customize app behavior (development/production)")
	usePostgres := flag.Bool("postgres", false, "Use the Postgres-backed store instead of the in-memory one")

	flag.Parse()

	if *help {
		usage()
	}

	trueConf := ""
	if conf != nil {
		trueConf = *conf
	}
	metadata := arguments.Parse(trueConf)
	simConfig := arguments.ParseSimulationConfig()

	log := logger.NewStdLogger(metadata.InstanceID, metadata.PublicIPv4)

	defer func() {
		if err := recover(); err != nil {
			stack := string(debug.Stack())
			log.Trace(logger.Fatal, "main", fmt.Sprintf("app crashed after error: %v (stack: %s)", err, stack))
		}
		log.Release()
	}()

	cel, err := celestial.Load(simConfig.CelestialConfigPath)
	if err != nil {
		panic(fmt.Errorf("could not load celestial config: %v", err))
	}

	cat, err := catalog.LoadAndCache(simConfig.CatalogRoot)
	if err != nil {
		panic(fmt.Errorf("could not load catalog: %v", err))
	}

	var st store.Store
	if *usePostgres {
		dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
			simConfig.DBHost, simConfig.DBPort, simConfig.DBName, simConfig.DBUser, simConfig.DBPassword)
		if err := store.ApplyMigrations(dsn); err != nil {
			panic(fmt.Errorf("could not apply migrations: %v", err))
		}

		dbase := db.NewPool(log)
		proxy := db.NewProxy(dbase)
		st = store.NewPostgres(proxy)
	} else {
		st = store.NewMemory()
	}

	w := engine.New(st, cel, cat, simConfig.PorkchopPerSecond, simConfig.LegCacheSize, log)
	w.Clock.SetScale(simConfig.ClockScale)
	if err := w.RestoreClock(); err != nil {
		panic(fmt.Errorf("could not restore clock: %v", err))
	}
	if err := w.RefreshMatrixIfStale(); err != nil {
		panic(fmt.Errorf("could not build route matrix: %v", err))
	}

	server := routes.NewServer(metadata.Port, simConfig.BackgroundUpdate, w, log)

	if err := server.Serve(); err != nil {
		panic(fmt.Errorf("unexpected error while listening to port %d (err: %v)", metadata.Port, err))
	}

	if err := w.PersistClock(); err != nil {
		log.Trace(logger.Error, "main", fmt.Sprintf("could not persist clock on shutdown (err: %v)", err))
	}
}
