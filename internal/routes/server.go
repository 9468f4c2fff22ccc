// Package routes wires the simulation engine into a minimal HTTP API:
// enough surface to exercise pkg/dispatcher and pkg/handlers end to
// end, without the core packages (fleet, industry, org, planner)
// importing anything transport-related themselves.
package routes

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"

	"orrery/internal/engine"
	"orrery/pkg/background"
	"orrery/pkg/dispatcher"
	"orrery/pkg/logger"
)

// Server serves the orrery HTTP API over a *engine.World.
type Server struct {
	port             int
	backgroundUpdate time.Duration
	router           *dispatcher.Router
	world            *engine.World
	log              logger.Logger
	cron             *background.Process
}

// ErrUnexpectedServeError indicates the serve loop panicked.
var ErrUnexpectedServeError = fmt.Errorf("unexpected error occurred while serving http requests")

// ErrServerShutdownError indicates the graceful shutdown failed.
var ErrServerShutdownError = fmt.Errorf("unexpected error occurred while shutting down the server")

// NewServer builds a server bound to an already-assembled World. The
// cron interval controls how often the background process persists
// the clock snapshot and refreshes the route matrix.
func NewServer(port int, backgroundUpdate time.Duration, w *engine.World, log logger.Logger) *Server {
	return &Server{
		port:             port,
		backgroundUpdate: backgroundUpdate,
		world:            w,
		log:              log,
	}
}

func (s *Server) route(method, name string, handler http.HandlerFunc) {
	s.router.HandleFunc(name, dispatcher.WithSafetyNet(s.log, handler)).Methods(method)
}

func (s *Server) routes() {
	s.route("GET", "/ships/[a-zA-Z0-9-]+", s.getShip())
	s.route("POST", "/ships/[a-zA-Z0-9-]+/dispatch", s.dispatchShip())
	s.route("POST", "/ships/[a-zA-Z0-9-]+/refuel", s.refuelShip())

	s.route("GET", "/corps/[a-zA-Z0-9-]+", s.getCorp())
	s.route("POST", "/corps/[a-zA-Z0-9-]+/teams", s.hireTeam())
	s.route("POST", "/corps/[a-zA-Z0-9-]+/unlocks", s.unlockTech())
	s.route("POST", "/corps/[a-zA-Z0-9-]+/leo-boosts", s.boostToLEO())

	s.route("POST", "/prospect", s.prospectSite())

	s.route("GET", "/clock", s.getClock())

	s.route("GET", "/legs/porkchop", s.getPorkchop())
}

// Serve starts listening on the configured port, blocking until an
// interrupt signal is received, then shuts down gracefully.
func (s *Server) Serve() error {
	if s.router != nil {
		panic(fmt.Errorf("cannot start serving, process already running"))
	}

	s.router = dispatcher.NewRouter(s.log)
	s.routes()

	s.cron = background.NewProcess(s.backgroundUpdate, s.log)
	s.cron.WithModule("cron").WithRetry().WithOperation(func() (bool, error) {
		if err := s.world.PersistClock(); err != nil {
			return false, err
		}
		if err := s.world.RefreshMatrixIfStale(); err != nil {
			return false, err
		}
		return true, nil
	})
	if err := s.cron.Start(); err != nil {
		return err
	}
	defer s.cron.Stop()

	aMethods := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	aOrigins := handlers.AllowedOrigins([]string{"*"})
	aHeaders := handlers.AllowedHeaders([]string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"})
	corsRouter := handlers.CORS(aHeaders, aOrigins, aMethods)(s.router)

	server := &http.Server{
		Addr:    ":" + strconv.FormatInt(int64(s.port), 10),
		Handler: corsRouter,
	}

	var serveErr error
	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer func() {
			if err := recover(); err != nil {
				s.log.Trace(logger.Fatal, "server", fmt.Sprintf("caught unexpected error while serving requests (err: %v)", err))
				serveErr = ErrUnexpectedServeError
			}
			wg.Done()
			s.log.Trace(logger.Notice, "server", "server has stopped")
		}()

		s.log.Trace(logger.Notice, "server", "server has started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		s.log.Trace(logger.Error, "server", fmt.Sprintf("caught unexpected error while shutting down server (err: %v)", err))
		return ErrServerShutdownError
	}

	wg.Wait()
	return serveErr
}
