package db

import (
	"fmt"
	"sync"
	"time"

	"orrery/pkg/logger"

	"github.com/jackc/pgx"
	"github.com/spf13/viper"
)

// connParams holds the `Database.*` settings read from config: where
// to find Postgres, how to authenticate, how long to wait between
// reconnect attempts, and how many concurrent connections to keep
// open.
type connParams struct {
	host            string
	port            int
	name            string
	user            string
	password        string
	timeoutSeconds  int
	connectionsPool int
}

func loadConnParams() connParams {
	p := connParams{
		host:            "localhost",
		port:            5432,
		timeoutSeconds:  5,
		connectionsPool: 5,
	}

	if viper.IsSet("Database.Host") {
		p.host = viper.GetString("Database.Host")
	}
	if viper.IsSet("Database.Port") {
		p.port = viper.GetInt("Database.Port")
	}
	if viper.IsSet("Database.Name") {
		p.name = viper.GetString("Database.Name")
	}
	if viper.IsSet("Database.User") {
		p.user = viper.GetString("Database.User")
	}
	if viper.IsSet("Database.Password") {
		p.password = viper.GetString("Database.Password")
	}
	if viper.IsSet("Database.Timeout") {
		p.timeoutSeconds = viper.GetInt("Database.Timeout")
	}
	if viper.IsSet("Database.ConnectionsPool") {
		p.connectionsPool = viper.GetInt("Database.ConnectionsPool")
	}

	if p.name == "" {
		panic(fmt.Errorf("missing database name in configuration"))
	}
	if p.user == "" {
		panic(fmt.Errorf("missing database user in configuration"))
	}
	if p.password == "" {
		panic(fmt.Errorf("missing database password in configuration"))
	}
	if p.port < 0 || p.port >= (1<<16) {
		panic(fmt.Errorf("invalid database port %d in configuration", p.port))
	}
	if p.connectionsPool <= 0 {
		panic(fmt.Errorf("invalid database connections pool %d in configuration", p.connectionsPool))
	}

	return p
}

// DB wraps a pgx connection pool with a reconnect loop so the rest of
// the module never has to know whether the connection is currently
// up: DBExecute/DBQuery just fail until Healthcheck re-establishes it.
type DB struct {
	pool   *pgx.ConnPool
	mu     sync.Mutex
	log    logger.Logger
	params connParams
}

// NewPool connects (or starts trying to) to the Postgres instance
// described in configuration, and schedules a periodic Healthcheck to
// recover from a dropped connection.
func NewPool(log logger.Logger) *DB {
	params := loadConnParams()

	dbase := &DB{
		log:    log,
		params: params,
	}
	dbase.connect()

	ticker := time.NewTicker(time.Duration(params.timeoutSeconds) * time.Second)
	go func() {
		for range ticker.C {
			dbase.Healthcheck()
		}
	}()

	return dbase
}

func (d *DB) connect() bool {
	p := d.params
	d.log.Trace(logger.Info, "db", fmt.Sprintf("connecting to %q (user %q, host %s:%d)", p.name, p.user, p.host, p.port))

	pool, err := pgx.NewConnPool(pgx.ConnPoolConfig{
		ConnConfig: pgx.ConnConfig{
			Host:     p.host,
			Database: p.name,
			Port:     uint16(p.port),
			User:     p.user,
			Password: p.password,
		},
		MaxConnections: p.connectionsPool,
		AcquireTimeout: 0,
	})
	if err != nil {
		d.log.Trace(logger.Warning, "db", fmt.Sprintf("connection to %q failed (err: %v)", p.name, err))
		return false
	}

	d.log.Trace(logger.Info, "db", fmt.Sprintf("connected to %q as %q", p.name, p.user))

	d.mu.Lock()
	d.pool = pool
	d.mu.Unlock()

	return true
}

// Healthcheck reconnects if the pool is missing or reports zero live
// connections. It does not detect every way a connection can go
// stale; the next failed query will.
func (d *DB) Healthcheck() {
	d.mu.Lock()
	pool := d.pool
	d.mu.Unlock()

	if pool == nil || pool.Stat().CurrentConnections == 0 {
		d.connect()
	}
}

// DBExecute runs a mutating statement against the pool.
func (d *DB) DBExecute(query string, args ...interface{}) (*pgx.CommandTag, error) {
	d.mu.Lock()
	pool := d.pool
	d.mu.Unlock()

	if pool == nil {
		return nil, fmt.Errorf("cannot execute query on %q: no active connection", d.params.name)
	}

	tag, err := pool.Exec(query, args...)
	return &tag, err
}

// DBQuery runs a read-only statement against the pool.
func (d *DB) DBQuery(query string, args ...interface{}) (*pgx.Rows, error) {
	d.mu.Lock()
	pool := d.pool
	d.mu.Unlock()

	if pool == nil {
		return nil, fmt.Errorf("cannot query %q: no active connection", d.params.name)
	}

	return pool.Query(query, args...)
}
