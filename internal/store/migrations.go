package store

import (
	"database/sql"
	"fmt"

	// Registers the "postgres" driver with database/sql. The rest of the
	// store package talks to the DB through pgx/db.Proxy; migrations run
	// over a plain database/sql connection since they're one-shot DDL
	// statements, not part of the query/insert traffic db.Proxy wraps.
	_ "github.com/lib/pq"
)

// Migration is one ordered, idempotent schema change: a stable id, a
// human description, and the DDL to apply. Applying the same migration
// twice must be harmless (every statement uses IF NOT EXISTS / IF
// EXISTS), since ApplyMigrations re-derives the set still needed from
// the schema_migrations table rather than trusting a version counter.
type Migration struct {
	ID          string
	Description string
	Apply       func(*sql.Tx) error
}

func migrations() []Migration {
	return []Migration{
		{ID: "0001_sim_meta", Description: "clock snapshot and edges-hash storage", Apply: migration0001},
		{ID: "0002_ships", Description: "ships, parts and cargo as jsonb columns", Apply: migration0002},
		{ID: "0003_inventory", Description: "location inventory stacks", Apply: migration0003},
		{ID: "0004_industry", Description: "deployed equipment and production jobs", Apply: migration0004},
		{ID: "0005_organizations", Description: "corporations, research teams, unlocks", Apply: migration0005},
		{ID: "0006_prospecting", Description: "prospecting results and LEO-boost ledger", Apply: migration0006},
	}
}

// ApplyMigrations connects to the database described by dsn, ensures
// schema_migrations exists, and applies every migration not yet
// recorded there, in order, each inside its own transaction.
func ApplyMigrations(dsn string) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("could not open DB connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			migration_id TEXT PRIMARY KEY,
			description  TEXT NOT NULL,
			applied_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`); err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := conn.Query(`SELECT migration_id FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("could not list applied migrations: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		applied[id] = true
	}
	rows.Close()

	for _, m := range migrations() {
		if applied[m.ID] {
			continue
		}
		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("migration %s: begin: %w", m.ID, err)
		}
		if err := m.Apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s: %w", m.ID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (migration_id, description) VALUES ($1, $2)`,
			m.ID, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s: recording: %w", m.ID, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %s: commit: %w", m.ID, err)
		}
	}
	return nil
}

func migration0001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS sim_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS edges_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

func migration0002(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS ships (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			owner_corp_id  TEXT NOT NULL,
			color_hex      TEXT NOT NULL DEFAULT '',
			shape          TEXT NOT NULL DEFAULT '',
			size_m         DOUBLE PRECISION NOT NULL DEFAULT 0,
			parts          JSONB NOT NULL DEFAULT '[]',
			fuel_kg        DOUBLE PRECISION NOT NULL DEFAULT 0,
			cargo          JSONB NOT NULL DEFAULT '[]',
			location_id    TEXT NOT NULL DEFAULT '',
			from_location  TEXT NOT NULL DEFAULT '',
			to_location    TEXT NOT NULL DEFAULT '',
			departed_at    TIMESTAMPTZ,
			arrives_at     TIMESTAMPTZ,
			transfer_path  JSONB NOT NULL DEFAULT '[]',
			planned_dv_m_s DOUBLE PRECISION NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_ships_owner ON ships(owner_corp_id);
	`)
	return err
}

func migration0003(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS location_inventory_stacks (
			location_id   TEXT NOT NULL,
			owner_corp_id TEXT NOT NULL,
			kind          TEXT NOT NULL,
			stack_key     TEXT NOT NULL,
			payload       JSONB NOT NULL,
			PRIMARY KEY (location_id, owner_corp_id, kind, stack_key)
		);
		CREATE INDEX IF NOT EXISTS idx_stacks_location ON location_inventory_stacks(location_id, owner_corp_id);
	`)
	return err
}

func migration0004(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS deployed_equipment (
			id            TEXT PRIMARY KEY,
			location_id   TEXT NOT NULL,
			owner_corp_id TEXT NOT NULL,
			item_id       TEXT NOT NULL,
			status        TEXT NOT NULL,
			payload       JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_equipment_location ON deployed_equipment(location_id);

		CREATE TABLE IF NOT EXISTS production_jobs (
			id           TEXT PRIMARY KEY,
			equipment_id TEXT NOT NULL REFERENCES deployed_equipment(id) ON DELETE CASCADE,
			job_type     TEXT NOT NULL,
			status       TEXT NOT NULL,
			payload      JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_equipment ON production_jobs(equipment_id);
	`)
	return err
}

func migration0005(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS organizations (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			balance_usd     NUMERIC NOT NULL DEFAULT 0,
			research_points DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_settled_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS research_teams (
			id                 TEXT PRIMARY KEY,
			org_id             TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			name               TEXT NOT NULL,
			cost_per_month_usd NUMERIC NOT NULL DEFAULT 0,
			points_per_week    DOUBLE PRECISION NOT NULL DEFAULT 0,
			hired_at           TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_research_teams_org ON research_teams(org_id);

		CREATE TABLE IF NOT EXISTS research_unlocks (
			org_id      TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			tech_id     TEXT NOT NULL,
			cost_points DOUBLE PRECISION NOT NULL DEFAULT 0,
			unlocked_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (org_id, tech_id)
		);
	`)
	return err
}

func migration0006(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS prospecting_results (
			org_id        TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			site_id       TEXT NOT NULL,
			resource_id   TEXT NOT NULL,
			mass_fraction DOUBLE PRECISION NOT NULL DEFAULT 0,
			prospected_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (org_id, site_id, resource_id)
		);
		CREATE INDEX IF NOT EXISTS idx_prospecting_org_site ON prospecting_results(org_id, site_id);

		CREATE TABLE IF NOT EXISTS leo_boosts (
			id          SERIAL PRIMARY KEY,
			org_id      TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			item_id     TEXT NOT NULL,
			quantity    DOUBLE PRECISION NOT NULL DEFAULT 0,
			cost_usd    NUMERIC NOT NULL DEFAULT 0,
			boosted_at  TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_leo_boosts_org ON leo_boosts(org_id);
	`)
	return err
}
