package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create the five record collections, the mission indexes
// that back the query filters, natural-key unique indexes for the feed caches,
// and the load/fetch bookkeeping tables.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS missions (
		mission_id TEXT PRIMARY KEY,
		mission_name TEXT NOT NULL,
		launch_date TEXT NOT NULL,
		launch_year INTEGER NOT NULL,
		target_type TEXT NOT NULL,
		target_name TEXT NOT NULL,
		mission_type TEXT NOT NULL,
		distance_ly REAL NOT NULL,
		duration_years REAL NOT NULL,
		cost_billion_usd REAL NOT NULL,
		scientific_yield REAL NOT NULL,
		crew_size INTEGER NOT NULL,
		success_pct REAL NOT NULL CHECK (success_pct >= 0 AND success_pct <= 100),
		fuel_consumption_tons REAL NOT NULL,
		payload_weight_tons REAL NOT NULL,
		launch_vehicle TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_missions_launch_year ON missions (launch_year)`,
	`CREATE INDEX IF NOT EXISTS idx_missions_mission_type ON missions (mission_type)`,
	`CREATE INDEX IF NOT EXISTS idx_missions_target_type ON missions (target_type)`,
	`CREATE INDEX IF NOT EXISTS idx_missions_launch_vehicle ON missions (launch_vehicle)`,

	`CREATE TABLE IF NOT EXISTS apod (
		id INTEGER PRIMARY KEY,
		date TEXT NOT NULL,
		title TEXT,
		explanation TEXT,
		url TEXT,
		media_type TEXT,
		source TEXT,
		fetched_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_apod_date ON apod (date)`,

	`CREATE TABLE IF NOT EXISTS neo (
		id INTEGER PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		diameter_km REAL,
		hazardous BOOLEAN NOT NULL DEFAULT 0,
		velocity_kms REAL,
		velocity_kph REAL,
		miss_distance_km REAL,
		source TEXT,
		fetched_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_neo_name_date ON neo (name, date)`,

	`CREATE TABLE IF NOT EXISTS exoplanet (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		planet_count INTEGER,
		radius_earth REAL,
		mass_earth REAL,
		distance_pc REAL,
		discovery_year INTEGER,
		source TEXT,
		fetched_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_exoplanet_name ON exoplanet (name)`,

	`CREATE TABLE IF NOT EXISTS earth_imagery (
		id INTEGER PRIMARY KEY,
		location TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		dim REAL,
		url TEXT,
		source TEXT,
		fetched_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_earth_imagery_location ON earth_imagery (location, latitude, longitude)`,

	`CREATE TABLE IF NOT EXISTS feed_requests (
		feed TEXT NOT NULL,
		request_key TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (feed, request_key)
	)`,
	`CREATE TABLE IF NOT EXISTS load_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		status TEXT NOT NULL,
		report TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// addedColumns were introduced after their table; EnsureSchema adds them to
// databases created before.
var addedColumns = []struct {
	table, column, decl string
}{
	{"neo", "velocity_kph", "REAL"},
	{"neo", "miss_distance_km", "REAL"},
}

// EnsureSchema creates every table and index that does not exist yet and
// adds missing columns. It is safe to call on an initialized database.
func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin schema", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return unavailable("create schema", err)
		}
	}
	for _, c := range addedColumns {
		if err := ensureColumn(ctx, tx, c.table, c.column, c.decl); err != nil {
			return unavailable("migrate schema", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit schema", err)
	}
	s.logger.Debug("schema ensured", "statements", len(schemaStatements))
	return nil
}

func ensureColumn(ctx context.Context, tx *sql.Tx, table, column, decl string) error {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl))
	return err
}
