// Package store stages bronze batches and persists gold output in SQLite.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/localeats/resolver/internal/model"
	"github.com/localeats/resolver/internal/normalize"
)

// Store wraps the SQLite database holding bronze staging tables, the gold
// output table, and run statistics.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database at the given path and configures WAL mode.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS bronze_restaurants (
	restaurant_id TEXT NOT NULL,
	name          TEXT,
	address       TEXT,
	city          TEXT,
	state         TEXT,
	postal_code   TEXT,
	latitude      REAL,
	longitude     REAL,
	categories    TEXT,
	rating        REAL NOT NULL DEFAULT 0,
	review_count  INTEGER NOT NULL DEFAULT 0,
	price         TEXT,
	closed        TEXT,
	loaded_at     DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS bronze_inspections (
	inspection_id  TEXT NOT NULL,
	jurisdiction   TEXT NOT NULL,
	establishment  TEXT,
	address        TEXT,
	city           TEXT,
	postal_code    TEXT,
	latitude       REAL,
	longitude      REAL,
	violation_code TEXT,
	severity       TEXT,
	result         TEXT,
	inspected_at   DATETIME,
	loaded_at      DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS bronze_stops (
	stop_id    TEXT NOT NULL,
	name       TEXT,
	latitude   REAL,
	longitude  REAL,
	wheelchair TEXT,
	loaded_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS gold_restaurants (
	restaurant_id  TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	address        TEXT,
	city           TEXT,
	state          TEXT,
	postal_code    TEXT,
	latitude       REAL NOT NULL,
	longitude      REAL NOT NULL,
	categories     TEXT,
	rating         REAL NOT NULL,
	review_count   INTEGER NOT NULL,
	price_tier     INTEGER NOT NULL,
	closed         INTEGER NOT NULL,

	total_inspections    INTEGER NOT NULL,
	pass_rate            REAL NOT NULL,
	recent_pass_rate     REAL,
	critical_violations  INTEGER NOT NULL,
	severity_score       REAL NOT NULL,
	days_since_last      INTEGER,
	performance_category TEXT NOT NULL,
	health_risk_level    TEXT NOT NULL,
	data_quality         TEXT NOT NULL,

	nearest_stop_id        TEXT,
	nearest_stop_name      TEXT,
	nearest_distance_m     REAL,
	walk_minutes           REAL,
	accessibility_category TEXT,
	nearby_stops           INTEGER NOT NULL DEFAULT 0,
	accessible_stops       INTEGER NOT NULL DEFAULT 0,
	very_close_stops       INTEGER NOT NULL DEFAULT 0,

	safety_score        REAL NOT NULL,
	accessibility_score REAL NOT NULL,
	popularity_score    REAL NOT NULL,
	value_score         REAL NOT NULL,
	overall_score       REAL NOT NULL,
	recommendation_tier TEXT NOT NULL,

	run_id    TEXT NOT NULL,
	scored_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   DATETIME NOT NULL,
	completed_at DATETIME NOT NULL,
	stats        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bronze_restaurants_id ON bronze_restaurants(restaurant_id);
CREATE INDEX IF NOT EXISTS idx_bronze_inspections_id ON bronze_inspections(inspection_id);
CREATE INDEX IF NOT EXISTS idx_bronze_inspections_jur ON bronze_inspections(jurisdiction);
CREATE INDEX IF NOT EXISTS idx_gold_tier ON gold_restaurants(recommendation_tier);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRestaurants appends one bronze catalog batch.
func (s *Store) InsertRestaurants(ctx context.Context, rows []normalize.RawRestaurant) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "store: begin restaurants batch")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bronze_restaurants
		(restaurant_id, name, address, city, state, postal_code, latitude, longitude,
		 categories, rating, review_count, price, closed, loaded_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "store: prepare restaurants insert")
	}
	defer stmt.Close()

	var n int64
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.RestaurantID, r.Name, r.Address, r.City, r.State, r.PostalCode,
			r.Latitude, r.Longitude, r.Categories, r.Rating, r.ReviewCount,
			r.Price, r.Closed, r.LoadedAt.UTC(), r.UpdatedAt.UTC(),
		); err != nil {
			return n, eris.Wrapf(err, "store: insert restaurant %s", r.RestaurantID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return n, eris.Wrap(err, "store: commit restaurants batch")
	}
	return n, nil
}

// InsertInspections appends one bronze registry batch.
func (s *Store) InsertInspections(ctx context.Context, rows []normalize.RawInspection) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "store: begin inspections batch")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bronze_inspections
		(inspection_id, jurisdiction, establishment, address, city, postal_code,
		 latitude, longitude, violation_code, severity, result, inspected_at,
		 loaded_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "store: prepare inspections insert")
	}
	defer stmt.Close()

	var n int64
	for _, r := range rows {
		var inspectedAt any
		if r.InspectedAt != nil {
			inspectedAt = r.InspectedAt.UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			r.InspectionID, string(r.Jurisdiction), r.Establishment, r.Address,
			r.City, r.PostalCode, r.Latitude, r.Longitude, r.ViolationCode,
			r.Severity, r.Result, inspectedAt, r.LoadedAt.UTC(), r.UpdatedAt.UTC(),
		); err != nil {
			return n, eris.Wrapf(err, "store: insert inspection %s", r.InspectionID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return n, eris.Wrap(err, "store: commit inspections batch")
	}
	return n, nil
}

// InsertStops appends one bronze transit-stop batch.
func (s *Store) InsertStops(ctx context.Context, rows []normalize.RawStop) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "store: begin stops batch")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bronze_stops
		(stop_id, name, latitude, longitude, wheelchair, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "store: prepare stops insert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	var n int64
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.StopID, r.Name, r.Latitude, r.Longitude, r.Wheelchair, now,
		); err != nil {
			return n, eris.Wrapf(err, "store: insert stop %s", r.StopID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return n, eris.Wrap(err, "store: commit stops batch")
	}
	return n, nil
}

// LoadRestaurants materializes the full bronze catalog snapshot.
func (s *Store) LoadRestaurants(ctx context.Context) ([]normalize.RawRestaurant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		restaurant_id, name, address, city, state, postal_code, latitude, longitude,
		categories, rating, review_count, price, closed, loaded_at, updated_at
		FROM bronze_restaurants ORDER BY restaurant_id, loaded_at`)
	if err != nil {
		return nil, eris.Wrap(err, "store: query restaurants")
	}
	defer rows.Close()

	var out []normalize.RawRestaurant
	for rows.Next() {
		var r normalize.RawRestaurant
		var name, address, city, state, postal, categories, price, closed sql.NullString
		if err := rows.Scan(
			&r.RestaurantID, &name, &address, &city, &state, &postal,
			&r.Latitude, &r.Longitude, &categories, &r.Rating, &r.ReviewCount,
			&price, &closed, &r.LoadedAt, &r.UpdatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "store: scan restaurant")
		}
		r.Name = name.String
		r.Address = address.String
		r.City = city.String
		r.State = state.String
		r.PostalCode = postal.String
		r.Categories = categories.String
		r.Price = price.String
		r.Closed = closed.String
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate restaurants")
}

// LoadInspections materializes the full bronze registry snapshot for one
// jurisdiction, or for all when jurisdiction is empty.
func (s *Store) LoadInspections(ctx context.Context, jurisdiction model.Jurisdiction) ([]normalize.RawInspection, error) {
	query := `SELECT
		inspection_id, jurisdiction, establishment, address, city, postal_code,
		latitude, longitude, violation_code, severity, result, inspected_at,
		loaded_at, updated_at
		FROM bronze_inspections`
	var args []any
	if jurisdiction != "" {
		query += " WHERE jurisdiction = ?"
		args = append(args, string(jurisdiction))
	}
	query += " ORDER BY inspection_id, loaded_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "store: query inspections")
	}
	defer rows.Close()

	var out []normalize.RawInspection
	for rows.Next() {
		var r normalize.RawInspection
		var jur string
		var establishment, address, city, postal, code, severity, result sql.NullString
		var inspectedAt sql.NullTime
		if err := rows.Scan(
			&r.InspectionID, &jur, &establishment, &address, &city, &postal,
			&r.Latitude, &r.Longitude, &code, &severity, &result, &inspectedAt,
			&r.LoadedAt, &r.UpdatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "store: scan inspection")
		}
		r.Jurisdiction = model.Jurisdiction(jur)
		r.Establishment = establishment.String
		r.Address = address.String
		r.City = city.String
		r.PostalCode = postal.String
		r.ViolationCode = code.String
		r.Severity = severity.String
		r.Result = result.String
		if inspectedAt.Valid {
			t := inspectedAt.Time
			r.InspectedAt = &t
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate inspections")
}

// LoadStops materializes the full bronze transit-stop snapshot.
func (s *Store) LoadStops(ctx context.Context) ([]normalize.RawStop, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		stop_id, name, latitude, longitude, wheelchair
		FROM bronze_stops ORDER BY stop_id`)
	if err != nil {
		return nil, eris.Wrap(err, "store: query stops")
	}
	defer rows.Close()

	var out []normalize.RawStop
	for rows.Next() {
		var r normalize.RawStop
		var name, wheelchair sql.NullString
		if err := rows.Scan(&r.StopID, &name, &r.Latitude, &r.Longitude, &wheelchair); err != nil {
			return nil, eris.Wrap(err, "store: scan stop")
		}
		r.Name = name.String
		r.Wheelchair = wheelchair.String
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate stops")
}
