package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the connection pool shared by every repository.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects and pings the database.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

// IsNotFound reports whether err comes from a lookup that matched no row.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err was raised by a unique constraint (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Migrate creates the schema. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateMotorcycles,
		migrationCreateTrips,
		migrationCreateGPSFixes,
		migrationCreateFuelings,
		migrationCreatePlatforms,
		migrationCreateEarnings,
		migrationCreateMaintenanceCategories,
		migrationCreateMaintenances,
		migrationSeedPlatforms,
		migrationSeedMaintenanceCategories,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

const migrationCreateMotorcycles = `
CREATE TABLE IF NOT EXISTS motorcycles (
    id BIGSERIAL PRIMARY KEY,
    rider_id VARCHAR(128) NOT NULL UNIQUE,
    name VARCHAR(255) NOT NULL DEFAULT '',
    plate VARCHAR(16) NOT NULL DEFAULT '',
    tank_capacity_l DOUBLE PRECISION NOT NULL DEFAULT 0,
    oil_change_interval_km DOUBLE PRECISION NOT NULL DEFAULT 0,
    oil_change_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
    monthly_maintenance_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
    monthly_km_estimate DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`

const migrationCreateTrips = `
CREATE TABLE IF NOT EXISTS trips (
    id BIGSERIAL PRIMARY KEY,
    rider_id VARCHAR(128) NOT NULL,
    session_id VARCHAR(36) NOT NULL UNIQUE,
    start_time TIMESTAMP WITH TIME ZONE NOT NULL,
    end_time TIMESTAMP WITH TIME ZONE,
    distance_km DOUBLE PRECISION DEFAULT 0,
    duration_min DOUBLE PRECISION DEFAULT 0,
    fix_count INT DEFAULT 0,
    speed_max DOUBLE PRECISION,
    start_latitude DOUBLE PRECISION,
    start_longitude DOUBLE PRECISION,
    end_latitude DOUBLE PRECISION,
    end_longitude DOUBLE PRECISION,
    start_address JSONB,
    end_address JSONB
);
CREATE INDEX IF NOT EXISTS idx_trips_rider_start ON trips(rider_id, start_time DESC);
CREATE INDEX IF NOT EXISTS idx_trips_open ON trips(rider_id) WHERE end_time IS NULL;
`

const migrationCreateGPSFixes = `
CREATE TABLE IF NOT EXISTS gps_fixes (
    id BIGSERIAL PRIMARY KEY,
    rider_id VARCHAR(128) NOT NULL,
    trip_id BIGINT REFERENCES trips(id) ON DELETE CASCADE,
    latitude DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL,
    speed DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (speed >= 0),
    context VARCHAR(64),
    recorded_at TIMESTAMP WITH TIME ZONE NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_gps_fixes_trip ON gps_fixes(trip_id, recorded_at);
`

const migrationCreateFuelings = `
CREATE TABLE IF NOT EXISTS fuelings (
    id BIGSERIAL PRIMARY KEY,
    rider_id VARCHAR(128) NOT NULL,
    date TIMESTAMP WITH TIME ZONE NOT NULL,
    liter_price DOUBLE PRECISION NOT NULL CHECK (liter_price > 0),
    liters DOUBLE PRECISION NOT NULL CHECK (liters > 0),
    odometer DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (odometer >= 0),
    full_tank BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_fuelings_rider_date ON fuelings(rider_id, date DESC);
`

const migrationCreatePlatforms = `
CREATE TABLE IF NOT EXISTS platforms (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(64) NOT NULL UNIQUE,
    active BOOLEAN NOT NULL DEFAULT TRUE
);
`

const migrationCreateEarnings = `
CREATE TABLE IF NOT EXISTS earnings (
    id BIGSERIAL PRIMARY KEY,
    rider_id VARCHAR(128) NOT NULL,
    date TIMESTAMP WITH TIME ZONE NOT NULL,
    amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
    tip DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (tip >= 0),
    distance_km DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (distance_km >= 0),
    duration_label VARCHAR(32) NOT NULL DEFAULT '',
    duration_minutes DOUBLE PRECISION,
    platform VARCHAR(64) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_earnings_rider_date ON earnings(rider_id, date DESC);
`

const migrationCreateMaintenanceCategories = `
CREATE TABLE IF NOT EXISTS maintenance_categories (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(64) NOT NULL UNIQUE,
    interval_km DOUBLE PRECISION NOT NULL DEFAULT 0,
    tip TEXT NOT NULL DEFAULT ''
);
`

// At most one open event per rider and type.
const migrationCreateMaintenances = `
CREATE TABLE IF NOT EXISTS maintenances (
    id BIGSERIAL PRIMARY KEY,
    rider_id VARCHAR(128) NOT NULL,
    type VARCHAR(64) NOT NULL,
    odometer DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (odometer >= 0),
    cost DOUBLE PRECISION NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at TIMESTAMP WITH TIME ZONE,
    performed_at TIMESTAMP WITH TIME ZONE NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_maintenances_rider ON maintenances(rider_id, performed_at DESC);
CREATE UNIQUE INDEX IF NOT EXISTS idx_maintenances_open_type
    ON maintenances(rider_id, lower(trim(type))) WHERE NOT completed;
`

const migrationSeedPlatforms = `
INSERT INTO platforms (name) VALUES
    ('iFood'), ('Uber'), ('99'), ('Rappi'), ('Loggi'), ('Lalamove'), ('Particular')
ON CONFLICT (name) DO NOTHING;
`

const migrationSeedMaintenanceCategories = `
INSERT INTO maintenance_categories (name, interval_km, tip) VALUES
    ('oil', 1000, 'Change the engine oil and check the level every week.'),
    ('oil filter', 3000, 'Usually replaced every third oil change.'),
    ('chain', 1000, 'Clean and lubricate the chain, adjust the slack.'),
    ('chain kit', 15000, 'Replace chain, crown and pinion together.'),
    ('brake pads', 5000, 'Check pad thickness, front wears faster.'),
    ('tyres', 10000, 'Check pressure weekly and tread depth monthly.'),
    ('spark plug', 10000, 'Replace when starting gets harder.'),
    ('air filter', 6000, 'Clean more often on dusty routes.')
ON CONFLICT (name) DO NOTHING;
`
