package repository

import (
	"context"
	"fmt"

	"github.com/motolog/motolog/internal/models"
)

type TripRepository struct {
	db *DB
}

func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, rider_id, session_id, start_time, end_time, distance_km, duration_min, fix_count, speed_max,
	start_latitude, start_longitude, end_latitude, end_longitude, start_address, end_address`

func scanTrip(row rowScanner) (*models.Trip, error) {
	t := &models.Trip{}
	err := row.Scan(
		&t.ID,
		&t.RiderID,
		&t.SessionID,
		&t.StartTime,
		&t.EndTime,
		&t.DistanceKm,
		&t.DurationMin,
		&t.FixCount,
		&t.SpeedMax,
		&t.StartLatitude,
		&t.StartLongitude,
		&t.EndLatitude,
		&t.EndLongitude,
		&t.StartAddress,
		&t.EndAddress,
	)
	return t, err
}

// Create opens a trip for a tracking session.
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (rider_id, session_id, start_time, start_latitude, start_longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		trip.RiderID,
		trip.SessionID,
		trip.StartTime,
		trip.StartLatitude,
		trip.StartLongitude,
	).Scan(&trip.ID)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// Complete stores the final figures of a trip.
func (r *TripRepository) Complete(ctx context.Context, trip *models.Trip) error {
	query := `
		UPDATE trips SET
			end_time = $1,
			distance_km = $2,
			duration_min = $3,
			fix_count = $4,
			speed_max = $5,
			start_latitude = $6,
			start_longitude = $7,
			end_latitude = $8,
			end_longitude = $9,
			start_address = $10,
			end_address = $11
		WHERE id = $12
	`
	_, err := r.db.Pool.Exec(ctx, query,
		trip.EndTime,
		trip.DistanceKm,
		trip.DurationMin,
		trip.FixCount,
		trip.SpeedMax,
		trip.StartLatitude,
		trip.StartLongitude,
		trip.EndLatitude,
		trip.EndLongitude,
		trip.StartAddress,
		trip.EndAddress,
		trip.ID,
	)
	if err != nil {
		return fmt.Errorf("complete trip: %w", err)
	}
	return nil
}

// UpdateAddresses stores the geocoded endpoints of a completed trip.
func (r *TripRepository) UpdateAddresses(ctx context.Context, trip *models.Trip) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE trips SET start_address = $1, end_address = $2 WHERE id = $3`,
		trip.StartAddress, trip.EndAddress, trip.ID)
	if err != nil {
		return fmt.Errorf("update trip addresses: %w", err)
	}
	return nil
}

func (r *TripRepository) GetByID(ctx context.Context, riderID string, id int64) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND rider_id = $2`
	t, err := scanTrip(r.db.Pool.QueryRow(ctx, query, id, riderID))
	if err != nil {
		return nil, fmt.Errorf("get trip by id: %w", err)
	}
	return t, nil
}

func (r *TripRepository) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE rider_id = $1 ORDER BY start_time DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, query, riderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	trips := []*models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}

	return trips, nil
}

func (r *TripRepository) CountByRider(ctx context.Context, riderID string) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM trips WHERE rider_id = $1`, riderID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count trips: %w", err)
	}
	return count, nil
}

// ListOpen returns trips of every rider left without an end time, e.g. after a restart.
func (r *TripRepository) ListOpen(ctx context.Context) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE end_time IS NULL ORDER BY start_time`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}
