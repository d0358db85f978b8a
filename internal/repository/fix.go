package repository

import (
	"context"
	"fmt"

	"github.com/motolog/motolog/internal/models"
)

// FixRepository stores the GPS fixes sent while tracking.
type FixRepository struct {
	db *DB
}

func NewFixRepository(db *DB) *FixRepository {
	return &FixRepository{db: db}
}

func (r *FixRepository) Create(ctx context.Context, fix *models.GPSFix) error {
	query := `
		INSERT INTO gps_fixes (rider_id, trip_id, latitude, longitude, speed, context, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		fix.RiderID,
		fix.TripID,
		fix.Latitude,
		fix.Longitude,
		fix.Speed,
		fix.Context,
		fix.RecordedAt,
	).Scan(&fix.ID)
	if err != nil {
		return fmt.Errorf("insert gps fix: %w", err)
	}
	return nil
}

// ListByTrip returns the fixes of a trip ordered by time.
func (r *FixRepository) ListByTrip(ctx context.Context, riderID string, tripID int64) ([]models.GPSFix, error) {
	query := `
		SELECT id, rider_id, trip_id, latitude, longitude, speed, context, recorded_at
		FROM gps_fixes WHERE trip_id = $1 AND rider_id = $2 ORDER BY recorded_at
	`
	rows, err := r.db.Pool.Query(ctx, query, tripID, riderID)
	if err != nil {
		return nil, fmt.Errorf("list fixes by trip: %w", err)
	}
	defer rows.Close()

	fixes := []models.GPSFix{}
	for rows.Next() {
		var f models.GPSFix
		err := rows.Scan(
			&f.ID,
			&f.RiderID,
			&f.TripID,
			&f.Latitude,
			&f.Longitude,
			&f.Speed,
			&f.Context,
			&f.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan gps fix: %w", err)
		}
		fixes = append(fixes, f)
	}

	return fixes, rows.Err()
}
