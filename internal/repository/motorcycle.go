package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/motolog/motolog/internal/models"
)

type MotorcycleRepository struct {
	db *DB
}

func NewMotorcycleRepository(db *DB) *MotorcycleRepository {
	return &MotorcycleRepository{db: db}
}

const motorcycleColumns = `id, rider_id, name, plate, tank_capacity_l, oil_change_interval_km, oil_change_cost,
	monthly_maintenance_cost, monthly_km_estimate, created_at, updated_at`

func scanMotorcycle(row rowScanner) (*models.Motorcycle, error) {
	m := &models.Motorcycle{}
	err := row.Scan(
		&m.ID,
		&m.RiderID,
		&m.Name,
		&m.Plate,
		&m.TankCapacityL,
		&m.OilChangeIntervalKm,
		&m.OilChangeCost,
		&m.MonthlyMaintenanceCost,
		&m.MonthlyKmEstimate,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// GetByRider returns the rider's motorcycle. pgx.ErrNoRows is wrapped when the profile was never saved.
func (r *MotorcycleRepository) GetByRider(ctx context.Context, riderID string) (*models.Motorcycle, error) {
	query := `SELECT ` + motorcycleColumns + ` FROM motorcycles WHERE rider_id = $1`
	m, err := scanMotorcycle(r.db.Pool.QueryRow(ctx, query, riderID))
	if err != nil {
		return nil, fmt.Errorf("get motorcycle by rider: %w", err)
	}
	return m, nil
}

// Upsert creates or replaces the rider's motorcycle profile.
func (r *MotorcycleRepository) Upsert(ctx context.Context, m *models.Motorcycle) error {
	query := `
		INSERT INTO motorcycles (rider_id, name, plate, tank_capacity_l, oil_change_interval_km, oil_change_cost,
			monthly_maintenance_cost, monthly_km_estimate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (rider_id) DO UPDATE SET
			name = EXCLUDED.name,
			plate = EXCLUDED.plate,
			tank_capacity_l = EXCLUDED.tank_capacity_l,
			oil_change_interval_km = EXCLUDED.oil_change_interval_km,
			oil_change_cost = EXCLUDED.oil_change_cost,
			monthly_maintenance_cost = EXCLUDED.monthly_maintenance_cost,
			monthly_km_estimate = EXCLUDED.monthly_km_estimate,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	now := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		m.RiderID,
		m.Name,
		m.Plate,
		m.TankCapacityL,
		m.OilChangeIntervalKm,
		m.OilChangeCost,
		m.MonthlyMaintenanceCost,
		m.MonthlyKmEstimate,
		now,
		now,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert motorcycle: %w", err)
	}

	m.UpdatedAt = now
	return nil
}

// LatestOdometer is the highest odometer reading the rider has logged at the pump or the shop.
// It is 0 when nothing was logged yet.
func (r *MotorcycleRepository) LatestOdometer(ctx context.Context, riderID string) (float64, error) {
	query := `
		SELECT GREATEST(
			COALESCE((SELECT MAX(odometer) FROM fuelings WHERE rider_id = $1), 0),
			COALESCE((SELECT MAX(odometer) FROM maintenances WHERE rider_id = $1), 0)
		)
	`
	var odometer float64
	if err := r.db.Pool.QueryRow(ctx, query, riderID).Scan(&odometer); err != nil {
		return 0, fmt.Errorf("get latest odometer: %w", err)
	}
	return odometer, nil
}
