package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/motolog/motolog/internal/models"
)

type FuelingRepository struct {
	db *DB
}

func NewFuelingRepository(db *DB) *FuelingRepository {
	return &FuelingRepository{db: db}
}

func (r *FuelingRepository) Create(ctx context.Context, f *models.Fueling) error {
	query := `
		INSERT INTO fuelings (rider_id, date, liter_price, liters, odometer, full_tank, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	now := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		f.RiderID,
		f.Date,
		f.LiterPrice,
		f.Liters,
		f.Odometer,
		f.FullTank,
		now,
	).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("insert fueling: %w", err)
	}

	f.CreatedAt = now
	return nil
}

// ListByRider pages through fuelings, newest first. A limit of 0 returns every record.
func (r *FuelingRepository) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Fueling, error) {
	query := `
		SELECT id, rider_id, date, liter_price, liters, odometer, full_tank, created_at
		FROM fuelings WHERE rider_id = $1 ORDER BY date DESC, id DESC
		LIMIT NULLIF($2, 0) OFFSET $3
	`
	rows, err := r.db.Pool.Query(ctx, query, riderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list fuelings: %w", err)
	}
	defer rows.Close()

	fuelings := []models.Fueling{}
	for rows.Next() {
		var f models.Fueling
		err := rows.Scan(
			&f.ID,
			&f.RiderID,
			&f.Date,
			&f.LiterPrice,
			&f.Liters,
			&f.Odometer,
			&f.FullTank,
			&f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan fueling: %w", err)
		}
		fuelings = append(fuelings, f)
	}

	return fuelings, rows.Err()
}

func (r *FuelingRepository) CountByRider(ctx context.Context, riderID string) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM fuelings WHERE rider_id = $1`, riderID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count fuelings: %w", err)
	}
	return count, nil
}

func (r *FuelingRepository) Delete(ctx context.Context, riderID string, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM fuelings WHERE id = $1 AND rider_id = $2`, id, riderID)
	if err != nil {
		return fmt.Errorf("delete fueling: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete fueling: %w", pgx.ErrNoRows)
	}
	return nil
}
