package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/motolog/motolog/internal/models"
)

type EarningRepository struct {
	db *DB
}

func NewEarningRepository(db *DB) *EarningRepository {
	return &EarningRepository{db: db}
}

const earningColumns = `id, rider_id, date, amount, tip, distance_km, duration_label, duration_minutes, platform, created_at`

func (r *EarningRepository) Create(ctx context.Context, e *models.Earning) error {
	query := `
		INSERT INTO earnings (rider_id, date, amount, tip, distance_km, duration_label, duration_minutes, platform, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	now := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		e.RiderID,
		e.Date,
		e.Amount,
		e.Tip,
		e.DistanceKm,
		e.DurationLabel,
		e.DurationMinutes,
		e.Platform,
		now,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert earning: %w", err)
	}

	e.CreatedAt = now
	return nil
}

func (r *EarningRepository) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Earning, error) {
	query := `SELECT ` + earningColumns + ` FROM earnings WHERE rider_id = $1 ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, riderID, limit, offset)
}

// ListBetween returns earnings dated in [from, to). A zero bound is open.
func (r *EarningRepository) ListBetween(ctx context.Context, riderID string, from, to time.Time) ([]models.Earning, error) {
	query := `
		SELECT ` + earningColumns + ` FROM earnings
		WHERE rider_id = $1
			AND ($2::timestamptz IS NULL OR date >= $2)
			AND ($3::timestamptz IS NULL OR date < $3)
		ORDER BY date
	`
	return r.list(ctx, query, riderID, nullTime(from), nullTime(to))
}

func (r *EarningRepository) list(ctx context.Context, query string, args ...any) ([]models.Earning, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}
	defer rows.Close()

	earnings := []models.Earning{}
	for rows.Next() {
		var e models.Earning
		err := rows.Scan(
			&e.ID,
			&e.RiderID,
			&e.Date,
			&e.Amount,
			&e.Tip,
			&e.DistanceKm,
			&e.DurationLabel,
			&e.DurationMinutes,
			&e.Platform,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan earning: %w", err)
		}
		earnings = append(earnings, e)
	}

	return earnings, rows.Err()
}

func (r *EarningRepository) CountByRider(ctx context.Context, riderID string) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM earnings WHERE rider_id = $1`, riderID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count earnings: %w", err)
	}
	return count, nil
}

func (r *EarningRepository) Delete(ctx context.Context, riderID string, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM earnings WHERE id = $1 AND rider_id = $2`, id, riderID)
	if err != nil {
		return fmt.Errorf("delete earning: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete earning: %w", pgx.ErrNoRows)
	}
	return nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
