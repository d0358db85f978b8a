package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/motolog/motolog/internal/calc"
	"github.com/motolog/motolog/internal/models"
)

type MaintenanceRepository struct {
	db *DB
}

func NewMaintenanceRepository(db *DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const maintenanceColumns = `id, rider_id, type, odometer, cost, notes, completed, completed_at, performed_at`

func collectMaintenances(rows pgx.Rows) ([]models.Maintenance, error) {
	defer rows.Close()

	events := []models.Maintenance{}
	for rows.Next() {
		var m models.Maintenance
		err := rows.Scan(
			&m.ID,
			&m.RiderID,
			&m.Type,
			&m.Odometer,
			&m.Cost,
			&m.Notes,
			&m.Completed,
			&m.CompletedAt,
			&m.PerformedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan maintenance: %w", err)
		}
		events = append(events, m)
	}
	return events, rows.Err()
}

// Log closes the open event of the same type, if any, and inserts m as the new open event.
// Both happen in one transaction. The closed event is returned, or nil when there was none.
func (r *MaintenanceRepository) Log(ctx context.Context, m *models.Maintenance) (*models.Maintenance, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin log maintenance: %w", err)
	}
	defer tx.Rollback(ctx)

	serviceType := calc.NormalizeType(m.Type)

	// FOR UPDATE cannot lock the row a concurrent log is about to insert, so logs of
	// one (rider, type) are serialized until commit.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`,
		m.RiderID, serviceType); err != nil {
		return nil, fmt.Errorf("lock maintenance type: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT `+maintenanceColumns+` FROM maintenances
		WHERE rider_id = $1 AND lower(trim(type)) = $2 AND NOT completed
		FOR UPDATE
	`, m.RiderID, serviceType)
	if err != nil {
		return nil, fmt.Errorf("select open maintenance: %w", err)
	}
	open, err := collectMaintenances(rows)
	if err != nil {
		return nil, err
	}

	var closed *models.Maintenance
	if idx := calc.FinalizePrevious(open, serviceType, time.Now()); idx >= 0 {
		closed = &open[idx]
		_, err := tx.Exec(ctx, `UPDATE maintenances SET completed = TRUE, completed_at = $1 WHERE id = $2`,
			closed.CompletedAt, closed.ID)
		if err != nil {
			return nil, fmt.Errorf("finalize maintenance: %w", err)
		}
	}

	m.Completed = false
	m.CompletedAt = nil
	err = tx.QueryRow(ctx, `
		INSERT INTO maintenances (rider_id, type, odometer, cost, notes, completed, performed_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		RETURNING id
	`, m.RiderID, m.Type, m.Odometer, m.Cost, m.Notes, m.PerformedAt).Scan(&m.ID)
	if err != nil {
		return nil, fmt.Errorf("insert maintenance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit log maintenance: %w", err)
	}
	return closed, nil
}

func (r *MaintenanceRepository) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Maintenance, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+maintenanceColumns+` FROM maintenances
		WHERE rider_id = $1 ORDER BY performed_at DESC, id DESC LIMIT $2 OFFSET $3
	`, riderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list maintenances: %w", err)
	}
	return collectMaintenances(rows)
}

func (r *MaintenanceRepository) CountByRider(ctx context.Context, riderID string) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM maintenances WHERE rider_id = $1`, riderID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count maintenances: %w", err)
	}
	return count, nil
}

// ListOpen returns the open event of every type, which is the last service done for that type.
func (r *MaintenanceRepository) ListOpen(ctx context.Context, riderID string) ([]models.Maintenance, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+maintenanceColumns+` FROM maintenances
		WHERE rider_id = $1 AND NOT completed ORDER BY type
	`, riderID)
	if err != nil {
		return nil, fmt.Errorf("list open maintenances: %w", err)
	}
	return collectMaintenances(rows)
}
