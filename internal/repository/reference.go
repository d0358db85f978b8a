package repository

import (
	"context"
	"fmt"

	"github.com/motolog/motolog/internal/models"
)

// ReferenceRepository serves the seeded lookup tables.
type ReferenceRepository struct {
	db *DB
}

func NewReferenceRepository(db *DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, active FROM platforms WHERE active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	platforms := []models.Platform{}
	for rows.Next() {
		var p models.Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.Active); err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

func (r *ReferenceRepository) ListMaintenanceCategories(ctx context.Context) ([]models.MaintenanceCategory, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, interval_km, tip FROM maintenance_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list maintenance categories: %w", err)
	}
	defer rows.Close()

	categories := []models.MaintenanceCategory{}
	for rows.Next() {
		var c models.MaintenanceCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.IntervalKm, &c.Tip); err != nil {
			return nil, fmt.Errorf("scan maintenance category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
