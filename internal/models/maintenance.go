package models

import "time"

// Maintenance is a logged service. At most one event per type stays open;
// logging a new one closes the previous open event of the same type.
type Maintenance struct {
	ID          int64      `json:"id" db:"id"`
	RiderID     string     `json:"rider_id" db:"rider_id"`
	Type        string     `json:"type" db:"type"`
	Odometer    float64    `json:"odometer" db:"odometer"` // km
	Cost        float64    `json:"cost" db:"cost"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	PerformedAt time.Time  `json:"performed_at" db:"performed_at"`
}

// MaintenanceCategory is reference data: a service type with its interval and a tip.
type MaintenanceCategory struct {
	ID         int64   `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	IntervalKm float64 `json:"interval_km" db:"interval_km"`
	Tip        string  `json:"tip,omitempty" db:"tip"`
}
