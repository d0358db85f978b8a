package models

import "time"

// Earning is the payout of one delivery or ride shift.
type Earning struct {
	ID              int64     `json:"id" db:"id"`
	RiderID         string    `json:"rider_id" db:"rider_id"`
	Date            time.Time `json:"date" db:"date"`
	Amount          float64   `json:"amount" db:"amount"`
	Tip             float64   `json:"tip" db:"tip"`
	DistanceKm      float64   `json:"distance_km" db:"distance_km"`
	DurationLabel   string    `json:"duration_label,omitempty" db:"duration_label"`     // "15 min", "1 hora", ...
	DurationMinutes *float64  `json:"duration_minutes,omitempty" db:"duration_minutes"` // wins over the label when set
	Platform        string    `json:"platform" db:"platform"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Platform is a delivery or ride app managed as reference data.
type Platform struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Active bool   `json:"active" db:"active"`
}
