package models

import "time"

// Motorcycle is the rider's bike profile used for cost and autonomy figures.
type Motorcycle struct {
	ID                     int64     `json:"id" db:"id"`
	RiderID                string    `json:"rider_id" db:"rider_id"`
	Name                   string    `json:"name" db:"name"`
	Plate                  string    `json:"plate" db:"plate"`
	TankCapacityL          float64   `json:"tank_capacity_l" db:"tank_capacity_l"`
	OilChangeIntervalKm    float64   `json:"oil_change_interval_km" db:"oil_change_interval_km"`
	OilChangeCost          float64   `json:"oil_change_cost" db:"oil_change_cost"`
	MonthlyMaintenanceCost float64   `json:"monthly_maintenance_cost" db:"monthly_maintenance_cost"`
	MonthlyKmEstimate      float64   `json:"monthly_km_estimate" db:"monthly_km_estimate"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
