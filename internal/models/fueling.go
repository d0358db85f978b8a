package models

import "time"

// Fueling is one fuel purchase.
// Odometer is 0 when the rider did not read it at the pump.
type Fueling struct {
	ID         int64     `json:"id" db:"id"`
	RiderID    string    `json:"rider_id" db:"rider_id"`
	Date       time.Time `json:"date" db:"date"`
	LiterPrice float64   `json:"liter_price" db:"liter_price"`
	Liters     float64   `json:"liters" db:"liters"`
	Odometer   float64   `json:"odometer" db:"odometer"` // km
	FullTank   bool      `json:"full_tank" db:"full_tank"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// TotalCost is what the rider paid at the pump.
func (f Fueling) TotalCost() float64 {
	return f.LiterPrice * f.Liters
}
