package models

import "time"

// GPSFix is a single timestamped location reading sent by the rider's phone.
type GPSFix struct {
	ID         int64     `json:"id" db:"id"`
	RiderID    string    `json:"rider_id" db:"rider_id"`
	TripID     *int64    `json:"trip_id,omitempty" db:"trip_id"`
	Latitude   float64   `json:"latitude" db:"latitude"`
	Longitude  float64   `json:"longitude" db:"longitude"`
	Speed      float64   `json:"speed" db:"speed"`                     // km/h
	Context    *string   `json:"context,omitempty" db:"context"`       // e.g. "delivery", "pickup"
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// Trip groups the fixes of one tracking session.
type Trip struct {
	ID          int64      `json:"id" db:"id"`
	RiderID     string     `json:"rider_id" db:"rider_id"`
	SessionID   string     `json:"session_id" db:"session_id"`
	StartTime   time.Time  `json:"start_time" db:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty" db:"end_time"`
	DistanceKm  float64    `json:"distance_km" db:"distance_km"`
	DurationMin float64    `json:"duration_min" db:"duration_min"`
	FixCount    int        `json:"fix_count" db:"fix_count"`
	SpeedMax    *float64   `json:"speed_max,omitempty" db:"speed_max"` // km/h
	// Endpoints, filled when the trip is completed
	StartLatitude  *float64 `json:"start_latitude,omitempty" db:"start_latitude"`
	StartLongitude *float64 `json:"start_longitude,omitempty" db:"start_longitude"`
	EndLatitude    *float64 `json:"end_latitude,omitempty" db:"end_latitude"`
	EndLongitude   *float64 `json:"end_longitude,omitempty" db:"end_longitude"`
	StartAddress   *Address `json:"start_address,omitempty" db:"start_address"`
	EndAddress     *Address `json:"end_address,omitempty" db:"end_address"`
}
