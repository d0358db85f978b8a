package service

import (
	"context"
	"time"

	"github.com/motolog/motolog/internal/models"
)

// TripStore is the part of the trip repository the tracker needs.
type TripStore interface {
	Create(ctx context.Context, trip *models.Trip) error
	Complete(ctx context.Context, trip *models.Trip) error
	UpdateAddresses(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, riderID string, id int64) (*models.Trip, error)
	ListOpen(ctx context.Context) ([]*models.Trip, error)
}

type FixStore interface {
	Create(ctx context.Context, fix *models.GPSFix) error
	ListByTrip(ctx context.Context, riderID string, tripID int64) ([]models.GPSFix, error)
}

type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*models.Address, error)
}

// Notifier delivers live messages to a rider's open connections.
type Notifier interface {
	SendToRider(riderID, msgType string, data interface{})
}

type FuelingLister interface {
	ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Fueling, error)
}

type EarningLister interface {
	ListBetween(ctx context.Context, riderID string, from, to time.Time) ([]models.Earning, error)
}

type OpenMaintenanceLister interface {
	ListOpen(ctx context.Context, riderID string) ([]models.Maintenance, error)
}

type CategoryLister interface {
	ListMaintenanceCategories(ctx context.Context) ([]models.MaintenanceCategory, error)
}

type MotorcycleReader interface {
	GetByRider(ctx context.Context, riderID string) (*models.Motorcycle, error)
	LatestOdometer(ctx context.Context, riderID string) (float64, error)
}
