package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/motolog/motolog/internal/models"
)

type mockTripStore struct{ mock.Mock }

func (m *mockTripStore) Create(ctx context.Context, trip *models.Trip) error {
	return m.Called(ctx, trip).Error(0)
}

func (m *mockTripStore) Complete(ctx context.Context, trip *models.Trip) error {
	return m.Called(ctx, trip).Error(0)
}

func (m *mockTripStore) UpdateAddresses(ctx context.Context, trip *models.Trip) error {
	return m.Called(ctx, trip).Error(0)
}

func (m *mockTripStore) GetByID(ctx context.Context, riderID string, id int64) (*models.Trip, error) {
	args := m.Called(ctx, riderID, id)
	trip, _ := args.Get(0).(*models.Trip)
	return trip, args.Error(1)
}

func (m *mockTripStore) ListOpen(ctx context.Context) ([]*models.Trip, error) {
	args := m.Called(ctx)
	trips, _ := args.Get(0).([]*models.Trip)
	return trips, args.Error(1)
}

type mockFixStore struct{ mock.Mock }

func (m *mockFixStore) Create(ctx context.Context, fix *models.GPSFix) error {
	return m.Called(ctx, fix).Error(0)
}

func (m *mockFixStore) ListByTrip(ctx context.Context, riderID string, tripID int64) ([]models.GPSFix, error) {
	args := m.Called(ctx, riderID, tripID)
	fixes, _ := args.Get(0).([]models.GPSFix)
	return fixes, args.Error(1)
}

type mockGeocoder struct{ mock.Mock }

func (m *mockGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.Address, error) {
	args := m.Called(ctx, lat, lng)
	addr, _ := args.Get(0).(*models.Address)
	return addr, args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendToRider(riderID, msgType string, data interface{}) {
	m.Called(riderID, msgType, data)
}

type mockFuelings struct{ mock.Mock }

func (m *mockFuelings) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Fueling, error) {
	args := m.Called(ctx, riderID, limit, offset)
	records, _ := args.Get(0).([]models.Fueling)
	return records, args.Error(1)
}

type mockEarnings struct{ mock.Mock }

func (m *mockEarnings) ListBetween(ctx context.Context, riderID string, from, to time.Time) ([]models.Earning, error) {
	args := m.Called(ctx, riderID, from, to)
	records, _ := args.Get(0).([]models.Earning)
	return records, args.Error(1)
}

type mockMaintenances struct{ mock.Mock }

func (m *mockMaintenances) ListOpen(ctx context.Context, riderID string) ([]models.Maintenance, error) {
	args := m.Called(ctx, riderID)
	events, _ := args.Get(0).([]models.Maintenance)
	return events, args.Error(1)
}

type mockCategories struct{ mock.Mock }

func (m *mockCategories) ListMaintenanceCategories(ctx context.Context) ([]models.MaintenanceCategory, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.MaintenanceCategory)
	return categories, args.Error(1)
}

type mockMotorcycles struct{ mock.Mock }

func (m *mockMotorcycles) GetByRider(ctx context.Context, riderID string) (*models.Motorcycle, error) {
	args := m.Called(ctx, riderID)
	bike, _ := args.Get(0).(*models.Motorcycle)
	return bike, args.Error(1)
}

func (m *mockMotorcycles) LatestOdometer(ctx context.Context, riderID string) (float64, error) {
	args := m.Called(ctx, riderID)
	return args.Get(0).(float64), args.Error(1)
}
