package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/service"
	"github.com/motolog/motolog/internal/state"
)

type mockTracker struct{ mock.Mock }

func (m *mockTracker) Session(riderID string) state.Session {
	return m.Called(riderID).Get(0).(state.Session)
}

func (m *mockTracker) Ingest(ctx context.Context, riderID string, fix models.GPSFix) (service.IngestResult, error) {
	args := m.Called(ctx, riderID, fix)
	return args.Get(0).(service.IngestResult), args.Error(1)
}

func (m *mockTracker) PauseSession(riderID string) (state.Session, error) {
	args := m.Called(riderID)
	return args.Get(0).(state.Session), args.Error(1)
}

func (m *mockTracker) ResumeSession(riderID string) (state.Session, error) {
	args := m.Called(riderID)
	return args.Get(0).(state.Session), args.Error(1)
}

func (m *mockTracker) StopSession(ctx context.Context, riderID string) (*models.Trip, error) {
	args := m.Called(ctx, riderID)
	trip, _ := args.Get(0).(*models.Trip)
	return trip, args.Error(1)
}

type mockReporter struct{ mock.Mock }

func (m *mockReporter) Fuel(ctx context.Context, riderID string, window int) (service.FuelReport, error) {
	args := m.Called(ctx, riderID, window)
	return args.Get(0).(service.FuelReport), args.Error(1)
}

func (m *mockReporter) Earnings(ctx context.Context, riderID string, from, to time.Time) (service.EarningsReport, error) {
	args := m.Called(ctx, riderID, from, to)
	return args.Get(0).(service.EarningsReport), args.Error(1)
}

func (m *mockReporter) Maintenance(ctx context.Context, riderID string) ([]service.ServiceItem, error) {
	args := m.Called(ctx, riderID)
	items, _ := args.Get(0).([]service.ServiceItem)
	return items, args.Error(1)
}

func (m *mockReporter) Dashboard(ctx context.Context, riderID string) (service.Dashboard, error) {
	args := m.Called(ctx, riderID)
	return args.Get(0).(service.Dashboard), args.Error(1)
}

type mockMotorcycles struct{ mock.Mock }

func (m *mockMotorcycles) GetByRider(ctx context.Context, riderID string) (*models.Motorcycle, error) {
	args := m.Called(ctx, riderID)
	bike, _ := args.Get(0).(*models.Motorcycle)
	return bike, args.Error(1)
}

func (m *mockMotorcycles) Upsert(ctx context.Context, bike *models.Motorcycle) error {
	return m.Called(ctx, bike).Error(0)
}

type mockTrips struct{ mock.Mock }

func (m *mockTrips) GetByID(ctx context.Context, riderID string, id int64) (*models.Trip, error) {
	args := m.Called(ctx, riderID, id)
	trip, _ := args.Get(0).(*models.Trip)
	return trip, args.Error(1)
}

func (m *mockTrips) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]*models.Trip, error) {
	args := m.Called(ctx, riderID, limit, offset)
	trips, _ := args.Get(0).([]*models.Trip)
	return trips, args.Error(1)
}

func (m *mockTrips) CountByRider(ctx context.Context, riderID string) (int64, error) {
	args := m.Called(ctx, riderID)
	return args.Get(0).(int64), args.Error(1)
}

type mockFuelings struct{ mock.Mock }

func (m *mockFuelings) Create(ctx context.Context, f *models.Fueling) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFuelings) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Fueling, error) {
	args := m.Called(ctx, riderID, limit, offset)
	records, _ := args.Get(0).([]models.Fueling)
	return records, args.Error(1)
}

func (m *mockFuelings) CountByRider(ctx context.Context, riderID string) (int64, error) {
	args := m.Called(ctx, riderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFuelings) Delete(ctx context.Context, riderID string, id int64) error {
	return m.Called(ctx, riderID, id).Error(0)
}

type mockMaintenances struct{ mock.Mock }

func (m *mockMaintenances) Log(ctx context.Context, event *models.Maintenance) (*models.Maintenance, error) {
	args := m.Called(ctx, event)
	closed, _ := args.Get(0).(*models.Maintenance)
	return closed, args.Error(1)
}

func (m *mockMaintenances) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Maintenance, error) {
	args := m.Called(ctx, riderID, limit, offset)
	events, _ := args.Get(0).([]models.Maintenance)
	return events, args.Error(1)
}

func (m *mockMaintenances) CountByRider(ctx context.Context, riderID string) (int64, error) {
	args := m.Called(ctx, riderID)
	return args.Get(0).(int64), args.Error(1)
}
