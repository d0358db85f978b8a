package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/api/middleware"
	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/service"
	"github.com/motolog/motolog/internal/session"
	"github.com/motolog/motolog/internal/state"
)

const testRider = "rider-1"

type testServer struct {
	router       *gin.Engine
	token        string
	tracker      *mockTracker
	reports      *mockReporter
	motorcycles  *mockMotorcycles
	trips        *mockTrips
	fuelings     *mockFuelings
	maintenances *mockMaintenances
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier := session.NewVerifier("test-secret", "")
	token, err := verifier.Issue(testRider, time.Hour)
	require.NoError(t, err)

	s := &testServer{
		token:        token,
		tracker:      &mockTracker{},
		reports:      &mockReporter{},
		motorcycles:  &mockMotorcycles{},
		trips:        &mockTrips{},
		fuelings:     &mockFuelings{},
		maintenances: &mockMaintenances{},
	}
	h := NewHandler(zap.NewNop(), Deps{
		Tracker:      s.tracker,
		Reports:      s.reports,
		Motorcycles:  s.motorcycles,
		Trips:        s.trips,
		Fuelings:     s.fuelings,
		Maintenances: s.maintenances,
		Location:     time.UTC,
	})

	s.router = gin.New()
	h.RegisterRoutes(s.router, middleware.Authenticate(verifier))
	return s
}

func (s *testServer) do(t *testing.T, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tracking", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetSession(t *testing.T) {
	s := newTestServer(t)
	s.tracker.On("Session", testRider).Return(state.Session{RiderID: testRider, State: state.StateIdle})

	w := s.do(t, http.MethodGet, "/api/tracking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "idle", data["state"])
}

func TestIngestFix(t *testing.T) {
	recorded := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("accepted", func(t *testing.T) {
		s := newTestServer(t)
		s.tracker.On("Ingest", mock.Anything, testRider, mock.MatchedBy(func(f models.GPSFix) bool {
			return f.Latitude == -23.5 && f.Longitude == -46.6 && f.RecordedAt.Equal(recorded)
		})).Return(service.IngestResult{Accepted: true}, nil)

		w := s.do(t, http.MethodPost, "/api/tracking/fixes", gin.H{
			"latitude": -23.5, "longitude": -46.6, "speed": 30, "recorded_at": recorded,
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		s.tracker.AssertExpectations(t)
	})

	t.Run("dropped while paused", func(t *testing.T) {
		s := newTestServer(t)
		s.tracker.On("Ingest", mock.Anything, testRider, mock.Anything).Return(service.IngestResult{Accepted: false}, nil)

		w := s.do(t, http.MethodPost, "/api/tracking/fixes", gin.H{"latitude": 0, "longitude": 0})
		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/api/tracking/fixes", gin.H{"speed": 10})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		s.tracker.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("out of range", func(t *testing.T) {
		s := newTestServer(t)
		s.tracker.On("Ingest", mock.Anything, testRider, mock.Anything).Return(service.IngestResult{}, service.ErrInvalidFix)

		w := s.do(t, http.MethodPost, "/api/tracking/fixes", gin.H{"latitude": 123, "longitude": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTrackingTransitions(t *testing.T) {
	s := newTestServer(t)
	s.tracker.On("PauseSession", testRider).Return(state.Session{}, service.ErrNotTracking)
	s.tracker.On("ResumeSession", testRider).Return(state.Session{State: state.StateTracking}, nil)
	s.tracker.On("StopSession", mock.Anything, testRider).Return(nil, errors.New("db down"))

	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/tracking/pause", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/tracking/resume", nil).Code)

	w := s.do(t, http.MethodPost, "/api/tracking/stop", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to stop tracking", decode(t, w)["error"])
}

func TestTrackingStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, trackingStatus(service.ErrInvalidFix))
	assert.Equal(t, http.StatusConflict, trackingStatus(fmt.Errorf("wrapped: %w", service.ErrAlreadyPaused)))
	assert.Equal(t, http.StatusConflict, trackingStatus(service.ErrAlreadyTracking))
	assert.Equal(t, http.StatusInternalServerError, trackingStatus(errors.New("boom")))
}

func TestListTrips_Pagination(t *testing.T) {
	s := newTestServer(t)
	s.trips.On("ListByRider", mock.Anything, testRider, 20, 20).Return([]*models.Trip{{ID: 7}}, nil)
	s.trips.On("CountByRider", mock.Anything, testRider).Return(int64(21), nil)

	w := s.do(t, http.MethodGet, "/api/trips?page=2&per_page=500", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	p := body["pagination"].(map[string]interface{})
	assert.Equal(t, 2.0, p["page"])
	assert.Equal(t, 20.0, p["per_page"])
	assert.Equal(t, 21.0, p["total"])
	assert.Len(t, body["data"], 1)
}

func TestGetTrip(t *testing.T) {
	s := newTestServer(t)
	s.trips.On("GetByID", mock.Anything, testRider, int64(9)).Return(nil, fmt.Errorf("get trip: %w", pgx.ErrNoRows))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/trips/9", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/trips/abc", nil).Code)
}

func TestMotorcycle(t *testing.T) {
	s := newTestServer(t)
	s.motorcycles.On("GetByRider", mock.Anything, testRider).Return(nil, fmt.Errorf("get: %w", pgx.ErrNoRows))
	s.motorcycles.On("Upsert", mock.Anything, mock.MatchedBy(func(m *models.Motorcycle) bool {
		return m.RiderID == testRider && m.TankCapacityL == 14
	})).Return(nil)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/motorcycle", nil).Code)

	w := s.do(t, http.MethodPut, "/api/motorcycle", gin.H{"name": "CG 160", "tank_capacity_l": 14})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/motorcycle", gin.H{"name": "CG 160", "tank_capacity_l": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.motorcycles.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestCreateFueling_Validation(t *testing.T) {
	s := newTestServer(t)
	s.fuelings.On("Create", mock.Anything, mock.AnythingOfType("*models.Fueling")).Return(nil)

	w := s.do(t, http.MethodPost, "/api/fuelings", gin.H{"liter_price": 6.19, "liters": 8.5, "odometer": 12000, "full_tank": true})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/fuelings", gin.H{"liter_price": 0, "liters": 8.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.fuelings.AssertNumberOfCalls(t, "Create", 1)
}

func TestDeleteFueling(t *testing.T) {
	s := newTestServer(t)
	s.fuelings.On("Delete", mock.Anything, testRider, int64(3)).Return(nil)
	s.fuelings.On("Delete", mock.Anything, testRider, int64(4)).Return(fmt.Errorf("delete fueling: %w", pgx.ErrNoRows))

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/fuelings/3", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/fuelings/4", nil).Code)
}

func TestFuelEconomy_Window(t *testing.T) {
	s := newTestServer(t)
	s.reports.On("Fuel", mock.Anything, testRider, 5).Return(service.FuelReport{Records: 5}, nil)
	s.reports.On("Fuel", mock.Anything, testRider, 0).Return(service.FuelReport{}, nil)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/fuelings/economy?window=5", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/fuelings/economy", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/fuelings/economy?window=1", nil).Code)
}

func TestEarningsSummary_Dates(t *testing.T) {
	s := newTestServer(t)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s.reports.On("Earnings", mock.Anything, testRider, from, to).Return(service.EarningsReport{From: from, To: to}, nil)
	s.reports.On("Earnings", mock.Anything, testRider, time.Time{}, time.Time{}).Return(service.EarningsReport{}, nil)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/earnings/summary?from=2024-06-01&to=2024-06-30", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/earnings/summary", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/earnings/summary?from=01/06/2024", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/earnings/summary?from=2024-07-01&to=2024-06-01", nil).Code)
	s.reports.AssertExpectations(t)
}

func TestLogMaintenance(t *testing.T) {
	s := newTestServer(t)
	closed := &models.Maintenance{ID: 1, Type: "oil", Completed: true}
	s.maintenances.On("Log", mock.Anything, mock.MatchedBy(func(m *models.Maintenance) bool {
		return m.RiderID == testRider && m.Type == "oil" && m.Odometer == 13000
	})).Return(closed, nil)

	w := s.do(t, http.MethodPost, "/api/maintenances", gin.H{"type": "oil", "odometer": 13000, "cost": 45})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["completed"].(map[string]interface{})["completed"])

	w = s.do(t, http.MethodPost, "/api/maintenances", gin.H{"odometer": 13000})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogMaintenance_ConcurrentLogIsConflict(t *testing.T) {
	s := newTestServer(t)
	s.maintenances.On("Log", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("insert maintenance: %w", &pgconn.PgError{Code: "23505"}))

	w := s.do(t, http.MethodPost, "/api/maintenances", gin.H{"type": "oil", "odometer": 13000})
	assert.Equal(t, http.StatusConflict, w.Code)
}
