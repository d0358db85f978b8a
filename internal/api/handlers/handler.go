package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/api/middleware"
	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/service"
	"github.com/motolog/motolog/internal/state"
	"github.com/motolog/motolog/pkg/ws"
)

type Tracker interface {
	Session(riderID string) state.Session
	Ingest(ctx context.Context, riderID string, fix models.GPSFix) (service.IngestResult, error)
	PauseSession(riderID string) (state.Session, error)
	ResumeSession(riderID string) (state.Session, error)
	StopSession(ctx context.Context, riderID string) (*models.Trip, error)
}

type Reporter interface {
	Fuel(ctx context.Context, riderID string, window int) (service.FuelReport, error)
	Earnings(ctx context.Context, riderID string, from, to time.Time) (service.EarningsReport, error)
	Maintenance(ctx context.Context, riderID string) ([]service.ServiceItem, error)
	Dashboard(ctx context.Context, riderID string) (service.Dashboard, error)
}

type MotorcycleStore interface {
	GetByRider(ctx context.Context, riderID string) (*models.Motorcycle, error)
	Upsert(ctx context.Context, m *models.Motorcycle) error
}

type TripReader interface {
	GetByID(ctx context.Context, riderID string, id int64) (*models.Trip, error)
	ListByRider(ctx context.Context, riderID string, limit, offset int) ([]*models.Trip, error)
	CountByRider(ctx context.Context, riderID string) (int64, error)
}

type FixLister interface {
	ListByTrip(ctx context.Context, riderID string, tripID int64) ([]models.GPSFix, error)
}

type FuelingStore interface {
	Create(ctx context.Context, f *models.Fueling) error
	ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Fueling, error)
	CountByRider(ctx context.Context, riderID string) (int64, error)
	Delete(ctx context.Context, riderID string, id int64) error
}

type EarningStore interface {
	Create(ctx context.Context, e *models.Earning) error
	ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Earning, error)
	CountByRider(ctx context.Context, riderID string) (int64, error)
	Delete(ctx context.Context, riderID string, id int64) error
}

type MaintenanceStore interface {
	Log(ctx context.Context, m *models.Maintenance) (*models.Maintenance, error)
	ListByRider(ctx context.Context, riderID string, limit, offset int) ([]models.Maintenance, error)
	CountByRider(ctx context.Context, riderID string) (int64, error)
}

type ReferenceStore interface {
	ListPlatforms(ctx context.Context) ([]models.Platform, error)
	ListMaintenanceCategories(ctx context.Context) ([]models.MaintenanceCategory, error)
}

// Deps groups what the handlers read from and write to.
type Deps struct {
	Tracker      Tracker
	Reports      Reporter
	Motorcycles  MotorcycleStore
	Trips        TripReader
	Fixes        FixLister
	Fuelings     FuelingStore
	Earnings     EarningStore
	Maintenances MaintenanceStore
	Reference    ReferenceStore
	Hub          *ws.Hub
	// calendar dates in query strings are read in this zone
	Location *time.Location
}

// Handler serves the rider API.
type Handler struct {
	logger   *zap.Logger
	deps     Deps
	upgrader websocket.Upgrader
}

func NewHandler(logger *zap.Logger, deps Deps) *Handler {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &Handler{
		logger: logger,
		deps:   deps,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // the token is checked before the upgrade
			},
		},
	}
}

// RegisterRoutes mounts every route. Everything under /api and /ws requires auth.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	api := r.Group("/api", auth)
	{
		api.GET("/motorcycle", h.GetMotorcycle)
		api.PUT("/motorcycle", h.PutMotorcycle)

		// live tracking
		api.GET("/tracking", h.GetSession)
		api.POST("/tracking/fixes", h.IngestFix)
		api.POST("/tracking/pause", h.PauseTracking)
		api.POST("/tracking/resume", h.ResumeTracking)
		api.POST("/tracking/stop", h.StopTracking)

		api.GET("/trips", h.ListTrips)
		api.GET("/trips/:id", h.GetTrip)
		api.GET("/trips/:id/fixes", h.GetTripFixes)

		api.POST("/fuelings", h.CreateFueling)
		api.GET("/fuelings", h.ListFuelings)
		api.GET("/fuelings/economy", h.GetFuelEconomy)
		api.DELETE("/fuelings/:id", h.DeleteFueling)

		api.POST("/earnings", h.CreateEarning)
		api.GET("/earnings", h.ListEarnings)
		api.GET("/earnings/summary", h.GetEarningsSummary)
		api.DELETE("/earnings/:id", h.DeleteEarning)

		api.POST("/maintenances", h.LogMaintenance)
		api.GET("/maintenances", h.ListMaintenances)
		api.GET("/maintenances/status", h.GetMaintenanceStatus)

		api.GET("/platforms", h.ListPlatforms)
		api.GET("/maintenance-categories", h.ListMaintenanceCategories)

		api.GET("/dashboard", h.GetDashboard)
	}

	r.GET("/ws", auth, h.HandleWebSocket)
	r.GET("/health", h.HealthCheck)
}

func riderID(c *gin.Context) string {
	rider, _ := middleware.Rider(c)
	return rider.ID
}

// pagination reads page and per_page, defaulting to 20 per page and capping at 100.
func pagination(c *gin.Context) (page, perPage, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage, (page - 1) * perPage
}

func paginated(c *gin.Context, data interface{}, page, perPage int, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
		},
	})
}

func idParam(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return id, true
}

// HandleWebSocket streams the rider's live session.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	id := riderID(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.deps.Hub, conn, id)
	client.Register()

	go client.ReadPump()
	go client.WritePump()
}

func (h *Handler) HealthCheck(c *gin.Context) {
	clients := 0
	if h.deps.Hub != nil {
		clients = h.deps.Hub.ClientCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": clients,
	})
}
