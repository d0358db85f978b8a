package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/service"
)

type fixRequest struct {
	Latitude   *float64   `json:"latitude" binding:"required"`
	Longitude  *float64   `json:"longitude" binding:"required"`
	Speed      float64    `json:"speed" binding:"gte=0"`
	Context    *string    `json:"context" binding:"omitempty,max=50"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// trackingStatus maps tracking errors to HTTP statuses.
func trackingStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidFix):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotTracking),
		errors.Is(err, service.ErrAlreadyTracking),
		errors.Is(err, service.ErrAlreadyPaused):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) trackingError(c *gin.Context, err error, msg string) {
	status := trackingStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, zap.String("rider_id", riderID(c)), zap.Error(err))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// GetSession returns the live session, idle when nothing is being tracked.
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.deps.Tracker.Session(riderID(c))})
}

// IngestFix stores one GPS fix, opening a trip when the rider is idle.
// POST /api/tracking/fixes
func (h *Handler) IngestFix(c *gin.Context) {
	var req fixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fix := models.GPSFix{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Speed:     req.Speed,
		Context:   req.Context,
	}
	if req.RecordedAt != nil {
		fix.RecordedAt = *req.RecordedAt
	}

	result, err := h.deps.Tracker.Ingest(c.Request.Context(), riderID(c), fix)
	if err != nil {
		h.trackingError(c, err, "Failed to ingest fix")
		return
	}

	status := http.StatusCreated
	if !result.Accepted {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{"data": result})
}

func (h *Handler) PauseTracking(c *gin.Context) {
	sess, err := h.deps.Tracker.PauseSession(riderID(c))
	if err != nil {
		h.trackingError(c, err, "Failed to pause tracking")
		return
	}

	h.logger.Info("Tracking paused via API", zap.String("rider_id", riderID(c)))
	c.JSON(http.StatusOK, gin.H{"data": sess})
}

func (h *Handler) ResumeTracking(c *gin.Context) {
	sess, err := h.deps.Tracker.ResumeSession(riderID(c))
	if err != nil {
		h.trackingError(c, err, "Failed to resume tracking")
		return
	}

	h.logger.Info("Tracking resumed via API", zap.String("rider_id", riderID(c)))
	c.JSON(http.StatusOK, gin.H{"data": sess})
}

// StopTracking completes the trip and returns it.
func (h *Handler) StopTracking(c *gin.Context) {
	trip, err := h.deps.Tracker.StopSession(c.Request.Context(), riderID(c))
	if err != nil {
		h.trackingError(c, err, "Failed to stop tracking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trip})
}
