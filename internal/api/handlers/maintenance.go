package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/repository"
)

type maintenanceRequest struct {
	Type        string     `json:"type" binding:"required,max=100"`
	Odometer    float64    `json:"odometer" binding:"gte=0"`
	Cost        float64    `json:"cost" binding:"gte=0"`
	Notes       string     `json:"notes" binding:"max=500"`
	PerformedAt *time.Time `json:"performed_at"`
}

// LogMaintenance records a service and closes the previous open one of the same type.
// POST /api/maintenances
func (h *Handler) LogMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := &models.Maintenance{
		RiderID:     riderID(c),
		Type:        req.Type,
		Odometer:    req.Odometer,
		Cost:        req.Cost,
		Notes:       req.Notes,
		PerformedAt: time.Now(),
	}
	if req.PerformedAt != nil {
		m.PerformedAt = *req.PerformedAt
	}

	closed, err := h.deps.Maintenances.Log(c.Request.Context(), m)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Another service of this type is being logged, retry"})
			return
		}
		h.logger.Error("Failed to log maintenance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log maintenance"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":      m,
		"completed": closed,
	})
}

func (h *Handler) ListMaintenances(c *gin.Context) {
	page, perPage, offset := pagination(c)
	id := riderID(c)

	events, err := h.deps.Maintenances.ListByRider(c.Request.Context(), id, perPage, offset)
	if err != nil {
		h.logger.Error("Failed to list maintenances", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list maintenances"})
		return
	}

	total, _ := h.deps.Maintenances.CountByRider(c.Request.Context(), id)
	paginated(c, events, page, perPage, total)
}

// GetMaintenanceStatus evaluates every logged service type against the current odometer.
func (h *Handler) GetMaintenanceStatus(c *gin.Context) {
	items, err := h.deps.Reports.Maintenance(c.Request.Context(), riderID(c))
	if err != nil {
		h.logger.Error("Failed to evaluate maintenance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate maintenance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}
