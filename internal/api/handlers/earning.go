package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/repository"
)

type earningRequest struct {
	Date            *time.Time `json:"date"`
	Amount          float64    `json:"amount" binding:"gte=0"`
	Tip             float64    `json:"tip" binding:"gte=0"`
	DistanceKm      float64    `json:"distance_km" binding:"gte=0"`
	DurationLabel   string     `json:"duration_label" binding:"max=30"`
	DurationMinutes *float64   `json:"duration_minutes" binding:"omitempty,gte=0"`
	Platform        string     `json:"platform" binding:"required,max=50"`
}

func (h *Handler) CreateEarning(c *gin.Context) {
	var req earningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e := &models.Earning{
		RiderID:         riderID(c),
		Date:            time.Now(),
		Amount:          req.Amount,
		Tip:             req.Tip,
		DistanceKm:      req.DistanceKm,
		DurationLabel:   req.DurationLabel,
		DurationMinutes: req.DurationMinutes,
		Platform:        req.Platform,
	}
	if req.Date != nil {
		e.Date = *req.Date
	}

	if err := h.deps.Earnings.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("Failed to create earning", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create earning"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": e})
}

func (h *Handler) ListEarnings(c *gin.Context) {
	page, perPage, offset := pagination(c)
	id := riderID(c)

	records, err := h.deps.Earnings.ListByRider(c.Request.Context(), id, perPage, offset)
	if err != nil {
		h.logger.Error("Failed to list earnings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list earnings"})
		return
	}

	total, _ := h.deps.Earnings.CountByRider(c.Request.Context(), id)
	paginated(c, records, page, perPage, total)
}

func (h *Handler) DeleteEarning(c *gin.Context) {
	id, ok := idParam(c, "earning")
	if !ok {
		return
	}

	if err := h.deps.Earnings.Delete(c.Request.Context(), riderID(c), id); err != nil {
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Earning not found"})
			return
		}
		h.logger.Error("Failed to delete earning", zap.Error(err), zap.Int64("earning_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete earning"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetEarningsSummary totals earnings between two calendar dates, both inclusive.
// Without from and to the current month is used.
// GET /api/earnings/summary?from=2024-06-01&to=2024-06-30
func (h *Handler) GetEarningsSummary(c *gin.Context) {
	from, err := h.parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a YYYY-MM-DD date"})
		return
	}
	to, err := h.parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be a YYYY-MM-DD date"})
		return
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must not be after to"})
		return
	}

	report, err := h.deps.Reports.Earnings(c.Request.Context(), riderID(c), from, to)
	if err != nil {
		h.logger.Error("Failed to build earnings report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build earnings report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

// parseDate reads a calendar date in the configured zone. Empty input is the zero time.
func (h *Handler) parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateOnly, raw, h.deps.Location)
}
