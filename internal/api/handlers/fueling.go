package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/repository"
)

type fuelingRequest struct {
	Date       *time.Time `json:"date"`
	LiterPrice float64    `json:"liter_price" binding:"gt=0"`
	Liters     float64    `json:"liters" binding:"gt=0"`
	Odometer   float64    `json:"odometer" binding:"gte=0"`
	FullTank   bool       `json:"full_tank"`
}

func (h *Handler) CreateFueling(c *gin.Context) {
	var req fuelingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f := &models.Fueling{
		RiderID:    riderID(c),
		Date:       time.Now(),
		LiterPrice: req.LiterPrice,
		Liters:     req.Liters,
		Odometer:   req.Odometer,
		FullTank:   req.FullTank,
	}
	if req.Date != nil {
		f.Date = *req.Date
	}

	if err := h.deps.Fuelings.Create(c.Request.Context(), f); err != nil {
		h.logger.Error("Failed to create fueling", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fueling"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": f})
}

func (h *Handler) ListFuelings(c *gin.Context) {
	page, perPage, offset := pagination(c)
	id := riderID(c)

	records, err := h.deps.Fuelings.ListByRider(c.Request.Context(), id, perPage, offset)
	if err != nil {
		h.logger.Error("Failed to list fuelings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fuelings"})
		return
	}

	total, _ := h.deps.Fuelings.CountByRider(c.Request.Context(), id)
	paginated(c, records, page, perPage, total)
}

func (h *Handler) DeleteFueling(c *gin.Context) {
	id, ok := idParam(c, "fueling")
	if !ok {
		return
	}

	if err := h.deps.Fuelings.Delete(c.Request.Context(), riderID(c), id); err != nil {
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fueling not found"})
			return
		}
		h.logger.Error("Failed to delete fueling", zap.Error(err), zap.Int64("fueling_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete fueling"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetFuelEconomy reports consumption over the last `window` fill-ups with costs and autonomy.
// GET /api/fuelings/economy?window=3
func (h *Handler) GetFuelEconomy(c *gin.Context) {
	window := 0
	if raw := c.Query("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window must be an integer of at least 2"})
			return
		}
		window = n
	}

	report, err := h.deps.Reports.Fuel(c.Request.Context(), riderID(c), window)
	if err != nil {
		h.logger.Error("Failed to build fuel report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build fuel report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
