package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/repository"
)

type motorcycleRequest struct {
	Name                   string  `json:"name" binding:"required,max=100"`
	Plate                  string  `json:"plate" binding:"max=20"`
	TankCapacityL          float64 `json:"tank_capacity_l" binding:"gte=0"`
	OilChangeIntervalKm    float64 `json:"oil_change_interval_km" binding:"gte=0"`
	OilChangeCost          float64 `json:"oil_change_cost" binding:"gte=0"`
	MonthlyMaintenanceCost float64 `json:"monthly_maintenance_cost" binding:"gte=0"`
	MonthlyKmEstimate      float64 `json:"monthly_km_estimate" binding:"gte=0"`
}

func (h *Handler) GetMotorcycle(c *gin.Context) {
	bike, err := h.deps.Motorcycles.GetByRider(c.Request.Context(), riderID(c))
	if err != nil {
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Motorcycle not found"})
			return
		}
		h.logger.Error("Failed to get motorcycle", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get motorcycle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bike})
}

// PutMotorcycle creates or replaces the rider's motorcycle profile.
func (h *Handler) PutMotorcycle(c *gin.Context) {
	var req motorcycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bike := &models.Motorcycle{
		RiderID:                riderID(c),
		Name:                   req.Name,
		Plate:                  req.Plate,
		TankCapacityL:          req.TankCapacityL,
		OilChangeIntervalKm:    req.OilChangeIntervalKm,
		OilChangeCost:          req.OilChangeCost,
		MonthlyMaintenanceCost: req.MonthlyMaintenanceCost,
		MonthlyKmEstimate:      req.MonthlyKmEstimate,
	}
	if err := h.deps.Motorcycles.Upsert(c.Request.Context(), bike); err != nil {
		h.logger.Error("Failed to save motorcycle", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save motorcycle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bike})
}
