package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/repository"
)

func (h *Handler) ListTrips(c *gin.Context) {
	page, perPage, offset := pagination(c)
	id := riderID(c)

	trips, err := h.deps.Trips.ListByRider(c.Request.Context(), id, perPage, offset)
	if err != nil {
		h.logger.Error("Failed to list trips", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}

	total, _ := h.deps.Trips.CountByRider(c.Request.Context(), id)
	paginated(c, trips, page, perPage, total)
}

func (h *Handler) GetTrip(c *gin.Context) {
	id, ok := idParam(c, "trip")
	if !ok {
		return
	}

	trip, err := h.deps.Trips.GetByID(c.Request.Context(), riderID(c), id)
	if err != nil {
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		h.logger.Error("Failed to get trip", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get trip"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trip})
}

// GetTripFixes returns the route of a trip in recording order.
func (h *Handler) GetTripFixes(c *gin.Context) {
	id, ok := idParam(c, "trip")
	if !ok {
		return
	}

	fixes, err := h.deps.Fixes.ListByTrip(c.Request.Context(), riderID(c), id)
	if err != nil {
		h.logger.Error("Failed to list fixes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fixes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fixes})
}
