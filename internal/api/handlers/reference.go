package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ListPlatforms(c *gin.Context) {
	platforms, err := h.deps.Reference.ListPlatforms(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list platforms", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list platforms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": platforms})
}

func (h *Handler) ListMaintenanceCategories(c *gin.Context) {
	categories, err := h.deps.Reference.ListMaintenanceCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list maintenance categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list maintenance categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// GetDashboard combines the month's earnings, fuel costs and maintenance status.
func (h *Handler) GetDashboard(c *gin.Context) {
	dashboard, err := h.deps.Reports.Dashboard(c.Request.Context(), riderID(c))
	if err != nil {
		h.logger.Error("Failed to build dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dashboard})
}
