package handlers

import (
	"net/http"

	"voice_admin_backend/internal/services"
	"voice_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler holds the dashboard service.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

// GetOverview handles the dashboard overview payload.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardService.GetOverview(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetOverview: Error from dashboardService.GetOverview")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard overview.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetUsage handles the usage-by-day series.
func (h *DashboardHandler) GetUsage(c *gin.Context) {
	usage, err := h.dashboardService.GetUsage(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetUsage: Error from dashboardService.GetUsage")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build usage series.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, usage)
}
