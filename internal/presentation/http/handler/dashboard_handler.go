package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics. refresh=true recomputes
// them instead of serving the cached copy.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	force, _ := strconv.ParseBool(c.Query("refresh"))

	stats, err := h.dashboardService.GetStats(c.Request.Context(), force)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// Stream pushes the statistics as server-sent events whenever the
// underlying records change
func (h *DashboardHandler) Stream(c *gin.Context) {
	updates, err := h.dashboardService.Stream(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		stats, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent("stats", stats)
		return true
	})
}
