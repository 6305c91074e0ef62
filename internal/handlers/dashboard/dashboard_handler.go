// internal/handlers/dashboard/dashboard_handler.go
package dashboard

import (
	"net/http"
	"strconv"

	"mobiwash-service/internal/pkg/response"
	service "mobiwash-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Summary returns the headline figures for the admin landing page
func (h *DashboardHandler) Summary(c *gin.Context) {
	result, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to load dashboard", err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard retrieved", result)
}

// Accounting returns invoice totals and the monthly revenue breakdown
func (h *DashboardHandler) Accounting(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	result, err := h.dashboardService.Accounting(c.Request.Context(), months)
	if err != nil {
		response.FromError(c, "failed to load accounting summary", err)
		return
	}

	response.Success(c, http.StatusOK, "accounting summary retrieved", result)
}
