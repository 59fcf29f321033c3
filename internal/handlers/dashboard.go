package handlers

import (
	"net/http"

	"github.com/employeest/employeest-api/internal/dto"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Owner returns summary counters and the caller's projects
func (h *DashboardHandler) Owner(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Owner(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOwnerDashboardResponse(*dashboard))
}

// Employee returns the caller's projects, team and open tasks
func (h *DashboardHandler) Employee(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Employee(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDashboardResponse(*dashboard))
}
