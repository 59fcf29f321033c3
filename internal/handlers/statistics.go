package handlers

import (
	"net/http"

	"github.com/employeest/employeest-api/internal/dto"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/gin-gonic/gin"
)

// StatisticsHandler serves rollups as chart URLs, or as raw series with
// ?format=json. ?title= overrides the chart title.
type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// ProjectTaskStatusChart charts a project's tasks per status
func (h *StatisticsHandler) ProjectTaskStatusChart(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rollup, err := h.statisticsService.ProjectStatusDistribution(c.Request.Context(), caller, projectID)
	h.respond(c, rollup, err)
}

// ProjectVelocityChart charts weekly completed story points. Owner only.
func (h *StatisticsHandler) ProjectVelocityChart(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rollup, err := h.statisticsService.ProjectVelocity(c.Request.Context(), caller, projectID)
	h.respond(c, rollup, err)
}

// BusinessStoryPointsMonthly charts monthly completed story points across
// all projects
func (h *StatisticsHandler) BusinessStoryPointsMonthly(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	rollup, err := h.statisticsService.BusinessMonthlyStoryPoints(c.Request.Context(), caller)
	h.respond(c, rollup, err)
}

// PersonalTaskCompletionChart charts the caller's monthly completed tasks
func (h *StatisticsHandler) PersonalTaskCompletionChart(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	rollup, err := h.statisticsService.PersonalMonthlyCompletions(c.Request.Context(), caller)
	h.respond(c, rollup, err)
}

func (h *StatisticsHandler) respond(c *gin.Context, rollup services.Rollup, err error) {
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "json" {
		if title := c.Query("title"); title != "" {
			rollup.Title = title
		}
		c.JSON(http.StatusOK, dto.ToSeriesResponse(rollup))
		return
	}

	url, err := h.statisticsService.RenderChart(c.Request.Context(), rollup, c.Query("title"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ChartResponse{ChartURL: url})
}
