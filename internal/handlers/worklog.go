package handlers

import (
	"net/http"

	"github.com/employeest/employeest-api/internal/dto"
	apierrors "github.com/employeest/employeest-api/internal/errors"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type WorkLogHandler struct {
	workLogService *services.WorkLogService
}

func NewWorkLogHandler(workLogService *services.WorkLogService) *WorkLogHandler {
	return &WorkLogHandler{workLogService: workLogService}
}

// ListWorkLogs returns the caller's work logs, or everyone's for staff
func (h *WorkLogHandler) ListWorkLogs(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	taskID, ok := optionalUintQuery(c, "task_id")
	if !ok {
		return
	}
	projectID, ok := optionalUintQuery(c, "project_id")
	if !ok {
		return
	}
	dateAfter, err := utils.ParseOptionalDate(c.Query("date_after"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid date_after: "+err.Error())
		return
	}
	dateBefore, err := utils.ParseOptionalDate(c.Query("date_before"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid date_before: "+err.Error())
		return
	}

	params := utils.GetPaginationParams(c)
	workLogs, total, err := h.workLogService.ListWorkLogs(c.Request.Context(), caller, services.ListWorkLogsInput{
		TaskID:     taskID,
		ProjectID:  projectID,
		DateAfter:  dateAfter,
		DateBefore: dateBefore,
		Offset:     params.Offset,
		Limit:      params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WorkLogListResponse{
		WorkLogs:   dto.ToWorkLogDTOs(workLogs),
		Pagination: utils.NewPaginationResponse(params, total),
	})
}

func (h *WorkLogHandler) GetWorkLog(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workLog, err := h.workLogService.GetWorkLog(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkLogDTO(*workLog))
}

// CreateWorkLog records hours against exactly one task or project
func (h *WorkLogHandler) CreateWorkLog(c *gin.Context) {
	type CreateWorkLogRequest struct {
		TaskID      *uint64 `json:"task_id"`
		ProjectID   *uint64 `json:"project_id"`
		Date        string  `json:"date"`
		HoursSpent  float64 `json:"hours_spent" binding:"required"`
		Description string  `json:"description"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req CreateWorkLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	date, err := utils.ParseOptionalDate(req.Date)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	workLog, err := h.workLogService.CreateWorkLog(c.Request.Context(), caller, services.CreateWorkLogInput{
		TaskID:      req.TaskID,
		ProjectID:   req.ProjectID,
		Date:        date,
		HoursSpent:  req.HoursSpent,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkLogDTO(*workLog))
}

// UpdateWorkLog serves both PUT and PATCH; null detaches task or project
func (h *WorkLogHandler) UpdateWorkLog(c *gin.Context) {
	type UpdateWorkLogRequest struct {
		TaskID      optional[uint64] `json:"task_id"`
		ProjectID   optional[uint64] `json:"project_id"`
		Date        *string          `json:"date"`
		HoursSpent  *float64         `json:"hours_spent"`
		Description *string          `json:"description"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateWorkLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.UpdateWorkLogInput{
		TaskID:       req.TaskID.Value,
		ClearTask:    req.TaskID.cleared(),
		ProjectID:    req.ProjectID.Value,
		ClearProject: req.ProjectID.cleared(),
		HoursSpent:   req.HoursSpent,
		Description:  req.Description,
	}
	if req.Date != nil {
		date, err := utils.ParseDate(*req.Date)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.Date = &date
	}

	workLog, err := h.workLogService.UpdateWorkLog(c.Request.Context(), caller, id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkLogDTO(*workLog))
}

func (h *WorkLogHandler) DeleteWorkLog(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.workLogService.DeleteWorkLog(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
