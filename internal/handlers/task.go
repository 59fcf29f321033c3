package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/employeest/employeest-api/internal/dto"
	apierrors "github.com/employeest/employeest-api/internal/errors"
	"github.com/employeest/employeest-api/internal/lifecycle"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-gonic/gin"
)

var taskOrderings = map[string]bool{
	"created_at": true,
	"deadline":   true,
	"status":     true,
	"name":       true,
}

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns the tasks the caller may read
//
// Query parameters: project_id, status (comma separated) or status__in,
// assignee_id, assignee_id__isnull, name, project_name, search,
// deadline_after, deadline_before, ordering (prefix "-" for descending),
// page, limit.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	input, ok := parseTaskQuery(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input.Offset = params.Offset
	input.Limit = params.Limit

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), caller, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:      dto.ToTaskDTOs(tasks),
		Pagination: utils.NewPaginationResponse(params, total),
	})
}

func parseTaskQuery(c *gin.Context) (services.ListTasksInput, bool) {
	var input services.ListTasksInput
	var ok bool

	if input.ProjectID, ok = optionalUintQuery(c, "project_id"); !ok {
		return input, false
	}
	if input.AssigneeID, ok = optionalUintQuery(c, "assignee_id"); !ok {
		return input, false
	}

	for _, key := range []string{"status", "status__in"} {
		for _, raw := range strings.Split(c.Query(key), ",") {
			if raw = strings.TrimSpace(raw); raw != "" {
				input.Statuses = append(input.Statuses, models.TaskStatus(strings.ToUpper(raw)))
			}
		}
	}

	if raw := c.Query("assignee_id__isnull"); raw != "" {
		isNull, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id__isnull")
			return input, false
		}
		input.AssigneeIsNull = &isNull
	}

	input.Name = c.Query("name")
	input.ProjectName = c.Query("project_name")
	input.Search = c.Query("search")

	var err error
	if input.DeadlineAfter, err = utils.ParseOptionalDate(c.Query("deadline_after")); err != nil {
		apierrors.BadRequest(c, "Invalid deadline_after: "+err.Error())
		return input, false
	}
	if input.DeadlineBefore, err = utils.ParseOptionalDate(c.Query("deadline_before")); err != nil {
		apierrors.BadRequest(c, "Invalid deadline_before: "+err.Error())
		return input, false
	}

	if ordering := c.Query("ordering"); ordering != "" {
		field := strings.TrimPrefix(ordering, "-")
		if !taskOrderings[field] {
			apierrors.BadRequest(c, "Invalid ordering")
			return input, false
		}
		input.OrderBy = field
		input.OrderDescending = strings.HasPrefix(ordering, "-")
	}

	return input, true
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), caller, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task in a project owned by the caller
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		ProjectID       uint64            `json:"project_id" binding:"required"`
		Name            string            `json:"name" binding:"required,min=1,max=255"`
		Description     string            `json:"description"`
		Status          models.TaskStatus `json:"status"`
		AssigneeID      *uint64           `json:"assignee_id"`
		StoryPoints     *int              `json:"story_points"`
		Deadline        string            `json:"deadline"`
		EstimationHours *float64          `json:"estimation_hours"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	deadline, err := utils.ParseOptionalDate(req.Deadline)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), caller, services.CreateTaskInput{
		ProjectID:       req.ProjectID,
		Name:            req.Name,
		Description:     req.Description,
		Status:          req.Status,
		AssigneeID:      req.AssigneeID,
		StoryPoints:     req.StoryPoints,
		Deadline:        deadline,
		EstimationHours: req.EstimationHours,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask serves both PUT and PATCH. Omitted fields are left as is and
// null clears an optional field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		ProjectID       *uint64            `json:"project_id"`
		Name            *string            `json:"name" binding:"omitempty,min=1,max=255"`
		Description     *string            `json:"description"`
		Status          *models.TaskStatus `json:"status"`
		AssigneeID      optional[uint64]   `json:"assignee_id"`
		StoryPoints     optional[int]      `json:"story_points"`
		Deadline        optional[string]   `json:"deadline"`
		EstimationHours optional[float64]  `json:"estimation_hours"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.UpdateTaskInput{
		ProjectID:            req.ProjectID,
		Name:                 req.Name,
		Description:          req.Description,
		Status:               req.Status,
		AssigneeID:           req.AssigneeID.Value,
		ClearAssignee:        req.AssigneeID.cleared(),
		StoryPoints:          req.StoryPoints.Value,
		ClearStoryPoints:     req.StoryPoints.cleared(),
		ClearDeadline:        req.Deadline.cleared(),
		EstimationHours:      req.EstimationHours.Value,
		ClearEstimationHours: req.EstimationHours.cleared(),
	}
	if req.Deadline.Value != nil {
		deadline, err := utils.ParseDate(*req.Deadline.Value)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.Deadline = &deadline
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), caller, taskID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and its work logs
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), caller, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// StartProgress moves a TODO task to IN_PROGRESS
func (h *TaskHandler) StartProgress(c *gin.Context) {
	h.transition(c, lifecycle.StartProgress)
}

// MarkAsDone moves an IN_PROGRESS task to DONE
func (h *TaskHandler) MarkAsDone(c *gin.Context) {
	h.transition(c, lifecycle.MarkAsDone)
}

func (h *TaskHandler) transition(c *gin.Context, t lifecycle.Transition) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Transition(c.Request.Context(), caller, taskID, t)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			apierrors.InvalidOperation(c, lifecycle.Message(t, false))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TransitionResponse{
		Status:     lifecycle.Message(t, true),
		TaskStatus: task.Status,
	})
}

// GenerateDrafts suggests tasks for a project from free text. Nothing is
// saved; the client creates the tasks it keeps.
func (h *TaskHandler) GenerateDrafts(c *gin.Context) {
	type GenerateDraftsRequest struct {
		Text string `json:"text" binding:"required"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req GenerateDraftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	drafts, err := h.taskService.GenerateDrafts(c.Request.Context(), caller, projectID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drafts": dto.ToTaskDraftDTOs(drafts)})
}

// OverwriteStatus sets the status of many tasks at once, bypassing the
// lifecycle. The route is gated to administrators.
func (h *TaskHandler) OverwriteStatus(c *gin.Context) {
	type OverwriteStatusRequest struct {
		TaskIDs []uint64          `json:"task_ids" binding:"required,min=1"`
		Status  models.TaskStatus `json:"status" binding:"required"`
	}

	var req OverwriteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.taskService.OverwriteStatus(c.Request.Context(), req.TaskIDs, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusOverwriteResponse{Updated: updated, Status: req.Status})
}
