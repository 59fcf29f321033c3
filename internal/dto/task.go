package dto

import (
	"time"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
)

// TaskSimpleDTO is the task shape embedded in project responses
type TaskSimpleDTO struct {
	ID       uint64            `json:"id"`
	Name     string            `json:"name"`
	Status   models.TaskStatus `json:"status"`
	Assignee *UserDTO          `json:"assignee"`
	Deadline *string           `json:"deadline"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID              uint64            `json:"id"`
	ProjectID       uint64            `json:"project_id"`
	ProjectName     string            `json:"project_name,omitempty"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Status          models.TaskStatus `json:"status"`
	AssigneeID      *uint64           `json:"assignee_id"`
	Assignee        *UserDTO          `json:"assignee"`
	StoryPoints     *int              `json:"story_points"`
	Deadline        *string           `json:"deadline"`
	EstimationHours *float64          `json:"estimation_hours"`
	Version         uint              `json:"version"`
	StartedAt       *time.Time        `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// TransitionResponse reports the outcome of start-progress and mark-as-done
type TransitionResponse struct {
	Status     string            `json:"status"`
	TaskStatus models.TaskStatus `json:"task_status"`
}

// TaskDraftDTO is a task suggested from free text; it is not persisted
type TaskDraftDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
	StoryPoints *int    `json:"story_points"`
}

// StatusOverwriteResponse reports how many tasks an overwrite touched
type StatusOverwriteResponse struct {
	Updated int64             `json:"updated"`
	Status  models.TaskStatus `json:"status"`
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := utils.FormatDate(*t)
	return &s
}

func ToTaskSimpleDTO(task models.Task) TaskSimpleDTO {
	dto := TaskSimpleDTO{
		ID:       task.ID,
		Name:     task.Name,
		Status:   task.Status,
		Deadline: formatOptionalDate(task.Deadline),
	}
	if task.Assignee != nil {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	return dto
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:              task.ID,
		ProjectID:       task.ProjectID,
		Name:            task.Name,
		Description:     task.Description,
		Status:          task.Status,
		AssigneeID:      task.AssigneeID,
		StoryPoints:     task.StoryPoints,
		Deadline:        formatOptionalDate(task.Deadline),
		EstimationHours: task.EstimationHours,
		Version:         task.Version,
		StartedAt:       task.StartedAt,
		CompletedAt:     task.CompletedAt,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}

	// Include project name if preloaded
	if task.Project.ID != 0 {
		dto.ProjectName = task.Project.Name
	}

	// Include assignee if preloaded
	if task.Assignee != nil {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskDTO(task)
	}
	return out
}

func ToTaskDraftDTOs(drafts []services.GeneratedTask) []TaskDraftDTO {
	out := make([]TaskDraftDTO, len(drafts))
	for i, draft := range drafts {
		out[i] = TaskDraftDTO{
			Name:        draft.Name,
			Description: draft.Description,
			Deadline:    formatOptionalDate(draft.Deadline),
			StoryPoints: draft.StoryPoints,
		}
	}
	return out
}
