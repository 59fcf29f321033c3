package dto

import (
	"time"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/utils"
)

// WorkLogDTO represents a work log in API responses
type WorkLogDTO struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	TaskID      *uint64   `json:"task_id"`
	ProjectID   *uint64   `json:"project_id"`
	Date        string    `json:"date"`
	HoursSpent  float64   `json:"hours_spent"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkLogListResponse represents a paginated list of work logs
type WorkLogListResponse struct {
	WorkLogs   []WorkLogDTO             `json:"worklogs"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

func ToWorkLogDTO(workLog models.WorkLog) WorkLogDTO {
	return WorkLogDTO{
		ID:          workLog.ID,
		UserID:      workLog.UserID,
		TaskID:      workLog.TaskID,
		ProjectID:   workLog.ProjectID,
		Date:        utils.FormatDate(workLog.Date),
		HoursSpent:  workLog.HoursSpent,
		Description: workLog.Description,
		CreatedAt:   workLog.CreatedAt,
	}
}

func ToWorkLogDTOs(workLogs []models.WorkLog) []WorkLogDTO {
	out := make([]WorkLogDTO, len(workLogs))
	for i, workLog := range workLogs {
		out[i] = ToWorkLogDTO(workLog)
	}
	return out
}
