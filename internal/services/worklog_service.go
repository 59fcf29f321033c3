package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/employeest/employeest-api/internal/constants"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/repository"
	"github.com/employeest/employeest-api/internal/utils"
	"gorm.io/gorm"
)

// WorkLogService records hours spent on a task or a project.
type WorkLogService struct {
	workLogRepo repository.WorkLogRepository
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	now         func() time.Time
}

func NewWorkLogService(workLogRepo repository.WorkLogRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *WorkLogService {
	return &WorkLogService{
		workLogRepo: workLogRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		now:         utcNow,
	}
}

type ListWorkLogsInput struct {
	TaskID     *uint64
	ProjectID  *uint64
	DateAfter  *time.Time
	DateBefore *time.Time
	Offset     int
	Limit      int
}

type CreateWorkLogInput struct {
	TaskID      *uint64
	ProjectID   *uint64
	Date        *time.Time
	HoursSpent  float64
	Description string
}

// UpdateWorkLogInput carries the fields to change. Moving a log from a task
// to a project needs ClearTask as well as ProjectID, and the reverse.
type UpdateWorkLogInput struct {
	TaskID       *uint64
	ClearTask    bool
	ProjectID    *uint64
	ClearProject bool
	Date         *time.Time
	HoursSpent   *float64
	Description  *string
}

// ListWorkLogs lists the caller's own logs. Staff list everyone's.
func (s *WorkLogService) ListWorkLogs(ctx context.Context, caller policy.Caller, input ListWorkLogsInput) ([]models.WorkLog, int64, error) {
	filter := repository.WorkLogFilter{
		TaskID:     input.TaskID,
		ProjectID:  input.ProjectID,
		DateAfter:  input.DateAfter,
		DateBefore: input.DateBefore,
		Offset:     input.Offset,
		Limit:      input.Limit,
	}
	if !caller.IsStaff() {
		filter.UserID = &caller.ID
	}

	logs, total, err := s.workLogRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work logs: %w", err)
	}
	return logs, total, nil
}

func (s *WorkLogService) GetWorkLog(ctx context.Context, caller policy.Caller, id uint64) (*models.WorkLog, error) {
	return s.findForCaller(ctx, caller, id)
}

// CreateWorkLog records a log authored by the caller. The date defaults to
// today.
func (s *WorkLogService) CreateWorkLog(ctx context.Context, caller policy.Caller, input CreateWorkLogInput) (*models.WorkLog, error) {
	workLog := &models.WorkLog{
		UserID:      caller.ID,
		TaskID:      input.TaskID,
		ProjectID:   input.ProjectID,
		HoursSpent:  input.HoursSpent,
		Description: input.Description,
	}
	if input.Date != nil {
		workLog.Date = utils.Today(*input.Date)
	} else {
		workLog.Date = utils.Today(s.now())
	}

	if err := s.validate(ctx, workLog); err != nil {
		return nil, err
	}

	if err := s.workLogRepo.Create(ctx, workLog); err != nil {
		return nil, fmt.Errorf("failed to create work log: %w", err)
	}

	return s.findForCaller(ctx, caller, workLog.ID)
}

func (s *WorkLogService) UpdateWorkLog(ctx context.Context, caller policy.Caller, id uint64, input UpdateWorkLogInput) (*models.WorkLog, error) {
	workLog, err := s.findForCaller(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if input.ClearTask {
		workLog.TaskID = nil
	} else if input.TaskID != nil {
		workLog.TaskID = input.TaskID
	}
	if input.ClearProject {
		workLog.ProjectID = nil
	} else if input.ProjectID != nil {
		workLog.ProjectID = input.ProjectID
	}
	if input.Date != nil {
		workLog.Date = utils.Today(*input.Date)
	}
	if input.HoursSpent != nil {
		workLog.HoursSpent = *input.HoursSpent
	}
	if input.Description != nil {
		workLog.Description = *input.Description
	}

	if err := s.validate(ctx, workLog); err != nil {
		return nil, err
	}

	if err := s.workLogRepo.Update(ctx, workLog); err != nil {
		return nil, fmt.Errorf("failed to update work log: %w", err)
	}

	return s.findForCaller(ctx, caller, workLog.ID)
}

func (s *WorkLogService) DeleteWorkLog(ctx context.Context, caller policy.Caller, id uint64) error {
	if _, err := s.findForCaller(ctx, caller, id); err != nil {
		return err
	}

	if err := s.workLogRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete work log: %w", err)
	}
	return nil
}

// validate enforces that exactly one of task and project is set, that it
// exists and that the hours are in range.
func (s *WorkLogService) validate(ctx context.Context, workLog *models.WorkLog) error {
	switch {
	case workLog.TaskID == nil && workLog.ProjectID == nil:
		return ErrWorkLogNoTarget
	case workLog.TaskID != nil && workLog.ProjectID != nil:
		return ErrWorkLogBothTargets
	}

	if workLog.HoursSpent <= 0 || workLog.HoursSpent > constants.MaxHoursPerWorkLog {
		return ErrInvalidHours
	}

	if workLog.TaskID != nil {
		if _, err := s.taskRepo.FindByID(ctx, *workLog.TaskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkLogTaskMissing
			}
			return fmt.Errorf("failed to find task: %w", err)
		}
		return nil
	}

	exists, err := s.projectRepo.Exists(ctx, *workLog.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to verify project: %w", err)
	}
	if !exists {
		return ErrProjectMissing
	}
	return nil
}

func (s *WorkLogService) findForCaller(ctx context.Context, caller policy.Caller, id uint64) (*models.WorkLog, error) {
	workLog, err := s.workLogRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkLogNotFound
		}
		return nil, fmt.Errorf("failed to find work log: %w", err)
	}

	if err := policy.Authorize(caller, policy.ForWorkLog(*workLog), policy.CanWrite); err != nil {
		return nil, err
	}
	return workLog, nil
}
