package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/employeest/employeest-api/internal/constants"
	"github.com/employeest/employeest-api/internal/lifecycle"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	aiService   *AIService
	now         func() time.Time
}

// NewTaskService creates a new TaskService. aiService may be nil when no
// API key is configured.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		aiService:   aiService,
		now:         utcNow,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID       *uint64
	Statuses        []models.TaskStatus
	AssigneeID      *uint64
	AssigneeIsNull  *bool
	Name            string
	ProjectName     string
	Search          string
	DeadlineAfter   *time.Time
	DeadlineBefore  *time.Time
	OrderBy         string
	OrderDescending bool
	Offset          int
	Limit           int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID       uint64
	Name            string
	Description     string
	Status          models.TaskStatus
	AssigneeID      *uint64
	StoryPoints     *int
	Deadline        *time.Time
	EstimationHours *float64
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched; the Clear flags reset optional fields to null.
type UpdateTaskInput struct {
	ProjectID            *uint64
	Name                 *string
	Description          *string
	Status               *models.TaskStatus
	AssigneeID           *uint64
	ClearAssignee        bool
	StoryPoints          *int
	ClearStoryPoints     bool
	Deadline             *time.Time
	ClearDeadline        bool
	EstimationHours      *float64
	ClearEstimationHours bool
}

// ListTasks returns the tasks the caller may read. Staff see every task.
func (s *TaskService) ListTasks(ctx context.Context, caller policy.Caller, input ListTasksInput) ([]models.Task, int64, error) {
	for _, status := range input.Statuses {
		if !status.Valid() {
			return nil, 0, ErrInvalidStatus
		}
	}

	filter := repository.TaskFilter{
		ProjectID:       input.ProjectID,
		Statuses:        input.Statuses,
		AssigneeID:      input.AssigneeID,
		AssigneeIsNull:  input.AssigneeIsNull,
		Name:            strings.TrimSpace(input.Name),
		ProjectName:     strings.TrimSpace(input.ProjectName),
		Search:          strings.TrimSpace(input.Search),
		DeadlineAfter:   input.DeadlineAfter,
		DeadlineBefore:  input.DeadlineBefore,
		OrderBy:         input.OrderBy,
		OrderDescending: input.OrderDescending,
		Offset:          input.Offset,
		Limit:           input.Limit,
	}
	if !caller.IsStaff() {
		filter.Visibility = &repository.TaskVisibility{UserID: caller.ID}
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(ctx context.Context, caller policy.Caller, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.ForTask(*task), policy.CanRead); err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTask creates a task in a project the caller owns. Staff may create
// tasks in any project.
func (s *TaskService) CreateTask(ctx context.Context, caller policy.Caller, input CreateTaskInput) (*models.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTaskNameRequired
	}
	if input.Status != "" && input.Status != models.TaskStatusTodo {
		return nil, ErrStatusNotEditable
	}
	if err := validateEstimates(input.StoryPoints, input.EstimationHours); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectMissing
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project.OwnerID != caller.ID && !caller.IsStaff() {
		return nil, ErrForbidden
	}

	if err := s.ensureAssigneeExists(ctx, input.AssigneeID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:       project.ID,
		Name:            name,
		Description:     input.Description,
		Status:          models.TaskStatusTodo,
		AssigneeID:      input.AssigneeID,
		StoryPoints:     input.StoryPoints,
		Deadline:        input.Deadline,
		EstimationHours: input.EstimationHours,
		Version:         1,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.findTask(ctx, task.ID)
}

// UpdateTask updates the editable fields of a task. The status only moves
// through transitions, so a differing status is rejected.
func (s *TaskService) UpdateTask(ctx context.Context, caller policy.Caller, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.ForTask(*task), policy.CanWrite); err != nil {
		return nil, err
	}

	if input.Status != nil && *input.Status != task.Status {
		return nil, ErrStatusNotEditable
	}

	if input.ProjectID != nil && *input.ProjectID != task.ProjectID {
		target, err := s.projectRepo.FindByID(ctx, *input.ProjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectMissing
			}
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
		if err := policy.Authorize(caller, policy.ForProject(*target), policy.CanWrite); err != nil {
			return nil, err
		}
		task.ProjectID = target.ID
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}

	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.ensureAssigneeExists(ctx, input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}

	if input.ClearStoryPoints {
		task.StoryPoints = nil
	} else if input.StoryPoints != nil {
		task.StoryPoints = input.StoryPoints
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.ClearEstimationHours {
		task.EstimationHours = nil
	} else if input.EstimationHours != nil {
		task.EstimationHours = input.EstimationHours
	}
	if err := validateEstimates(task.StoryPoints, task.EstimationHours); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(ctx, task.ID)
}

// DeleteTask deletes a task the caller may write
func (s *TaskService) DeleteTask(ctx context.Context, caller policy.Caller, taskID uint64) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(caller, policy.ForTask(*task), policy.CanWrite); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// Transition moves a task through the lifecycle. The write is conditional
// on the status read here, so of two concurrent calls from the same state
// only one succeeds.
func (s *TaskService) Transition(ctx context.Context, caller policy.Caller, taskID uint64, t lifecycle.Transition) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.ForTask(*task), policy.CanWrite); err != nil {
		return nil, err
	}

	now := s.now()
	change, err := lifecycle.Plan(task.Status, t, now)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.TransitionStatus(ctx, task.ID, change, now); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, fmt.Errorf("%w: task %d is no longer %s", ErrInvalidTransition, task.ID, change.From)
		}
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.findTask(ctx, task.ID)
}

// OverwriteStatus sets the status of the given tasks without consulting the
// lifecycle. It is reserved to administrative tooling and returns the
// number of tasks changed.
func (s *TaskService) OverwriteStatus(ctx context.Context, taskIDs []uint64, status models.TaskStatus) (int64, error) {
	if !status.Valid() {
		return 0, ErrInvalidStatus
	}
	ids := uniqueUint64(taskIDs)
	if len(ids) == 0 {
		return 0, ErrNoTaskIDs
	}

	updated, err := s.taskRepo.ForceStatus(ctx, ids, status, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to overwrite task status: %w", err)
	}
	return updated, nil
}

// GenerateDrafts uses AI to suggest tasks for a project from free text.
// Nothing is persisted.
func (s *TaskService) GenerateDrafts(ctx context.Context, caller policy.Caller, projectID uint64, text string) ([]GeneratedTask, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if err := policy.Authorize(caller, policy.ForProject(*project), policy.CanWrite); err != nil {
		return nil, err
	}

	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrDraftTextRequired
	}

	now := s.now()
	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, project.Name, text, now)
	if err != nil {
		log.Printf("task drafts for project %d failed: %v", project.ID, err)
		return nil, ErrAIRequestFailed
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := now.Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		if aiTask.Name == "" {
			continue
		}
		if aiTask.Deadline != nil && aiTask.Deadline.Before(cutoff) {
			aiTask.Deadline = nil
		}
		if aiTask.StoryPoints != nil && *aiTask.StoryPoints < 0 {
			aiTask.StoryPoints = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Project", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ensureAssigneeExists(ctx context.Context, assigneeID *uint64) error {
	if assigneeID == nil {
		return nil
	}
	exists, err := s.userRepo.Exists(ctx, *assigneeID)
	if err != nil {
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	if !exists {
		return ErrAssigneeMissing
	}
	return nil
}

func validateEstimates(storyPoints *int, estimationHours *float64) error {
	if storyPoints != nil && *storyPoints < 0 {
		return ErrNegativeStoryPoints
	}
	if estimationHours != nil && *estimationHours < 0 {
		return ErrNegativeEstimation
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

func utcNow() time.Time {
	return time.Now().UTC()
}
