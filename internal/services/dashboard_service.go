package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/repository"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// OwnerSummary holds the counters shown on the owner dashboard.
type OwnerSummary struct {
	TotalProjects   int64 `json:"total_projects"`
	ActiveProjects  int64 `json:"active_projects"`
	TotalTasks      int64 `json:"total_tasks"`
	TasksTodo       int64 `json:"tasks_todo"`
	TasksInProgress int64 `json:"tasks_inprogress"`
	TasksDone       int64 `json:"tasks_done"`
}

type OwnerDashboard struct {
	Summary  OwnerSummary
	Projects []models.Project
}

type EmployeeDashboard struct {
	Projects     []models.Project
	Teams        []models.Team
	CurrentTasks []models.Task
}

// DashboardService assembles the owner and employee landing views.
type DashboardService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

func NewDashboardService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *DashboardService {
	return &DashboardService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// Owner returns counters over the caller's projects and the projects
// themselves. The queries are independent and run concurrently.
func (s *DashboardService) Owner(ctx context.Context, caller policy.Caller) (*OwnerDashboard, error) {
	if !caller.IsBusinessOwner() {
		return nil, ErrNotBusinessOwner
	}

	var dashboard OwnerDashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.projectRepo.CountByOwner(gctx, caller.ID)
		if err != nil {
			return fmt.Errorf("failed to count projects: %w", err)
		}
		dashboard.Summary.TotalProjects = total
		return nil
	})

	g.Go(func() error {
		active, err := s.projectRepo.CountActiveByOwner(gctx, caller.ID)
		if err != nil {
			return fmt.Errorf("failed to count active projects: %w", err)
		}
		dashboard.Summary.ActiveProjects = active
		return nil
	})

	g.Go(func() error {
		rows, err := s.taskRepo.CountByStatus(gctx, repository.TaskScope{ProjectOwnerID: &caller.ID})
		if err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		for _, row := range rows {
			dashboard.Summary.TotalTasks += row.Count
			switch row.Status {
			case models.TaskStatusTodo:
				dashboard.Summary.TasksTodo = row.Count
			case models.TaskStatusInProgress:
				dashboard.Summary.TasksInProgress = row.Count
			case models.TaskStatusDone:
				dashboard.Summary.TasksDone = row.Count
			}
		}
		return nil
	})

	g.Go(func() error {
		projects, _, err := s.projectRepo.List(gctx, repository.ProjectFilter{OwnerID: &caller.ID})
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		dashboard.Projects = projects
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// Employee returns the projects the caller works on, the caller's team and
// the caller's open tasks.
func (s *DashboardService) Employee(ctx context.Context, caller policy.Caller) (*EmployeeDashboard, error) {
	user, err := s.userRepo.FindByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	projects, err := s.projectRepo.ListInvolved(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	tasks, err := s.taskRepo.ListCurrentForAssignee(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list current tasks: %w", err)
	}

	teams := []models.Team{}
	if user.Team != nil {
		teams = append(teams, *user.Team)
	}

	return &EmployeeDashboard{
		Projects:     projects,
		Teams:        teams,
		CurrentTasks: tasks,
	}, nil
}
