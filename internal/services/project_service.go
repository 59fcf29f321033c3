package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/repository"
	"gorm.io/gorm"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
	}
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	OwnerID *uint64
	TeamID  *uint64
	Search  string
	Offset  int
	Limit   int
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	TeamID      *uint64
}

// UpdateProjectInput represents input for updating a project. Nil fields
// are left untouched; ClearTeam detaches the project from its team.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	TeamID      *uint64
	ClearTeam   bool
}

// ListProjects returns projects matching the filters. Project reads are
// open to every authenticated caller.
func (s *ProjectService) ListProjects(ctx context.Context, input ListProjectsInput) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		OwnerID: input.OwnerID,
		TeamID:  input.TeamID,
		Search:  strings.TrimSpace(input.Search),
		Offset:  input.Offset,
		Limit:   input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project with its owner, team and tasks
func (s *ProjectService) GetProject(ctx context.Context, caller policy.Caller, projectID uint64) (*models.Project, error) {
	project, err := s.findProject(ctx, projectID, "Owner", "Team", "Tasks", "Tasks.Assignee")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.ForProject(*project), policy.CanRead); err != nil {
		return nil, err
	}
	return project, nil
}

// CreateProject creates a project owned by the caller
func (s *ProjectService) CreateProject(ctx context.Context, caller policy.Caller, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}
	if err := s.ensureTeamExists(ctx, input.TeamID); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		OwnerID:     caller.ID,
		TeamID:      input.TeamID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.findProject(ctx, project.ID, "Owner", "Team", "Tasks", "Tasks.Assignee")
}

// UpdateProject updates a project owned by the caller
func (s *ProjectService) UpdateProject(ctx context.Context, caller policy.Caller, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(caller, policy.ForProject(*project), policy.CanWrite); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.ClearTeam {
		project.TeamID = nil
	} else if input.TeamID != nil {
		if err := s.ensureTeamExists(ctx, input.TeamID); err != nil {
			return nil, err
		}
		project.TeamID = input.TeamID
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.findProject(ctx, project.ID, "Owner", "Team", "Tasks", "Tasks.Assignee")
}

// DeleteProject deletes a project with its tasks and work logs
func (s *ProjectService) DeleteProject(ctx context.Context, caller policy.Caller, projectID uint64) error {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(caller, policy.ForProject(*project), policy.CanWrite); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) findProject(ctx context.Context, projectID uint64, preload ...string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) ensureTeamExists(ctx context.Context, teamID *uint64) error {
	if teamID == nil {
		return nil
	}
	exists, err := s.teamRepo.Exists(ctx, *teamID)
	if err != nil {
		return fmt.Errorf("failed to verify team: %w", err)
	}
	if !exists {
		return ErrTeamMissing
	}
	return nil
}
