package repository

import (
	"context"
	"errors"
	"time"

	"github.com/employeest/employeest-api/internal/lifecycle"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/stats"
)

// ErrStatusChanged is returned by TransitionStatus when the stored row no
// longer holds the expected status.
var ErrStatusChanged = errors.New("task status changed concurrently")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// List retrieves users with filtering and pagination
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)

	// Exists reports whether a non-deleted user with the ID exists
	Exists(ctx context.Context, id uint64) (bool, error)

	// CountOwnerships counts projects and teams owned by the user
	CountOwnerships(ctx context.Context, id uint64) (projects int64, teams int64, err error)

	// SetTeam changes the user's team membership; nil leaves the team
	SetTeam(ctx context.Context, userID uint64, teamID *uint64) error

	// SetRole changes the user's role
	SetRole(ctx context.Context, userID uint64, role models.UserRole) error

	// Delete soft deletes a user, detaching assigned tasks and team
	Delete(ctx context.Context, id uint64) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	TeamID *uint64
	Role   *models.UserRole
	Offset int
	Limit  int
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a team and moves its owner into it
	Create(ctx context.Context, team *models.Team) error

	// FindByID finds a team by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Team, error)

	// FindByInviteCode finds a team by invite code
	FindByInviteCode(ctx context.Context, code string) (*models.Team, error)

	// List retrieves teams with pagination
	List(ctx context.Context, offset, limit int) ([]models.Team, int64, error)

	// Update updates a team
	Update(ctx context.Context, team *models.Team) error

	// Delete deletes a team, detaching its members and projects
	Delete(ctx context.Context, id uint64) error

	// Exists reports whether a team with the ID exists
	Exists(ctx context.Context, id uint64) (bool, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects with filtering and pagination
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// ListInvolved lists projects holding a task assigned to the user
	ListInvolved(ctx context.Context, userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project together with its tasks and work logs
	Delete(ctx context.Context, id uint64) error

	// Exists reports whether a project with the ID exists
	Exists(ctx context.Context, id uint64) (bool, error)

	// CountByOwner counts projects owned by the user
	CountByOwner(ctx context.Context, ownerID uint64) (int64, error)

	// CountActiveByOwner counts owned projects with at least one open task
	CountActiveByOwner(ctx context.Context, ownerID uint64) (int64, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	OwnerID *uint64
	TeamID  *uint64
	Search  string
	Offset  int
	Limit   int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering, ordering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update writes the editable fields of a task and bumps its version
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task and the work logs attached to it
	Delete(ctx context.Context, id uint64) error

	// TransitionStatus applies a lifecycle change if the row still holds
	// change.From, failing with ErrStatusChanged otherwise
	TransitionStatus(ctx context.Context, id uint64, change lifecycle.Change, now time.Time) error

	// ForceStatus overwrites the status of the given tasks unconditionally
	ForceStatus(ctx context.Context, ids []uint64, status models.TaskStatus, now time.Time) (int64, error)

	// CountByStatus groups tasks matching scope by status
	CountByStatus(ctx context.Context, scope TaskScope) ([]stats.StatusCount, error)

	// ListCompleted lists DONE tasks matching the filter
	ListCompleted(ctx context.Context, filter CompletedFilter) ([]models.Task, error)

	// ListCurrentForAssignee lists non-terminal tasks assigned to the user
	ListCurrentForAssignee(ctx context.Context, userID uint64) ([]models.Task, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// Visibility restricts results to tasks the caller may read; nil means
	// no restriction.
	Visibility *TaskVisibility

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

// TaskVisibility limits tasks to those whose project is owned by, or that
// are assigned to, UserID.
type TaskVisibility struct {
	UserID uint64
}

// TaskScope narrows status counts to a project or an owner's projects
type TaskScope struct {
	ProjectID      *uint64
	ProjectOwnerID *uint64
}

// CompletedFilter narrows DONE tasks for rollups
type CompletedFilter struct {
	ProjectID          *uint64
	AssigneeID         *uint64
	UpdatedSince       time.Time
	RequireStoryPoints bool
}

// WorkLogRepository defines the interface for work log data access
type WorkLogRepository interface {
	// Create creates a new work log
	Create(ctx context.Context, log *models.WorkLog) error

	// FindByID finds a work log by ID
	FindByID(ctx context.Context, id uint64) (*models.WorkLog, error)

	// List retrieves work logs, newest date first
	List(ctx context.Context, filter WorkLogFilter) ([]models.WorkLog, int64, error)

	// Update updates a work log
	Update(ctx context.Context, log *models.WorkLog) error

	// Delete deletes a work log
	Delete(ctx context.Context, id uint64) error
}

// WorkLogFilter holds filtering options for listing work logs
type WorkLogFilter struct {
	UserID     *uint64
	TaskID     *uint64
	ProjectID  *uint64
	DateAfter  *time.Time
	DateBefore *time.Time
	Offset     int
	Limit      int
}
