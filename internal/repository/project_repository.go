package repository

import (
	"context"
	"strings"

	"github.com/employeest/employeest-api/internal/database"
	"github.com/employeest/employeest-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})

	if filter.OwnerID != nil {
		query = query.Where("projects.owner_id = ?", *filter.OwnerID)
	}
	if filter.TeamID != nil {
		query = query.Where("projects.team_id = ?", *filter.TeamID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(projects.name) LIKE ?"+likeEscape, containsPattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.
		Preload("Owner").
		Preload("Tasks").
		Preload("Tasks.Assignee").
		Order("projects.created_at DESC").
		Scopes(database.Paginate(filter.Offset, filter.Limit)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListInvolved lists projects holding a task assigned to the user
func (r *GormProjectRepository) ListInvolved(ctx context.Context, userID uint64) ([]models.Project, error) {
	db := r.db.WithContext(ctx)

	assigned := db.Model(&models.Task{}).
		Select("DISTINCT project_id").
		Where("assignee_id = ?", userID)

	var projects []models.Project
	if err := db.
		Preload("Owner").
		Preload("Tasks").
		Preload("Tasks.Assignee").
		Where("id IN (?)", assigned).
		Order("name ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

// Delete deletes a project and all related data in a transaction: the work
// logs on the project or on its tasks, then the tasks, then the project.
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)

		if err := tx.Where("project_id = ? OR task_id IN (?)", id, taskIDs).Delete(&models.WorkLog{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// Exists reports whether a project with the ID exists
func (r *GormProjectRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByOwner counts projects owned by the user
func (r *GormProjectRepository) CountByOwner(ctx context.Context, ownerID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// CountActiveByOwner counts owned projects with at least one TODO or
// IN_PROGRESS task
func (r *GormProjectRepository) CountActiveByOwner(ctx context.Context, ownerID uint64) (int64, error) {
	db := r.db.WithContext(ctx)

	openTasks := db.Model(&models.Task{}).
		Select("1").
		Where("tasks.project_id = projects.id").
		Where("tasks.status IN ?", []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress})

	var count int64
	err := db.Model(&models.Project{}).
		Where("projects.owner_id = ?", ownerID).
		Where("EXISTS (?)", openTasks).
		Count(&count).Error
	return count, err
}

// likeEscaper neutralises LIKE wildcards in user input. Every clause fed
// by containsPattern must append likeEscape. A backslash would itself need
// escaping in MySQL string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

const likeEscape = " ESCAPE '!'"

// containsPattern builds a LIKE pattern for a case-insensitive substring
// match against a LOWER(...) column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
