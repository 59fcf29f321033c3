package repository

import (
	"context"
	"time"

	"github.com/employeest/employeest-api/internal/database"
	"github.com/employeest/employeest-api/internal/lifecycle"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/stats"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// taskOrderColumns whitelists the columns a task listing can be ordered by
var taskOrderColumns = map[string]bool{
	"created_at": true,
	"deadline":   true,
	"status":     true,
	"name":       true,
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering, ordering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Joins("JOIN projects ON projects.id = tasks.project_id")

	if filter.Visibility != nil {
		uid := filter.Visibility.UserID
		query = query.Where("(projects.owner_id = ? OR tasks.assignee_id = ?)", uid, uid)
	}

	// Apply filters
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("tasks.status IN ?", filter.Statuses)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.AssigneeIsNull != nil {
		if *filter.AssigneeIsNull {
			query = query.Where("tasks.assignee_id IS NULL")
		} else {
			query = query.Where("tasks.assignee_id IS NOT NULL")
		}
	}
	if filter.Name != "" {
		query = query.Where("LOWER(tasks.name) LIKE ?"+likeEscape, containsPattern(filter.Name))
	}
	if filter.ProjectName != "" {
		query = query.Where("LOWER(projects.name) LIKE ?"+likeEscape, containsPattern(filter.ProjectName))
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where(
			"(LOWER(tasks.name) LIKE ?"+likeEscape+" OR LOWER(tasks.description) LIKE ?"+likeEscape+" OR LOWER(projects.name) LIKE ?"+likeEscape+")",
			pattern, pattern, pattern,
		)
	}
	if filter.DeadlineAfter != nil {
		query = query.Where("tasks.deadline >= ?", *filter.DeadlineAfter)
	}
	if filter.DeadlineBefore != nil {
		query = query.Where("tasks.deadline <= ?", *filter.DeadlineBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := filter.OrderBy
	desc := filter.OrderDescending
	if !taskOrderColumns[orderBy] {
		orderBy, desc = "created_at", true
	}

	var tasks []models.Task
	if err := query.
		Preload("Project").
		Preload("Assignee").
		Order(clause.OrderByColumn{Column: clause.Column{Table: "tasks", Name: orderBy}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "tasks", Name: "id"}, Desc: desc}).
		Scopes(database.Paginate(filter.Offset, filter.Limit)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update writes the editable fields of a task. Status and lifecycle
// timestamps are never written here.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"project_id":       task.ProjectID,
			"name":             task.Name,
			"description":      task.Description,
			"assignee_id":      task.AssigneeID,
			"story_points":     task.StoryPoints,
			"deadline":         task.Deadline,
			"estimation_hours": task.EstimationHours,
			"version":          gorm.Expr("version + 1"),
		}).Error
}

// Delete deletes a task and its work logs in a transaction
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.WorkLog{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// TransitionStatus is a compare-and-swap on the status column: the UPDATE
// only matches while the row still holds change.From.
func (r *GormTaskRepository) TransitionStatus(ctx context.Context, id uint64, change lifecycle.Change, now time.Time) error {
	updates := map[string]any{
		"status":     change.To,
		"updated_at": now,
		"version":    gorm.Expr("version + 1"),
	}
	if change.StartedAt != nil {
		updates["started_at"] = *change.StartedAt
	}
	if change.CompletedAt != nil {
		updates["completed_at"] = *change.CompletedAt
	}

	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND status = ?", id, change.From).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

// ForceStatus overwrites the status of the given tasks, ignoring lifecycle
// rules. Lifecycle timestamps are kept consistent with the new status.
func (r *GormTaskRepository) ForceStatus(ctx context.Context, ids []uint64, status models.TaskStatus, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	updates := map[string]any{
		"status":     status,
		"updated_at": now,
		"version":    gorm.Expr("version + 1"),
	}
	switch status {
	case models.TaskStatusTodo:
		updates["started_at"] = nil
		updates["completed_at"] = nil
	case models.TaskStatusInProgress:
		updates["started_at"] = gorm.Expr("COALESCE(started_at, ?)", now)
		updates["completed_at"] = nil
	case models.TaskStatusDone:
		updates["completed_at"] = now
	}

	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id IN ?", ids).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// CountByStatus groups tasks matching scope by status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, scope TaskScope) ([]stats.StatusCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("tasks.status AS status, COUNT(*) AS count")

	if scope.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *scope.ProjectID)
	}
	if scope.ProjectOwnerID != nil {
		query = query.
			Joins("JOIN projects ON projects.id = tasks.project_id").
			Where("projects.owner_id = ?", *scope.ProjectOwnerID)
	}

	var rows []stats.StatusCount
	if err := query.Group("tasks.status").Order("tasks.status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCompleted lists DONE tasks last modified at or after filter.UpdatedSince
func (r *GormTaskRepository) ListCompleted(ctx context.Context, filter CompletedFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", models.TaskStatusDone).
		Where("updated_at >= ?", filter.UpdatedSince)

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.RequireStoryPoints {
		query = query.Where("story_points IS NOT NULL")
	}

	var tasks []models.Task
	if err := query.Order("updated_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListCurrentForAssignee lists TODO and IN_PROGRESS tasks assigned to the user
func (r *GormTaskRepository) ListCurrentForAssignee(ctx context.Context, userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Assignee").
		Where("assignee_id = ?", userID).
		Where("status IN ?", []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusInProgress}).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
