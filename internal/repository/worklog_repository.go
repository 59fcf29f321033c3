package repository

import (
	"context"

	"github.com/employeest/employeest-api/internal/database"
	"github.com/employeest/employeest-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkLogRepository is a GORM implementation of WorkLogRepository
type GormWorkLogRepository struct {
	db *gorm.DB
}

// NewWorkLogRepository creates a new WorkLogRepository
func NewWorkLogRepository(db *gorm.DB) WorkLogRepository {
	return &GormWorkLogRepository{db: db}
}

// Create creates a new work log
func (r *GormWorkLogRepository) Create(ctx context.Context, log *models.WorkLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(log).Error
}

// FindByID finds a work log by ID
func (r *GormWorkLogRepository) FindByID(ctx context.Context, id uint64) (*models.WorkLog, error) {
	var log models.WorkLog
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Task").
		Preload("Project").
		First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// List retrieves work logs ordered by date then creation time, newest first
func (r *GormWorkLogRepository) List(ctx context.Context, filter WorkLogFilter) ([]models.WorkLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WorkLog{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.DateAfter != nil {
		query = query.Where("date >= ?", *filter.DateAfter)
	}
	if filter.DateBefore != nil {
		query = query.Where("date <= ?", *filter.DateBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.WorkLog
	if err := query.
		Preload("User").
		Order("date DESC").
		Order("created_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(filter.Offset, filter.Limit)).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// Update updates a work log
func (r *GormWorkLogRepository) Update(ctx context.Context, log *models.WorkLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(log).Error
}

// Delete deletes a work log
func (r *GormWorkLogRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.WorkLog{}, id).Error
}
