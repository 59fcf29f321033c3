package repository

import (
	"context"

	"github.com/employeest/employeest-api/internal/database"
	"github.com/employeest/employeest-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Team").Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Team").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with filtering and pagination
func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("id ASC").Scopes(database.Paginate(filter.Offset, filter.Limit)).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Exists reports whether a non-deleted user with the ID exists
func (r *GormUserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountOwnerships counts projects and teams owned by the user
func (r *GormUserRepository) CountOwnerships(ctx context.Context, id uint64) (int64, int64, error) {
	db := r.db.WithContext(ctx)

	var projects, teams int64
	if err := db.Model(&models.Project{}).Where("owner_id = ?", id).Count(&projects).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.Team{}).Where("owner_id = ?", id).Count(&teams).Error; err != nil {
		return 0, 0, err
	}
	return projects, teams, nil
}

// SetTeam changes the user's team membership
func (r *GormUserRepository) SetTeam(ctx context.Context, userID uint64, teamID *uint64) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("team_id", teamID).Error
}

// SetRole changes the user's role
func (r *GormUserRepository) SetRole(ctx context.Context, userID uint64, role models.UserRole) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}

// Delete soft deletes a user. Tasks assigned to the user are unassigned and
// the team link is cleared; authored work logs are kept.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// UpdateColumns leaves updated_at alone so completion rollups keep
		// their buckets.
		if err := tx.Model(&models.Task{}).
			Where("assignee_id = ?", id).
			UpdateColumns(map[string]any{
				"assignee_id": nil,
				"version":     gorm.Expr("version + 1"),
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", id).Update("team_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
