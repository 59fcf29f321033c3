package repository

import (
	"context"

	"github.com/employeest/employeest-api/internal/database"
	"github.com/employeest/employeest-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a team and moves its owner into it atomically
func (r *GormTeamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", team.OwnerID).
			Update("team_id", team.ID).Error
	})
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Team, error) {
	var team models.Team
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByInviteCode finds a team by invite code
func (r *GormTeamRepository) FindByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List retrieves teams with pagination
func (r *GormTeamRepository) List(ctx context.Context, offset, limit int) ([]models.Team, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Team{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teams []models.Team
	if err := query.Preload("Owner").Order("name ASC").Scopes(database.Paginate(offset, limit)).Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(team).Error
}

// Delete deletes a team in a transaction. Members and projects stay, with
// their team cleared.
func (r *GormTeamRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Project{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Team{}, id).Error
	})
}

// Exists reports whether a team with the ID exists
func (r *GormTeamRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Team{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
