package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/repository"
	"gorm.io/gorm"
)

// UserService covers user listing, role management and removal.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersInput represents filters for listing users
type ListUsersInput struct {
	TeamID *uint64
	Role   *models.UserRole
	Offset int
	Limit  int
}

func (s *UserService) List(ctx context.Context, input ListUsersInput) ([]models.User, int64, error) {
	if input.Role != nil && !input.Role.Valid() {
		return nil, 0, ErrInvalidRole
	}

	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		TeamID: input.TeamID,
		Role:   input.Role,
		Offset: input.Offset,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ResolveCaller loads the identity used by the authorization policy.
func (s *UserService) ResolveCaller(ctx context.Context, id uint64) (policy.Caller, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return policy.Caller{}, err
	}
	return policy.Caller{ID: user.ID, Role: user.Role}, nil
}

// ChangeRole sets the role of a user. Callers gate it to administrators.
func (s *UserService) ChangeRole(ctx context.Context, id uint64, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetRole(ctx, id, role); err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}
	user.Role = role

	return user, nil
}

// Delete removes a user. Only administrators may delete, never themselves,
// and never a user who still owns a project or a team.
func (s *UserService) Delete(ctx context.Context, caller policy.Caller, id uint64) error {
	if !caller.IsAdmin() {
		return ErrAdminOnly
	}
	if caller.ID == id {
		return ErrCannotDeleteYourself
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	projects, teams, err := s.userRepo.CountOwnerships(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check ownerships: %w", err)
	}
	if projects > 0 || teams > 0 {
		return ErrUserOwnsResources
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
