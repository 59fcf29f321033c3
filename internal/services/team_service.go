package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/repository"
	"github.com/employeest/employeest-api/internal/utils"
	"gorm.io/gorm"
)

// TeamService provides business logic for team operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name        string
	Description string
}

// CreateTeam creates a new team owned by the caller, who joins it.
func (s *TeamService) CreateTeam(ctx context.Context, caller policy.Caller, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidTeamName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	team := &models.Team{
		Name:        name,
		Description: input.Description,
		OwnerID:     caller.ID,
		InviteCode:  inviteCode,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return s.GetTeam(ctx, team.ID)
}

// ListTeams returns a page of teams.
func (s *TeamService) ListTeams(ctx context.Context, offset, limit int) ([]models.Team, int64, error) {
	teams, total, err := s.teamRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, total, nil
}

// GetTeam returns a team with its owner, members and projects.
func (s *TeamService) GetTeam(ctx context.Context, teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID, "Owner", "Members", "Projects")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// UpdateTeamInput carries the fields to change; nil leaves a field as is.
type UpdateTeamInput struct {
	Name        *string
	Description *string
}

// UpdateTeam updates a team's name and description.
func (s *TeamService) UpdateTeam(ctx context.Context, caller policy.Caller, teamID uint64, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.findForWrite(ctx, caller, teamID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidTeamName
		}
		team.Name = name
	}
	if input.Description != nil {
		team.Description = *input.Description
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return s.GetTeam(ctx, team.ID)
}

// DeleteTeam removes a team. Members and projects are detached.
func (s *TeamService) DeleteTeam(ctx context.Context, caller policy.Caller, teamID uint64) error {
	if _, err := s.findForWrite(ctx, caller, teamID); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return nil
}

// JoinTeamByInvite moves the caller into the team holding the invite code.
func (s *TeamService) JoinTeamByInvite(ctx context.Context, caller policy.Caller, inviteCode string) (*models.Team, error) {
	team, err := s.teamRepo.FindByInviteCode(ctx, utils.NormalizeInviteCode(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find team by invite code: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}
	if user.TeamID != nil && *user.TeamID == team.ID {
		return nil, ErrAlreadyTeamMember
	}

	if err := s.userRepo.SetTeam(ctx, caller.ID, &team.ID); err != nil {
		return nil, fmt.Errorf("failed to add member to team: %w", err)
	}

	return s.GetTeam(ctx, team.ID)
}

// RegenerateInviteCode generates a new invite code for the team.
func (s *TeamService) RegenerateInviteCode(ctx context.Context, caller policy.Caller, teamID uint64) (*models.Team, error) {
	team, err := s.findForWrite(ctx, caller, teamID)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	team.InviteCode = code
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return team, nil
}

// RemoveMember removes a member from the team.
func (s *TeamService) RemoveMember(ctx context.Context, caller policy.Caller, teamID, targetID uint64) error {
	if _, err := s.findForWrite(ctx, caller, teamID); err != nil {
		return err
	}
	if targetID == caller.ID {
		return ErrCannotRemoveYourself
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamMemberNotFound
		}
		return fmt.Errorf("failed to find team member: %w", err)
	}
	if target.TeamID == nil || *target.TeamID != teamID {
		return ErrTeamMemberNotFound
	}

	if err := s.userRepo.SetTeam(ctx, targetID, nil); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

func (s *TeamService) findForWrite(ctx context.Context, caller policy.Caller, teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	if err := policy.Authorize(caller, policy.ForTeam(*team), policy.CanWrite); err != nil {
		return nil, err
	}
	return team, nil
}
