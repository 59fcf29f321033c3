package dto

import (
	"time"

	"github.com/employeest/employeest-api/internal/models"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     uint64 `json:"owner_id"`
	InviteCode  string `json:"invite_code,omitempty"`
}

// TeamDetailDTO includes members and projects
type TeamDetailDTO struct {
	TeamDTO
	Owner     *UserDTO           `json:"owner,omitempty"`
	Members   []UserDTO          `json:"members"`
	Projects  []ProjectSimpleDTO `json:"projects"`
	CreatedAt time.Time          `json:"created_at"`
}

// ToTeamDTO converts a Team model. The invite code is only shown to the owner.
func ToTeamDTO(team models.Team, includeInviteCode bool) TeamDTO {
	dto := TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		OwnerID:     team.OwnerID,
	}
	if includeInviteCode {
		dto.InviteCode = team.InviteCode
	}
	return dto
}

// ToTeamDetailDTO converts a team with preloaded owner, members and projects
func ToTeamDetailDTO(team models.Team, includeInviteCode bool) TeamDetailDTO {
	dto := TeamDetailDTO{
		TeamDTO:   ToTeamDTO(team, includeInviteCode),
		Members:   make([]UserDTO, len(team.Members)),
		Projects:  make([]ProjectSimpleDTO, len(team.Projects)),
		CreatedAt: team.CreatedAt,
	}

	if team.Owner.ID != 0 {
		owner := ToUserDTO(team.Owner)
		dto.Owner = &owner
	}
	for i, member := range team.Members {
		dto.Members[i] = ToUserDTO(member)
	}
	for i, project := range team.Projects {
		dto.Projects[i] = ToProjectSimpleDTO(project)
	}

	return dto
}
