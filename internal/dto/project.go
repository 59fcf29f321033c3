package dto

import (
	"time"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/utils"
)

// ProjectSimpleDTO is the compact project shape embedded in other resources
type ProjectSimpleDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OwnerID     uint64          `json:"owner_id"`
	Owner       *UserDTO        `json:"owner,omitempty"`
	TeamID      *uint64         `json:"team_id"`
	Team        *TeamDTO        `json:"team,omitempty"`
	TasksCount  int             `json:"tasks_count"`
	Tasks       []TaskSimpleDTO `json:"tasks"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

func ToProjectSimpleDTO(project models.Project) ProjectSimpleDTO {
	return ProjectSimpleDTO{ID: project.ID, Name: project.Name}
}

// ToProjectDTO converts a Project model. Tasks are included when preloaded.
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		TeamID:      project.TeamID,
		TasksCount:  len(project.Tasks),
		Tasks:       make([]TaskSimpleDTO, len(project.Tasks)),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}
	if project.Team != nil {
		team := ToTeamDTO(*project.Team, false)
		dto.Team = &team
	}
	for i, task := range project.Tasks {
		dto.Tasks[i] = ToTaskSimpleDTO(task)
	}

	return dto
}

func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		out[i] = ToProjectDTO(project)
	}
	return out
}
