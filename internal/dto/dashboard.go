package dto

import "github.com/employeest/employeest-api/internal/services"

// OwnerDashboardResponse is the owner landing view
type OwnerDashboardResponse struct {
	Summary  services.OwnerSummary `json:"summary"`
	Projects []ProjectDTO          `json:"projects"`
}

// EmployeeDashboardResponse is the employee landing view
type EmployeeDashboardResponse struct {
	Projects     []ProjectDTO `json:"projects"`
	Teams        []TeamDTO    `json:"teams"`
	CurrentTasks []TaskDTO    `json:"current_tasks"`
}

func ToOwnerDashboardResponse(dashboard services.OwnerDashboard) OwnerDashboardResponse {
	return OwnerDashboardResponse{
		Summary:  dashboard.Summary,
		Projects: ToProjectDTOs(dashboard.Projects),
	}
}

func ToEmployeeDashboardResponse(dashboard services.EmployeeDashboard) EmployeeDashboardResponse {
	teams := make([]TeamDTO, len(dashboard.Teams))
	for i, team := range dashboard.Teams {
		teams[i] = ToTeamDTO(team, false)
	}

	return EmployeeDashboardResponse{
		Projects:     ToProjectDTOs(dashboard.Projects),
		Teams:        teams,
		CurrentTasks: ToTaskDTOs(dashboard.CurrentTasks),
	}
}
