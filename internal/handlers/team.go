package handlers

import (
	"net/http"

	"github.com/employeest/employeest-api/internal/dto"
	apierrors "github.com/employeest/employeest-api/internal/errors"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// TeamHandler serves team management endpoints.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeam creates a team owned by the caller.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	type CreateTeamRequest struct {
		Name        string `json:"name" binding:"required,min=1,max=255"`
		Description string `json:"description"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), caller, services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDetailDTO(*team, true))
}

// ListTeams returns a page of teams.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	teams, total, err := h.teamService.ListTeams(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.TeamDTO, len(teams))
	for i, team := range teams {
		items[i] = dto.ToTeamDTO(team, false)
	}

	c.JSON(http.StatusOK, gin.H{
		"teams":      items,
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

// GetTeam returns a team with its members and projects. The invite code is
// only shown to the owner.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(*team, team.OwnerID == caller.ID))
}

// UpdateTeam updates a team's name and description.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	type UpdateTeamRequest struct {
		Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
		Description *string `json:"description"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	team, err := h.teamService.UpdateTeam(c.Request.Context(), caller, teamID, services.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(*team, true))
}

// DeleteTeam deletes a team.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), caller, teamID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// JoinTeam moves the caller into the team holding the invite code.
func (h *TeamHandler) JoinTeam(c *gin.Context) {
	type JoinTeamRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	team, err := h.teamService.JoinTeamByInvite(c.Request.Context(), caller, req.InviteCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(*team, team.OwnerID == caller.ID))
}

// RegenerateInviteCode issues a new invite code, invalidating the old one.
func (h *TeamHandler) RegenerateInviteCode(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teamService.RegenerateInviteCode(c.Request.Context(), caller, teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite_code": team.InviteCode})
}

// RemoveMember removes a member from the team.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), caller, teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
