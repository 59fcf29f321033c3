package handlers

import (
	"net/http"

	"github.com/employeest/employeest-api/internal/dto"
	apierrors "github.com/employeest/employeest-api/internal/errors"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns a page of projects
// Can filter by owner_id and team_id, and search by name
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ownerID, ok := optionalUintQuery(c, "owner_id")
	if !ok {
		return
	}
	teamID, ok := optionalUintQuery(c, "team_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	projects, total, err := h.projectService.ListProjects(c.Request.Context(), services.ListProjectsInput{
		OwnerID: ownerID,
		TeamID:  teamID,
		Search:  c.Query("search"),
		Offset:  params.Offset,
		Limit:   params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects:   dto.ToProjectDTOs(projects),
		Pagination: utils.NewPaginationResponse(params, total),
	})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), caller, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string  `json:"name" binding:"required,min=1,max=255"`
		Description string  `json:"description"`
		TeamID      *uint64 `json:"team_id"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), caller, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.TeamID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject serves both PUT and PATCH; omitted fields are left as is
// and "team_id": null detaches the project from its team
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
		Description *string          `json:"description"`
		TeamID      optional[uint64] `json:"team_id"`
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), caller, projectID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.TeamID.Value,
		ClearTeam:   req.TeamID.cleared(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project with its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), caller, projectID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
