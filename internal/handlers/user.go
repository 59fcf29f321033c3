package handlers

import (
	"net/http"

	"github.com/employeest/employeest-api/internal/dto"
	apierrors "github.com/employeest/employeest-api/internal/errors"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns a page of users, filterable by team_id and role
func (h *UserHandler) ListUsers(c *gin.Context) {
	teamID, ok := optionalUintQuery(c, "team_id")
	if !ok {
		return
	}

	var role *models.UserRole
	if raw := c.Query("role"); raw != "" {
		r := models.UserRole(raw)
		role = &r
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.List(c.Request.Context(), services.ListUsersInput{
		TeamID: teamID,
		Role:   role,
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      dto.ToUserDetailDTOs(users),
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

// DeleteUser soft deletes a user. Administrators only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetRole changes a user's role. The route is gated to administrators.
func (h *UserHandler) SetRole(c *gin.Context) {
	type SetRoleRequest struct {
		Role models.UserRole `json:"role" binding:"required"`
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}
