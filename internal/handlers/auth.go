package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/employeest/employeest-api/internal/constants"
	"github.com/employeest/employeest-api/internal/dto"
	apierrors "github.com/employeest/employeest-api/internal/errors"
	"github.com/employeest/employeest-api/internal/middleware"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	jwtService  *utils.JWTService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, jwtService *utils.JWTService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Username    string          `json:"username" binding:"required,min=3,max=150"`
		Password    string          `json:"password" binding:"required"`
		Email       string          `json:"email" binding:"required,email"`
		FirstName   string          `json:"first_name" binding:"max=255"`
		LastName    string          `json:"last_name" binding:"max=255"`
		PhoneNumber string          `json:"phone_number" binding:"max=15"`
		Role        models.UserRole `json:"role"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDetailDTO(*user))
}

// Login authenticates a user, initializes the session and issues an
// access token for clients that do not keep cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateAccessToken(user.ID)
	if err != nil {
		log.Printf("[%s] %v", middleware.GetRequestID(c), err)
		apierrors.InternalError(c, "Failed to issue access token")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		User:        dto.ToUserDetailDTO(*user),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser):
		log.Printf("[%s] %v", middleware.GetRequestID(c), err)
		apierrors.InternalError(c, "Failed to create user")
	default:
		respondError(c, err)
	}
}
