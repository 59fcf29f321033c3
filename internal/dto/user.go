package dto

import (
	"time"

	"github.com/employeest/employeest-api/internal/models"
)

// UserDTO is the compact user shape embedded in other resources
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserDetailDTO represents a user in user and auth responses
type UserDetailDTO struct {
	ID          uint64          `json:"id"`
	Username    string          `json:"username"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phone_number"`
	Role        models.UserRole `json:"role"`
	TeamID      *uint64         `json:"team_id"`
	Team        *TeamDTO        `json:"team,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LoginResponse carries the user together with a bearer token for API clients
type LoginResponse struct {
	User        UserDetailDTO `json:"user"`
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToUserDetailDTO converts a User model to UserDetailDTO
func ToUserDetailDTO(user models.User) UserDetailDTO {
	dto := UserDetailDTO{
		ID:          user.ID,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		TeamID:      user.TeamID,
		CreatedAt:   user.CreatedAt,
	}

	if user.Team != nil {
		team := ToTeamDTO(*user.Team, false)
		dto.Team = &team
	}

	return dto
}

// ToUserDetailDTOs converts a slice of users
func ToUserDetailDTOs(users []models.User) []UserDetailDTO {
	out := make([]UserDetailDTO, len(users))
	for i, user := range users {
		out[i] = ToUserDetailDTO(user)
	}
	return out
}
