package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleOwner       UserRole = "owner"
	RoleEmployee    UserRole = "employee"
	RoleTopEmployee UserRole = "topemployee"
	RoleAdmin       UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleOwner, RoleEmployee, RoleTopEmployee, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role carries elevated read privileges.
func (r UserRole) IsStaff() bool {
	return r == RoleTopEmployee || r == RoleAdmin
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	FirstName    string         `gorm:"type:varchar(255)" json:"first_name"`
	LastName     string         `gorm:"type:varchar(255)" json:"last_name"`
	Email        string         `gorm:"type:varchar(255);not null" json:"email"`
	PhoneNumber  string         `gorm:"type:varchar(15)" json:"phone_number"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(15);not null;default:'employee'" json:"role"`
	TeamID       *uint64        `gorm:"index" json:"team_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Team          *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	OwnedProjects []Project `gorm:"foreignKey:OwnerID" json:"-"`
	AssignedTasks []Task    `gorm:"foreignKey:AssigneeID" json:"-"`
	WorkLogs      []WorkLog `gorm:"foreignKey:UserID" json:"-"`
}
