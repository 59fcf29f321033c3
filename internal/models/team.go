package models

import "time"

type Team struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	InviteCode  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner    User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members  []User    `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Projects []Project `gorm:"foreignKey:TeamID" json:"projects,omitempty"`
}
