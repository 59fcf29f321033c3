package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	TeamID      *uint64   `gorm:"index" json:"team_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner    User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Team     *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Tasks    []Task    `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	WorkLogs []WorkLog `gorm:"foreignKey:ProjectID" json:"-"`
}
