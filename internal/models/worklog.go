package models

import "time"

// WorkLog records hours a user spent on exactly one task or one project.
type WorkLog struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	TaskID      *uint64   `gorm:"index" json:"task_id"`
	ProjectID   *uint64   `gorm:"index" json:"project_id"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	HoursSpent  float64   `gorm:"type:decimal(4,2);not null" json:"hours_spent"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Task    *Task    `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
