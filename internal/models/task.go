package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// TaskStatuses lists every status in name order.
var TaskStatuses = []TaskStatus{TaskStatusDone, TaskStatusInProgress, TaskStatusTodo}

// Valid reports whether s is one of the three lifecycle states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID              uint64     `gorm:"primarykey" json:"id"`
	ProjectID       uint64     `gorm:"not null;index" json:"project_id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	Status          TaskStatus `gorm:"type:varchar(20);not null;default:'TODO';index" json:"status"`
	AssigneeID      *uint64    `gorm:"index" json:"assignee_id"`
	StoryPoints     *int       `json:"story_points"`
	Deadline        *time.Time `gorm:"type:date;index" json:"deadline"`
	EstimationHours *float64   `gorm:"type:decimal(5,2)" json:"estimation_hours"`
	Version         uint       `gorm:"not null;default:1" json:"version"`
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `gorm:"index" json:"updated_at"`

	// Relations
	Project  Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	WorkLogs []WorkLog `gorm:"foreignKey:TaskID" json:"-"`
}
