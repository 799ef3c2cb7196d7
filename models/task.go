package models

import (
	"time"
)

// Priority is the task urgency level
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// Label returns the human-readable priority name
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return "Unknown"
}

// Task is a unit of work inside a project
type Task struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:255;not null" validate:"required,max=255"`
	Description    string    `json:"description" gorm:"type:text"`
	StartDate      Date      `json:"start_date" gorm:"not null"`
	EndDate        *Date     `json:"end_date"`
	Priority       Priority  `json:"priority" gorm:"not null;default:2" validate:"oneof=1 2 3"`
	ProjectID      uint      `json:"project" gorm:"not null;index" validate:"required"`
	AssignedUserID *uint     `json:"assigned_user" gorm:"index"`
	IsCompleted    bool      `json:"is_completed" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime;<-:create"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	AssignedUser *User `json:"-" gorm:"foreignKey:AssignedUserID;constraint:OnDelete:SET NULL"`
}

// IsAssignedTo reports whether userID is the task's assignee
func (t *Task) IsAssignedTo(userID uint) bool {
	return t.AssignedUserID != nil && *t.AssignedUserID == userID
}

// TaskDependency is a directed edge: Task depends on DependentOnTask
type TaskDependency struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	TaskID            uint      `json:"task" gorm:"not null;uniqueIndex:idx_task_dependency"`
	DependentOnTaskID uint      `json:"dependent_on_task" gorm:"not null;uniqueIndex:idx_task_dependency;index"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime;<-:create"`

	Task            *Task `json:"-" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	DependentOnTask *Task `json:"-" gorm:"foreignKey:DependentOnTaskID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the edge table name short
func (TaskDependency) TableName() string { return "task_dependencies" }
