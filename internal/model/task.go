package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title       string     `gorm:"not null;index"`
	Description string
	Status      string     `gorm:"not null;default:'todo';check:status IN ('todo', 'in_progress', 'review', 'done')"`
	Priority    string     `gorm:"not null;default:'medium';check:priority IN ('low', 'medium', 'high', 'critical')"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index"`
	DueDate     *time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"index"`

	Project  Project   `gorm:"foreignKey:ProjectID"`
	Assignee *User     `gorm:"foreignKey:AssigneeID"`
	Comments []Comment `gorm:"foreignKey:TaskID"`
}

// Task statuses. New tasks always start in StatusTodo.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// Task priorities
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Overdue reports whether the task has a due date in the past.
func (t *Task) Overdue() bool {
	return t.DueDate != nil && t.DueDate.Before(time.Now())
}
