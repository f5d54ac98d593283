package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a task. AuthorID is nulled when the author account
// is deleted; such comments stay readable but can no longer be edited.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorID  *uuid.UUID `gorm:"type:uuid;index"`
	Body      string     `gorm:"not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`

	Task   Task  `gorm:"foreignKey:TaskID"`
	Author *User `gorm:"foreignKey:AuthorID"`
}
