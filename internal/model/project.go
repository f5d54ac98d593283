package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `gorm:"not null;index"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"index"`

	Members []ProjectMember `gorm:"foreignKey:ProjectID"`
}
