package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectMember links a user to a project with a role. Ownership lives
// here rather than on the project row: a project has as many owners as
// it has owner memberships, and it must never drop to zero.
type ProjectMember struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"not null;index;check:role IN ('owner', 'member')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Project Project `gorm:"foreignKey:ProjectID"`
	User    User    `gorm:"foreignKey:UserID"`
}

// Project roles
const (
	RoleOwner  = "owner"  // manages the project and its members
	RoleMember = "member" // works on tasks and comments
)
