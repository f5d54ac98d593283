package service

import (
	"context"
	"errors"

	"log/slog"

	"cogniboard/internal/apperrors"
	"cogniboard/internal/model"
	"cogniboard/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectService handles project lifecycle and membership. Membership
// writes are the invariant-critical paths: a project must keep at least
// one owner from creation until deletion.
type ProjectService struct {
	db       *gorm.DB
	projects *repository.ProjectRepository
	members  *repository.MemberRepository
	users    *repository.UserRepository
	logger   *slog.Logger
}

func NewProjectService(db *gorm.DB, projects *repository.ProjectRepository, members *repository.MemberRepository, users *repository.UserRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		db:       db,
		projects: projects,
		members:  members,
		users:    users,
		logger:   logger,
	}
}

type CreateProjectInput struct {
	Name        string
	Description string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
}

type AddMemberInput struct {
	UserID uuid.UUID
	Role   string
}

// Create inserts the project and the creator's owner membership in one
// transaction, so the project never exists without an owner.
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, in CreateProjectInput) (*model.Project, error) {
	project := &model.Project{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.projects.WithTx(tx).Create(ctx, project); err != nil {
			return err
		}

		member := &model.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      model.RoleOwner,
		}
		return s.members.WithTx(tx).Create(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created", "project_id", project.ID, "owner_id", ownerID)
	return s.Get(ctx, project.ID)
}

// Get retrieves a project with its memberships and user profiles.
func (s *ProjectService) Get(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	project, err := s.projects.GetWithMembers(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Project not found")
	}
	return project, err
}

// ListForUser returns the projects the user belongs to.
func (s *ProjectService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

// Update applies the provided fields only; absent fields are untouched.
func (s *ProjectService) Update(ctx context.Context, projectID uuid.UUID, in UpdateProjectInput) (*model.Project, error) {
	fields := make(map[string]interface{})
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}

	if len(fields) > 0 {
		if err := s.projects.Update(ctx, projectID, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("Project not found")
			}
			return nil, err
		}
		s.logger.Info("project updated", "project_id", projectID)
	}

	return s.Get(ctx, projectID)
}

// Delete removes the project; memberships, tasks, and comments cascade
// away with it.
func (s *ProjectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	if err := s.projects.Delete(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Project not found")
		}
		return err
	}

	s.logger.Info("project deleted", "project_id", projectID)
	return nil
}

// ListMembers returns the project's memberships with user profiles.
func (s *ProjectService) ListMembers(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	return s.members.ListByProject(ctx, projectID)
}

// AddMember adds a user to the project. The target user must exist and
// must not already be a member. Role defaults to member.
func (s *ProjectService) AddMember(ctx context.Context, projectID uuid.UUID, in AddMemberInput) (*model.ProjectMember, error) {
	role := in.Role
	if role == "" {
		role = model.RoleMember
	}

	member := &model.ProjectMember{
		ProjectID: projectID,
		UserID:    in.UserID,
		Role:      role,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.users.WithTx(tx).GetByID(ctx, in.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User not found")
		}
		if err != nil {
			return err
		}

		if _, err := s.members.WithTx(tx).Get(ctx, projectID, in.UserID); err == nil {
			return apperrors.Conflict("User is already a member of this project")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if err := s.members.WithTx(tx).Create(ctx, member); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("User is already a member of this project")
			}
			return err
		}

		member.User = *user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("member added", "project_id", projectID, "user_id", in.UserID, "role", role)
	return member, nil
}

// UpdateMemberRole changes a membership's role unconditionally. This
// can demote the last owner; only removal is guarded.
func (s *ProjectService) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) (*model.ProjectMember, error) {
	if err := s.members.UpdateRole(ctx, projectID, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Membership not found")
		}
		return nil, err
	}

	s.logger.Info("member role updated", "project_id", projectID, "user_id", userID, "role", role)

	member, err := s.members.GetWithUser(ctx, projectID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Membership not found")
	}
	return member, err
}

// RemoveMember deletes a membership. The project's owner rows are
// locked first, then the target row, so concurrent removals serialize
// and the owner count can never reach zero.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := s.members.WithTx(tx)

		owners, err := members.LockOwners(ctx, projectID)
		if err != nil {
			return err
		}

		member, err := members.GetForUpdate(ctx, projectID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Membership not found")
		}
		if err != nil {
			return err
		}

		if member.Role == model.RoleOwner && len(owners) <= 1 {
			return apperrors.InvariantViolation("Cannot remove the last owner of a project")
		}

		return members.Delete(ctx, projectID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("member removed", "project_id", projectID, "user_id", userID)
	return nil
}
