package access

import (
	"context"
	"errors"

	"cogniboard/internal/apperrors"
	"cogniboard/internal/model"
	"cogniboard/internal/repository"

	"github.com/google/uuid"
)

type ProjectStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
}

type MemberStore interface {
	Get(ctx context.Context, projectID, userID uuid.UUID) (*model.ProjectMember, error)
}

type TaskStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
}

type CommentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
}

// Guard answers whether an actor holds a capability on a resource.
// Checks resolve the resource first, so a missing resource is NotFound
// for everyone, while a present resource without the capability is
// Forbidden. Membership is read fresh on every check.
type Guard struct {
	projects ProjectStore
	members  MemberStore
	tasks    TaskStore
	comments CommentStore
}

func NewGuard(projects ProjectStore, members MemberStore, tasks TaskStore, comments CommentStore) *Guard {
	return &Guard{
		projects: projects,
		members:  members,
		tasks:    tasks,
		comments: comments,
	}
}

// CheckProject authorizes the capability against a project.
func (g *Guard) CheckProject(ctx context.Context, actorID, projectID uuid.UUID, capability Capability) error {
	if _, err := g.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Project not found")
		}
		return err
	}

	return g.checkMembership(ctx, actorID, projectID, capability, nil)
}

// CheckTask resolves the task, authorizes the capability against its
// project, and returns the task so callers do not fetch it twice.
func (g *Guard) CheckTask(ctx context.Context, actorID, taskID uuid.UUID, capability Capability) (*model.Task, error) {
	task, err := g.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, err
	}

	if err := g.checkMembership(ctx, actorID, task.ProjectID, capability, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CheckComment resolves the comment, authorizes the capability, and
// returns the comment. Author-only capabilities never fall back to
// project owners.
func (g *Guard) CheckComment(ctx context.Context, actorID, commentID uuid.UUID, capability Capability) (*model.Comment, error) {
	comment, err := g.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Comment not found")
		}
		return nil, err
	}

	if policy[capability] == RequireAuthor {
		if comment.AuthorID == nil || *comment.AuthorID != actorID {
			return nil, apperrors.Forbidden("Only the comment author can modify a comment")
		}
		return comment, nil
	}

	task, err := g.tasks.GetByID(ctx, comment.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, err
	}

	if err := g.checkMembership(ctx, actorID, task.ProjectID, capability, task); err != nil {
		return nil, err
	}
	return comment, nil
}

// checkMembership applies the capability's requirement for a project the
// resource is known to belong to. task is non-nil for task-scoped checks
// and carries the assignee for RequireOwnerOrAssignee.
func (g *Guard) checkMembership(ctx context.Context, actorID, projectID uuid.UUID, capability Capability, task *model.Task) error {
	req, ok := policy[capability]
	if !ok {
		return apperrors.Forbidden("Capability not granted")
	}

	if req == RequireOwnerOrAssignee && task != nil &&
		task.AssigneeID != nil && *task.AssigneeID == actorID {
		return nil
	}

	member, err := g.members.Get(ctx, projectID, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Forbidden("You are not a member of this project")
		}
		return err
	}

	switch req {
	case RequireMember:
		return nil
	case RequireOwner:
		if member.Role != model.RoleOwner {
			return apperrors.Forbidden("Only a project owner can perform this action")
		}
		return nil
	case RequireOwnerOrAssignee:
		if member.Role != model.RoleOwner {
			return apperrors.Forbidden("Only the project owner or the task assignee can do this")
		}
		return nil
	default:
		return apperrors.Forbidden("Capability not granted")
	}
}
