package service

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"cogniboard/internal/apperrors"
	"cogniboard/internal/model"
	"cogniboard/internal/repository"

	"github.com/google/uuid"
)

// TaskService handles the task lifecycle inside a project.
type TaskService struct {
	tasks  *repository.TaskRepository
	users  *repository.UserRepository
	logger *slog.Logger
}

func NewTaskService(tasks *repository.TaskRepository, users *repository.UserRepository, logger *slog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial task update. Nil pointer fields
// leave the column untouched; ClearAssignee and ClearDueDate write
// NULL to the two nullable columns instead.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	AssigneeID    *uuid.UUID
	DueDate       *time.Time
	ClearAssignee bool
	ClearDueDate  bool
}

// Create inserts a task. Status always starts at todo no matter what
// the request carried; the assignee, when given, must be an existing
// user.
func (s *TaskService) Create(ctx context.Context, projectID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	task := &model.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.StatusTodo,
		Priority:    priority,
		AssigneeID:  in.AssigneeID,
		DueDate:     in.DueDate,
	}

	var assignee *model.User
	if in.AssigneeID != nil {
		user, err := s.users.GetByID(ctx, *in.AssigneeID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation("Assignee user does not exist")
		}
		if err != nil {
			return nil, err
		}
		assignee = user
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	task.Assignee = assignee

	s.logger.Info("task created", "task_id", task.ID, "project_id", projectID)
	return task, nil
}

// Get retrieves a task with its assignee and comment thread.
func (s *TaskService) Get(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetDetail(ctx, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Task not found")
	}
	return task, err
}

// ListByProject returns a page of the project's tasks.
func (s *TaskService) ListByProject(ctx context.Context, projectID uuid.UUID, skip, limit int) ([]model.Task, error) {
	return s.tasks.ListByProject(ctx, projectID, skip, limit)
}

// List returns a page of tasks across the member's projects, narrowed
// by the filter.
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	return s.tasks.List(ctx, filter)
}

// Update applies the provided fields only; absent fields are
// untouched. Clearing the assignee or the due date writes NULL.
func (s *TaskService) Update(ctx context.Context, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	fields := make(map[string]interface{})
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.AssigneeID != nil {
		if _, err := s.users.GetByID(ctx, *in.AssigneeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.Validation("Assignee user does not exist")
			}
			return nil, err
		}
		fields["assignee_id"] = *in.AssigneeID
	} else if in.ClearAssignee {
		fields["assignee_id"] = nil
	}
	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	} else if in.ClearDueDate {
		fields["due_date"] = nil
	}

	if len(fields) > 0 {
		if err := s.tasks.Update(ctx, taskID, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("Task not found")
			}
			return nil, err
		}
		s.logger.Info("task updated", "task_id", taskID)
	}

	return s.Get(ctx, taskID)
}

// Delete removes a task and its comments.
func (s *TaskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Task not found")
		}
		return err
	}

	s.logger.Info("task deleted", "task_id", taskID)
	return nil
}
