package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cogniboard/internal/model"
)

// TaskFilter narrows the cross-project task listing. Nil fields are
// ignored; the set conditions combine with AND. MemberID is required
// and scopes the result to projects the user belongs to.
type TaskFilter struct {
	MemberID   uuid.UUID
	ProjectID  *uuid.UUID
	AssigneeID *uuid.UUID
	Status     *string
	Priority   *string
	DueFrom    *time.Time
	DueTo      *time.Time
	Skip       int
	Limit      int
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx}
}

// Create adds a new task to the database. Only the tasks row is
// written; a populated Assignee on the model is never saved along
// with it.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetDetail retrieves a task with its assignee and its comments, newest
// comment first, comment authors included.
func (r *TaskRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.Author").
		First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject retrieves a page of tasks in a project.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, skip, limit int) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("created_at").
		Offset(skip).
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

// List retrieves a page of tasks across every project the filter's
// member belongs to.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.project_id = tasks.project_id").
		Where("project_members.user_id = ?", filter.MemberID)

	if filter.ProjectID != nil {
		q = q.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.AssigneeID != nil {
		q = q.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Status != nil {
		q = q.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		q = q.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.DueFrom != nil {
		q = q.Where("tasks.due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		q = q.Where("tasks.due_date <= ?", *filter.DueTo)
	}

	var tasks []model.Task
	err := q.Preload("Assignee").
		Order("tasks.created_at").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&tasks).Error
	return tasks, err
}

// Update applies the given column values to a task. Callers build the
// map from fields that were actually provided.
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
