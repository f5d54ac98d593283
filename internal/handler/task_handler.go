package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cogniboard/internal/access"
	"cogniboard/internal/apperrors"
	"cogniboard/internal/middleware"
	"cogniboard/internal/model"
	"cogniboard/internal/repository"
	"cogniboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// TaskService is the slice of the task service the handler consumes.
type TaskService interface {
	Create(ctx context.Context, projectID uuid.UUID, in service.CreateTaskInput) (*model.Task, error)
	Get(ctx context.Context, taskID uuid.UUID) (*model.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, skip, limit int) ([]model.Task, error)
	List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, taskID uuid.UUID, in service.UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
}

type TaskHandler struct {
	tasks TaskService
	guard AccessGuard
}

func NewTaskHandler(tasks TaskService, guard AccessGuard) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
		guard: guard,
	}
}

// CreateTaskRequest carries no status field: new tasks always start in
// todo regardless of what the client sends.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssigneeID  *string    `json:"assignee_id" binding:"omitempty,uuid"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest is a partial update: absent fields stay untouched.
// assignee_id and due_date also accept an explicit null, which clears
// the column.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in_progress review done"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssigneeID  *string    `json:"assignee_id" binding:"omitempty,uuid"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskFilterRequest narrows the cross-project task listing. All fields
// are optional and combine with AND.
type TaskFilterRequest struct {
	ProjectID   *string    `form:"project_id" binding:"omitempty,uuid"`
	AssigneeID  *string    `form:"assignee_id" binding:"omitempty,uuid"`
	Status      *string    `form:"status" binding:"omitempty,oneof=todo in_progress review done"`
	Priority    *string    `form:"priority" binding:"omitempty,oneof=low medium high critical"`
	DueDateFrom *time.Time `form:"due_date_from" time_format:"2006-01-02T15:04:05Z07:00"`
	DueDateTo   *time.Time `form:"due_date_to" time_format:"2006-01-02T15:04:05Z07:00"`
	Skip        int        `form:"skip" binding:"omitempty,min=0"`
	Limit       int        `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Create adds a task to a project
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body CreateTaskRequest true "Task details"
// @Success      201 {object} TaskResponse
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid project ID format"))
		return
	}

	if err := h.guard.CheckProject(c.Request.Context(), actorID, projectID, access.CapTaskCreate); err != nil {
		respondError(c, err)
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	in := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			respondError(c, apperrors.Validation("Invalid assignee ID format"))
			return
		}
		in.AssigneeID = &assigneeID
	}

	task, err := h.tasks.Create(c.Request.Context(), projectID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// ListByProject returns a project's tasks
// @Summary      List project tasks
// @Tags         tasks
// @Produce      json
// @Param        id    path  string true  "Project ID"
// @Param        skip  query int    false "Rows to skip" default(0)
// @Param        limit query int    false "Page size"    default(100)
// @Success      200 {object} TaskListResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects/{id}/tasks [get]
func (h *TaskHandler) ListByProject(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid project ID format"))
		return
	}

	if err := h.guard.CheckProject(c.Request.Context(), actorID, projectID, access.CapTaskList); err != nil {
		respondError(c, err)
		return
	}

	skip, limit := parsePagination(c)
	tasks, err := h.tasks.ListByProject(c.Request.Context(), projectID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskListResponse(tasks))
}

// List returns tasks across all of the caller's projects
// @Summary      List tasks with filters
// @Tags         tasks
// @Produce      json
// @Param        project_id    query string false "Project filter"
// @Param        assignee_id   query string false "Assignee filter"
// @Param        status        query string false "Status filter"   Enums(todo, in_progress, review, done)
// @Param        priority      query string false "Priority filter" Enums(low, medium, high, critical)
// @Param        due_date_from query string false "Due on or after (RFC3339)"
// @Param        due_date_to   query string false "Due on or before (RFC3339)"
// @Param        skip          query int    false "Rows to skip" default(0)
// @Param        limit         query int    false "Page size"    default(100)
// @Success      200 {object} TaskListResponse
// @Failure      400 {object} map[string]string
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	var req TaskFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid filter parameters"))
		return
	}

	filter := repository.TaskFilter{
		MemberID: actorID,
		Status:   req.Status,
		Priority: req.Priority,
		DueFrom:  req.DueDateFrom,
		DueTo:    req.DueDateTo,
		Skip:     req.Skip,
		Limit:    req.Limit,
	}
	if filter.Limit == 0 {
		filter.Limit = 100
	}
	if req.ProjectID != nil {
		projectID, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			respondError(c, apperrors.Validation("Invalid project ID format"))
			return
		}
		filter.ProjectID = &projectID
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			respondError(c, apperrors.Validation("Invalid assignee ID format"))
			return
		}
		filter.AssigneeID = &assigneeID
	}

	tasks, err := h.tasks.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskListResponse(tasks))
}

// Get returns one task with its assignee and comments
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} TaskResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid task ID format"))
		return
	}

	if _, err := h.guard.CheckTask(c.Request.Context(), actorID, taskID, access.CapTaskView); err != nil {
		respondError(c, err)
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update applies a partial update to a task. A null assignee_id or
// due_date clears the field; omitted fields stay untouched.
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body UpdateTaskRequest true "Fields to change"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid task ID format"))
		return
	}

	if _, err := h.guard.CheckTask(c.Request.Context(), actorID, taskID, access.CapTaskUpdate); err != nil {
		respondError(c, err)
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			respondError(c, apperrors.Validation("Invalid assignee ID format"))
			return
		}
		in.AssigneeID = &assigneeID
	}
	nulls := explicitNulls(c, "assignee_id", "due_date")
	in.ClearAssignee = nulls["assignee_id"]
	in.ClearDueDate = nulls["due_date"]

	task, err := h.tasks.Update(c.Request.Context(), taskID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes a task and its comments
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid task ID format"))
		return
	}

	if _, err := h.guard.CheckTask(c.Request.Context(), actorID, taskID, access.CapTaskDelete); err != nil {
		respondError(c, err)
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// explicitNulls reports which of the named keys the request body set
// to a literal JSON null. The body must already have been bound with
// ShouldBindBodyWith so its bytes are still cached on the context.
func explicitNulls(c *gin.Context, keys ...string) map[string]bool {
	nulls := make(map[string]bool, len(keys))

	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		return nulls
	}
	for _, key := range keys {
		if v, ok := raw[key]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			nulls[key] = true
		}
	}
	return nulls
}

func toTaskListResponse(tasks []model.Task) TaskListResponse {
	resp := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	return resp
}
