package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"cogniboard/internal/access"
	"cogniboard/internal/apperrors"
	"cogniboard/internal/handler"
	"cogniboard/internal/model"
	"cogniboard/internal/repository"
	"cogniboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTaskRoutes(actorID uuid.UUID) (*gin.Engine, *MockTaskService, *MockAccessGuard) {
	router := newRouter(actorID)
	mockTasks := new(MockTaskService)
	mockGuard := new(MockAccessGuard)
	taskHandler := handler.NewTaskHandler(mockTasks, mockGuard)

	router.POST("/projects/:id/tasks", taskHandler.Create)
	router.GET("/projects/:id/tasks", taskHandler.ListByProject)
	router.GET("/tasks", taskHandler.List)
	router.GET("/tasks/:id", taskHandler.Get)
	router.PATCH("/tasks/:id", taskHandler.Update)
	router.DELETE("/tasks/:id", taskHandler.Delete)

	return router, mockTasks, mockGuard
}

func testTask(projectID uuid.UUID, status string) *model.Task {
	return &model.Task{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     "Ship the landing page",
		Status:    status,
		Priority:  model.PriorityHigh,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestTaskCreate_IgnoresClientStatus(t *testing.T) {
	// Arrange
	actorID := uuid.New()
	router, mockTasks, mockGuard := setupTaskRoutes(actorID)
	projectID := uuid.New()
	task := testTask(projectID, model.StatusTodo)

	mockGuard.On("CheckProject", mock.Anything, actorID, projectID, access.CapTaskCreate).Return(nil)
	mockTasks.On("Create", mock.Anything, projectID, mock.MatchedBy(func(in service.CreateTaskInput) bool {
		return in.Title == "Ship the landing page" && in.Priority == model.PriorityHigh
	})).Return(task, nil)

	// Act: the status field in the payload has no effect.
	resp := doJSON(t, router, "POST", "/projects/"+projectID.String()+"/tasks", map[string]interface{}{
		"title":    "Ship the landing page",
		"priority": "high",
		"status":   "done",
	})

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var body handler.TaskResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, model.StatusTodo, body.Status)

	mockTasks.AssertExpectations(t)
}

func TestTaskCreate_RequiresMembership(t *testing.T) {
	// Arrange
	actorID := uuid.New()
	router, mockTasks, mockGuard := setupTaskRoutes(actorID)
	projectID := uuid.New()

	mockGuard.On("CheckProject", mock.Anything, actorID, projectID, access.CapTaskCreate).
		Return(apperrors.Forbidden("You are not a member of this project"))

	// Act
	resp := doJSON(t, router, "POST", "/projects/"+projectID.String()+"/tasks", handler.CreateTaskRequest{
		Title: "Sneaky task",
	})

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockTasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	mockGuard.AssertExpectations(t)
}

func TestTaskList_ScopesFilterToActor(t *testing.T) {
	// Arrange
	actorID := uuid.New()
	router, mockTasks, _ := setupTaskRoutes(actorID)
	projectID := uuid.New()

	mockTasks.On("List", mock.Anything, mock.MatchedBy(func(f repository.TaskFilter) bool {
		return f.MemberID == actorID &&
			f.ProjectID != nil && *f.ProjectID == projectID &&
			f.Status != nil && *f.Status == model.StatusDone &&
			f.Priority != nil && *f.Priority == model.PriorityHigh &&
			f.Skip == 10 && f.Limit == 25
	})).Return([]model.Task{*testTask(projectID, model.StatusDone)}, nil)

	// Act
	resp := doJSON(t, router, "GET",
		"/tasks?project_id="+projectID.String()+"&status=done&priority=high&skip=10&limit=25", nil)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body handler.TaskListResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Tasks, 1)

	mockTasks.AssertExpectations(t)
}

func TestTaskList_RejectsUnknownStatus(t *testing.T) {
	// Arrange
	actorID := uuid.New()
	router, mockTasks, _ := setupTaskRoutes(actorID)

	// Act
	resp := doJSON(t, router, "GET", "/tasks?status=archived", nil)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTasks.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTaskGet_ExposesOverdue(t *testing.T) {
	// Arrange
	actorID := uuid.New()
	router, mockTasks, mockGuard := setupTaskRoutes(actorID)
	projectID := uuid.New()
	task := testTask(projectID, model.StatusInProgress)
	pastDue := time.Now().Add(-48 * time.Hour)
	task.DueDate = &pastDue

	mockGuard.On("CheckTask", mock.Anything, actorID, task.ID, access.CapTaskView).Return(task, nil)
	mockTasks.On("Get", mock.Anything, task.ID).Return(task, nil)

	// Act
	resp := doJSON(t, router, "GET", "/tasks/"+task.ID.String(), nil)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body handler.TaskResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Overdue)
	assert.NotNil(t, body.DueDate)

	mockTasks.AssertExpectations(t)
}

func TestTaskUpdate_PartialFields(t *testing.T) {
	// Arrange
	actorID := uuid.New()
	router, mockTasks, mockGuard := setupTaskRoutes(actorID)
	projectID := uuid.New()
	task := testTask(projectID, model.StatusTodo)
	task.Title = "Renamed task"

	mockGuard.On("CheckTask", mock.Anything, actorID, task.ID, access.CapTaskUpdate).Return(task, nil)
	mockTasks.On("Update", mock.Anything, task.ID, mock.MatchedBy(func(in service.UpdateTaskInput) bool {
		return in.Title != nil && *in.Title == "Renamed task" &&
			in.Description == nil && in.Status == nil && in.Priority == nil &&
			in.AssigneeID == nil && in.DueDate == nil &&
			!in.ClearAssignee && !in.ClearDueDate
	})).Return(task, nil)

	// Act
	resp := doJSON(t, router, "PATCH", "/tasks/"+task.ID.String(), map[string]interface{}{
		"title": "Renamed task",
	})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body handler.TaskResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Renamed task", body.Title)

	mockTasks.AssertExpectations(t)
}

func TestTaskUpdate_NullClearsAssignee(t *testing.T) {
	// Arrange
	actorID := uuid.New()
	router, mockTasks, mockGuard := setupTaskRoutes(actorID)
	projectID := uuid.New()
	task := testTask(projectID, model.StatusTodo)

	mockGuard.On("CheckTask", mock.Anything, actorID, task.ID, access.CapTaskUpdate).Return(task, nil)
	mockTasks.On("Update", mock.Anything, task.ID, mock.MatchedBy(func(in service.UpdateTaskInput) bool {
		return in.ClearAssignee && in.AssigneeID == nil && !in.ClearDueDate
	})).Return(task, nil)

	// Act: a literal null unassigns, unlike leaving the field out.
	resp := doJSON(t, router, "PATCH", "/tasks/"+task.ID.String(), map[string]interface{}{
		"assignee_id": nil,
	})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	mockTasks.AssertExpectations(t)
}

func TestTaskDelete_MemberDenied(t *testing.T) {
	// Arrange: plain members cannot delete, only owners or the assignee.
	actorID := uuid.New()
	router, mockTasks, mockGuard := setupTaskRoutes(actorID)
	taskID := uuid.New()

	mockGuard.On("CheckTask", mock.Anything, actorID, taskID, access.CapTaskDelete).
		Return(nil, apperrors.Forbidden("Only the project owner or the task assignee can do this"))

	// Act
	resp := doJSON(t, router, "DELETE", "/tasks/"+taskID.String(), nil)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockTasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	mockGuard.AssertExpectations(t)
}

func TestTaskListByProject_WrapsTasks(t *testing.T) {
	// Arrange
	actorID := uuid.New()
	router, mockTasks, mockGuard := setupTaskRoutes(actorID)
	projectID := uuid.New()

	mockGuard.On("CheckProject", mock.Anything, actorID, projectID, access.CapTaskList).Return(nil)
	mockTasks.On("ListByProject", mock.Anything, projectID, 0, 100).Return([]model.Task{
		*testTask(projectID, model.StatusTodo),
		*testTask(projectID, model.StatusReview),
	}, nil)

	// Act
	resp := doJSON(t, router, "GET", "/projects/"+projectID.String()+"/tasks", nil)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body handler.TaskListResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Tasks, 2)

	mockTasks.AssertExpectations(t)
}
