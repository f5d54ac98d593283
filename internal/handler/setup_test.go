package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cogniboard/internal/access"
	"cogniboard/internal/middleware"
	"cogniboard/internal/model"
	"cogniboard/internal/repository"
	"cogniboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if user := args.Get(0); user != nil {
		return user.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if user := args.Get(0); user != nil {
		return user.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	args := m.Called(ctx, skip, limit)
	if users := args.Get(0); users != nil {
		return users.([]model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, ownerID uuid.UUID, in service.CreateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, ownerID, in)
	if project := args.Get(0); project != nil {
		return project.(*model.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, projectID)
	if project := args.Get(0); project != nil {
		return project.(*model.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	if projects := args.Get(0); projects != nil {
		return projects.([]model.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, projectID uuid.UUID, in service.UpdateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, projectID, in)
	if project := args.Get(0); project != nil {
		return project.(*model.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockProjectService) ListMembers(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	if members := args.Get(0); members != nil {
		return members.([]model.ProjectMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) AddMember(ctx context.Context, projectID uuid.UUID, in service.AddMemberInput) (*model.ProjectMember, error) {
	args := m.Called(ctx, projectID, in)
	if member := args.Get(0); member != nil {
		return member.(*model.ProjectMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) (*model.ProjectMember, error) {
	args := m.Called(ctx, projectID, userID, role)
	if member := args.Get(0); member != nil {
		return member.(*model.ProjectMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectService) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, projectID uuid.UUID, in service.CreateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, projectID, in)
	if task := args.Get(0); task != nil {
		return task.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, taskID)
	if task := args.Get(0); task != nil {
		return task.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) ListByProject(ctx context.Context, projectID uuid.UUID, skip, limit int) ([]model.Task, error) {
	args := m.Called(ctx, projectID, skip, limit)
	if tasks := args.Get(0); tasks != nil {
		return tasks.([]model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	if tasks := args.Get(0); tasks != nil {
		return tasks.([]model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, taskID uuid.UUID, in service.UpdateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, taskID, in)
	if task := args.Get(0); task != nil {
		return task.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Create(ctx context.Context, taskID, authorID uuid.UUID, body string) (*model.Comment, error) {
	args := m.Called(ctx, taskID, authorID, body)
	if comment := args.Get(0); comment != nil {
		return comment.(*model.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCommentService) ListByTask(ctx context.Context, taskID uuid.UUID, skip, limit int) ([]model.Comment, error) {
	args := m.Called(ctx, taskID, skip, limit)
	if comments := args.Get(0); comments != nil {
		return comments.([]model.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, commentID uuid.UUID, in service.UpdateCommentInput) (*model.Comment, error) {
	args := m.Called(ctx, commentID, in)
	if comment := args.Get(0); comment != nil {
		return comment.(*model.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, commentID uuid.UUID) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

type MockAccessGuard struct {
	mock.Mock
}

func (m *MockAccessGuard) CheckProject(ctx context.Context, actorID, projectID uuid.UUID, capability access.Capability) error {
	args := m.Called(ctx, actorID, projectID, capability)
	return args.Error(0)
}

func (m *MockAccessGuard) CheckTask(ctx context.Context, actorID, taskID uuid.UUID, capability access.Capability) (*model.Task, error) {
	args := m.Called(ctx, actorID, taskID, capability)
	if task := args.Get(0); task != nil {
		return task.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccessGuard) CheckComment(ctx context.Context, actorID, commentID uuid.UUID, capability access.Capability) (*model.Comment, error) {
	args := m.Called(ctx, actorID, commentID, capability)
	if comment := args.Get(0); comment != nil {
		return comment.(*model.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

// newRouter returns an engine whose requests run as the given user,
// standing in for the JWT middleware.
func newRouter(actorID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, actorID)
	})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}
