package handler

import (
	"context"
	"net/http"

	"cogniboard/internal/access"
	"cogniboard/internal/apperrors"
	"cogniboard/internal/middleware"
	"cogniboard/internal/model"
	"cogniboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectService is the slice of the project service the handler consumes.
type ProjectService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in service.CreateProjectInput) (*model.Project, error)
	Get(ctx context.Context, projectID uuid.UUID) (*model.Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	Update(ctx context.Context, projectID uuid.UUID, in service.UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error)
	AddMember(ctx context.Context, projectID uuid.UUID, in service.AddMemberInput) (*model.ProjectMember, error)
	UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) (*model.ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
}

type ProjectHandler struct {
	projects ProjectService
	guard    AccessGuard
}

func NewProjectHandler(projects ProjectService, guard AccessGuard) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		guard:    guard,
	}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"omitempty,oneof=owner member"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner member"`
}

// Create creates a project with the caller as its first owner
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body CreateProjectRequest true "Project details"
// @Success      201 {object} ProjectResponse
// @Failure      400 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	project, err := h.projects.Create(c.Request.Context(), actorID, service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}

// List returns the caller's projects
// @Summary      List my projects
// @Tags         projects
// @Produce      json
// @Success      200 {object} ProjectListResponse
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	projects, err := h.projects.ListForUser(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ProjectListResponse{Projects: make([]ProjectResponse, 0, len(projects))}
	for i := range projects {
		resp.Projects = append(resp.Projects, toProjectResponse(&projects[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns one project with its memberships
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} ProjectResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
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

	if err := h.guard.CheckProject(c.Request.Context(), actorID, projectID, access.CapProjectView); err != nil {
		respondError(c, err)
		return
	}

	project, err := h.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Update applies a partial update to a project
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body UpdateProjectRequest true "Fields to change"
// @Success      200 {object} ProjectResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
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

	if err := h.guard.CheckProject(c.Request.Context(), actorID, projectID, access.CapProjectUpdate); err != nil {
		respondError(c, err)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	project, err := h.projects.Update(c.Request.Context(), projectID, service.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete removes a project with everything in it
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
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

	if err := h.guard.CheckProject(c.Request.Context(), actorID, projectID, access.CapProjectDelete); err != nil {
		respondError(c, err)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), projectID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// ListMembers returns the project's memberships
// @Summary      List project members
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {array} MemberResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects/{id}/members [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
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

	if err := h.guard.CheckProject(c.Request.Context(), actorID, projectID, access.CapMemberList); err != nil {
		respondError(c, err)
		return
	}

	members, err := h.projects.ListMembers(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]MemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, toMemberResponse(&members[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// AddMember adds a user to the project
// @Summary      Add a project member
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body AddMemberRequest true "User and role"
// @Success      201 {object} MemberResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
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

	if err := h.guard.CheckProject(c.Request.Context(), actorID, projectID, access.CapMemberAdd); err != nil {
		respondError(c, err)
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(c, apperrors.Validation("Invalid user ID format"))
		return
	}

	member, err := h.projects.AddMember(c.Request.Context(), projectID, service.AddMemberInput{
		UserID: userID,
		Role:   req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMemberResponse(member))
}

// UpdateMemberRole changes a member's role
// @Summary      Change a member's role
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        user_id path string true "User ID"
// @Param        request body UpdateMemberRoleRequest true "New role"
// @Success      200 {object} MemberResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects/{id}/members/{user_id} [patch]
func (h *ProjectHandler) UpdateMemberRole(c *gin.Context) {
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

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid user ID format"))
		return
	}

	if err := h.guard.CheckProject(c.Request.Context(), actorID, projectID, access.CapMemberUpdate); err != nil {
		respondError(c, err)
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	member, err := h.projects.UpdateMemberRole(c.Request.Context(), projectID, userID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMemberResponse(member))
}

// RemoveMember removes a user from the project
// @Summary      Remove a project member
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        user_id path string true "User ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /projects/{id}/members/{user_id} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
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

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid user ID format"))
		return
	}

	if err := h.guard.CheckProject(c.Request.Context(), actorID, projectID, access.CapMemberRemove); err != nil {
		respondError(c, err)
		return
	}

	if err := h.projects.RemoveMember(c.Request.Context(), projectID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
