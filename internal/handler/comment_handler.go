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

// CommentService is the slice of the comment service the handler consumes.
type CommentService interface {
	Create(ctx context.Context, taskID, authorID uuid.UUID, body string) (*model.Comment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID, skip, limit int) ([]model.Comment, error)
	Update(ctx context.Context, commentID uuid.UUID, in service.UpdateCommentInput) (*model.Comment, error)
	Delete(ctx context.Context, commentID uuid.UUID) error
}

type CommentHandler struct {
	comments CommentService
	guard    AccessGuard
}

func NewCommentHandler(comments CommentService, guard AccessGuard) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		guard:    guard,
	}
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type UpdateCommentRequest struct {
	Body *string `json:"body" binding:"omitempty,min=1"`
}

// Create adds a comment to a task, authored by the caller
// @Summary      Comment on a task
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body CreateCommentRequest true "Comment body"
// @Success      201 {object} CommentResponse
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
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

	if _, err := h.guard.CheckTask(c.Request.Context(), actorID, taskID, access.CapCommentCreate); err != nil {
		respondError(c, err)
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), taskID, actorID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// ListByTask returns a task's comments, newest first
// @Summary      List task comments
// @Tags         comments
// @Produce      json
// @Param        id    path  string true  "Task ID"
// @Param        skip  query int    false "Rows to skip" default(0)
// @Param        limit query int    false "Page size"    default(100)
// @Success      200 {object} CommentListResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id}/comments [get]
func (h *CommentHandler) ListByTask(c *gin.Context) {
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

	if _, err := h.guard.CheckTask(c.Request.Context(), actorID, taskID, access.CapCommentList); err != nil {
		respondError(c, err)
		return
	}

	skip, limit := parsePagination(c)
	comments, err := h.comments.ListByTask(c.Request.Context(), taskID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := CommentListResponse{Comments: make([]CommentResponse, 0, len(comments))}
	for i := range comments {
		resp.Comments = append(resp.Comments, toCommentResponse(&comments[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// Update edits a comment's body
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id path string true "Comment ID"
// @Param        request body UpdateCommentRequest true "New body"
// @Success      200 {object} CommentResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /comments/{id} [patch]
func (h *CommentHandler) Update(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid comment ID format"))
		return
	}

	if _, err := h.guard.CheckComment(c.Request.Context(), actorID, commentID, access.CapCommentUpdate); err != nil {
		respondError(c, err)
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), commentID, service.UpdateCommentInput{
		Body: req.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete removes a comment
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Param        id path string true "Comment ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid comment ID format"))
		return
	}

	if _, err := h.guard.CheckComment(c.Request.Context(), actorID, commentID, access.CapCommentDelete); err != nil {
		respondError(c, err)
		return
	}

	if err := h.comments.Delete(c.Request.Context(), commentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
