package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"cogniboard/internal/access"
	"cogniboard/internal/apperrors"
	"cogniboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccessGuard authorizes project-scoped operations. Resource resolution
// happens inside the guard, so handlers get NotFound and Forbidden from
// a single call.
type AccessGuard interface {
	CheckProject(ctx context.Context, actorID, projectID uuid.UUID, capability access.Capability) error
	CheckTask(ctx context.Context, actorID, taskID uuid.UUID, capability access.Capability) (*model.Task, error)
	CheckComment(ctx context.Context, actorID, commentID uuid.UUID, capability access.Capability) (*model.Comment, error)
}

// respondError writes the HTTP rendering of a service or guard error.
// Anything without a known code becomes an opaque 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code.HTTPStatus(), gin.H{
			"error": appErr.Message,
			"code":  string(appErr.Code),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  string(apperrors.CodeUnknown),
	})
}

// parsePagination reads the skip and limit query parameters. Skip
// defaults to 0, limit to 100; limit is capped at 100.
func parsePagination(c *gin.Context) (skip, limit int) {
	skip, limit = 0, 100

	if v, err := strconv.Atoi(c.DefaultQuery("skip", "0")); err == nil && v > 0 {
		skip = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	return skip, limit
}
