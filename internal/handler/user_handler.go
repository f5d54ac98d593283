package handler

import (
	"context"
	"net/http"
	"time"

	"cogniboard/internal/apperrors"
	"cogniboard/internal/auth"
	"cogniboard/internal/middleware"
	"cogniboard/internal/model"
	"cogniboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserService is the slice of the user service the handler consumes.
type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, skip, limit int) ([]model.User, error)
}

type UserHandler struct {
	users    UserService
	secret   string
	tokenTTL time.Duration
}

func NewUserHandler(users UserService, secret string, tokenTTL time.Duration) *UserHandler {
	return &UserHandler{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new user account
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Account details"
// @Success      201 {object} UserResponse
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and issues a bearer token
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} TokenResponse
// @Failure      401 {object} map[string]string
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request"))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(user.ID.String(), h.secret, h.tokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me returns the authenticated user's profile
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200 {object} UserResponse
// @Failure      401 {object} map[string]string
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("Not authenticated"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// List returns all user accounts, for member selection
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Param        skip  query int false "Rows to skip"  default(0)
// @Param        limit query int false "Page size"     default(100)
// @Success      200 {object} UserListResponse
// @Failure      401 {object} map[string]string
// @Security     BearerAuth
// @Router       /auth/users [get]
func (h *UserHandler) List(c *gin.Context) {
	skip, limit := parsePagination(c)

	users, err := h.users.List(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := UserListResponse{Users: make([]UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, resp)
}
