// Package service implements the domain operations behind the HTTP
// handlers. Services own every invariant-preserving write: multi-row
// writes run inside a single transaction and re-check their
// preconditions under row locks, so no caller ordering can corrupt
// project state.
package service

import (
	"context"
	"errors"
	"strings"

	"log/slog"

	"cogniboard/internal/apperrors"
	"cogniboard/internal/auth"
	"cogniboard/internal/model"
	"cogniboard/internal/repository"

	"github.com/google/uuid"
)

// UserService handles registration, authentication, and account lookup.
type UserService struct {
	users  *repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users *repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a user account. Emails are stored lowercased and
// must be unique.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(in.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("User with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashed,
		Name:           in.Name,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race against a concurrent registration.
			return nil, apperrors.Conflict("User with this email already exists")
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Authenticate verifies credentials and returns the account. Unknown
// email and wrong password report the same Unauthenticated error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(password, user.HashedPassword) {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	return user, err
}

// List returns a page of user accounts for member selection.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	return s.users.List(ctx, skip, limit)
}
