package services

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
	"github.com/openbooks-app/openbooks/internal/dto"
)

// UserSvcFacade manages user records and credential checks for the auth shell.
type UserSvcFacade interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// AuthenticateUser verifies email+password and returns the user on
	// success, ErrUnauthorized otherwise.
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)
}
