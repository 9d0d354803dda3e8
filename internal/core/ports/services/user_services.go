package services

import (
	"context"
	"time"

	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	"github.com/invoicelab/invoicing_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, params dto.ListUsersParams) (*dto.ListUsersResponse, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// RegisterUser creates a new user account with a hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// Login verifies credentials and issues a signed token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// RefreshToken issues a fresh token for an authenticated user.
	RefreshToken(ctx context.Context, userID string) (*dto.LoginResponse, error)

	DeleteUser(ctx context.Context, userID string) error
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}

// TokenIssuer abstracts signed token generation for authenticated sessions.
type TokenIssuer interface {
	// GenerateToken issues a token for the user, returning the token string
	// and its expiry.
	GenerateToken(userID string) (string, time.Time, error)
}
