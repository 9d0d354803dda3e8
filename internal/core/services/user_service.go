package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/invoicelab/invoicing_backend/internal/apperrors"
	"github.com/invoicelab/invoicing_backend/internal/core/domain"
	portsrepo "github.com/invoicelab/invoicing_backend/internal/core/ports/repositories"
	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
	"github.com/invoicelab/invoicing_backend/internal/dto"
	"github.com/invoicelab/invoicing_backend/internal/middleware"
	"github.com/invoicelab/invoicing_backend/internal/utils"
)

// UserService handles user registration and authentication.
type UserService struct {
	userRepo portsrepo.UserRepositoryFacade
	issuer   portssvc.TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(ur portsrepo.UserRepositoryFacade, issuer portssvc.TokenIssuer) portssvc.UserSvcFacade {
	return &UserService{
		userRepo: ur,
		issuer:   issuer,
	}
}

// Ensure UserService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*UserService)(nil)

// RegisterUser creates a new user with a bcrypt-hashed password.
func (s *UserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		logger.Error("Failed to check user email uniqueness", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check user email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, req.Email)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user in repository", slog.String("error", err.Error()), slog.String("email", req.Email))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.Info("User registered successfully", slog.String("user_id", user.UserID))
	return &user, nil
}

// Login verifies credentials and issues a signed token. Unknown emails and
// wrong passwords produce the same error so callers cannot probe accounts.
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		logger.Error("Failed to look up user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, expiresAt, err := s.issuer.GenerateToken(user.UserID)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	}, nil
}

// RefreshToken issues a fresh token for an already-authenticated user. The
// user is re-fetched so tokens cannot be refreshed for deleted accounts.
func (s *UserService) RefreshToken(ctx context.Context, userID string) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", apperrors.ErrUnauthorized)
		}
		logger.Error("Failed to look up user for token refresh", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	token, expiresAt, err := s.issuer.GenerateToken(user.UserID)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	}, nil
}

// GetUserByID retrieves a single user.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve user %s: %w", userID, err)
	}
	return user, nil
}

// ListUsers retrieves users with limit/offset pagination.
func (s *UserService) ListUsers(ctx context.Context, params dto.ListUsersParams) (*dto.ListUsersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	resp := dto.ToListUsersResponse(users)
	return &resp, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to retrieve user %s for deletion: %w", userID, err)
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		logger.Error("Failed to delete user in repository", slog.String("error", err.Error()), slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.Info("User deleted", slog.String("user_id", userID))
	return nil
}
