package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/antelcha/itsm-playground/internal/auth"
	"github.com/antelcha/itsm-playground/internal/config"
	"github.com/antelcha/itsm-playground/internal/domain"
	"github.com/antelcha/itsm-playground/internal/policy"
	"github.com/antelcha/itsm-playground/internal/repository"
	apperrors "github.com/antelcha/itsm-playground/pkg/util"
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// RegisterInput describes a registration payload. An empty role
// defaults to end-user; staff roles are accepted here the way the
// admin seeding flow uses them.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	Department string
	EmployeeID string
	Role       string
}

// ProfilePatch describes a partial profile update.
type ProfilePatch struct {
	Email      *string
	Department *string
	EmployeeID *string
	Password   *string
}

// LoginResult bundles the issued token with its subject.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	fieldErrs := map[string]any{}
	if strings.TrimSpace(input.Username) == "" {
		fieldErrs["username"] = "required"
	}
	if strings.TrimSpace(input.Email) == "" {
		fieldErrs["email"] = "required"
	}
	if len(input.Password) < 8 {
		fieldErrs["password"] = "must be at least 8 characters"
	}

	role := domain.RoleEndUser
	if input.Role != "" {
		parsed, err := domain.ParseRole(input.Role)
		if err != nil {
			fieldErrs["role"] = "must be one of user, agent, admin"
		} else {
			role = parsed
		}
	}
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", fieldErrs)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Department:   strings.TrimSpace(input.Department),
		EmployeeID:   strings.TrimSpace(input.EmployeeID),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Profile returns the caller's own account.
func (s *AuthService) Profile(ctx context.Context, p domain.Principal) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateProfile patches the caller's own account. Role is not part of
// the self-service surface.
func (s *AuthService) UpdateProfile(ctx context.Context, p domain.Principal, patch ProfilePatch) (*domain.User, error) {
	user, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return nil, apperrors.NewValidationError("invalid profile", map[string]any{"email": "required"})
		}
		user.Email = email
	}
	if patch.Department != nil {
		user.Department = strings.TrimSpace(*patch.Department)
	}
	if patch.EmployeeID != nil {
		user.EmployeeID = strings.TrimSpace(*patch.EmployeeID)
	}
	if patch.Password != nil {
		if len(*patch.Password) < 8 {
			return nil, apperrors.NewValidationError("invalid profile", map[string]any{"password": "must be at least 8 characters"})
		}
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns the full directory. Unlike tickets, this endpoint
// signals an explicit forbidden to non-staff callers.
func (s *AuthService) ListUsers(ctx context.Context, p domain.Principal) ([]domain.User, error) {
	if !policy.CanListUsers(p.Role) {
		return nil, apperrors.NewForbidden("staff role required")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// DeleteUser removes an account. Admin only. Tickets referencing the
// account survive with their creator/assignee references nulled.
func (s *AuthService) DeleteUser(ctx context.Context, p domain.Principal, userID string) error {
	if p.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return apperrors.MapError(err)
	}
	return nil
}
