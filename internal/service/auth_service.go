package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/havenly/property-service/internal/auth"
	"github.com/havenly/property-service/internal/config"
	"github.com/havenly/property-service/internal/domain"
	"github.com/havenly/property-service/internal/repository"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account. Admin accounts are provisioned manually,
// never through self-registration.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Session, error) {
	if role != domain.RoleLandlord && role != domain.RoleTenant {
		return nil, errors.New("role must be landlord or tenant")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("email already registered")
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.tokenMgr.NewSession(user)
}

// Login authenticates an account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, errors.New("account suspended")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return s.tokenMgr.NewSession(user)
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return errors.New("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
