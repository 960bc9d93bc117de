package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oneview/server/internal/module/auth"
	"github.com/oneview/server/internal/shared/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service handles user authentication and profiles.
type Service struct {
	repo    Repository
	jwt     *auth.JWTManager
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, jwt *auth.JWTManager, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		jwt:     jwt,
		metrics: m,
		logger:  logger,
	}
}

// Login authenticates a user with email and password.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metrics.RecordAuthEvent("login_failed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordAuthEvent("login_failed")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.metrics.RecordAuthEvent("login_failed")
		return nil, ErrAccountDeactivated
	}

	token, _, err := s.jwt.GenerateAccessToken(auth.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.metrics.RecordAuthEvent("login_success")
	s.logger.Info("user logged in", zap.String("email", user.Email), zap.String("role", string(user.Role)))

	return &LoginResponse{
		AccessToken: token,
		User:        user.ToResponse(),
		ExpiresIn:   s.jwt.GetAccessTokenExpiry().Seconds(),
	}, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetActiveUser returns a user by ID, treating deactivated accounts as missing.
func (s *Service) GetActiveUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DefaultUsers are the demo accounts created on an empty users table.
var DefaultUsers = []struct {
	Email     string
	Password  string
	Role      Role
	FirstName string
	LastName  string
}{
	{"admin@company.com", "admin123", RoleAdmin, "Admin", "User"},
	{"marketing@company.com", "marketing123", RoleMarketing, "Marketing", "Manager"},
	{"finance@company.com", "finance123", RoleFinance, "Finance", "Manager"},
}

// SeedDefaults creates the demo accounts when no users exist yet.
func (s *Service) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, d := range DefaultUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u := &User{
			ID:           uuid.New(),
			Email:        d.Email,
			PasswordHash: string(hash),
			Role:         d.Role,
			FirstName:    d.FirstName,
			LastName:     d.LastName,
			IsActive:     true,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", d.Email, err)
		}
	}

	s.logger.Info("seeded default users", zap.Int("count", len(DefaultUsers)))
	return nil
}
