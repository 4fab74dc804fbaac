package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"todo_service/internal/common"
	"todo_service/internal/common/security"
	"todo_service/internal/domain/model"
	"todo_service/internal/domain/repository"
	"todo_service/internal/platform/config"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
	todoRepo repository.TodoRepository
	tokens   *TokenService
}

func NewAuthService(userRepo repository.UserRepository, todoRepo repository.TodoRepository, tokens *TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, todoRepo: todoRepo, tokens: tokens}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User   *model.UserProfile `json:"user"`
	Tokens *TokenPair         `json:"tokens"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, common.Errorf("username, email and password are required: %w", common.ErrValidation)
	}
	if req.Password != req.Password2 {
		return nil, common.Errorf("passwords don't match: %w", common.ErrValidation)
	}
	if reason := security.ValidatePasswordStrength(req.Password); reason != "" {
		return nil, common.Errorf("%s: %w", reason, common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		IsAdmin:        false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on duplicate username/email.
		return nil, err
	}

	return s.authResponse(ctx, user)
}

// Login authenticates by email. An unknown email and a wrong password yield
// the same error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	return s.authResponse(ctx, user)
}

// Logout revokes the refresh token. It never fails, see TokenService.Revoke.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// Invoked once during process initialization; every failure is logged and
// swallowed so startup can never be blocked by it. A duplicate-creation
// conflict from a racing instance counts as success.
func (s *AuthService) EnsureAdmin(ctx context.Context) {
	cfg := config.AppConfig
	if cfg.AdminPassword == "" {
		log.Println("admin bootstrap skipped: ADMIN_PASSWORD not set")
		return
	}

	_, err := s.userRepo.FindByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return
	}
	if !errors.Is(err, common.ErrNotFound) {
		log.Printf("admin bootstrap: lookup failed: %v", err)
		return
	}

	hashedPassword, err := security.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Printf("admin bootstrap: failed to hash password: %v", err)
		return
	}

	admin := &model.User{
		ID:             uuid.NewString(),
		Username:       cfg.AdminUsername,
		Email:          cfg.AdminEmail,
		HashedPassword: hashedPassword,
		IsAdmin:        true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return
		}
		log.Printf("admin bootstrap: create failed: %v", err)
		return
	}
	log.Printf("admin bootstrap: created admin account %q", admin.Username)
}

func (s *AuthService) authResponse(ctx context.Context, user *model.User) (*AuthResponse, error) {
	tokens, err := s.tokens.IssuePair(user.ID, user.Role())
	if err != nil {
		return nil, err
	}
	profile, err := buildProfile(ctx, s.todoRepo, user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: profile, Tokens: tokens}, nil
}
