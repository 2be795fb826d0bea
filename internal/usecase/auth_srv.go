package usecase

import (
	"context"
	"fmt"
	"time"

	"otp-service/internal/apperr"
	"otp-service/internal/data/entity"
	"otp-service/internal/data/repository"
	"otp-service/internal/dto/request"
	"otp-service/internal/dto/response"
	"otp-service/internal/session"
	"otp-service/pkg/password"
	"otp-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo     *repository.Repository
	sessions *session.Store
	verifier password.Verifier
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	sessions *session.Store,
	verifier password.Verifier,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		sessions: sessions,
		verifier: verifier,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, utils.FormatValidationErrors(errs))
	}

	role, err := entity.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, err.Error())
	}

	// 2. Username must be free
	existing, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username already taken", apperr.ErrConflict)
	}

	// 3. Only one admin account may exist
	if role == entity.RoleAdmin {
		adminExists, err := s.repo.User.AdminExists(ctx)
		if err != nil {
			s.log.Error("Failed to check admin existence", zap.Error(err))
			return nil, fmt.Errorf("check admin exists: %w", err)
		}
		if adminExists {
			s.log.Warn("Second admin registration rejected", zap.String("username", req.Username))
			return nil, fmt.Errorf("%w: admin already exists", apperr.ErrConflict)
		}
	}

	// 4. Hash password
	digest, err := s.verifier.Hash(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		PasswordHash: digest,
		Role:         role,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, utils.FormatValidationErrors(errs))
	}

	// 2. Find user
	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("find user: %w", err)
	}

	// Same rejection for unknown user and bad password; no hints.
	if user == nil || !s.verifier.Matches(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("username", req.Username))
		return nil, fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthenticated)
	}

	// 3. Issue session token
	token, expiresAt := s.sessions.Issue(user)

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &response.AuthResponse{
		UserID:    user.ID.String(),
		Username:  user.Username,
		Role:      user.Role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if !s.sessions.Revoke(token) {
		// Revocation is idempotent; a miss only gets logged.
		s.log.Warn("Logout with unknown or already revoked token")
	}
	return nil
}
