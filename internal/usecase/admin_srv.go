package usecase

import (
	"context"
	"fmt"

	"otp-service/internal/apperr"
	"otp-service/internal/data/repository"
	"otp-service/internal/dto/request"
	"otp-service/internal/dto/response"
	"otp-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminService interface {
	UpdateOTPConfig(ctx context.Context, req *request.UpdateOTPConfigRequest) error
	ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUserAndCodes(ctx context.Context, userID uuid.UUID) error
}

type adminService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) AdminService {
	return &adminService{
		repo: repo,
		log:  log,
	}
}

func (s *adminService) UpdateOTPConfig(ctx context.Context, req *request.UpdateOTPConfigRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("OTP config validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: %s", apperr.ErrValidation, utils.FormatValidationErrors(errs))
	}

	if err := s.repo.OTPConfig.Update(ctx, req.Length, req.TTLSeconds); err != nil {
		s.log.Error("Failed to update OTP config", zap.Error(err))
		return fmt.Errorf("update OTP config: %w", err)
	}

	s.log.Info("OTP config updated",
		zap.Int("length", req.Length),
		zap.Int("ttl_seconds", req.TTLSeconds),
	)
	return nil
}

// ListUsers returns non-admin accounts, newest first.
func (s *adminService) ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = 10
	}
	if req.PerPage > 100 {
		req.PerPage = 100
	}

	users, err := s.repo.User.FindAllNonAdmins(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list users",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := s.repo.User.CountNonAdmins(ctx)
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(userResponses, req.Page, req.PerPage, total), nil
}

// DeleteUserAndCodes removes the user and every OTP code they own.
func (s *adminService) DeleteUserAndCodes(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user for delete", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", apperr.ErrNotFound, userID.String())
	}

	// Codes go first so a failure never leaves orphaned rows behind a
	// deleted user.
	deleted, err := s.repo.OTP.DeleteAllByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to delete user OTP codes", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete user OTP codes: %w", err)
	}

	if err := s.repo.User.Delete(ctx, userID); err != nil {
		s.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info("User and codes deleted",
		zap.String("user_id", userID.String()),
		zap.String("username", user.Username),
		zap.Int64("codes_deleted", deleted),
	)
	return nil
}
