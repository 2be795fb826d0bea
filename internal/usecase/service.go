package usecase

import (
	"otp-service/internal/data/repository"
	"otp-service/internal/session"
	"otp-service/pkg/notifier"
	"otp-service/pkg/password"

	"go.uber.org/zap"
)

type Service struct {
	Auth  AuthService
	OTP   OTPService
	Admin AdminService
}

func NewService(
	repo *repository.Repository,
	sessions *session.Store,
	notifiers *notifier.Factory,
	verifier password.Verifier,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:  NewAuthService(repo, sessions, verifier, log),
		OTP:   NewOTPService(repo, notifiers, log),
		Admin: NewAdminService(repo, log),
	}
}
