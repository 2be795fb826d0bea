package adaptor

import (
	"otp-service/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth  *AuthHandler
	OTP   *OTPHandler
	Admin *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(service.Auth, log),
		OTP:   NewOTPHandler(service.OTP, log),
		Admin: NewAdminHandler(service.Admin, log),
	}
}
