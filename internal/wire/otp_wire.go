package wire

import (
	"otp-service/internal/adaptor"
	"otp-service/internal/session"
	"otp-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOTP(
	r chi.Router,
	otpHandler *adaptor.OTPHandler,
	sessions *session.Store,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	// Any authenticated role may request and redeem passcodes
	r.With(middleware.Authenticate(sessions, log)).Post("/api/otp/generate", otpHandler.Generate)
	r.With(middleware.Authenticate(sessions, log)).Post("/api/otp/validate", otpHandler.Validate)
}
