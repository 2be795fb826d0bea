package wire

import (
	"otp-service/internal/adaptor"
	"otp-service/internal/session"
	"otp-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	sessions *session.Store,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.Authenticate(sessions, log)).Post("/api/logout", authHandler.Logout)
	r.With(middleware.Authenticate(sessions, log)).Get("/api/user/profile", authHandler.Profile)
}
