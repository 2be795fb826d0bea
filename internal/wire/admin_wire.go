package wire

import (
	"otp-service/internal/adaptor"
	"otp-service/internal/data/entity"
	"otp-service/internal/session"
	"otp-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	otpHandler *adaptor.OTPHandler,
	sessions *session.Store,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(sessions, log))
		r.Use(middleware.RequireRole(entity.RoleAdmin, log))

		r.Patch("/config", adminHandler.UpdateConfig)
		r.Get("/users", adminHandler.ListUsers)
		r.Delete("/users/{id}", adminHandler.DeleteUser)
		r.Post("/otp/sweep", otpHandler.Sweep)
	})
}
