// internal/wire/wire.go
package wire

import (
	"net/http"
	"time"

	"otp-service/internal/adaptor"
	"otp-service/internal/data/repository"
	"otp-service/internal/session"
	"otp-service/internal/usecase"
	"otp-service/pkg/middleware"
	"otp-service/pkg/notifier"
	"otp-service/pkg/password"
	"otp-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds all dependencies
type App struct {
	Router   *chi.Mux
	Sessions *session.Store
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	// Initialize session store, notifiers and password verifier
	sessions := session.NewStore(time.Duration(config.Session.TTLMinutes)*time.Minute, logger)
	notifiers := notifier.NewFactory(config, logger)
	verifier := password.New(config.Password.Algorithm)

	// Initialize services and handlers
	service := usecase.NewService(repo, sessions, notifiers, verifier, logger)
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, sessions, logger)

	return &App{
		Router:   router,
		Sessions: sessions,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	sessions *session.Store,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, sessions, logger)
	wireOTP(r, handler.OTP, sessions, logger)
	wireAdmin(r, handler.Admin, handler.OTP, sessions, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
