package middleware

import (
	"net/http"
	"strings"

	"otp-service/internal/data/entity"
	"otp-service/internal/session"
	"otp-service/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate validates the bearer token against the session store and
// attaches the resolved user to the request context.
func Authenticate(store *session.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token := parts[1]

			user := store.Resolve(token)
			if user == nil {
				logger.Warn("Invalid or expired session token",
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated users whose role rank is below the
// required minimum. Must be chained after Authenticate.
func RequireRole(minRole entity.UserRole, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUserFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if user.Role.Rank() < minRole.Rank() {
				logger.Warn("Insufficient role for resource",
					zap.String("username", user.Username),
					zap.String("role", string(user.Role)),
					zap.String("required_role", string(minRole)),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
