package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"otp-service/internal/data/entity"
	"otp-service/internal/session"
	"otp-service/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*session.Store, *entity.User, string) {
	t.Helper()

	store := session.NewStore(30*time.Minute, zap.NewNop())
	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Username: "alice",
		Role:     entity.RoleUser,
	}
	token, _ := store.Issue(user)
	return store, user, token
}

func TestAuthenticateMissingHeader(t *testing.T) {
	store, _, _ := newTestStore(t)

	handler := Authenticate(store, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	store, _, token := newTestStore(t)

	handler := Authenticate(store, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	for _, header := range []string{token, "Basic " + token, "Bearer "} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
		req.Header.Set("Authorization", header)
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	store, _, _ := newTestStore(t)

	handler := Authenticate(store, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+uuid.NewString())
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateAttachesUserAndToken(t *testing.T) {
	store, user, token := newTestStore(t)

	var gotUser *entity.User
	var gotToken string
	handler := Authenticate(store, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = utils.GetUserFromContext(r.Context())
		gotToken, _ = utils.GetTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, user.ID, gotUser.ID)
	assert.Equal(t, token, gotToken)
}

func TestAuthenticateRevokedToken(t *testing.T) {
	store, _, token := newTestStore(t)
	store.Revoke(token)

	handler := Authenticate(store, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleForbidsLowerRank(t *testing.T) {
	store, _, token := newTestStore(t)

	chain := Authenticate(store, zap.NewNop())(
		RequireRole(entity.RoleAdmin, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		})),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsEqualAndHigherRank(t *testing.T) {
	store := session.NewStore(30*time.Minute, zap.NewNop())
	admin := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		Username:     "root",
		Role:         entity.RoleAdmin,
	}
	token, _ := store.Issue(admin)

	for _, minRole := range []entity.UserRole{entity.RoleUser, entity.RoleAdmin} {
		called := false
		chain := Authenticate(store, zap.NewNop())(
			RequireRole(minRole, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})),
		)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		chain.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	}
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	handler := RequireRole(entity.RoleAdmin, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
