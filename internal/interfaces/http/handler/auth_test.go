package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	identityapp "github.com/groupdiary/backend/internal/application/identity"
	"github.com/groupdiary/backend/internal/domain/identity"
	"github.com/groupdiary/backend/internal/domain/shared"
	"github.com/groupdiary/backend/internal/infrastructure/auth"
	"github.com/groupdiary/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memUserRepo is an in-memory identity.UserRepository for handler tests
type memUserRepo struct {
	users map[uuid.UUID]*identity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*identity.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]identity.User, error) {
	out := make([]identity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	for _, u := range r.users {
		if u.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-key-1234567890",
		RefreshSecret:          "handler-test-refresh-secret-key",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "groupdiary-test",
		MaxRefreshCount:        3,
	})
	authService := identityapp.NewAuthService(newMemUserRepo(), jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(api)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Signup(t *testing.T) {
	engine := newAuthTestRouter(t)

	signup := map[string]string{
		"email":    "diary@example.com",
		"password": "Password123!",
		"nickname": "diarist",
	}

	t.Run("creates an account with tokens", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/auth/register", signup)
		require.Equal(t, http.StatusCreated, w.Code)

		body := decodeBody(t, w)
		assert.True(t, body["success"].(bool))
		data := body["data"].(map[string]any)
		assert.NotEmpty(t, data["accessToken"])
		assert.NotEmpty(t, data["refreshToken"])
		assert.Equal(t, "Bearer", data["tokenType"])

		user := data["user"].(map[string]any)
		assert.Equal(t, "diarist", user["userName"])
		assert.Equal(t, float64(1), user["mainLevel"])
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/auth/register", signup)
		require.Equal(t, http.StatusConflict, w.Code)

		body := decodeBody(t, w)
		assert.False(t, body["success"].(bool))
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "DUPLICATE_EMAIL", errInfo["code"])
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/auth/register", map[string]string{
			"email": "not-an-email", "password": "short", "nickname": "x",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	engine := newAuthTestRouter(t)
	postJSON(t, engine, "/api/v1/auth/register", map[string]string{
		"email": "diary@example.com", "password": "Password123!", "nickname": "diarist",
	})

	t.Run("valid credentials", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/auth/login", map[string]string{
			"email": "diary@example.com", "password": "Password123!",
		})
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeBody(t, w)["data"].(map[string]any)
		assert.NotEmpty(t, data["accessToken"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/auth/login", map[string]string{
			"email": "diary@example.com", "password": "WrongPass123!",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)

		errInfo := decodeBody(t, w)["error"].(map[string]any)
		assert.Equal(t, "INVALID_CREDENTIALS", errInfo["code"])
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	engine := newAuthTestRouter(t)
	w := postJSON(t, engine, "/api/v1/auth/register", map[string]string{
		"email": "diary@example.com", "password": "Password123!", "nickname": "diarist",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	refreshToken := decodeBody(t, w)["data"].(map[string]any)["refreshToken"].(string)

	t.Run("issues a fresh pair", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/auth/refresh", map[string]string{
			"refreshToken": refreshToken,
		})
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeBody(t, w)["data"].(map[string]any)
		assert.NotEmpty(t, data["accessToken"])
		assert.NotEqual(t, refreshToken, data["refreshToken"])
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		w := postJSON(t, engine, "/api/v1/auth/refresh", map[string]string{
			"refreshToken": "not-a-jwt",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_AvailabilityChecks(t *testing.T) {
	engine := newAuthTestRouter(t)
	postJSON(t, engine, "/api/v1/auth/register", map[string]string{
		"email": "diary@example.com", "password": "Password123!", "nickname": "diarist",
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	t.Run("taken email", func(t *testing.T) {
		w := get("/api/v1/auth/check/email?email=diary@example.com")
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.False(t, data["available"].(bool))
	})

	t.Run("free nickname", func(t *testing.T) {
		w := get("/api/v1/auth/check/nickname?nickname=newcomer")
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.True(t, data["available"].(bool))
	})

	t.Run("missing query parameter", func(t *testing.T) {
		w := get("/api/v1/auth/check/email")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
