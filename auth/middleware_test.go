package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:           "test-secret",
		AccessTokenDuration: time.Hour,
	}
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok, "handler reached without user id in context")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]int{"user_id": userID})
	})
}

func TestJWTMiddlewareAllowsValidToken(t *testing.T) {
	cfg := testAuthConfig()
	token, err := NewTokenIssuer(cfg).Issue(42)
	require.NoError(t, err)

	handler := JWTMiddleware(cfg)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 42, body["user_id"])
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	handler := JWTMiddleware(testAuthConfig())(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body apperror.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "authorization header is missing", body.Error)
}

func TestJWTMiddlewareRejectsMalformedHeader(t *testing.T) {
	handler := JWTMiddleware(testAuthConfig())(protectedEcho(t))

	for _, header := range []string{"Bearer", "Basic abc123", "just-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q should be rejected", header)
	}
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTokenDuration = -time.Minute
	token, err := NewTokenIssuer(cfg).Issue(42)
	require.NoError(t, err)

	handler := JWTMiddleware(cfg)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body apperror.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid or expired token", body.Error)
}

func TestJWTMiddlewareRejectsTamperedToken(t *testing.T) {
	cfg := testAuthConfig()
	token, err := NewTokenIssuer(cfg).Issue(42)
	require.NoError(t, err)

	handler := JWTMiddleware(cfg)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareAcceptsLowercaseBearer(t *testing.T) {
	cfg := testAuthConfig()
	token, err := NewTokenIssuer(cfg).Issue(7)
	require.NoError(t, err)

	handler := JWTMiddleware(cfg)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUserIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetUserIDFromContext(req.Context())
	assert.False(t, ok)
}
