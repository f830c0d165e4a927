package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Socialite/internal/auth"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)
	return NewAuthMiddleware(tokens), tokens
}

func issueToken(t *testing.T, tokens *auth.TokenManager, userID string) string {
	t.Helper()
	token, _, err := tokens.Issue(userID)
	require.NoError(t, err)
	return token
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	var gotUser string
	var gotClaims *auth.Claims
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r)
		gotClaims = GetJWTClaims(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, "user-123"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-123", gotUser)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "user-123", gotClaims.Subject)
}

func TestRequireAuth_CookieToken(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	var gotUser string
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: issueToken(t, tokens, "cookie-user")})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-user", gotUser)
}

func TestRequireAuth_Rejections(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	otherTokens, err := auth.NewTokenManager([]byte("another-secret-another-secret-00"), time.Hour)
	require.NoError(t, err)
	foreign := issueToken(t, otherTokens, "user-123")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"foreign signature", "Bearer " + foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "AuthenticationRequired")
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	var gotUser string
	handler := mw.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous", func(t *testing.T) {
		gotUser = "unset"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, gotUser)
	})

	t.Run("invalid token continues anonymously", func(t *testing.T) {
		gotUser = "unset"
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer broken")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, gotUser)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, "viewer"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, "viewer", gotUser)
	})
}

func TestSetTestUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(SetTestUserID(req.Context(), "someone"))
	assert.Equal(t, "someone", GetUserID(req))
	assert.Nil(t, GetJWTClaims(req))
}
