package routes

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Socialite/internal/api/middleware"
	"Socialite/internal/auth"
	"Socialite/internal/core/users"
	"Socialite/internal/core/users/userstest"
)

func newTestRouter(t *testing.T, rl *middleware.RateLimiter) http.Handler {
	t.Helper()
	tokens, err := auth.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)

	return NewRouter(Deps{
		Users:        users.NewUserService(userstest.NewMemoryRepo(), tokens, time.Second, slog.Default()),
		Auth:         middleware.NewAuthMiddleware(tokens),
		RateLimiter:  rl,
		ClientOrigin: "http://localhost:5173",
	})
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, h http.Handler, name string) (*users.AuthResponse, *http.Cookie) {
	t.Helper()
	w := do(h, http.MethodPost, "/api/auth/signup",
		`{"username":"`+name+`","email":"`+name+`@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp users.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AccessTokenCookie {
			return &resp, c
		}
	}
	t.Fatal("signup did not set the session cookie")
	return nil, nil
}

func TestRouter_FollowWithSessionCookie(t *testing.T) {
	h := newTestRouter(t, nil)

	_, aliceCookie := signup(t, h, "alice")
	bob, _ := signup(t, h, "bob")

	w := do(h, http.MethodPost, "/api/user/"+bob.User.ID+"/follow", "", aliceCookie)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(h, http.MethodGet, "/api/user/getuser/"+bob.User.ID, "", aliceCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"followerCount":1`)
	assert.Contains(t, w.Body.String(), `"following":true`)
}

func TestRouter_WritesRequireAuth(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/comment/3f1c1a8e-4a55-4f4e-9a53-5d1c6f1b2a10/createcomment"},
		{http.MethodPost, "/api/comment/3f1c1a8e-4a55-4f4e-9a53-5d1c6f1b2a10/reply"},
		{http.MethodDelete, "/api/comment/deletecomment/3f1c1a8e-4a55-4f4e-9a53-5d1c6f1b2a10"},
		{http.MethodPost, "/api/post/createpost"},
		{http.MethodPut, "/api/post/likePost/3f1c1a8e-4a55-4f4e-9a53-5d1c6f1b2a10"},
		{http.MethodPost, "/api/user/user/save"},
	} {
		w := do(h, tc.method, tc.path, `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = do(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_RateLimited(t *testing.T) {
	h := newTestRouter(t, middleware.NewRateLimiter(2, time.Minute))

	assert.NotEqual(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/api/auth/signout", "").Code)
	assert.NotEqual(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/api/auth/signout", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/api/auth/signout", "").Code)

	// Ops endpoints sit outside the limiter.
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "").Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/post/getposts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_UserSearchOnBothMounts(t *testing.T) {
	h := newTestRouter(t, nil)
	signup(t, h, "carol")
	signup(t, h, "dave")

	for _, path := range []string{"/api/user/search?searchTerm=car", "/api/post/search?searchTerm=car"} {
		w := do(h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)

		var body users.ListUsersResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Users, 1, path)
		assert.Equal(t, "carol", body.Users[0].Username)
	}
}
