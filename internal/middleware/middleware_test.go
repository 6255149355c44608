package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwise/pathwise/internal/ctxkeys"
	"github.com/pathwise/pathwise/internal/model"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCSRFProtectionRejectsMutationWithoutProof(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/stories/daily/generate", nil)
	rec := httptest.NewRecorder()
	CSRFProtection(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "INVALID_PROOF", body["error"])
}

func TestCSRFProtectionAcceptsDoubleSubmit(t *testing.T) {
	// A safe request hands out the cookie and exposes the token in context.
	var token string
	getRec := httptest.NewRecorder()
	CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = ctxkeys.CSRFToken(r.Context())
	})).ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/api/feed", nil))
	require.NotEmpty(t, token)

	cookies := getRec.Result().Cookies()
	require.NotEmpty(t, cookies)

	called := false
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	req.Header.Set("X-CSRF-Token", token)

	rec := httptest.NewRecorder()
	CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a user")
	})(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "UNAUTHENTICATED", body["error"])
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "user-1"}))

	called := false
	rec := httptest.NewRecorder()
	RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})(rec, req)

	assert.True(t, called)
}

func TestRequireGuestRejectsAuthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "user-1"}))

	rec := httptest.NewRecorder()
	RequireGuest(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for an authenticated user")
	})(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "ALREADY_AUTHENTICATED", body["error"])
}
