package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func adminProtected(token string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return AdminAuth(token)(next)
}

func TestAdminAuth_NoTokenConfigured(t *testing.T) {
	handler := adminProtected("")

	req := httptest.NewRequest(http.MethodGet, "/admin/analytics", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin API disabled")
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	handler := adminProtected("secret")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/analytics", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
}

func TestAdminAuth_InvalidFormat(t *testing.T) {
	handler := adminProtected("secret")

	req := httptest.NewRequest(http.MethodGet, "/admin/analytics", nil)
	req.Header.Set("Authorization", "Basic c2VjcmV0")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid authorization format")
}

func TestAdminAuth_WrongToken(t *testing.T) {
	handler := adminProtected("secret")

	req := httptest.NewRequest(http.MethodGet, "/admin/analytics", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid admin token")
}

func TestAdminAuth_ValidToken(t *testing.T) {
	handler := adminProtected("secret")

	req := httptest.NewRequest(http.MethodGet, "/admin/analytics", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
