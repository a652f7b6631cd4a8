package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "staff-secret"

func signStaffToken(t *testing.T, role string, secret string) string {
	t.Helper()
	claims := StaffClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func staffProbe(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	var staff bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staff = IsStaff(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return StaffContext(testSecret)(inner), &staff
}

func TestStaffContextAnonymousPassesThrough(t *testing.T) {
	handler, staff := staffProbe(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/availability", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, *staff)
}

func TestStaffContextValidToken(t *testing.T) {
	handler, staff := staffProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/availability", nil)
	req.Header.Set("Authorization", "Bearer "+signStaffToken(t, "staff", testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *staff)
}

func TestStaffContextNonStaffRole(t *testing.T) {
	handler, staff := staffProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/availability", nil)
	req.Header.Set("Authorization", "Bearer "+signStaffToken(t, "patient", testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, *staff)
}

func TestStaffContextRejectsBadToken(t *testing.T) {
	handler, _ := staffProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/availability", nil)
	req.Header.Set("Authorization", "Bearer "+signStaffToken(t, "staff", "wrong-secret"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffContextRejectsMalformedHeader(t *testing.T) {
	handler, _ := staffProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/availability", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
