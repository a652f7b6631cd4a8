package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const staffClaimsKey contextKey = "staffClaims"

// StaffClaims are the HMAC JWT claims carried by staff callers.
type StaffClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IsStaffRole reports whether the claims grant staff capabilities.
func (c StaffClaims) IsStaffRole() bool {
	return c.Role == "staff" || c.Role == "admin"
}

// StaffContext attaches staff claims to the request when a valid Bearer
// token is presented. Anonymous requests pass through untouched; a
// presented-but-invalid token is rejected so a caller can't silently
// lose a capability they think they have.
func StaffContext(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || secret == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "malformed authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := StaffClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), staffClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffClaimsFromContext returns staff JWT claims if present.
func StaffClaimsFromContext(ctx context.Context) (StaffClaims, bool) {
	claims, ok := ctx.Value(staffClaimsKey).(StaffClaims)
	return claims, ok
}

// IsStaff reports whether the request context carries a staff role.
func IsStaff(ctx context.Context) bool {
	claims, ok := StaffClaimsFromContext(ctx)
	return ok && claims.IsStaffRole()
}
