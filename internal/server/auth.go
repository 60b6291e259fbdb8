// internal/server/auth.go
package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"remotehire/internal/common/errors"
)

// AuthMiddleware gates the admin surface behind a single bearer token.
type AuthMiddleware struct {
	token string
}

func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{token: token}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.token == "" {
			writeError(w, errors.NewForbiddenError("admin access is not configured"))
			return
		}
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, errors.NewForbiddenError("missing or malformed authorization header"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.token)) != 1 {
			writeError(w, errors.NewForbiddenError("invalid token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
