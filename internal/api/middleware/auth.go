package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/pkg/errors"
	"adpulse/internal/platform/auth"
)

// AuthMiddleware guards the dashboard API. The vendor webhook and pixel
// endpoints never pass through here; their credentials are shared secrets,
// not user tokens.
type AuthMiddleware struct {
	tokenSvc *auth.TokenService
}

func NewAuthMiddleware(tokenSvc *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := accessToken(r)
		if !ok {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing or malformed authorization header", nil)
			return
		}

		claims, err := m.tokenSvc.ValidateToken(token)
		if err != nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Claims, claims)
		next(w, r.WithContext(ctx))
	}
}

// accessToken extracts the bearer token. The scheme is matched
// case-insensitively, same as the webhook endpoints' token extraction.
func accessToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
