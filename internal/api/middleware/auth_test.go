package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/platform/auth"
	"adpulse/internal/platform/config"
)

func testTokenService() *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	tokenSvc := testTokenService()
	token, err := tokenSvc.GenerateAccessToken("usr_1", "admin", "maria@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	var gotClaims *auth.Claims
	handler := NewAuthMiddleware(tokenSvc).Handle(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = r.Context().Value(apiContext.Claims).(*auth.Claims)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if gotClaims == nil || gotClaims.UserID != "usr_1" || gotClaims.Role != "admin" {
		t.Errorf("Unexpected claims: %+v", gotClaims)
	}
}

func TestAuthMiddlewareLowercaseScheme(t *testing.T) {
	tokenSvc := testTokenService()
	token, err := tokenSvc.GenerateAccessToken("usr_1", "viewer", "ana@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	handler := NewAuthMiddleware(tokenSvc).Handle(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for lowercase scheme, got %d", rec.Code)
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler := NewAuthMiddleware(testTokenService()).Handle(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler must not run without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	handler := NewAuthMiddleware(testTokenService()).Handle(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler must not run with a bad token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	other := auth.NewTokenService(config.JWTConfig{Secret: "other-secret", AccessTokenTTL: time.Minute})
	token, err := other.GenerateAccessToken("usr_1", "admin", "maria@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	handler := NewAuthMiddleware(testTokenService()).Handle(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler must not run with a forged token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}
