package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/pkg/errors"
	"adpulse/internal/pkg/validator"
	"adpulse/internal/platform/auth"
	"adpulse/internal/platform/models"
	"adpulse/internal/platform/repositories"
)

type AuthHandler struct {
	userRepo *repositories.UserRepository
	tokenSvc *auth.TokenService
}

func NewAuthHandler(userRepo *repositories.UserRepository, tokenSvc *auth.TokenService) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, tokenSvc: tokenSvc}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if user == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid email or password", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid email or password", nil)
		return
	}

	accessToken, err := h.tokenSvc.GenerateAccessToken(user.ID, user.Role, user.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}
	refreshToken, err := h.tokenSvc.GenerateRefreshToken(user.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	h.userRepo.UpdateLastLogin(user.ID, time.Now().Unix())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	userID, err := h.tokenSvc.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid refresh token", nil)
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil || user == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid refresh token", nil)
		return
	}

	accessToken, err := h.tokenSvc.GenerateAccessToken(user.ID, user.Role, user.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"access_token": accessToken})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if user == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "User not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// CreateUser is admin-only; there is no open signup.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := validator.Email(req.Email); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}
	if len(req.Password) < 8 {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Password must be at least 8 characters", nil)
		return
	}

	existing, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if existing != nil {
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "User already exists", nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to hash password", nil)
		return
	}

	role := req.Role
	if role == "" {
		role = "viewer"
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:           "usr_" + uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		FullName:     req.FullName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.userRepo.Create(user); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create user", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}
