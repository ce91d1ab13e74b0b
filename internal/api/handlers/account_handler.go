package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/engine/ingest"
	"adpulse/internal/pkg/errors"
	"adpulse/internal/platform/models"
	"adpulse/internal/platform/repositories"
)

type AccountHandler struct {
	accountRepo   *repositories.AccountRepository
	publicBaseURL string
}

func NewAccountHandler(accountRepo *repositories.AccountRepository, publicBaseURL string) *AccountHandler {
	return &AccountHandler{
		accountRepo:   accountRepo,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

type CreateAccountRequest struct {
	Vendor       string `json:"vendor"`
	AccountName  string `json:"account_name"`
	SharedSecret string `json:"shared_secret"`
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Vendor != ingest.VendorTicto && req.Vendor != ingest.VendorCartPanda {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, fmt.Sprintf("unsupported vendor: %s", req.Vendor), nil)
		return
	}
	if req.AccountName == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "account_name is required", nil)
		return
	}
	if req.SharedSecret == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "shared_secret is required", nil)
		return
	}

	existing, err := h.accountRepo.GetByVendorAndName(req.Vendor, req.AccountName)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if existing != nil {
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Account already exists for this vendor", nil)
		return
	}

	now := time.Now().Unix()
	account := &models.Account{
		ID:           "acc_" + uuid.NewString(),
		Vendor:       req.Vendor,
		AccountName:  req.AccountName,
		SharedSecret: req.SharedSecret,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	account.WebhookURL = h.webhookURL(account)

	if err := h.accountRepo.Create(account); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create account", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

// webhookURL builds the per-vendor delivery URL the operator pastes into
// the vendor's dashboard. Ticto authenticates by account name, CartPanda
// by integration id + token in the query.
func (h *AccountHandler) webhookURL(account *models.Account) string {
	switch account.Vendor {
	case ingest.VendorCartPanda:
		return fmt.Sprintf("%s/cartpanda-webhook?integration_id=%s&token=%s",
			h.publicBaseURL, url.QueryEscape(account.ID), url.QueryEscape(account.SharedSecret))
	default:
		return fmt.Sprintf("%s/%s-webhook?account=%s",
			h.publicBaseURL, account.Vendor, url.QueryEscape(account.AccountName))
	}
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountRepo.List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	id := params.ByName("account_id")

	account, err := h.accountRepo.GetByID(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if account == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Account not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

type UpdateAccountRequest struct {
	AccountName  string `json:"account_name"`
	SharedSecret string `json:"shared_secret"`
	IsActive     *bool  `json:"is_active"`
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	id := params.ByName("account_id")

	account, err := h.accountRepo.GetByID(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if account == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Account not found", nil)
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.AccountName != "" {
		account.AccountName = req.AccountName
	}
	if req.SharedSecret != "" {
		account.SharedSecret = req.SharedSecret
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.WebhookURL = h.webhookURL(account)

	if err := h.accountRepo.Update(account); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to update account", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	id := params.ByName("account_id")

	if err := h.accountRepo.Delete(id); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to delete account", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
