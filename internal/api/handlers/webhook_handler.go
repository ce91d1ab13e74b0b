package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"adpulse/internal/engine/ingest"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// WebhookHandler hosts the inbound vendor endpoints. Each request walks the
// same pipeline: CORS short-circuit, method check, token extraction,
// authentication, normalization, persistence. Every outcome, success or
// failure, appends one audit log row.
type WebhookHandler struct {
	authn   *ingest.Authenticator
	writer  *ingest.Writer
	auditor *ingest.Auditor
}

func NewWebhookHandler(authn *ingest.Authenticator, writer *ingest.Writer, auditor *ingest.Auditor) *WebhookHandler {
	return &WebhookHandler{authn: authn, writer: writer, auditor: auditor}
}

// Ticto handles POST /ticto-webhook?account=<name>. Ticto sends the shared
// token either as a Bearer header or embedded in the body envelope.
func (h *WebhookHandler) Ticto(w http.ResponseWriter, r *http.Request) {
	setWebhookCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	body, _ := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	audit := newAudit(r, body)

	if r.Method != http.MethodPost {
		h.reject(w, audit, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	accountName := r.URL.Query().Get("account")
	if accountName == "" {
		h.reject(w, audit, http.StatusBadRequest, "account is required")
		return
	}

	token, ok := bearerToken(r)
	if !ok {
		// Ticto's checkout webhooks carry the token inside the JSON
		// envelope instead of a header.
		var envelope struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			h.reject(w, audit, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		if envelope.Token == "" {
			h.reject(w, audit, http.StatusUnauthorized, "missing authorization token")
			return
		}
		token = envelope.Token
	}

	account, err := h.authn.AuthenticateByName(ingest.VendorTicto, accountName, token)
	if err != nil {
		h.fail(w, audit, err)
		return
	}
	audit.AccountID = account.ID

	order, err := ingest.Normalize(ingest.VendorTicto, body)
	if err != nil {
		h.fail(w, audit, err)
		return
	}
	order.AccountID = account.ID

	success := map[string]interface{}{
		"success": true,
		"message": "Webhook processed successfully",
	}
	audit.StatusCode = http.StatusOK
	audit.Response = success

	if _, err := h.writer.Write(order, audit); err != nil {
		// The writer already recorded the error-flavored audit row.
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, success)
}

// CartPanda handles POST /cartpanda-webhook?integration_id=<id>&token=<t>.
func (h *WebhookHandler) CartPanda(w http.ResponseWriter, r *http.Request) {
	setWebhookCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	body, _ := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	audit := newAudit(r, body)

	if r.Method != http.MethodPost {
		h.reject(w, audit, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	integrationID := r.URL.Query().Get("integration_id")
	if integrationID == "" {
		h.reject(w, audit, http.StatusBadRequest, "integration_id is required")
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		if headerToken, ok := bearerToken(r); ok {
			token = headerToken
		}
	}
	if token == "" {
		h.reject(w, audit, http.StatusUnauthorized, "missing authorization token")
		return
	}

	account, err := h.authn.AuthenticateByID(integrationID, token)
	if err != nil {
		h.fail(w, audit, err)
		return
	}
	audit.AccountID = account.ID

	order, err := ingest.Normalize(ingest.VendorCartPanda, body)
	if err != nil {
		h.fail(w, audit, err)
		return
	}
	order.AccountID = account.ID
	order.ID = "ord_" + uuid.NewString()

	success := map[string]interface{}{
		"success":  true,
		"event_id": order.ID,
	}
	audit.StatusCode = http.StatusOK
	audit.Response = success

	if _, err := h.writer.Write(order, audit); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, success)
}

// fail maps a pipeline error onto the vendor-facing status table and
// records the audit row.
func (h *WebhookHandler) fail(w http.ResponseWriter, audit *ingest.AuditRecord, err error) {
	var authErr *ingest.AuthenticationError
	var valErr *ingest.ValidationError
	var cfgErr *ingest.ConfigurationError
	var perErr *ingest.PersistenceError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &authErr):
		status = authErr.Status
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
	case errors.As(err, &cfgErr):
		status = http.StatusBadRequest
	case errors.As(err, &perErr):
		status = http.StatusInternalServerError
	}

	h.reject(w, audit, status, err.Error())
}

func (h *WebhookHandler) reject(w http.ResponseWriter, audit *ingest.AuditRecord, status int, message string) {
	body := map[string]interface{}{"error": message}
	audit.StatusCode = status
	audit.Response = body
	h.auditor.Record(audit)
	respondJSON(w, status, body)
}

func newAudit(r *http.Request, body []byte) *ingest.AuditRecord {
	headers := make(map[string]string, len(r.Header))
	for name := range r.Header {
		if strings.EqualFold(name, "Authorization") {
			headers[name] = "[redacted]"
			continue
		}
		headers[name] = r.Header.Get(name)
	}

	return &ingest.AuditRecord{
		Method:  r.Method,
		URL:     r.URL.String(),
		Headers: headers,
		Request: body,
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func setWebhookCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
