package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"adpulse/internal/pkg/errors"
	"adpulse/internal/platform/repositories"
)

type LogHandler struct {
	logRepo *repositories.WebhookLogRepository
}

func NewLogHandler(logRepo *repositories.WebhookLogRepository) *LogHandler {
	return &LogHandler{logRepo: logRepo}
}

func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	entries, err := h.logRepo.List(q.Get("account_id"), limit, offset)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
