package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/engine/metrics"
	"adpulse/internal/pkg/errors"
	"adpulse/internal/platform/auth"
	"adpulse/internal/platform/repositories"
)

type MetricHandler struct {
	metricRepo *repositories.MetricRepository
	service    *metrics.Service
}

func NewMetricHandler(metricRepo *repositories.MetricRepository, service *metrics.Service) *MetricHandler {
	return &MetricHandler{metricRepo: metricRepo, service: service}
}

func (h *MetricHandler) List(w http.ResponseWriter, r *http.Request) {
	defs, err := h.metricRepo.List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(defs)
}

type MetricRequest struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Formula string `json:"formula"`
	Format  string `json:"format"`
}

func (h *MetricHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	var req MetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	def, err := h.service.Define(req.Name, req.Label, req.Formula, req.Format, claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(def)
}

func (h *MetricHandler) Update(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	id := params.ByName("metric_id")

	def, err := h.metricRepo.GetByID(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if def == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Metric not found", nil)
		return
	}
	if def.Builtin {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Builtin metrics cannot be modified", nil)
		return
	}

	var req MetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Label != "" {
		def.Label = req.Label
	}
	if req.Formula != "" {
		def.Formula = req.Formula
	}
	if req.Format != "" {
		def.Format = req.Format
	}

	if err := h.service.Redefine(def); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(def)
}

func (h *MetricHandler) Delete(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	id := params.ByName("metric_id")

	def, err := h.metricRepo.GetByID(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if def == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Metric not found", nil)
		return
	}
	if def.Builtin {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Builtin metrics cannot be deleted", nil)
		return
	}

	if err := h.metricRepo.Delete(id); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to delete metric", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Values evaluates every metric for one campaign over the requested
// insight window.
func (h *MetricHandler) Values(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	campaignID := params.ByName("campaign_id")

	q := r.URL.Query()
	startDate := q.Get("start_date")
	endDate := q.Get("end_date")
	if startDate == "" || endDate == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "start_date and end_date are required", nil)
		return
	}

	values, err := h.service.Evaluate(campaignID, startDate, endDate)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(values)
}
