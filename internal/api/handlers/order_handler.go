package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/engine/analytics"
	"adpulse/internal/pkg/errors"
	"adpulse/internal/platform/repositories"
)

type OrderHandler struct {
	orderRepo *repositories.OrderRepository
	analytics *analytics.Repository
}

func NewOrderHandler(orderRepo *repositories.OrderRepository, analyticsRepo *analytics.Repository) *OrderHandler {
	return &OrderHandler{orderRepo: orderRepo, analytics: analyticsRepo}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repositories.OrderFilter{
		Vendor:    q.Get("vendor"),
		AccountID: q.Get("account_id"),
		Status:    q.Get("status"),
	}
	filter.Start, _ = strconv.ParseInt(q.Get("start"), 10, 64)
	filter.End, _ = strconv.ParseInt(q.Get("end"), 10, 64)
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	orders, err := h.orderRepo.List(filter)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	id := params.ByName("order_id")

	order, err := h.orderRepo.GetByID(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if order == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Order not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	start, end := timeWindow(r)

	summary, err := h.analytics.SalesSummary(start, end)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (h *OrderHandler) Daily(w http.ResponseWriter, r *http.Request) {
	start, end := timeWindow(r)

	days, err := h.analytics.DailySales(start, end)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(days)
}

// timeWindow reads start/end unix seconds from the query, defaulting to the
// last 30 days.
func timeWindow(r *http.Request) (int64, int64) {
	q := r.URL.Query()
	start, _ := strconv.ParseInt(q.Get("start"), 10, 64)
	end, _ := strconv.ParseInt(q.Get("end"), 10, 64)

	if end == 0 {
		end = time.Now().Unix()
	}
	if start == 0 {
		start = end - 30*24*3600
	}
	return start, end
}
