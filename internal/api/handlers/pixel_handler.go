package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/engine/analytics"
	"adpulse/internal/engine/pixel"
	"adpulse/internal/pkg/errors"
	"adpulse/internal/pkg/parser"
	"adpulse/internal/platform/auth"
	"adpulse/internal/platform/models"
	"adpulse/internal/platform/repositories"
)

type PixelHandler struct {
	pixelRepo  *repositories.PixelRepository
	tracker    *pixel.Tracker
	analytics  *analytics.Repository
	collectURL string
}

func NewPixelHandler(pixelRepo *repositories.PixelRepository, tracker *pixel.Tracker, analyticsRepo *analytics.Repository, collectURL string) *PixelHandler {
	return &PixelHandler{
		pixelRepo:  pixelRepo,
		tracker:    tracker,
		analytics:  analyticsRepo,
		collectURL: collectURL,
	}
}

type CreatePixelRequest struct {
	Name string `json:"name"`
}

func (h *PixelHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	var req CreatePixelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "name is required", nil)
		return
	}

	id, err := pixel.GenerateCode(h.pixelRepo)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate pixel id", nil)
		return
	}

	px := &models.Pixel{
		ID:        id,
		Name:      req.Name,
		CreatedBy: claims.UserID,
		CreatedAt: time.Now().Unix(),
	}
	if err := h.pixelRepo.Create(px); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create pixel", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(px)
}

func (h *PixelHandler) List(w http.ResponseWriter, r *http.Request) {
	pixels, err := h.pixelRepo.List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pixels)
}

func (h *PixelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	id := params.ByName("pixel_id")

	if err := h.pixelRepo.Delete(id); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to delete pixel", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Script serves GET /px/:pixel.js with the rendered client snippet.
func (h *PixelHandler) Script(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	pixelID := strings.TrimSuffix(params.ByName("pixel_id"), ".js")

	px, err := h.pixelRepo.GetByID(pixelID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if px == nil {
		http.NotFound(w, r)
		return
	}

	script, err := pixel.RenderScript(px.ID, h.collectURL)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(script)
}

type CollectRequest struct {
	PixelID   string `json:"pixel_id"`
	EventName string `json:"event_name"`
	SessionID string `json:"session_id"`
	PageURL   string `json:"page_url"`
	Referrer  string `json:"referrer"`
}

// Collect ingests one pixel event. Accepted events answer 204 even when
// the queue has to drop them; the browser never retries.
func (h *PixelHandler) Collect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "content-type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req CollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.PixelID == "" || req.EventName == "" {
		http.Error(w, "pixel_id and event_name are required", http.StatusBadRequest)
		return
	}

	exists, err := h.pixelRepo.ExistsByID(req.PixelID)
	if err != nil || !exists {
		// Unknown pixels are dropped without telling the sender.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ua := r.UserAgent()
	os, browser := parser.ParseUserAgent(ua)

	ev := &models.PixelEvent{
		PixelID:    req.PixelID,
		EventName:  req.EventName,
		SessionID:  req.SessionID,
		PageURL:    req.PageURL,
		Referrer:   req.Referrer,
		IPAddress:  clientIP(r),
		UserAgent:  ua,
		DeviceType: parser.ParseDeviceType(ua),
		OS:         os,
		Browser:    browser,
	}

	// Best-effort: a saturated queue drops the event.
	h.tracker.Track(ev)

	w.WriteHeader(http.StatusNoContent)
}

func (h *PixelHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	pixelID := params.ByName("pixel_id")

	q := r.URL.Query()
	start, _ := strconv.ParseInt(q.Get("start"), 10, 64)
	end, _ := strconv.ParseInt(q.Get("end"), 10, 64)
	if end == 0 {
		end = time.Now().UnixMilli()
	}
	if start == 0 {
		start = end - 30*24*3600*1000
	}

	counts, err := h.analytics.PixelFunnel(pixelID, start, end)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
