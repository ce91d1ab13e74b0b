package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"adpulse/internal/pkg/errors"
	"adpulse/internal/platform/models"
	"adpulse/internal/platform/repositories"
)

// InsightHandler imports raw ad performance rows. The ads platform sync
// runs outside this service and pushes its results here.
type InsightHandler struct {
	insightRepo *repositories.InsightRepository
}

func NewInsightHandler(insightRepo *repositories.InsightRepository) *InsightHandler {
	return &InsightHandler{insightRepo: insightRepo}
}

type InsightImportRow struct {
	CampaignID  string  `json:"campaign_id"`
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

func (h *InsightHandler) Import(w http.ResponseWriter, r *http.Request) {
	var rows []InsightImportRow
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	now := time.Now().Unix()
	imported := 0
	for _, row := range rows {
		if row.CampaignID == "" || row.Date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", row.Date); err != nil {
			continue
		}

		err := h.insightRepo.Upsert(&models.InsightRow{
			ID:          "ins_" + uuid.NewString(),
			CampaignID:  row.CampaignID,
			Date:        row.Date,
			Spend:       row.Spend,
			Impressions: row.Impressions,
			Clicks:      row.Clicks,
			Conversions: row.Conversions,
			Revenue:     row.Revenue,
			CreatedAt:   now,
		})
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to import insights", nil)
			return
		}
		imported++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"imported": imported})
}
