package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	_ "github.com/mattn/go-sqlite3"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/engine/metrics"
	"adpulse/internal/platform/database"
	"adpulse/internal/platform/models"
	"adpulse/internal/platform/repositories"
)

func setupMetricTest(t *testing.T) (*MetricHandler, *sql.DB) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	metricRepo := repositories.NewMetricRepository(db)
	insightRepo := repositories.NewInsightRepository(db)
	return NewMetricHandler(metricRepo, metrics.NewService(metricRepo, insightRepo)), db
}

func withParams(r *http.Request, params httprouter.Params) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), apiContext.Params, params))
}

func TestMetricValuesScopedToCampaign(t *testing.T) {
	handler, db := setupMetricTest(t)

	insights := repositories.NewInsightRepository(db)
	now := time.Now().Unix()
	rows := []*models.InsightRow{
		{ID: "ins_1", CampaignID: "camp_a", Date: "2026-08-01", Spend: 100, Revenue: 200, CreatedAt: now},
		{ID: "ins_2", CampaignID: "camp_b", Date: "2026-08-01", Spend: 900, Revenue: 0, CreatedAt: now},
	}
	for _, row := range rows {
		if err := insights.Upsert(row); err != nil {
			t.Fatalf("Failed to seed insight: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/campaigns/camp_a/metrics?start_date=2026-08-01&end_date=2026-08-31", nil)
	req = withParams(req, httprouter.Params{{Key: "campaign_id", Value: "camp_a"}})
	rec := httptest.NewRecorder()
	handler.Values(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var values []metrics.MetricValue
	if err := json.Unmarshal(rec.Body.Bytes(), &values); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}

	byName := map[string]float64{}
	for _, v := range values {
		byName[v.Name] = v.Value
	}

	// camp_a alone has spend 100 and revenue 200. With camp_b's rows
	// leaking in, ROAS would read 0.2 instead of 2.
	if got := byName["roas"]; got != 2 {
		t.Errorf("Expected roas 2 for camp_a, got %v", got)
	}
}

func TestMetricValuesRequiresDateWindow(t *testing.T) {
	handler, _ := setupMetricTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/camp_a/metrics", nil)
	req = withParams(req, httprouter.Params{{Key: "campaign_id", Value: "camp_a"}})
	rec := httptest.NewRecorder()
	handler.Values(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without start_date/end_date, got %d", rec.Code)
	}
}
