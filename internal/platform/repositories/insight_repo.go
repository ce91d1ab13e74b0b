package repositories

import (
	"database/sql"

	"adpulse/internal/platform/models"
)

type InsightRepository struct {
	db *sql.DB
}

func NewInsightRepository(db *sql.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// Upsert replaces the row for (campaign_id, date) so re-imports are idempotent.
func (r *InsightRepository) Upsert(row *models.InsightRow) error {
	_, err := r.db.Exec(`
		INSERT INTO insight_rows (id, campaign_id, date, spend, impressions, clicks, conversions, revenue, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(campaign_id, date) DO UPDATE SET
			spend=excluded.spend,
			impressions=excluded.impressions,
			clicks=excluded.clicks,
			conversions=excluded.conversions,
			revenue=excluded.revenue
	`, row.ID, row.CampaignID, row.Date, row.Spend, row.Impressions, row.Clicks, row.Conversions, row.Revenue, row.CreatedAt)
	return err
}

// Totals is the aggregated field set a metric formula evaluates against.
type Totals struct {
	Spend       float64
	Impressions float64
	Clicks      float64
	Conversions float64
	Revenue     float64
}

func (r *InsightRepository) Aggregate(campaignID, startDate, endDate string) (*Totals, error) {
	where := `date >= ? AND date <= ?`
	args := []interface{}{startDate, endDate}
	if campaignID != "" {
		where += ` AND campaign_id = ?`
		args = append(args, campaignID)
	}

	totals := &Totals{}
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(spend), 0), COALESCE(SUM(impressions), 0), COALESCE(SUM(clicks), 0),
			COALESCE(SUM(conversions), 0), COALESCE(SUM(revenue), 0)
		FROM insight_rows WHERE `+where, args...,
	).Scan(&totals.Spend, &totals.Impressions, &totals.Clicks, &totals.Conversions, &totals.Revenue)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *InsightRepository) ListByCampaign(campaignID, startDate, endDate string) ([]*models.InsightRow, error) {
	rows, err := r.db.Query(`
		SELECT id, campaign_id, date, spend, impressions, clicks, conversions, revenue, created_at
		FROM insight_rows WHERE campaign_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, campaignID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.InsightRow
	for rows.Next() {
		row := &models.InsightRow{}
		if err := rows.Scan(&row.ID, &row.CampaignID, &row.Date, &row.Spend, &row.Impressions, &row.Clicks, &row.Conversions, &row.Revenue, &row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
