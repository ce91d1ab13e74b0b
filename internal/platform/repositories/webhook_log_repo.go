package repositories

import (
	"database/sql"

	"adpulse/internal/platform/models"
)

type WebhookLogRepository struct {
	db *sql.DB
}

func NewWebhookLogRepository(db *sql.DB) *WebhookLogRepository {
	return &WebhookLogRepository{db: db}
}

func (r *WebhookLogRepository) Create(entry *models.WebhookLog) error {
	_, err := r.db.Exec(`
		INSERT INTO webhook_logs (id, account_id, method, url, status_code, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.AccountID, entry.Method, entry.URL, entry.StatusCode, entry.Payload, entry.CreatedAt)
	return err
}

func (r *WebhookLogRepository) List(accountID string, limit, offset int) ([]*models.WebhookLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var (
		rows *sql.Rows
		err  error
	)
	if accountID != "" {
		rows, err = r.db.Query(`
			SELECT id, account_id, method, url, status_code, payload, created_at
			FROM webhook_logs WHERE account_id = ?
			ORDER BY created_at DESC LIMIT ? OFFSET ?
		`, accountID, limit, offset)
	} else {
		rows, err = r.db.Query(`
			SELECT id, account_id, method, url, status_code, payload, created_at
			FROM webhook_logs
			ORDER BY created_at DESC LIMIT ? OFFSET ?
		`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.WebhookLog
	for rows.Next() {
		entry := &models.WebhookLog{}
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Method, &entry.URL, &entry.StatusCode, &entry.Payload, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
