package repositories

import (
	"database/sql"

	"adpulse/internal/platform/models"
)

type PixelRepository struct {
	db *sql.DB
}

func NewPixelRepository(db *sql.DB) *PixelRepository {
	return &PixelRepository{db: db}
}

func (r *PixelRepository) Create(pixel *models.Pixel) error {
	_, err := r.db.Exec(`
		INSERT INTO pixels (id, name, created_by, created_at)
		VALUES (?, ?, ?, ?)
	`, pixel.ID, pixel.Name, pixel.CreatedBy, pixel.CreatedAt)
	return err
}

func (r *PixelRepository) GetByID(id string) (*models.Pixel, error) {
	pixel := &models.Pixel{}
	err := r.db.QueryRow(`
		SELECT id, name, created_by, created_at FROM pixels WHERE id = ?
	`, id).Scan(&pixel.ID, &pixel.Name, &pixel.CreatedBy, &pixel.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return pixel, nil
}

func (r *PixelRepository) ExistsByID(id string) (bool, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM pixels WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

func (r *PixelRepository) List() ([]*models.Pixel, error) {
	rows, err := r.db.Query(`SELECT id, name, created_by, created_at FROM pixels ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pixels []*models.Pixel
	for rows.Next() {
		pixel := &models.Pixel{}
		if err := rows.Scan(&pixel.ID, &pixel.Name, &pixel.CreatedBy, &pixel.CreatedAt); err != nil {
			return nil, err
		}
		pixels = append(pixels, pixel)
	}
	return pixels, rows.Err()
}

func (r *PixelRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM pixels WHERE id = ?`, id)
	return err
}

type PixelEventRepository struct {
	db *sql.DB
}

func NewPixelEventRepository(db *sql.DB) *PixelEventRepository {
	return &PixelEventRepository{db: db}
}

func (r *PixelEventRepository) InsertBatch(events []*models.PixelEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO pixel_events (
			id, pixel_id, event_name, session_id, page_url, referrer,
			ip_address, user_agent, device_type, os, browser, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(
			ev.ID, ev.PixelID, ev.EventName, ev.SessionID, ev.PageURL, ev.Referrer,
			ev.IPAddress, ev.UserAgent, ev.DeviceType, ev.OS, ev.Browser, ev.Timestamp,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
