package repositories

import (
	"database/sql"
	"time"

	"adpulse/internal/platform/models"
)

type MetricRepository struct {
	db *sql.DB
}

func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

func (r *MetricRepository) Create(def *models.MetricDefinition) error {
	_, err := r.db.Exec(`
		INSERT INTO metric_definitions (id, name, label, formula, format, builtin, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, def.ID, def.Name, def.Label, def.Formula, def.Format, def.Builtin, def.CreatedBy, def.CreatedAt, def.UpdatedAt)
	return err
}

func (r *MetricRepository) GetByID(id string) (*models.MetricDefinition, error) {
	def := &models.MetricDefinition{}
	err := r.db.QueryRow(`
		SELECT id, name, label, formula, format, builtin, created_by, created_at, updated_at
		FROM metric_definitions WHERE id = ?
	`, id).Scan(&def.ID, &def.Name, &def.Label, &def.Formula, &def.Format, &def.Builtin, &def.CreatedBy, &def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return def, nil
}

func (r *MetricRepository) List() ([]*models.MetricDefinition, error) {
	rows, err := r.db.Query(`
		SELECT id, name, label, formula, format, builtin, created_by, created_at, updated_at
		FROM metric_definitions ORDER BY builtin DESC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []*models.MetricDefinition
	for rows.Next() {
		def := &models.MetricDefinition{}
		if err := rows.Scan(&def.ID, &def.Name, &def.Label, &def.Formula, &def.Format, &def.Builtin, &def.CreatedBy, &def.CreatedAt, &def.UpdatedAt); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

func (r *MetricRepository) Update(def *models.MetricDefinition) error {
	def.UpdatedAt = time.Now().Unix()
	_, err := r.db.Exec(`
		UPDATE metric_definitions SET label = ?, formula = ?, format = ?, updated_at = ?
		WHERE id = ? AND builtin = 0
	`, def.Label, def.Formula, def.Format, def.UpdatedAt, def.ID)
	return err
}

func (r *MetricRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM metric_definitions WHERE id = ? AND builtin = 0`, id)
	return err
}
