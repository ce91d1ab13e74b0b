package metrics

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"adpulse/internal/platform/models"
	"adpulse/internal/platform/repositories"
)

// allowedFields is the whitelist of insight fields a formula may reference.
var allowedFields = map[string]bool{
	"spend":       true,
	"impressions": true,
	"clicks":      true,
	"conversions": true,
	"revenue":     true,
}

type MetricValue struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Format string  `json:"format"`
	Value  float64 `json:"value"`
}

type Service struct {
	metrics  *repositories.MetricRepository
	insights *repositories.InsightRepository
}

func NewService(metrics *repositories.MetricRepository, insights *repositories.InsightRepository) *Service {
	return &Service{metrics: metrics, insights: insights}
}

// Define validates and stores a custom metric. The formula is parsed up
// front and every referenced field is checked against the whitelist, so a
// stored definition can always be evaluated.
func (s *Service) Define(name, label, formula, format, createdBy string) (*models.MetricDefinition, error) {
	if name == "" {
		return nil, fmt.Errorf("metric name is required")
	}

	parsed, err := Parse(formula)
	if err != nil {
		return nil, err
	}
	for _, field := range parsed.Fields() {
		if !allowedFields[field] {
			return nil, fmt.Errorf("unknown field in formula: %s", field)
		}
	}

	if format == "" {
		format = "number"
	}

	now := time.Now().Unix()
	def := &models.MetricDefinition{
		ID:        "met_" + uuid.NewString(),
		Name:      name,
		Label:     label,
		Formula:   formula,
		Format:    format,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.metrics.Create(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Redefine updates a custom metric's label/formula/format.
func (s *Service) Redefine(def *models.MetricDefinition) error {
	parsed, err := Parse(def.Formula)
	if err != nil {
		return err
	}
	for _, field := range parsed.Fields() {
		if !allowedFields[field] {
			return fmt.Errorf("unknown field in formula: %s", field)
		}
	}
	return s.metrics.Update(def)
}

// Evaluate computes every stored metric over the aggregated insight window.
// A definition that no longer parses is skipped rather than failing the
// whole report.
func (s *Service) Evaluate(campaignID, startDate, endDate string) ([]MetricValue, error) {
	totals, err := s.insights.Aggregate(campaignID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	row := map[string]float64{
		"spend":       totals.Spend,
		"impressions": totals.Impressions,
		"clicks":      totals.Clicks,
		"conversions": totals.Conversions,
		"revenue":     totals.Revenue,
	}

	defs, err := s.metrics.List()
	if err != nil {
		return nil, err
	}

	values := make([]MetricValue, 0, len(defs))
	for _, def := range defs {
		parsed, err := Parse(def.Formula)
		if err != nil {
			continue
		}
		values = append(values, MetricValue{
			Name:   def.Name,
			Label:  def.Label,
			Format: def.Format,
			Value:  parsed.Eval(row),
		})
	}
	return values, nil
}
