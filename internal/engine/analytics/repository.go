package analytics

import (
	"database/sql"
	"time"
)

type VendorBreakdown struct {
	Vendor  string  `json:"vendor"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type StatusBreakdown struct {
	Status string `json:"status"`
	Orders int    `json:"orders"`
}

type DailySales struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type SalesSummary struct {
	TotalOrders  int               `json:"total_orders"`
	TotalRevenue float64           `json:"total_revenue"`
	ByVendor     []VendorBreakdown `json:"by_vendor"`
	ByStatus     []StatusBreakdown `json:"by_status"`
}

type EventCount struct {
	EventName string `json:"event_name"`
	Count     int    `json:"count"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) SalesSummary(start, end int64) (*SalesSummary, error) {
	summary := &SalesSummary{}

	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders WHERE created_at >= ? AND created_at <= ?
	`, start, end).Scan(&summary.TotalOrders, &summary.TotalRevenue)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT vendor, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders WHERE created_at >= ? AND created_at <= ?
		GROUP BY vendor ORDER BY COUNT(*) DESC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var b VendorBreakdown
		if err := rows.Scan(&b.Vendor, &b.Orders, &b.Revenue); err != nil {
			return nil, err
		}
		summary.ByVendor = append(summary.ByVendor, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := r.db.Query(`
		SELECT status, COUNT(*)
		FROM orders WHERE created_at >= ? AND created_at <= ?
		GROUP BY status ORDER BY COUNT(*) DESC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var b StatusBreakdown
		if err := statusRows.Scan(&b.Status, &b.Orders); err != nil {
			return nil, err
		}
		summary.ByStatus = append(summary.ByStatus, b)
	}

	return summary, statusRows.Err()
}

func (r *Repository) DailySales(start, end int64) ([]DailySales, error) {
	rows, err := r.db.Query(`
		SELECT date(created_at, 'unixepoch') AS day, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders WHERE created_at >= ? AND created_at <= ?
		GROUP BY day ORDER BY day ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DailySales
	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Date, &d.Orders, &d.Revenue); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// PixelFunnel counts events per event name for one pixel, which is the raw
// material for a funnel view (page_view -> add_to_cart -> purchase).
func (r *Repository) PixelFunnel(pixelID string, start, end int64) ([]EventCount, error) {
	rows, err := r.db.Query(`
		SELECT event_name, COUNT(*)
		FROM pixel_events WHERE pixel_id = ? AND timestamp >= ? AND timestamp <= ?
		GROUP BY event_name ORDER BY COUNT(*) DESC
	`, pixelID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []EventCount
	for rows.Next() {
		var c EventCount
		if err := rows.Scan(&c.EventName, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

type DailyStat struct {
	Date        string  `json:"date"`
	Orders      int     `json:"orders"`
	Revenue     float64 `json:"revenue"`
	PixelEvents int     `json:"pixel_events"`
}

// ComputeDailyStat aggregates one day of orders and pixel traffic. Used by
// the worker.
func (r *Repository) ComputeDailyStat(date string) (*DailyStat, error) {
	startTime, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, err
	}
	startTs := startTime.Unix()
	endTs := startTime.Add(24 * time.Hour).Unix()

	stat := &DailyStat{Date: date}

	err = r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders WHERE created_at >= ? AND created_at < ?
	`, startTs, endTs).Scan(&stat.Orders, &stat.Revenue)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(`
		SELECT COUNT(*) FROM pixel_events WHERE timestamp >= ? AND timestamp < ?
	`, startTs*1000, endTs*1000).Scan(&stat.PixelEvents)
	if err != nil {
		return nil, err
	}

	return stat, nil
}

func (r *Repository) UpsertDailyStat(stat *DailyStat) error {
	_, err := r.db.Exec(`
		INSERT INTO daily_stats (id, date, orders, revenue, pixel_events, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			orders=excluded.orders,
			revenue=excluded.revenue,
			pixel_events=excluded.pixel_events
	`, "day_"+stat.Date, stat.Date, stat.Orders, stat.Revenue, stat.PixelEvents, time.Now().Unix())
	return err
}
