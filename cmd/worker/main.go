package main

import (
	"log"
	"time"

	"adpulse/internal/engine/analytics"
	"adpulse/internal/pkg/logger"
	"adpulse/internal/platform/config"
	"adpulse/internal/platform/database"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := analytics.NewRepository(db)

	log.Println("Starting background workers...")
	runDailyStatsWorker(repo)
}

// runDailyStatsWorker recomputes yesterday's and today's rollups. Today is
// included so the dashboard shows a running total, yesterday so late
// deliveries land in the right bucket.
func runDailyStatsWorker(repo *analytics.Repository) {
	aggregate(repo)

	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		aggregate(repo)
	}
}

func aggregate(repo *analytics.Repository) {
	now := time.Now().UTC()
	for _, date := range []string{
		now.AddDate(0, 0, -1).Format("2006-01-02"),
		now.Format("2006-01-02"),
	} {
		stat, err := repo.ComputeDailyStat(date)
		if err != nil {
			log.Printf("Error computing daily stat for %s: %v", date, err)
			continue
		}
		if err := repo.UpsertDailyStat(stat); err != nil {
			log.Printf("Error upserting daily stat for %s: %v", date, err)
		}
	}
}
