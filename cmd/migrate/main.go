package main

import (
	"flag"
	"fmt"
	"log"

	"adpulse/internal/platform/config"
	"adpulse/internal/platform/database"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	switch *direction {
	case "up":
		err = database.Migrate(db)
	case "down":
		err = database.MigrateDown(db)
	default:
		log.Fatal("Invalid direction: must be 'up' or 'down'")
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Println("Migration completed successfully")
}
