package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"adpulse/internal/platform/config"
)

func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.Path
	dsn = strings.TrimPrefix(dsn, "file:")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
