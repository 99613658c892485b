package database

import (
	"context"
	"fmt"

	"github.com/arigopay/backend/internal/config"
	"github.com/arigopay/backend/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// InitDB opens the PostgreSQL pool described by cfg and verifies it
func InitDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.Infof("[DATABASE] Connection established to %s:%s/%s", cfg.Host, cfg.Port, cfg.Name)
	return db, nil
}
