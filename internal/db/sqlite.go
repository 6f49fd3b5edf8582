package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const DefaultStatsPath = "rps.db"

const statsSchema = `
CREATE TABLE IF NOT EXISTS player_stats (
	name TEXT PRIMARY KEY,
	total_games INTEGER NOT NULL DEFAULT 0,
	wins INTEGER NOT NULL DEFAULT 0,
	losses INTEGER NOT NULL DEFAULT 0,
	draws INTEGER NOT NULL DEFAULT 0
);`

// Open connects to the SQLite database at path and makes sure the schema exists.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	// SQLite serializes writers; one connection avoids "database is locked".
	pool.SetMaxOpenConns(1)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database at %s: %w", path, err)
	}
	if _, err := pool.ExecContext(ctx, statsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create player_stats table: %w", err)
	}

	slog.InfoContext(ctx, "DB connection initialized and schema verified", "db.path", path)
	return pool, nil
}
