package repository

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"ctchen222/Rock-Paper-Scissors/internal/player"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository.stats")

var ErrPlayerNotFound = errors.New("player not found")

// StatsRepository defines the interface for per-player statistics.
type StatsRepository interface {
	RecordRound(ctx context.Context, r history.Round) error
	FindByName(ctx context.Context, name string) (*player.Stats, error)
	Leaderboard(ctx context.Context, minGames int) ([]player.Stats, error)
}

type sqliteStatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new SQLite-based StatsRepository.
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &sqliteStatsRepository{db: db}
}

const upsertStats = `
INSERT INTO player_stats (name, total_games, wins, losses, draws)
VALUES (?, 1, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	total_games = total_games + 1,
	wins = wins + excluded.wins,
	losses = losses + excluded.losses,
	draws = draws + excluded.draws`

// RecordRound adds the round to both players' totals. Player 2 is credited
// with the inverted outcome.
func (r *sqliteStatsRepository) RecordRound(ctx context.Context, round history.Round) error {
	ctx, span := tracer.Start(ctx, "StatsRepository.RecordRound", trace.WithAttributes(
		attribute.Int("round", round.Round),
		attribute.String("round.result", string(round.Result)),
	))
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sides := []struct {
		name    string
		outcome game.Outcome
	}{
		{round.Player1.Name, round.Result},
		{round.Player2.Name, round.Result.Invert()},
	}
	for _, side := range sides {
		if _, err := tx.ExecContext(ctx, upsertStats, side.name,
			boolInt(side.outcome == game.Win),
			boolInt(side.outcome == game.Lose),
			boolInt(side.outcome == game.Draw),
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to update player stats")
			return fmt.Errorf("failed to update stats for %s: %w", side.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to commit stats")
		return fmt.Errorf("failed to commit stats: %w", err)
	}
	return nil
}

// FindByName returns the stats of a single player.
func (r *sqliteStatsRepository) FindByName(ctx context.Context, name string) (*player.Stats, error) {
	ctx, span := tracer.Start(ctx, "StatsRepository.FindByName", trace.WithAttributes(
		attribute.String("player.name", name),
	))
	defer span.End()

	var stats player.Stats
	query := `SELECT name, total_games, wins, losses, draws FROM player_stats WHERE name = ?`
	if err := r.db.GetContext(ctx, &stats, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get player stats")
		return nil, fmt.Errorf("failed to get stats for %s: %w", name, err)
	}
	return &stats, nil
}

// Leaderboard lists players with at least minGames games, best win rate
// first and more games breaking ties.
func (r *sqliteStatsRepository) Leaderboard(ctx context.Context, minGames int) ([]player.Stats, error) {
	ctx, span := tracer.Start(ctx, "StatsRepository.Leaderboard", trace.WithAttributes(
		attribute.Int("leaderboard.min_games", minGames),
	))
	defer span.End()

	query := `
	SELECT name, total_games, wins, losses, draws FROM player_stats
	WHERE total_games > 0 AND total_games >= ?
	ORDER BY CAST(wins AS REAL) / total_games DESC, total_games DESC, name ASC`

	stats := []player.Stats{}
	if err := r.db.SelectContext(ctx, &stats, query, minGames); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list leaderboard")
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}
	return stats, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
