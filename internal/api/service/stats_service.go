package service

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/api/models"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"ctchen222/Rock-Paper-Scissors/internal/match"
	"ctchen222/Rock-Paper-Scissors/internal/repository"
	"errors"
	"strings"
)

var (
	ErrStatsUnavailable = errors.New("player statistics are not enabled")
	ErrNoSession        = errors.New("no match in progress")
	ErrEmptyName        = errors.New("player name is required")
)

// SessionSource exposes the live match.
type SessionSource interface {
	Snapshot() match.Snapshot
}

// StatsService defines the interface for the read-only game statistics.
type StatsService interface {
	History(ctx context.Context) models.HistoryResponse
	Summary(ctx context.Context) []history.SummaryEntry
	Stats(ctx context.Context) history.Stats
	Leaderboard(ctx context.Context, minGames int) ([]models.PlayerStats, error)
	Player(ctx context.Context, name string) (*models.PlayerStats, error)
	Session(ctx context.Context) (*match.Snapshot, error)
}

type statsService struct {
	store   *history.Store
	summary *history.Summary
	repo    repository.StatsRepository
	session SessionSource
}

// NewStatsService creates a new StatsService. repo and session may be nil.
func NewStatsService(store *history.Store, summary *history.Summary, repo repository.StatsRepository, session SessionSource) StatsService {
	return &statsService{store: store, summary: summary, repo: repo, session: session}
}

func (s *statsService) History(ctx context.Context) models.HistoryResponse {
	rounds := s.store.Rounds()
	return models.HistoryResponse{Rounds: rounds, Stats: history.Summarize(rounds)}
}

func (s *statsService) Summary(ctx context.Context) []history.SummaryEntry {
	return s.summary.Entries(ctx)
}

func (s *statsService) Stats(ctx context.Context) history.Stats {
	return s.store.Stats()
}

// Leaderboard lists players with at least minGames games.
func (s *statsService) Leaderboard(ctx context.Context, minGames int) ([]models.PlayerStats, error) {
	if s.repo == nil {
		return nil, ErrStatsUnavailable
	}
	stats, err := s.repo.Leaderboard(ctx, minGames)
	if err != nil {
		return nil, err
	}

	board := make([]models.PlayerStats, 0, len(stats))
	for _, st := range stats {
		board = append(board, models.NewPlayerStats(st))
	}
	return board, nil
}

// Player returns one player's lifetime stats.
func (s *statsService) Player(ctx context.Context, name string) (*models.PlayerStats, error) {
	if s.repo == nil {
		return nil, ErrStatsUnavailable
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	st, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	ps := models.NewPlayerStats(*st)
	return &ps, nil
}

func (s *statsService) Session(ctx context.Context) (*match.Snapshot, error) {
	if s.session == nil {
		return nil, ErrNoSession
	}
	snap := s.session.Snapshot()
	return &snap, nil
}
