// Package history persists resolved rounds as JSON files.
//
// Store keeps the full round log used for statistics and rewrites the whole
// file after every round. Summary keeps a short, newest-first log meant for a
// quick glance and is never used as a source of truth.
package history

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultFile = "game_history.json"

var tracer = otel.Tracer("history")

// Side is one player's part of a round record.
type Side struct {
	Name   string    `json:"name"`
	Choice game.Move `json:"choice"`
	Score  int       `json:"score"`
}

// Round is the persisted snapshot of one resolved round.
type Round struct {
	Round   int          `json:"round"`
	Player1 Side         `json:"player1"`
	Player2 Side         `json:"player2"`
	Result  game.Outcome `json:"result"`
}

// Stats aggregates the round log from player 1's perspective.
type Stats struct {
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRate    float64 `json:"win_rate"`
}

// Store is an append-only round log backed by a JSON file.
type Store struct {
	path   string
	mu     sync.RWMutex
	rounds []Round
}

// NewStore creates a store for path. Call Load to read existing rounds.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFile
	}
	return &Store{path: path, rounds: make([]Round, 0)}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load reads the history file. A missing or malformed file leaves the store empty.
func (s *Store) Load(ctx context.Context) []Round {
	ctx, span := tracer.Start(ctx, "history.Load", trace.WithAttributes(
		attribute.String("history.path", s.path),
	))
	defer span.End()

	rounds, err := readJSON[Round](s.path)
	if err != nil {
		slog.WarnContext(ctx, "Could not load round history, starting empty", "history.path", s.path, "error", err)
		span.RecordError(err)
		rounds = make([]Round, 0)
	}

	s.mu.Lock()
	s.rounds = rounds
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("history.rounds", len(rounds)))
	return s.Rounds()
}

// Append adds a round and rewrites the whole file.
func (s *Store) Append(ctx context.Context, r Round) error {
	ctx, span := tracer.Start(ctx, "history.Append", trace.WithAttributes(
		attribute.String("history.path", s.path),
		attribute.Int("round", r.Round),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rounds = append(s.rounds, r)
	if err := writeJSON(s.path, s.rounds); err != nil {
		slog.ErrorContext(ctx, "Error saving round history", "history.path", s.path, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error saving round history")
		return err
	}
	return nil
}

// RecordRound satisfies match.RoundRecorder.
func (s *Store) RecordRound(ctx context.Context, r Round) error {
	return s.Append(ctx, r)
}

// Rounds returns a copy of the log, oldest first.
func (s *Store) Rounds() []Round {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Round, len(s.rounds))
	copy(out, s.rounds)
	return out
}

// Clear empties the log and the file.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rounds = make([]Round, 0)
	if err := writeJSON(s.path, s.rounds); err != nil {
		slog.ErrorContext(ctx, "Error clearing round history", "history.path", s.path, "error", err)
		return err
	}
	return nil
}

// Stats counts wins, losses and draws over the whole log.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Summarize(s.rounds)
}

// Summarize computes Stats for rounds. The win rate is a percentage rounded to one decimal.
func Summarize(rounds []Round) Stats {
	var st Stats
	st.TotalGames = len(rounds)
	for _, r := range rounds {
		switch r.Result {
		case game.Win:
			st.Wins++
		case game.Lose:
			st.Losses++
		}
	}
	st.Draws = st.TotalGames - st.Wins - st.Losses
	if st.TotalGames > 0 {
		st.WinRate = math.Round(float64(st.Wins)/float64(st.TotalGames)*1000) / 10
	}
	return st
}

func readJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make([]T, 0), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

func writeJSON[T any](path string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
