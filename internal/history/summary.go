package history

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultSummaryFile = "game_history_menu.json"
	MaxSummaryEntries  = 10
)

// SummaryEntry is one line of the quick-glance log.
type SummaryEntry struct {
	Time string `json:"time"`
	Desc string `json:"desc"`
}

// Summary is a bounded, newest-first log of round descriptions.
type Summary struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewSummary creates a summary log for path.
func NewSummary(path string) *Summary {
	if path == "" {
		path = DefaultSummaryFile
	}
	return &Summary{path: path, now: time.Now}
}

// Entries reads the log. A missing or malformed file yields no entries.
func (s *Summary) Entries(ctx context.Context) []SummaryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Add prepends an entry for r and trims the log to MaxSummaryEntries.
func (s *Summary) Add(ctx context.Context, r Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := SummaryEntry{
		Time: s.now().Format("15:04"),
		Desc: Describe(r),
	}
	entries := append([]SummaryEntry{entry}, s.load(ctx)...)
	if len(entries) > MaxSummaryEntries {
		entries = entries[:MaxSummaryEntries]
	}

	if err := writeJSON(s.path, entries); err != nil {
		slog.ErrorContext(ctx, "Error saving summary history", "summary.path", s.path, "error", err)
		return err
	}
	return nil
}

// RecordRound satisfies match.RoundRecorder.
func (s *Summary) RecordRound(ctx context.Context, r Round) error {
	return s.Add(ctx, r)
}

func (s *Summary) load(ctx context.Context) []SummaryEntry {
	entries, err := readJSON[SummaryEntry](s.path)
	if err != nil {
		slog.WarnContext(ctx, "Could not load summary history, starting empty", "summary.path", s.path, "error", err)
		return make([]SummaryEntry, 0)
	}
	return entries
}

// Describe renders the short description used by the summary log.
func Describe(r Round) string {
	switch r.Result {
	case game.Win:
		return fmt.Sprintf("%s Win vs %s", r.Player1.Name, r.Player2.Name)
	case game.Lose:
		return fmt.Sprintf("%s Win vs %s", r.Player2.Name, r.Player1.Name)
	default:
		return "Draw"
	}
}
