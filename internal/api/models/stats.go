package models

import (
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"ctchen222/Rock-Paper-Scissors/internal/player"
	"math"
)

// LeaderboardRequest defines the query parameters of the leaderboard endpoint.
type LeaderboardRequest struct {
	MinGames int `form:"min_games" binding:"gte=0"`
}

// PlayerStats is a player's lifetime record with the derived win rate.
type PlayerStats struct {
	player.Stats
	WinRate float64 `json:"win_rate"`
}

// NewPlayerStats rounds the win rate to one decimal.
func NewPlayerStats(s player.Stats) PlayerStats {
	return PlayerStats{Stats: s, WinRate: math.Round(s.WinRate()*10) / 10}
}

// HistoryResponse is the full round log with its aggregate.
type HistoryResponse struct {
	Rounds []history.Round `json:"rounds"`
	Stats  history.Stats   `json:"stats"`
}
