package types

import "ctchen222/Rock-Paper-Scissors/internal/history"

// Spectator message types.
const (
	TypeRound = "round"
	TypeReset = "reset"
)

// SpectatorMessage is what the hub pushes to every websocket spectator.
type SpectatorMessage struct {
	Type    string         `json:"type"`
	MatchID string         `json:"match_id,omitempty"`
	Round   *history.Round `json:"round,omitempty"`
}
