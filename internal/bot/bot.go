package bot

import (
	"ctchen222/Rock-Paper-Scissors/internal/player"
)

// Default names for computer controlled sides.
const (
	DefaultName = "AI"
	FirstName   = "AI 1"
	SecondName  = "AI 2"
)

// NewBotPlayer creates a new player instance that is a bot.
func NewBotPlayer(name string) *player.Player {
	if name == "" {
		name = DefaultName
	}
	return &player.Player{Name: name, Kind: player.KindAI}
}
