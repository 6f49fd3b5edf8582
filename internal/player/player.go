package player

// Kind tells human players apart from computer ones.
type Kind string

const (
	KindHuman Kind = "human"
	KindAI    Kind = "ai"
)

// Player represents one side of a match.
type Player struct {
	Name string `json:"name"`
	Kind Kind   `json:"type"`
}

// NewPlayer creates a new human player.
func NewPlayer(name string) *Player {
	return &Player{Name: name, Kind: KindHuman}
}

// IsAI reports whether the player is computer controlled.
func (p *Player) IsAI() bool {
	return p.Kind == KindAI
}

// Stats holds a player's lifetime results.
type Stats struct {
	Name       string `json:"name" db:"name"`
	TotalGames int    `json:"total_games" db:"total_games"`
	Wins       int    `json:"wins" db:"wins"`
	Losses     int    `json:"losses" db:"losses"`
	Draws      int    `json:"draws" db:"draws"`
}

// WinRate returns the percentage of games won, or 0 before the first game.
func (s Stats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TotalGames) * 100
}
