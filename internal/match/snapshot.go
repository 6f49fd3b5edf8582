package match

// SideSnapshot is a read-only view of one side of the match.
type SideSnapshot struct {
	Name  string `json:"name"`
	Kind  string `json:"type"`
	Score int    `json:"score"`
	Ready bool   `json:"ready"`
}

// Snapshot is a read-only view of the whole session.
type Snapshot struct {
	Mode    Mode         `json:"mode"`
	Round   int          `json:"round"`
	State   State        `json:"state"`
	Player1 SideSnapshot `json:"player1"`
	Player2 SideSnapshot `json:"player2"`
}

// Snapshot copies the current state. Pending moves are reported as ready flags only.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	side := func(i Side) SideSnapshot {
		return SideSnapshot{
			Name:  s.players[i].Name,
			Kind:  string(s.players[i].Kind),
			Score: s.scores[i],
			Ready: s.slots[i] != defaultSlotPending,
		}
	}
	return Snapshot{
		Mode:    s.mode,
		Round:   s.round,
		State:   s.state,
		Player1: side(SideOne),
		Player2: side(SideTwo),
	}
}
