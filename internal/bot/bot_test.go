package bot

import (
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"testing"
)

func TestChooseMove_ReturnsEveryMove(t *testing.T) {
	// Not a statistical test, just checks that every move shows up and nothing else does.
	seen := make(map[game.Move]bool)
	chooser := &RandomMoveChooser{}
	for i := 0; i < 300; i++ {
		m := chooser.ChooseMove()
		if !m.Valid() {
			t.Fatalf("ChooseMove() returned invalid move: %q", m)
		}
		seen[m] = true
	}

	for _, m := range game.Moves() {
		if !seen[m] {
			t.Errorf("ChooseMove() never returned %s over 300 runs", m)
		}
	}
}

func TestNewBotPlayer(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantName string
	}{
		{name: "default name", in: "", wantName: DefaultName},
		{name: "custom name", in: SecondName, wantName: SecondName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBotPlayer(tt.in)
			if p.Name != tt.wantName {
				t.Errorf("Expected name %s, got %s", tt.wantName, p.Name)
			}
			if !p.IsAI() {
				t.Error("Expected bot player to be AI")
			}
		})
	}
}
