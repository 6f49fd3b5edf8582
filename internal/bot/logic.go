package bot

import (
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"math/rand/v2"
)

// RandomMoveChooser implements the match.MoveChooser interface.
type RandomMoveChooser struct{}

// ChooseMove calls the package-level function to satisfy the interface.
func (c *RandomMoveChooser) ChooseMove() game.Move {
	return ChooseMove()
}

// ChooseMove picks one of the three moves uniformly at random.
func ChooseMove() game.Move {
	moves := game.Moves()
	return moves[rand.IntN(len(moves))]
}
