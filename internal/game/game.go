package game

import (
	"errors"
	"fmt"
	"strings"
)

// Move is one of the three symbols a side selects per round.
type Move string

// Outcome is the result of a round from the first side's perspective.
type Outcome string

const (
	// Moves
	None     Move = ""
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"

	// Outcomes
	Win  Outcome = "win"
	Lose Outcome = "lose"
	Draw Outcome = "draw"
)

var ErrInvalidMove = errors.New("invalid move")

// beats maps each move to the move it defeats.
var beats = map[Move]Move{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// Moves returns every playable move in a stable order.
func Moves() []Move {
	return []Move{Rock, Paper, Scissors}
}

// Valid reports whether m is one of the three playable moves.
func (m Move) Valid() bool {
	_, ok := beats[m]
	return ok
}

// Beats returns the move that m defeats, or None for an invalid move.
func Beats(m Move) Move {
	return beats[m]
}

// Resolve compares a against b and returns the outcome from a's perspective.
func Resolve(a, b Move) Outcome {
	if a == b {
		return Draw
	}
	if beats[a] == b {
		return Win
	}
	return Lose
}

// Invert returns the same outcome seen from the other side.
func (o Outcome) Invert() Outcome {
	switch o {
	case Win:
		return Lose
	case Lose:
		return Win
	default:
		return Draw
	}
}

// ParseMove accepts a move name or its first letter, ignoring case and surrounding space.
func ParseMove(s string) (Move, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "r":
		return Rock, nil
	case "paper", "p":
		return Paper, nil
	case "scissors", "s":
		return Scissors, nil
	}
	return None, fmt.Errorf("%w: %q", ErrInvalidMove, s)
}

// Title returns the move name with an upper-case first letter.
func (m Move) Title() string {
	if m == None {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// ResultMessage describes a resolved round, naming the winner and the winning move first.
func ResultMessage(name1, name2 string, m1, m2 Move, outcome Outcome) string {
	switch outcome {
	case Win:
		return fmt.Sprintf("%s wins! %s beats %s.", name1, m1.Title(), m2)
	case Lose:
		return fmt.Sprintf("%s wins! %s beats %s.", name2, m2.Title(), m1)
	default:
		return "It's a draw!"
	}
}
