package game

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		a, b Move
		want Outcome
	}{
		{name: "Rock beats scissors", a: Rock, b: Scissors, want: Win},
		{name: "Scissors beats paper", a: Scissors, b: Paper, want: Win},
		{name: "Paper beats rock", a: Paper, b: Rock, want: Win},
		{name: "Rock loses to paper", a: Rock, b: Paper, want: Lose},
		{name: "Paper loses to scissors", a: Paper, b: Scissors, want: Lose},
		{name: "Scissors loses to rock", a: Scissors, b: Rock, want: Lose},
		{name: "Rock draws rock", a: Rock, b: Rock, want: Draw},
		{name: "Paper draws paper", a: Paper, b: Paper, want: Draw},
		{name: "Scissors draws scissors", a: Scissors, b: Scissors, want: Draw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.a, tt.b); got != tt.want {
				t.Errorf("Resolve(%s, %s) got = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestResolveIsAntisymmetric(t *testing.T) {
	for _, a := range Moves() {
		for _, b := range Moves() {
			ab, ba := Resolve(a, b), Resolve(b, a)
			if (ab == Draw) != (a == b) {
				t.Errorf("Resolve(%s, %s) = %v, draw must happen iff moves are equal", a, b, ab)
			}
			if a != b && ab == ba {
				t.Errorf("Resolve(%s, %s) = Resolve(%s, %s) = %v", a, b, b, a, ab)
			}
			if ab.Invert() != ba {
				t.Errorf("Resolve(%s, %s).Invert() = %v, want %v", a, b, ab.Invert(), ba)
			}
		}
	}
}

func TestBeatsFormsThreeCycle(t *testing.T) {
	if Beats(Rock) != Scissors || Beats(Scissors) != Paper || Beats(Paper) != Rock {
		t.Fatalf("unexpected beats table: rock->%s scissors->%s paper->%s", Beats(Rock), Beats(Scissors), Beats(Paper))
	}
	for _, m := range Moves() {
		if Beats(m) == m {
			t.Errorf("%s beats itself", m)
		}
		if Beats(Beats(Beats(m))) != m {
			t.Errorf("beats relation starting at %s is not a 3-cycle", m)
		}
	}
	if Beats(None) != None {
		t.Errorf("Beats(None) = %q, want empty", Beats(None))
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in      string
		want    Move
		wantErr bool
	}{
		{in: "rock", want: Rock},
		{in: " Paper ", want: Paper},
		{in: "SCISSORS", want: Scissors},
		{in: "r", want: Rock},
		{in: "p", want: Paper},
		{in: "s", want: Scissors},
		{in: "lizard", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMove(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMove) {
					t.Errorf("ParseMove(%q) err = %v, want ErrInvalidMove", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMove(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMove(%q) got = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResultMessage(t *testing.T) {
	tests := []struct {
		name    string
		m1, m2  Move
		outcome Outcome
		want    string
	}{
		{name: "first side wins", m1: Rock, m2: Scissors, outcome: Win, want: "Alice wins! Rock beats scissors."},
		{name: "second side wins", m1: Rock, m2: Paper, outcome: Lose, want: "Bob wins! Paper beats rock."},
		{name: "draw", m1: Paper, m2: Paper, outcome: Draw, want: "It's a draw!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultMessage("Alice", "Bob", tt.m1, tt.m2, tt.outcome); got != tt.want {
				t.Errorf("ResultMessage() got = %q, want %q", got, tt.want)
			}
		})
	}
}
