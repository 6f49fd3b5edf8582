package console

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/match"
	"fmt"
)

func (g *Game) banner() {
	p1, p2 := g.session.Player(match.SideOne), g.session.Player(match.SideTwo)
	fmt.Fprintf(g.out, "Rock Paper Scissors: %s vs %s\n", p1.Name, p2.Name)

	if g.peer != nil && g.peer.RoomCode() != "" {
		fmt.Fprintf(g.out, "Room code: %s\n", g.peer.RoomCode())
	}
	if g.session.Mode() != match.ModeAIVsAI {
		g.help()
	}
}

func (g *Game) help() {
	fmt.Fprintln(g.out, "Commands: rock (r), paper (p), scissors (s), stats, history, reset, quit")
}

func (g *Game) prompt() {
	snap := g.session.Snapshot()
	name := snap.Player1.Name
	if g.session.Mode() == match.ModeVsLocalPlayer && g.turn == match.SideTwo {
		name = snap.Player2.Name
	}
	fmt.Fprintf(g.out, "Round %d - %s, your move: ", snap.Round, name)
}

func (g *Game) render(res match.Resolution) {
	if res.Waiting {
		return
	}
	r := res.Round
	fmt.Fprintf(g.out, "\nRound %d: %s chose %s, %s chose %s\n",
		r.Round, r.Player1.Name, r.Player1.Choice, r.Player2.Name, r.Player2.Choice)
	fmt.Fprintln(g.out, res.Message)
	fmt.Fprintf(g.out, "Score: %s %d - %d %s\n", r.Player1.Name, r.Player1.Score, r.Player2.Score, r.Player2.Name)
}

func (g *Game) printStats() {
	st := g.session.Stats()
	fmt.Fprintf(g.out, "\nGames: %d  Wins: %d  Losses: %d  Draws: %d  Win rate: %.1f%%\n",
		st.TotalGames, st.Wins, st.Losses, st.Draws, st.WinRate)
}

func (g *Game) printHistory(ctx context.Context) {
	if g.summary == nil {
		fmt.Fprintln(g.out, "No history available.")
		return
	}
	entries := g.summary.Entries(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(g.out, "No games played yet.")
		return
	}
	fmt.Fprintln(g.out, "\nRecent games:")
	for _, e := range entries {
		fmt.Fprintf(g.out, "  %s  %s\n", e.Time, e.Desc)
	}
}
