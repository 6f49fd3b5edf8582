// Package console is the terminal front end of the game. It turns input lines
// into moves and commands and prints rounds, scores and the recent history.
package console

import (
	"bufio"
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"ctchen222/Rock-Paper-Scissors/internal/match"
	"ctchen222/Rock-Paper-Scissors/internal/peer"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultPollInterval = time.Second
	DefaultMaxPolls     = 30
	DefaultAIRounds     = 10
)

var ErrOpponentTimeout = errors.New("opponent did not move in time")

// Peer is the part of the peer session the console drives.
type Peer interface {
	SendChoice(ctx context.Context, move game.Move) bool
	Connected() bool
	RoomCode() string
}

// Game runs one match in the terminal.
type Game struct {
	session      *match.Session
	out          io.Writer
	summary      *history.Summary
	peer         Peer
	deliveries   <-chan peer.Delivery
	pollInterval time.Duration
	maxPolls     int
	rounds       int
	onReset      func(context.Context)

	turn          match.Side
	awaitingPeer  bool
	polls         int
	peerAnnounced bool
}

// Option configures a Game.
type Option func(*Game)

// WithSummary enables the history command.
func WithSummary(s *history.Summary) Option {
	return func(g *Game) { g.summary = s }
}

// WithPeer connects the game to a remote opponent. Deliveries carry the
// opponent's player_choice messages.
func WithPeer(p Peer, deliveries <-chan peer.Delivery) Option {
	return func(g *Game) {
		g.peer = p
		g.deliveries = deliveries
	}
}

// WithPolling sets how long to wait for a remote move: maxPolls ticks of interval.
func WithPolling(interval time.Duration, maxPolls int) Option {
	return func(g *Game) {
		if interval > 0 {
			g.pollInterval = interval
		}
		if maxPolls > 0 {
			g.maxPolls = maxPolls
		}
	}
}

// WithRounds sets how many rounds an AI-vs-AI match plays.
func WithRounds(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.rounds = n
		}
	}
}

// WithResetHook runs fn after the reset command.
func WithResetHook(fn func(context.Context)) Option {
	return func(g *Game) { g.onReset = fn }
}

// New creates a terminal game around session, printing to out.
func New(session *match.Session, out io.Writer, opts ...Option) *Game {
	g := &Game{
		session:      session,
		out:          out,
		pollInterval: DefaultPollInterval,
		maxPolls:     DefaultMaxPolls,
		rounds:       DefaultAIRounds,
		turn:         match.SideOne,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run plays until the input ends, the player quits or ctx is cancelled.
// In online play it returns ErrOpponentTimeout when the opponent stays silent.
func (g *Game) Run(ctx context.Context, in io.Reader) error {
	g.banner()

	if g.session.Mode() == match.ModeAIVsAI {
		return g.runAIMatch(ctx)
	}

	done := make(chan struct{})
	defer close(done)
	lines := scanLines(in, done)

	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	g.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := g.handleLine(ctx, line); quit {
				fmt.Fprintln(g.out, "Goodbye!")
				return nil
			}

		case d := <-g.deliveries:
			g.handleDelivery(ctx, d)

		case <-ticker.C:
			if err := g.poll(ctx); err != nil {
				return err
			}
		}
	}
}

func scanLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func (g *Game) runAIMatch(ctx context.Context) error {
	for i := 0; i < g.rounds; i++ {
		if ctx.Err() != nil {
			return nil
		}
		g.render(g.session.PlayRound(ctx, game.None, game.None))
	}
	g.printStats()
	return nil
}

// handleLine reports whether the player asked to quit.
func (g *Game) handleLine(ctx context.Context, line string) bool {
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch cmd {
	case "":
		return false
	case "quit", "exit", "q":
		return true
	case "stats":
		g.printStats()
	case "history":
		g.printHistory(ctx)
	case "reset":
		g.reset(ctx)
	case "help":
		g.help()
	default:
		move, err := game.ParseMove(cmd)
		if err != nil {
			fmt.Fprintf(g.out, "Unknown command %q. Type help for the list.\n", line)
			return false
		}
		g.play(ctx, move)
	}
	if !g.awaitingPeer {
		g.prompt()
	}
	return false
}

func (g *Game) play(ctx context.Context, move game.Move) {
	switch g.session.Mode() {
	case match.ModeVsAI:
		g.render(g.session.PlayRound(ctx, move, game.None))

	case match.ModeVsLocalPlayer:
		if !g.session.SubmitMove(g.turn, move) {
			fmt.Fprintln(g.out, "That move was not accepted.")
			return
		}
		if g.turn == match.SideOne {
			g.turn = match.SideTwo
			return
		}
		g.turn = match.SideOne
		g.render(g.session.TryResolve(ctx))

	case match.ModeVsPlayer:
		if g.session.Pending(match.SideOne) {
			fmt.Fprintln(g.out, "You already chose. Waiting for your opponent...")
			return
		}
		g.session.SubmitMove(match.SideOne, move)
		if g.peer == nil || !g.peer.SendChoice(ctx, move) {
			fmt.Fprintln(g.out, "Could not send your move to the opponent.")
		}
		g.awaitingPeer = true
		g.polls = 0
		g.resolveOnline(ctx)
	}
}

func (g *Game) handleDelivery(ctx context.Context, d peer.Delivery) {
	move, err := d.Message.Choice()
	if err != nil {
		slog.WarnContext(ctx, "Ignoring bad opponent move", "conn.id", d.ConnID, "error", err)
		return
	}
	if !g.session.SubmitMove(match.SideTwo, move) {
		slog.DebugContext(ctx, "Opponent move already recorded, ignoring", "conn.id", d.ConnID)
		return
	}
	slog.DebugContext(ctx, "Opponent moved", "conn.id", d.ConnID)
	if g.awaitingPeer && g.resolveOnline(ctx) {
		g.prompt()
	}
}

// resolveOnline reports whether the round was resolved.
func (g *Game) resolveOnline(ctx context.Context) bool {
	res := g.session.TryResolve(ctx)
	if res.Waiting {
		fmt.Fprintln(g.out, "Waiting for your opponent...")
		return false
	}
	g.awaitingPeer = false
	g.polls = 0
	g.render(res)
	return true
}

func (g *Game) poll(ctx context.Context) error {
	if g.peer != nil && !g.peerAnnounced && g.peer.Connected() {
		g.peerAnnounced = true
		fmt.Fprintln(g.out, "Opponent connected.")
	}
	if !g.awaitingPeer {
		return nil
	}

	g.polls++
	if g.polls >= g.maxPolls {
		fmt.Fprintln(g.out, "Your opponent did not respond. Ending the online game.")
		return ErrOpponentTimeout
	}
	return nil
}

func (g *Game) reset(ctx context.Context) {
	// The peer never resends a move, so a half-played online round must finish first.
	if g.session.Mode() == match.ModeVsPlayer &&
		(g.session.Pending(match.SideOne) || g.session.Pending(match.SideTwo)) {
		fmt.Fprintln(g.out, "Finish the current round before resetting.")
		return
	}
	if err := g.session.Reset(ctx, false); err != nil {
		fmt.Fprintf(g.out, "Could not reset: %v\n", err)
		return
	}
	g.turn = match.SideOne
	g.awaitingPeer = false
	g.polls = 0
	if g.onReset != nil {
		g.onReset(ctx)
	}
	fmt.Fprintln(g.out, "Scores reset.")
}
