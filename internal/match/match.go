package match

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/bot"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"ctchen222/Rock-Paper-Scissors/internal/player"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("match")
	meter  = otel.Meter("match")
)

// Mode selects who fills each move slot.
type Mode string

const (
	ModeVsAI          Mode = "vs_ai"
	ModeVsPlayer      Mode = "vs_player"
	ModeAIVsAI        Mode = "ai_vs_ai"
	ModeVsLocalPlayer Mode = "vs_local_player"
)

// Side identifies a move slot. SideOne is the local player in networked play.
type Side int

const (
	SideOne Side = iota
	SideTwo
)

func (s Side) String() string {
	if s == SideOne {
		return "player1"
	}
	return "player2"
}

// State is the session's position in its round cycle.
type State string

const (
	StateAwaitingMoves State = "awaiting_moves"
	StateResolved      State = "resolved"
)

// Default player names.
const (
	DefaultPlayerOne = "Player 1"
	DefaultPlayerTwo = "Player 2"
	DefaultOpponent  = "Opponent"
)

const (
	DefaultFirstRound  = 1
	defaultSlotPending = game.None
)

// MoveChooser defines an agent that can pick a move on its own.
type MoveChooser interface {
	ChooseMove() game.Move
}

// RoundRecorder is notified once for every resolved round.
type RoundRecorder interface {
	RecordRound(ctx context.Context, r history.Round) error
}

// Resolution is the result of an attempt to resolve the current round.
type Resolution struct {
	Waiting bool
	Outcome game.Outcome
	Round   history.Round
	Message string
}

// Session holds the in-memory state of one ongoing match.
type Session struct {
	mu        sync.Mutex
	mode      Mode
	players   [2]*player.Player
	scores    [2]int
	slots     [2]game.Move
	round     int
	state     State
	chooser   MoveChooser
	history   *history.Store
	recorders []RoundRecorder
	rounds    metric.Int64Counter
}

// Option configures a Session.
type Option func(*Session)

// WithChooser sets the agent that fills AI slots.
func WithChooser(c MoveChooser) Option {
	return func(s *Session) { s.chooser = c }
}

// WithHistory sets the round log. The store is also notified as a recorder.
func WithHistory(h *history.Store) Option {
	return func(s *Session) { s.history = h }
}

// WithRecorders adds recorders notified after the history store.
func WithRecorders(r ...RoundRecorder) Option {
	return func(s *Session) { s.recorders = append(s.recorders, r...) }
}

// NewSession creates a new match in the given mode. Empty names fall back to mode defaults.
func NewSession(mode Mode, name1, name2 string, opts ...Option) *Session {
	s := &Session{
		mode:    mode,
		round:   DefaultFirstRound,
		state:   StateAwaitingMoves,
		chooser: &bot.RandomMoveChooser{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.players = playersFor(mode, name1, name2)

	counter, err := meter.Int64Counter("rps.match.rounds", metric.WithDescription("Resolved rounds"))
	if err != nil {
		slog.Warn("Could not create rounds counter", "error", err)
	}
	s.rounds = counter
	return s
}

func playersFor(mode Mode, name1, name2 string) [2]*player.Player {
	name1 = strings.TrimSpace(name1)
	name2 = strings.TrimSpace(name2)

	switch mode {
	case ModeAIVsAI:
		if name1 == "" {
			name1 = bot.FirstName
		}
		if name2 == "" {
			name2 = bot.SecondName
		}
		return [2]*player.Player{bot.NewBotPlayer(name1), bot.NewBotPlayer(name2)}
	case ModeVsAI:
		if name1 == "" {
			name1 = DefaultPlayerOne
		}
		return [2]*player.Player{player.NewPlayer(name1), bot.NewBotPlayer(name2)}
	case ModeVsPlayer:
		if name1 == "" {
			name1 = DefaultPlayerOne
		}
		if name2 == "" {
			name2 = DefaultOpponent
		}
	default:
		if name1 == "" {
			name1 = DefaultPlayerOne
		}
		if name2 == "" {
			name2 = DefaultPlayerTwo
		}
	}
	return [2]*player.Player{player.NewPlayer(name1), player.NewPlayer(name2)}
}

// Mode returns the session's play mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Player returns the player on the given side.
func (s *Session) Player(side Side) player.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.players[side]
}

// SubmitMove records a move for side. It is a no-op returning false when the
// session is not awaiting moves, the move is invalid or the slot is already filled.
func (s *Session) SubmitMove(side Side, move game.Move) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingMoves || !move.Valid() || s.slots[side] != defaultSlotPending {
		return false
	}
	s.slots[side] = move
	return true
}

// Pending reports whether side has submitted a move this round.
func (s *Session) Pending(side Side) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[side] != defaultSlotPending
}

// TryResolve scores the round when both slots are filled. Otherwise it reports
// Waiting and leaves the session untouched.
func (s *Session) TryResolve(ctx context.Context) Resolution {
	s.mu.Lock()
	if s.slots[SideOne] == defaultSlotPending || s.slots[SideTwo] == defaultSlotPending {
		s.mu.Unlock()
		return Resolution{Waiting: true}
	}

	ctx, span := tracer.Start(ctx, "match.TryResolve", trace.WithAttributes(
		attribute.String("match.mode", string(s.mode)),
		attribute.Int("round", s.round),
	))
	defer span.End()

	s.state = StateResolved
	m1, m2 := s.slots[SideOne], s.slots[SideTwo]
	outcome := game.Resolve(m1, m2)
	switch outcome {
	case game.Win:
		s.scores[SideOne]++
	case game.Lose:
		s.scores[SideTwo]++
	}

	record := history.Round{
		Round:   s.round,
		Player1: history.Side{Name: s.players[SideOne].Name, Choice: m1, Score: s.scores[SideOne]},
		Player2: history.Side{Name: s.players[SideTwo].Name, Choice: m2, Score: s.scores[SideTwo]},
		Result:  outcome,
	}
	message := game.ResultMessage(record.Player1.Name, record.Player2.Name, m1, m2, outcome)

	s.slots = [2]game.Move{}
	s.round++
	s.state = StateAwaitingMoves
	s.mu.Unlock()

	span.SetAttributes(attribute.String("round.result", string(outcome)))
	if s.rounds != nil {
		s.rounds.Add(ctx, 1, metric.WithAttributes(
			attribute.String("match.mode", string(s.mode)),
			attribute.String("round.result", string(outcome)),
		))
	}
	slog.InfoContext(ctx, "Round resolved", "round", record.Round, "player1.choice", m1, "player2.choice", m2, "round.result", outcome)

	s.record(ctx, span, record)

	return Resolution{Outcome: outcome, Round: record, Message: message}
}

func (s *Session) record(ctx context.Context, span trace.Span, r history.Round) {
	recorders := s.recorders
	if s.history != nil {
		recorders = append([]RoundRecorder{s.history}, recorders...)
	}
	for _, rec := range recorders {
		if err := rec.RecordRound(ctx, r); err != nil {
			slog.ErrorContext(ctx, "Round recorder failed", "round", r.Round, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Round recorder failed")
		}
	}
}

// PlayRound fills the slots the mode assigns to the AI, submits the given
// human moves and tries to resolve. Pass game.None for a move not yet known.
func (s *Session) PlayRound(ctx context.Context, m1, m2 game.Move) Resolution {
	switch s.mode {
	case ModeVsAI:
		if s.SubmitMove(SideOne, m1) || s.Pending(SideOne) {
			s.SubmitMove(SideTwo, s.chooser.ChooseMove())
		}
	case ModeAIVsAI:
		s.SubmitMove(SideOne, s.chooser.ChooseMove())
		s.SubmitMove(SideTwo, s.chooser.ChooseMove())
	default:
		if m1 != game.None {
			s.SubmitMove(SideOne, m1)
		}
		if m2 != game.None {
			s.SubmitMove(SideTwo, m2)
		}
	}
	return s.TryResolve(ctx)
}

// Reset zeroes scores and the round counter, optionally clearing the round log.
func (s *Session) Reset(ctx context.Context, clearHistory bool) error {
	s.mu.Lock()
	s.scores = [2]int{}
	s.slots = [2]game.Move{}
	s.round = DefaultFirstRound
	s.state = StateAwaitingMoves
	s.mu.Unlock()

	if clearHistory && s.history != nil {
		return s.history.Clear(ctx)
	}
	return nil
}

// Stats aggregates the round log, or returns zero stats without one.
func (s *Session) Stats() history.Stats {
	if s.history == nil {
		return history.Summarize(nil)
	}
	return s.history.Stats()
}

// History returns the round log, or nil when the session has none.
func (s *Session) History() *history.Store {
	return s.history
}
