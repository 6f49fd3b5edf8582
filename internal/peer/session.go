package peer

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"ctchen222/Rock-Paper-Scissors/pkg/proto"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("peer")
	meter  = otel.Meter("peer")
)

const DefaultBufferSize = 4096

var ErrAlreadyActive = errors.New("peer session already active")

// Role is the part this process plays in a networked match.
type Role string

const (
	RoleNone   Role = ""
	RoleHost   Role = "host"
	RoleJoiner Role = "joiner"
)

// Session owns the listener and open connections of one networked match.
type Session struct {
	handlers   Handlers
	bindHost   string
	advertise  string
	bufferSize int
	messages   metric.Int64Counter

	mu       sync.Mutex
	role     Role
	roomCode string
	listener net.Listener
	conns    map[string]*connection
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithHandler registers h for messages of type t.
func WithHandler(t proto.MessageType, h Handler) Option {
	return func(s *Session) { s.handlers[t] = h }
}

// WithBindHost sets the interface the host listens on.
func WithBindHost(host string) Option {
	return func(s *Session) { s.bindHost = host }
}

// WithAdvertiseHost overrides the address published in the room code.
func WithAdvertiseHost(host string) Option {
	return func(s *Session) { s.advertise = host }
}

// WithBufferSize sets the read buffer per connection.
func WithBufferSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.bufferSize = n
		}
	}
}

// NewSession creates an idle session. Handlers are fixed from here on.
func NewSession(opts ...Option) *Session {
	s := &Session{
		handlers:   Handlers{},
		bindHost:   DefaultBindHost,
		bufferSize: DefaultBufferSize,
		conns:      make(map[string]*connection),
	}
	for _, opt := range opts {
		opt(s)
	}

	counter, err := meter.Int64Counter("rps.peer.messages", metric.WithDescription("Peer messages sent and received"))
	if err != nil {
		slog.Warn("Could not create peer message counter", "error", err)
	}
	s.messages = counter
	return s
}

// Host listens on port and returns the room code peers should join with.
// Port 0 picks a free port.
func (s *Session) Host(ctx context.Context, port int) (string, error) {
	ctx, span := tracer.Start(ctx, "peer.Host", trace.WithAttributes(attribute.Int("peer.port", port)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.role != RoleNone {
		return "", ErrAlreadyActive
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.bindHost, strconv.Itoa(port)))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to start host", "peer.port", port, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to start host")
		return "", fmt.Errorf("failed to start host: %w", err)
	}

	actualPort := port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		actualPort = addr.Port
	}
	host := s.advertise
	if host == "" {
		host = LocalIP()
	}

	loopCtx := s.start(ctx, RoleHost)
	s.listener = ln
	s.roomCode = FormatRoomCode(host, actualPort)

	s.wg.Add(1)
	go s.acceptLoop(loopCtx, ln)

	span.SetAttributes(attribute.String("peer.room_code", s.roomCode))
	slog.InfoContext(ctx, "Hosting game", "peer.room_code", s.roomCode)
	return s.roomCode, nil
}

// Join connects to the host behind roomCode.
func (s *Session) Join(ctx context.Context, roomCode string) error {
	ctx, span := tracer.Start(ctx, "peer.Join", trace.WithAttributes(attribute.String("peer.room_code", roomCode)))
	defer span.End()

	host, port, err := ParseRoomCode(roomCode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid room code")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.role != RoleNone {
		return ErrAlreadyActive
	}

	var dialer net.Dialer
	nc, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to join game", "peer.room_code", roomCode, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to join game")
		return fmt.Errorf("failed to join game: %w", err)
	}

	loopCtx := s.start(ctx, RoleJoiner)
	s.roomCode = FormatRoomCode(host, port)
	s.addConnectionLocked(loopCtx, nc)

	slog.InfoContext(ctx, "Joined game", "peer.room_code", s.roomCode)
	return nil
}

// start moves the session into role. The loop context outlives ctx's
// cancellation and ends on Disconnect. Callers hold s.mu.
func (s *Session) start(ctx context.Context, role Role) context.Context {
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.role = role
	s.cancel = cancel
	return loopCtx
}

func (s *Session) acceptLoop(ctx context.Context, ln net.Listener) {
	defer s.wg.Done()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				slog.ErrorContext(ctx, "Error accepting connection", "error", err)
			}
			return
		}

		s.mu.Lock()
		if ctx.Err() != nil {
			s.mu.Unlock()
			_ = nc.Close()
			return
		}
		c := s.addConnectionLocked(ctx, nc)
		s.mu.Unlock()

		slog.InfoContext(ctx, "Peer connected", "conn.id", c.id, "conn.remote", nc.RemoteAddr().String())
	}
}

// addConnectionLocked registers nc and starts its receive loop. Callers hold s.mu.
func (s *Session) addConnectionLocked(ctx context.Context, nc net.Conn) *connection {
	c := &connection{id: uuid.NewString(), conn: nc}
	s.conns[c.id] = c

	s.wg.Add(1)
	go s.readPump(ctx, c)
	return c
}

func (s *Session) removeConnection(ctx context.Context, c *connection) {
	s.mu.Lock()
	_, ok := s.conns[c.id]
	delete(s.conns, c.id)
	s.mu.Unlock()

	c.close()
	if ok {
		slog.InfoContext(ctx, "Peer disconnected", "conn.id", c.id)
	}
}

// Send encodes a message and writes it to every open connection. It reports
// false when there is nobody to send to or any write fails.
func (s *Session) Send(ctx context.Context, t proto.MessageType, data any) bool {
	return s.send(ctx, t, data, s.connections())
}

// SendTo writes a message to a single connection.
func (s *Session) SendTo(ctx context.Context, connID string, t proto.MessageType, data any) bool {
	s.mu.Lock()
	c, ok := s.conns[connID]
	s.mu.Unlock()
	if !ok {
		slog.WarnContext(ctx, "Send to unknown connection", "conn.id", connID)
		return false
	}
	return s.send(ctx, t, data, []*connection{c})
}

// SendChoice tells the peer which move this side picked.
func (s *Session) SendChoice(ctx context.Context, move game.Move) bool {
	if !move.Valid() {
		slog.WarnContext(ctx, "Refusing to send invalid move", "move", string(move))
		return false
	}
	return s.Send(ctx, proto.TypePlayerChoice, proto.PlayerChoiceData{Choice: move})
}

func (s *Session) send(ctx context.Context, t proto.MessageType, data any, targets []*connection) bool {
	if len(targets) == 0 {
		slog.WarnContext(ctx, "No peer to send to", "message.type", t)
		return false
	}

	line, err := encode(t, data)
	if err != nil {
		slog.ErrorContext(ctx, "Error encoding message", "message.type", t, "error", err)
		return false
	}

	ok := true
	for _, c := range targets {
		if err := c.write(line); err != nil {
			slog.WarnContext(ctx, "Error sending message", "conn.id", c.id, "message.type", t, "error", err)
			ok = false
			continue
		}
		if s.messages != nil {
			s.messages.Add(ctx, 1, metric.WithAttributes(
				attribute.String("message.direction", "out"),
				attribute.String("message.type", string(t)),
			))
		}
	}
	return ok
}

func (s *Session) connections() []*connection {
	s.mu.Lock()
	defer s.mu.Unlock()

	conns := make([]*connection, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	return conns
}

// Disconnect stops the accept and receive loops, closes every socket and
// waits for the loops to exit. Calling it on an idle session is a no-op.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if s.role == RoleNone {
		s.mu.Unlock()
		return
	}
	// acceptLoop checks the context under s.mu, so no connection can be
	// added once the copy below is taken.
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	conns := make([]*connection, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
	s.wg.Wait()

	s.mu.Lock()
	s.role = RoleNone
	s.roomCode = ""
	s.listener = nil
	s.cancel = nil
	clear(s.conns)
	s.mu.Unlock()

	slog.Info("Peer session closed")
}

// Role returns the current role, RoleNone when idle.
func (s *Session) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// RoomCode returns the code of the active session.
func (s *Session) RoomCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomCode
}

// Peers returns the IDs of the open connections.
func (s *Session) Peers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.conns))
	for id := range s.conns {
		ids = append(ids, id)
	}
	return ids
}

// Connected reports whether at least one peer connection is open.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns) > 0
}
