package hub

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/events"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"ctchen222/Rock-Paper-Scissors/internal/hub/types"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const broadcastBuffer = 64

var tracer = otel.Tracer("hub")

// Hub fans resolved rounds out to websocket spectators.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	count      atomic.Int64
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run owns the spectator set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	slog.InfoContext(ctx, "Spectator hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			slog.InfoContext(ctx, "Spectator hub stopped")
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))
			slog.InfoContext(ctx, "Spectator connected", "spectator.id", c.id)

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				slog.InfoContext(ctx, "Spectator disconnected", "spectator.id", c.id)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slog.WarnContext(ctx, "Spectator too slow, dropping", "spectator.id", c.id)
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
}

// Spectators returns the number of connected spectators.
func (h *Hub) Spectators() int {
	return int(h.count.Load())
}

// Broadcast queues msg for every spectator. It drops the message instead of
// blocking when the hub is backed up.
func (h *Hub) Broadcast(ctx context.Context, msg types.SpectatorMessage) error {
	ctx, span := tracer.Start(ctx, "hub.Broadcast", trace.WithAttributes(
		attribute.String("message.type", msg.Type),
	))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return fmt.Errorf("failed to marshal spectator message: %w", err)
	}

	select {
	case h.broadcast <- data:
		return nil
	default:
		err := fmt.Errorf("spectator broadcast queue full, dropped %s", msg.Type)
		slog.WarnContext(ctx, "Dropping spectator message", "message.type", msg.Type)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Broadcast queue full")
		return err
	}
}

// RecordRound pushes a resolved round to the spectators.
func (h *Hub) RecordRound(ctx context.Context, r history.Round) error {
	return h.Broadcast(ctx, types.SpectatorMessage{Type: types.TypeRound, Round: &r})
}

// HandleEvent relays match events received from Redis.
func (h *Hub) HandleEvent(ctx context.Context, e events.Event) {
	switch e.Type {
	case events.TypeRoundResolved:
		var payload events.RoundResolvedPayload
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			slog.ErrorContext(ctx, "Could not unmarshal round_resolved payload", "error", err)
			return
		}
		_ = h.Broadcast(ctx, types.SpectatorMessage{Type: types.TypeRound, MatchID: payload.MatchID, Round: &payload.Round})

	case events.TypeMatchReset:
		var payload events.MatchResetPayload
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			slog.ErrorContext(ctx, "Could not unmarshal match_reset payload", "error", err)
			return
		}
		_ = h.Broadcast(ctx, types.SpectatorMessage{Type: types.TypeReset, MatchID: payload.MatchID})

	default:
		slog.DebugContext(ctx, "Ignoring event", "event.type", e.Type)
	}
}
