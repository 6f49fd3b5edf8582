package events

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeRoundResolved = "round_resolved"
	TypeMatchReset    = "match_reset"
)

var tracer = otel.Tracer("events")

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// RoundResolvedPayload is the payload for the "round_resolved" event.
type RoundResolvedPayload struct {
	MatchID string        `json:"match_id"`
	Round   history.Round `json:"round"`
}

// MatchResetPayload is the payload for the "match_reset" event.
type MatchResetPayload struct {
	MatchID string `json:"match_id"`
}

// NewEvent wraps payload into an event of the given type.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: raw}, nil
}

// Publisher sends events to whoever is listening.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher publishes events on the Redis events channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher on EventsChannel.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: EventsChannel}
}

// Publish marshals e and publishes it.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	ctx, span := tracer.Start(ctx, "events.Publish", trace.WithAttributes(
		attribute.String("event.channel", p.channel),
		attribute.String("event.type", e.Type),
	))
	defer span.End()

	data, err := json.Marshal(e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish event")
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}

// RoundPublisher turns resolved rounds into round_resolved events tagged with
// the match they belong to.
type RoundPublisher struct {
	MatchID   string
	publisher Publisher
}

// NewRoundPublisher creates a RoundPublisher for a fresh match ID.
func NewRoundPublisher(p Publisher) *RoundPublisher {
	return &RoundPublisher{MatchID: uuid.NewString(), publisher: p}
}

// RecordRound publishes r.
func (rp *RoundPublisher) RecordRound(ctx context.Context, r history.Round) error {
	e, err := NewEvent(TypeRoundResolved, RoundResolvedPayload{MatchID: rp.MatchID, Round: r})
	if err != nil {
		return err
	}
	return rp.publisher.Publish(ctx, e)
}

// PublishReset announces that the match scores were reset.
func (rp *RoundPublisher) PublishReset(ctx context.Context) error {
	e, err := NewEvent(TypeMatchReset, MatchResetPayload{MatchID: rp.MatchID})
	if err != nil {
		return err
	}
	return rp.publisher.Publish(ctx, e)
}

// Subscribe relays events from the Redis events channel to handle until ctx
// is cancelled. Payloads that are not events are logged and skipped.
func Subscribe(ctx context.Context, rdb *redis.Client, handle func(context.Context, Event)) error {
	pubsub := rdb.Subscribe(ctx, EventsChannel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before relaying.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", EventsChannel, err)
	}
	slog.InfoContext(ctx, "Event subscriber started", "channel", EventsChannel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			eventCtx, eventSpan := tracer.Start(ctx, "events.handleEvent", trace.WithAttributes(
				attribute.String("event.channel", EventsChannel),
			))

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(eventCtx, "Could not unmarshal event", "error", err)
				eventSpan.RecordError(err)
				eventSpan.SetStatus(codes.Error, "Could not unmarshal event")
				eventSpan.End()
				continue
			}
			eventSpan.SetAttributes(attribute.String("event.type", event.Type))
			handle(eventCtx, event)
			eventSpan.End()
		}
	}
}
