package events

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type publisherFunc func(ctx context.Context, e Event) error

func (f publisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

var testRound = history.Round{
	Round:   3,
	Player1: history.Side{Name: "Alice", Choice: game.Rock, Score: 2},
	Player2: history.Side{Name: "AI", Choice: game.Scissors, Score: 0},
	Result:  game.Win,
}

func TestRoundPublisher_RecordRound(t *testing.T) {
	var got []Event
	rp := NewRoundPublisher(publisherFunc(func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	}))
	require.NotEmpty(t, rp.MatchID)

	require.NoError(t, rp.RecordRound(context.Background(), testRound))
	require.NoError(t, rp.PublishReset(context.Background()))
	require.Len(t, got, 2)

	assert.Equal(t, TypeRoundResolved, got[0].Type)
	var payload RoundResolvedPayload
	require.NoError(t, json.Unmarshal(got[0].Payload, &payload))
	assert.Equal(t, rp.MatchID, payload.MatchID)
	assert.Equal(t, testRound, payload.Round)

	assert.Equal(t, TypeMatchReset, got[1].Type)
}

func TestRoundPublisher_PropagatesErrors(t *testing.T) {
	boom := errors.New("redis down")
	rp := NewRoundPublisher(publisherFunc(func(context.Context, Event) error { return boom }))
	assert.ErrorIs(t, rp.RecordRound(context.Background(), testRound), boom)
}

func TestRedisPublisher_Subscribe(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(connStr)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	received := make(chan Event, 1)
	subCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- Subscribe(subCtx, rdb, func(_ context.Context, e Event) {
			select {
			case received <- e:
			default:
			}
		})
	}()

	rp := NewRoundPublisher(NewRedisPublisher(rdb))
	// Publish until the subscriber is attached.
	require.Eventually(t, func() bool {
		if err := rp.RecordRound(ctx, testRound); err != nil {
			return false
		}
		select {
		case e := <-received:
			return e.Type == TypeRoundResolved
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 10*time.Second, 50*time.Millisecond)

	stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Subscriber did not stop after cancellation")
	}
}
