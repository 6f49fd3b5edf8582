package proto

import (
	"bytes"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage_EncodesSingleLine(t *testing.T) {
	now = func() time.Time { return time.Unix(1700000000, 500000000) }
	defer func() { now = time.Now }()

	msg, err := NewMessage(TypePlayerChoice, PlayerChoiceData{Choice: game.Paper})
	require.NoError(t, err)

	line, err := Encode(msg)
	require.NoError(t, err)
	assert.Equal(t, byte(Delimiter), line[len(line)-1])
	assert.Equal(t, 1, bytes.Count(line, []byte{Delimiter}))

	var wire map[string]any
	require.NoError(t, json.Unmarshal(line, &wire))
	assert.Equal(t, "player_choice", wire["type"])
	assert.InDelta(t, 1700000000.5, wire["timestamp"], 0.001)
	assert.Equal(t, map[string]any{"choice": "paper"}, wire["data"])
}

func TestNewMessage_NilDataIsEmptyObject(t *testing.T) {
	msg, err := NewMessage(TypePlayerReady, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(msg.Data))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    MessageType
		wantErr error
	}{
		{name: "player choice", line: `{"type":"player_choice","timestamp":1.5,"data":{"choice":"rock"}}`, want: TypePlayerChoice},
		{name: "reserved type", line: `{"type":"chat_message","timestamp":1,"data":{"text":"hi"}}`, want: TypeChatMessage},
		{name: "missing data", line: `{"type":"game_start","timestamp":1}`, want: TypeGameStart},
		{name: "trailing newline", line: "{\"type\":\"connect\",\"timestamp\":1,\"data\":{}}\n", want: TypeConnect},
		{name: "truncated json", line: `{"type":"player_ch`, wantErr: ErrMalformed},
		{name: "unknown type", line: `{"type":"not_a_real_type","timestamp":1,"data":{}}`, wantErr: ErrUnknownType},
		{name: "missing type", line: `{"timestamp":1,"data":{}}`, wantErr: ErrMalformed},
		{name: "null data", line: `{"type":"connect","timestamp":1,"data":null}`, want: TypeConnect},
		{name: "number data", line: `{"type":"player_choice","timestamp":1,"data":5}`, wantErr: ErrMalformed},
		{name: "string data", line: `{"type":"player_choice","timestamp":1,"data":"rock"}`, wantErr: ErrMalformed},
		{name: "array data", line: `{"type":"player_choice","timestamp":1,"data":["rock"]}`, wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.line))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got error %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg.Type)
			assert.NotEmpty(t, msg.Data)
		})
	}
}

func TestMessage_Choice(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"player_choice","timestamp":1,"data":{"choice":"scissors"}}`))
	require.NoError(t, err)

	choice, err := msg.Choice()
	require.NoError(t, err)
	assert.Equal(t, game.Scissors, choice)

	bad, err := Decode([]byte(`{"type":"player_choice","timestamp":1,"data":{"choice":"lizard"}}`))
	require.NoError(t, err)
	_, err = bad.Choice()
	assert.ErrorIs(t, err, game.ErrInvalidMove)

	other, err := NewMessage(TypeGameStart, nil)
	require.NoError(t, err)
	_, err = other.Choice()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestMessage_Time(t *testing.T) {
	msg := &Message{Timestamp: 1700000000.25}
	assert.WithinDuration(t, time.Unix(1700000000, 250000000), msg.Time(), time.Millisecond)
}
