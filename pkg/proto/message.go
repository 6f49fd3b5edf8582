package proto

import (
	"bytes"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"ctchen222/Rock-Paper-Scissors/internal/validator"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MessageType tags every message exchanged between peers.
type MessageType string

const (
	TypeConnect      MessageType = "connect"
	TypeDisconnect   MessageType = "disconnect"
	TypeGameStart    MessageType = "game_start"
	TypePlayerReady  MessageType = "player_ready"
	TypePlayerChoice MessageType = "player_choice"
	TypeGameResult   MessageType = "game_result"
	TypeChatMessage  MessageType = "chat_message"
	TypeError        MessageType = "error"
)

// Delimiter terminates every encoded message on the wire.
const Delimiter = '\n'

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

var emptyData = json.RawMessage(`{}`)

var now = time.Now

// Message is the envelope written to the wire as a single JSON line.
type Message struct {
	Type      MessageType     `json:"type" validate:"required,oneof=connect disconnect game_start player_ready player_choice game_result chat_message error"`
	Timestamp float64         `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// PlayerChoiceData is the payload of a player_choice message.
type PlayerChoiceData struct {
	Choice game.Move `json:"choice" validate:"required,move"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Reason string `json:"reason"`
}

// NewMessage builds a message stamped with the current time. A nil data encodes as {}.
func NewMessage(t MessageType, data any) (*Message, error) {
	raw := emptyData
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s data: %w", t, err)
		}
		raw = b
	}
	return &Message{
		Type:      t,
		Timestamp: float64(now().UnixNano()) / float64(time.Second),
		Data:      raw,
	}, nil
}

// Encode serializes m and appends the line delimiter.
func Encode(m *Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return append(b, Delimiter), nil
}

// Decode parses a single line into a validated message.
func Decode(line []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(bytes.TrimSpace(line), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validator.GetValidator().Struct(m); err != nil {
		if m.Type == "" {
			return nil, fmt.Errorf("%w: missing type", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	data := bytes.TrimSpace(m.Data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		m.Data = emptyData
	case data[0] != '{':
		return nil, fmt.Errorf("%w: data must be an object", ErrMalformed)
	}
	return &m, nil
}

// Choice extracts the move carried by a player_choice message.
func (m *Message) Choice() (game.Move, error) {
	if m.Type != TypePlayerChoice {
		return game.None, fmt.Errorf("%w: %s carries no choice", ErrMalformed, m.Type)
	}
	var data PlayerChoiceData
	if err := json.Unmarshal(m.Data, &data); err != nil {
		return game.None, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validator.GetValidator().Struct(data); err != nil {
		return game.None, fmt.Errorf("%w: %q", game.ErrInvalidMove, data.Choice)
	}
	return data.Choice, nil
}

// Time converts the float timestamp back to a time.Time.
func (m *Message) Time() time.Time {
	sec := int64(m.Timestamp)
	nsec := int64((m.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
