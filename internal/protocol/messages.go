// Package protocol defines the network message types for client-server communication.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"hansa-teutonica/internal/game"
)

// MessageType identifies the type of message.
type MessageType string

// Session message types
const (
	TypeJoinGame   MessageType = "join_game"
	TypeJoinedGame MessageType = "joined_game"
)

// Game flow message types
const (
	TypeAction      MessageType = "action"
	TypeGameState   MessageType = "game_state"
	TypeGameEnded   MessageType = "game_ended"
	TypeGameHistory MessageType = "game_history"
)

// System message types
const (
	TypeError MessageType = "error"
	TypePing  MessageType = "ping"
	TypePong  MessageType = "pong"
)

// Message is the envelope for all messages.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s payload", msgType)
	}
	return &Message{
		Type:      msgType,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   data,
	}, nil
}

// ParsePayload unmarshals the payload into the given type.
func (m *Message) ParsePayload(v any) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return errors.Wrapf(err, "decode %s payload", m.Type)
	}
	return nil
}

// ErrorCode represents an error type.
type ErrorCode string

const (
	ErrCodeInvalidAction     ErrorCode = "invalid_action"
	ErrCodeNotYourTurn       ErrorCode = "not_your_turn"
	ErrCodeWrongState        ErrorCode = "wrong_state"
	ErrCodeInvalidTarget     ErrorCode = "invalid_target"
	ErrCodeInsufficientPiece ErrorCode = "insufficient_supply"
	ErrCodeNoPrivilege       ErrorCode = "no_privilege"
	ErrCodeGameOver          ErrorCode = "game_over"
	ErrCodeGameNotFound      ErrorCode = "game_not_found"
	ErrCodeSeatTaken         ErrorCode = "seat_taken"
	ErrCodeNotJoined         ErrorCode = "not_joined"
	ErrCodeBadMessage        ErrorCode = "bad_message"
	ErrCodeInternalError     ErrorCode = "internal_error"
)

// CodeFor classifies an engine error for the client.
func CodeFor(err error) ErrorCode {
	switch {
	case game.IsInternal(err):
		return ErrCodeInternalError
	case errors.Is(err, game.ErrNotYourTurn):
		return ErrCodeNotYourTurn
	case errors.Is(err, game.ErrWrongState):
		return ErrCodeWrongState
	case errors.Is(err, game.ErrInvalidTarget), errors.Is(err, game.ErrPostOccupied):
		return ErrCodeInvalidTarget
	case errors.Is(err, game.ErrInsufficientSupply):
		return ErrCodeInsufficientPiece
	case errors.Is(err, game.ErrNoPrivilege), errors.Is(err, game.ErrRegionTransition):
		return ErrCodeNoPrivilege
	case errors.Is(err, game.ErrGameOver):
		return ErrCodeGameOver
	default:
		return ErrCodeInvalidAction
	}
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
