package ws

import (
	"encoding/json"

	"tienlen/internal/domain"
)

// Client to server events.
const (
	EventStartGame     = "start_game"
	EventPlayMove      = "play_move"
	EventPass          = "pass"
	EventSetDifficulty = "set_difficulty"
	EventSync          = "sync"
)

// Server to client events.
const (
	EventState  = "state"
	EventEvents = "events"
	EventError  = "error"
)

type OutgoingMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type IncomingMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type PlayMoveRequest struct {
	Cards []domain.Card `json:"cards"`
}

type DifficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateSessionRequest is the body of POST /api/sessions.
type CreateSessionRequest struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

type CreateSessionResponse struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Token    string `json:"token"`
}
