package protocol

import "hansa-teutonica/internal/game"

// JoinGamePayload asks for a seat in a hosted game. A client that
// already joined presents its token instead of a name.
type JoinGamePayload struct {
	GameID string `json:"game_id"`
	Seat   int    `json:"seat"`
	Name   string `json:"name,omitempty"`
	Token  string `json:"token,omitempty"`
}

// JoinedGamePayload confirms a seat.
type JoinedGamePayload struct {
	GameID string        `json:"game_id"`
	Seat   game.PlayerID `json:"seat"`
	Token  string        `json:"token"`
	MapID  string        `json:"map_id"`
}

// ActionPayload carries one engine action for the sender's seat.
type ActionPayload struct {
	Action game.Action `json:"action"`
}

// GameStatePayload is the full state after every accepted action.
type GameStatePayload struct {
	State  *game.Game `json:"state"`
	Tensor string     `json:"tensor,omitempty"`
}

// GameHistoryPayload lists readable history lines.
type GameHistoryPayload struct {
	Events []HistoryEvent `json:"events"`
}

// HistoryEvent is one history line.
type HistoryEvent struct {
	Player     int    `json:"player"`
	PlayerName string `json:"player_name"`
	EventType  string `json:"event_type"`
	Message    string `json:"message"`
}

// GameEndedPayload announces the result.
type GameEndedPayload struct {
	Reason  string          `json:"reason"`
	Winners []game.PlayerID `json:"winners"`
	Scores  []int           `json:"scores"`
}
