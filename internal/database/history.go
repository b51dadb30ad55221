package database

import "time"

// HistoryEvent represents a single game event in the history log.
type HistoryEvent struct {
	ID         int64     `json:"id"`
	GameID     string    `json:"game_id"`
	Player     int       `json:"player"`
	PlayerName string    `json:"player_name"`
	EventType  string    `json:"event_type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Event types for game history
const (
	EventGameStart    = "game_start"
	EventPostClaimed  = "post_claimed"
	EventDisplacement = "displacement"
	EventMove         = "move"
	EventIncome       = "income"
	EventRouteClaimed = "route_claimed"
	EventMarker       = "marker"
	EventTurnEnd      = "turn_end"
	EventGameEnd      = "game_end"
	EventAborted      = "aborted"
)

// AddHistoryEvent adds a new event to the game history.
func (db *DB) AddHistoryEvent(gameID string, player int, playerName, eventType, message string) error {
	_, err := db.conn.Exec(`
		INSERT INTO game_history (game_id, player, player_name, event_type, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, gameID, player, playerName, eventType, message, time.Now())
	return err
}

// GetGameHistory retrieves all history events for a game, ordered chronologically.
func (db *DB) GetGameHistory(gameID string) ([]*HistoryEvent, error) {
	return db.GetGameHistorySince(gameID, 0)
}

// GetGameHistorySince retrieves history events after a given ID (for incremental updates).
func (db *DB) GetGameHistorySince(gameID string, afterID int64) ([]*HistoryEvent, error) {
	rows, err := db.conn.Query(`
		SELECT id, game_id, player, player_name, event_type, message, created_at
		FROM game_history
		WHERE game_id = ? AND id > ?
		ORDER BY id ASC
	`, gameID, afterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*HistoryEvent
	for rows.Next() {
		e := &HistoryEvent{}
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.PlayerName, &e.EventType, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
