package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"hansa-teutonica/internal/game"
)

// GameStatus represents the lifecycle stage of a hosted game.
type GameStatus string

const (
	GameStatusActive   GameStatus = "active"   // Accepting actions
	GameStatusFinished GameStatus = "finished" // Reached game over
	GameStatusAborted  GameStatus = "aborted"  // Closed after an internal error
)

// GameInfo contains basic game information for listings.
type GameInfo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	MapID       string     `json:"map_id"`
	Status      GameStatus `json:"status"`
	PlayerCount int        `json:"player_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Game contains full game data.
type Game struct {
	GameInfo
	Settings  GameSettings       `json:"settings"`
	Seats     []game.PlayerSetup `json:"seats"`
	EndedAt   *time.Time         `json:"ended_at,omitempty"`
	EndReason string             `json:"end_reason,omitempty"`
}

// GameSettings are the parameters a game was created with.
type GameSettings struct {
	MapID      string `json:"map_id"`
	Seed       uint64 `json:"seed"`
	ScoreLimit int    `json:"score_limit"`
}

// GameState is the latest stored snapshot of a game.
type GameState struct {
	GameID        string
	StateJSON     string
	Tensor        string
	CurrentPlayer int
	StateKind     string
	UpdatedAt     time.Time
}

// ActionRecord is one accepted action from the log.
type ActionRecord struct {
	ID         int64
	GameID     string
	Player     int
	ActionType string
	ActionJSON string
	CreatedAt  time.Time
}

// ErrGameNotFound is returned when a game is not found.
var ErrGameNotFound = errors.New("game not found")

// ErrStateNotFound is returned when a game has no stored snapshot.
var ErrStateNotFound = errors.New("game state not found")

// CreateGame records a new game under the engine's game id.
func (db *DB) CreateGame(id, name string, settings GameSettings, seats []game.PlayerSetup) (*Game, error) {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	seatsJSON, err := json.Marshal(seats)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = db.conn.Exec(`
		INSERT INTO games (id, name, map_id, status, settings_json, seats_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, name, settings.MapID, GameStatusActive, string(settingsJSON), string(seatsJSON), now)
	if err != nil {
		return nil, errors.Wrapf(err, "create game %s", id)
	}

	return &Game{
		GameInfo: GameInfo{
			ID:          id,
			Name:        name,
			MapID:       settings.MapID,
			Status:      GameStatusActive,
			PlayerCount: len(seats),
			CreatedAt:   now,
		},
		Settings: settings,
		Seats:    seats,
	}, nil
}

// GetGame retrieves a game by ID.
func (db *DB) GetGame(id string) (*Game, error) {
	var g Game
	var settingsJSON, seatsJSON string
	var endedAt sql.NullTime
	var endReason sql.NullString

	err := db.conn.QueryRow(`
		SELECT id, name, map_id, status, settings_json, seats_json, created_at, ended_at, end_reason
		FROM games WHERE id = ?
	`, id).Scan(&g.ID, &g.Name, &g.MapID, &g.Status, &settingsJSON, &seatsJSON,
		&g.CreatedAt, &endedAt, &endReason)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		g.EndedAt = &endedAt.Time
	}
	g.EndReason = endReason.String

	if err := json.Unmarshal([]byte(settingsJSON), &g.Settings); err != nil {
		return nil, errors.Wrap(err, "decode settings")
	}
	if err := json.Unmarshal([]byte(seatsJSON), &g.Seats); err != nil {
		return nil, errors.Wrap(err, "decode seats")
	}
	g.PlayerCount = len(g.Seats)

	return &g, nil
}

// ListGames returns games, newest first. With no statuses every game is
// listed.
func (db *DB) ListGames(statuses ...GameStatus) ([]*GameInfo, error) {
	query := `SELECT id, name, map_id, status, seats_json, created_at FROM games`
	args := make([]any, 0, len(statuses))
	for i, s := range statuses {
		if i == 0 {
			query += ` WHERE status IN (?`
		} else {
			query += `, ?`
		}
		args = append(args, s)
	}
	if len(statuses) > 0 {
		query += `)`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*GameInfo
	for rows.Next() {
		var g GameInfo
		var seatsJSON string
		if err := rows.Scan(&g.ID, &g.Name, &g.MapID, &g.Status, &seatsJSON, &g.CreatedAt); err != nil {
			return nil, err
		}
		var seats []game.PlayerSetup
		if err := json.Unmarshal([]byte(seatsJSON), &seats); err != nil {
			return nil, errors.Wrapf(err, "decode seats of %s", g.ID)
		}
		g.PlayerCount = len(seats)
		games = append(games, &g)
	}
	return games, rows.Err()
}

// EndGame marks a game finished or aborted.
func (db *DB) EndGame(gameID string, status GameStatus, reason string) error {
	result, err := db.conn.Exec(`
		UPDATE games SET status = ?, ended_at = ?, end_reason = ? WHERE id = ?
	`, status, time.Now(), reason, gameID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrGameNotFound
	}
	return nil
}

// SaveGameState replaces the stored snapshot of a game.
func (db *DB) SaveGameState(s GameState) error {
	_, err := db.conn.Exec(`
		INSERT INTO game_state (game_id, state_json, tensor, current_player, state_kind, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			state_json = excluded.state_json,
			tensor = excluded.tensor,
			current_player = excluded.current_player,
			state_kind = excluded.state_kind,
			updated_at = excluded.updated_at
	`, s.GameID, s.StateJSON, s.Tensor, s.CurrentPlayer, s.StateKind, time.Now())
	return err
}

// GetGameState retrieves the latest snapshot of a game.
func (db *DB) GetGameState(gameID string) (*GameState, error) {
	s := GameState{GameID: gameID}
	err := db.conn.QueryRow(`
		SELECT state_json, tensor, current_player, state_kind, updated_at
		FROM game_state WHERE game_id = ?
	`, gameID).Scan(&s.StateJSON, &s.Tensor, &s.CurrentPlayer, &s.StateKind, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LogAction appends an accepted action to the game's log.
func (db *DB) LogAction(gameID string, player int, actionType, actionJSON string) error {
	_, err := db.conn.Exec(`
		INSERT INTO game_actions (game_id, player, action_type, action_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, gameID, player, actionType, actionJSON, time.Now())
	return err
}

// GetActions returns a game's action log in the order it was written.
func (db *DB) GetActions(gameID string) ([]*ActionRecord, error) {
	rows, err := db.conn.Query(`
		SELECT id, game_id, player, action_type, action_json, created_at
		FROM game_actions
		WHERE game_id = ?
		ORDER BY id ASC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*ActionRecord
	for rows.Next() {
		a := &ActionRecord{}
		if err := rows.Scan(&a.ID, &a.GameID, &a.Player, &a.ActionType, &a.ActionJSON, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// DeleteGame permanently deletes a game and all associated data.
func (db *DB) DeleteGame(gameID string) error {
	return db.withTx(func(tx *sql.Tx) error {
		for _, table := range []string{"game_history", "game_actions", "game_state", "game_seats"} {
			if _, err := tx.Exec(`DELETE FROM `+table+` WHERE game_id = ?`, gameID); err != nil {
				return errors.Wrapf(err, "clear %s", table)
			}
		}
		result, err := tx.Exec(`DELETE FROM games WHERE id = ?`, gameID)
		if err != nil {
			return err
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return ErrGameNotFound
		}
		return nil
	})
}
