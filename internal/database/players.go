package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Player represents a connecting client in the database.
type Player struct {
	ID         string
	Token      string
	Name       string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// Seat links a player record to an engine seat of a game.
type Seat struct {
	GameID   string
	Seat     int
	PlayerID string
	Name     string
	JoinedAt time.Time
}

// ErrPlayerNotFound is returned when a player is not found.
var ErrPlayerNotFound = errors.New("player not found")

// ErrSeatTaken is returned when another player already holds a seat.
var ErrSeatTaken = errors.New("seat is taken")

// CreatePlayer creates a new player with a generated token.
func (db *DB) CreatePlayer(name string) (*Player, error) {
	id := uuid.New().String()
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = db.conn.Exec(`
		INSERT INTO players (id, token, name, created_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, token, name, now, now)
	if err != nil {
		return nil, err
	}

	return &Player{
		ID:         id,
		Token:      token,
		Name:       name,
		CreatedAt:  now,
		LastSeenAt: now,
	}, nil
}

// GetPlayerByToken retrieves a player by their token and marks them seen.
func (db *DB) GetPlayerByToken(token string) (*Player, error) {
	var p Player
	err := db.conn.QueryRow(`
		SELECT id, token, name, created_at, last_seen_at
		FROM players WHERE token = ?
	`, token).Scan(&p.ID, &p.Token, &p.Name, &p.CreatedAt, &p.LastSeenAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	p.LastSeenAt = time.Now()
	if _, err := db.conn.Exec(`UPDATE players SET last_seen_at = ? WHERE id = ?`, p.LastSeenAt, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ClaimSeat gives seat of gameID to playerID. Claiming a seat the
// player already holds is a no-op.
func (db *DB) ClaimSeat(gameID string, seat int, playerID string) error {
	var holder string
	err := db.conn.QueryRow(`
		SELECT player_id FROM game_seats WHERE game_id = ? AND seat = ?
	`, gameID, seat).Scan(&holder)
	switch {
	case err == nil && holder == playerID:
		return nil
	case err == nil:
		return errors.Wrapf(ErrSeatTaken, "seat %d of %s", seat, gameID)
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	_, err = db.conn.Exec(`
		INSERT INTO game_seats (game_id, seat, player_id, joined_at)
		VALUES (?, ?, ?, ?)
	`, gameID, seat, playerID, time.Now())
	return err
}

// GetSeats lists the claimed seats of a game.
func (db *DB) GetSeats(gameID string) ([]*Seat, error) {
	rows, err := db.conn.Query(`
		SELECT s.game_id, s.seat, s.player_id, p.name, s.joined_at
		FROM game_seats s
		JOIN players p ON p.id = s.player_id
		WHERE s.game_id = ?
		ORDER BY s.seat
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []*Seat
	for rows.Next() {
		s := &Seat{}
		if err := rows.Scan(&s.GameID, &s.Seat, &s.PlayerID, &s.Name, &s.JoinedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// generateToken creates a secure random token.
func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
