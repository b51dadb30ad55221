package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/protocol"
	"hansa-teutonica/internal/session"
	"hansa-teutonica/pkg/maps"
)

// CreateGameRequest is the body of POST /api/games.
type CreateGameRequest struct {
	Name       string             `json:"name"`
	MapID      string             `json:"map_id" binding:"required"`
	Players    []game.PlayerSetup `json:"players" binding:"required"`
	Seed       uint64             `json:"seed"`
	ScoreLimit int                `json:"score_limit"`
}

// CreateGameResponse answers POST /api/games.
type CreateGameResponse struct {
	ID    string `json:"id"`
	MapID string `json:"map_id"`
}

// GameResponse is a game record plus the clients connected to it.
type GameResponse struct {
	*database.Game
	Seats     []SeatResponse `json:"claimed_seats"`
	Connected int            `json:"connected"`
}

// SeatResponse is one claimed seat.
type SeatResponse struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

func (s *Server) listMaps(c *gin.Context) {
	c.JSON(http.StatusOK, maps.List())
}

func (s *Server) listGames(c *gin.Context) {
	var statuses []database.GameStatus
	if status := c.Query("status"); status != "" {
		statuses = append(statuses, database.GameStatus(status))
	}
	games, err := s.db.ListGames(statuses...)
	if err != nil {
		s.fail(c, err)
		return
	}
	if games == nil {
		games = []*database.GameInfo{}
	}
	c.JSON(http.StatusOK, games)
}

func (s *Server) createGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := s.runtime.CreateGame(c.Request.Context(), session.Options{
		Name:     req.Name,
		MapID:    req.MapID,
		Seats:    req.Players,
		Settings: game.Settings{Seed: req.Seed, ScoreLimit: req.ScoreLimit},
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateGameResponse{ID: rep.GameID, MapID: rep.MapID})
}

func (s *Server) getGame(c *gin.Context) {
	id := c.Param("id")
	rec, err := s.db.GetGame(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	seats, err := s.db.GetSeats(id)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := GameResponse{Game: rec, Seats: []SeatResponse{}, Connected: s.hub.ClientCount(id)}
	for _, seat := range seats {
		resp.Seats = append(resp.Seats, SeatResponse{Seat: seat.Seat, Name: seat.Name})
	}
	c.JSON(http.StatusOK, resp)
}

// deleteGame removes a game and tells its connected players.
func (s *Server) deleteGame(c *gin.Context) {
	id := c.Param("id")
	if err := s.runtime.DeleteGame(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	msg, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{
		Code:    protocol.ErrCodeGameNotFound,
		Message: "game deleted",
	})
	if err == nil {
		s.hub.Broadcast(id, msg)
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getTensor(c *gin.Context) {
	text, err := s.runtime.Tensor(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

func (s *Server) getHistory(c *gin.Context) {
	events, err := s.db.GetGameHistory(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if events == nil {
		events = []*database.HistoryEvent{}
	}
	c.JSON(http.StatusOK, events)
}

// fail maps an error to a status code.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownGame), errors.Is(err, database.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrConfig):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
