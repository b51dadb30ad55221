package server

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/protocol"
	"hansa-teutonica/internal/session"
)

// Handlers processes incoming websocket messages.
type Handlers struct {
	db      *database.DB
	hub     *Hub
	runtime *Runtime
}

// NewHandlers creates a new handler set.
func NewHandlers(db *database.DB, hub *Hub, runtime *Runtime) *Handlers {
	return &Handlers{db: db, hub: hub, runtime: runtime}
}

// Handle routes a message to the appropriate handler.
func (h *Handlers) Handle(ctx context.Context, client *Client, msg *protocol.Message) {
	var err error

	switch msg.Type {
	case protocol.TypeJoinGame:
		err = h.handleJoinGame(ctx, client, msg)
	case protocol.TypeAction:
		err = h.handleAction(ctx, client, msg)
	case protocol.TypeGameHistory:
		err = h.handleHistory(client, msg)
	case protocol.TypePing:
		err = h.reply(client, msg.ID, protocol.TypePong, struct{}{})
	default:
		err = errors.Errorf("unknown message type %q", msg.Type)
	}

	if err != nil {
		h.sendError(client, msg.ID, err)
	}
}

var (
	errNotJoined  = errors.New("join a game first")
	errBadSeat    = errors.New("no such seat")
	errBadPayload = errors.New("malformed payload")
)

func (h *Handlers) handleJoinGame(ctx context.Context, client *Client, msg *protocol.Message) error {
	var payload protocol.JoinGamePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return errors.Wrap(errBadPayload, err.Error())
	}

	// Loads the game into an actor if it is only stored.
	state, err := h.runtime.State(ctx, payload.GameID)
	if err != nil {
		return err
	}
	rec, err := h.db.GetGame(payload.GameID)
	if err != nil {
		return err
	}
	if payload.Seat < 0 || payload.Seat >= len(rec.Seats) {
		return errors.Wrapf(errBadSeat, "seat %d of %d", payload.Seat, len(rec.Seats))
	}

	var player *database.Player
	if payload.Token != "" {
		player, err = h.db.GetPlayerByToken(payload.Token)
	} else {
		name := payload.Name
		if name == "" {
			name = rec.Seats[payload.Seat].Name
		}
		player, err = h.db.CreatePlayer(name)
	}
	if err != nil {
		return err
	}
	if err := h.db.ClaimSeat(rec.ID, payload.Seat, player.ID); err != nil {
		return err
	}

	h.hub.Join(client, rec.ID, game.PlayerID(payload.Seat))
	client.Name = player.Name
	logs.Info("player joined",
		zap.String("game", rec.ID),
		zap.Int("seat", payload.Seat),
		zap.String("player", player.Name))

	err = h.reply(client, msg.ID, protocol.TypeJoinedGame, protocol.JoinedGamePayload{
		GameID: rec.ID,
		Seat:   game.PlayerID(payload.Seat),
		Token:  player.Token,
		MapID:  state.MapID,
	})
	if err != nil {
		return err
	}
	client.Send(state.State)
	return nil
}

func (h *Handlers) handleAction(ctx context.Context, client *Client, msg *protocol.Message) error {
	if client.GameID == "" {
		return errNotJoined
	}
	var payload protocol.ActionPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return errors.Wrap(errBadPayload, err.Error())
	}

	rep, err := h.runtime.Apply(ctx, client.GameID, client.Seat, payload.Action)
	if err != nil {
		return err
	}
	h.hub.Broadcast(client.GameID, rep.State)
	if rep.Ended != nil {
		h.hub.Broadcast(client.GameID, rep.Ended)
	}
	return nil
}

func (h *Handlers) handleHistory(client *Client, msg *protocol.Message) error {
	if client.GameID == "" {
		return errNotJoined
	}
	events, err := h.db.GetGameHistory(client.GameID)
	if err != nil {
		return err
	}
	payload := protocol.GameHistoryPayload{Events: make([]protocol.HistoryEvent, 0, len(events))}
	for _, e := range events {
		payload.Events = append(payload.Events, protocol.HistoryEvent{
			Player:     e.Player,
			PlayerName: e.PlayerName,
			EventType:  e.EventType,
			Message:    e.Message,
		})
	}
	return h.reply(client, msg.ID, protocol.TypeGameHistory, payload)
}

// reply sends a response carrying the request's message id.
func (h *Handlers) reply(client *Client, id string, typ protocol.MessageType, payload any) error {
	resp, err := protocol.NewMessage(typ, payload)
	if err != nil {
		return err
	}
	resp.ID = id
	client.Send(resp)
	return nil
}

func (h *Handlers) sendError(client *Client, msgID string, err error) {
	code := errorCode(err)
	if code == protocol.ErrCodeInternalError {
		logs.Error("request failed", zap.String("game", client.GameID), zap.Error(err))
	}
	resp, merr := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Code: code, Message: err.Error()})
	if merr != nil {
		return
	}
	resp.ID = msgID
	client.Send(resp)
}

func errorCode(err error) protocol.ErrorCode {
	switch {
	case errors.Is(err, ErrUnknownGame), errors.Is(err, database.ErrGameNotFound):
		return protocol.ErrCodeGameNotFound
	case errors.Is(err, database.ErrSeatTaken), errors.Is(err, database.ErrPlayerNotFound):
		return protocol.ErrCodeSeatTaken
	case errors.Is(err, errNotJoined):
		return protocol.ErrCodeNotJoined
	case errors.Is(err, errBadPayload):
		return protocol.ErrCodeBadMessage
	case errors.Is(err, errBadSeat):
		return protocol.ErrCodeInvalidTarget
	case errors.Is(err, session.ErrAborted):
		return protocol.ErrCodeInternalError
	}
	return protocol.CodeFor(err)
}
