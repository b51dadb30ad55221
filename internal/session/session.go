// Package session hosts one game: it applies actions through the engine,
// logs the outcome and persists every accepted action.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/tensor"
	"hansa-teutonica/pkg/maps"
)

// ErrAborted is returned for every action after an internal error
// closed the session.
var ErrAborted = errors.New("session aborted")

// Store is the persistence a session needs. *database.DB satisfies it.
type Store interface {
	CreateGame(id, name string, settings database.GameSettings, seats []game.PlayerSetup) (*database.Game, error)
	SaveGameState(s database.GameState) error
	LogAction(gameID string, player int, actionType, actionJSON string) error
	AddHistoryEvent(gameID string, player int, playerName, eventType, message string) error
	EndGame(gameID string, status database.GameStatus, reason string) error
}

// Session owns a game. It is not safe for concurrent use; callers
// serialize access (the ebiten update loop or a session actor).
type Session struct {
	name    string
	game    *game.Game
	store   Store
	aborted error
}

// Options describe a new game.
type Options struct {
	Name     string
	MapID    string
	Seats    []game.PlayerSetup
	Settings game.Settings
}

// New starts a game on a registered map. A nil store keeps the game in
// memory only.
func New(opts Options, store Store) (*Session, error) {
	m := maps.Get(opts.MapID)
	if m == nil {
		return nil, errors.Wrapf(game.ErrConfig, "unknown map %q", opts.MapID)
	}
	g, err := game.NewGame(m.Data, opts.Seats, opts.Settings)
	if err != nil {
		return nil, err
	}
	name := opts.Name
	if name == "" {
		name = m.Name
	}

	s := &Session{name: name, game: g, store: store}
	if store != nil {
		settings := database.GameSettings{MapID: m.ID, Seed: g.Settings.Seed, ScoreLimit: g.Settings.ScoreLimit}
		if _, err := store.CreateGame(g.ID, name, settings, seatsOf(g)); err != nil {
			return nil, errors.WithMessage(err, "record game")
		}
		s.save()
		s.history(game.NoPlayer, database.EventGameStart, fmt.Sprintf("%s started on %s with %d players", name, m.Name, len(g.Players)))
	}

	logs.Info("game created",
		zap.String("game", g.ID),
		zap.String("map", m.ID),
		zap.Int("players", len(g.Players)),
		zap.Uint64("seed", g.Settings.Seed))
	return s, nil
}

// Restore resumes a stored game from its latest snapshot.
func Restore(rec *database.Game, state *database.GameState, store Store) (*Session, error) {
	var g game.Game
	if err := json.Unmarshal([]byte(state.StateJSON), &g); err != nil {
		return nil, errors.Wrapf(err, "decode state of %s", rec.ID)
	}
	if maps.Get(g.MapID) == nil {
		return nil, errors.Wrapf(game.ErrConfig, "game %s uses unknown map %q", rec.ID, g.MapID)
	}
	s := &Session{name: rec.Name, game: &g, store: store}
	if rec.Status == database.GameStatusAborted {
		s.aborted = errors.Wrap(ErrAborted, rec.EndReason)
	}
	logs.Info("game restored", zap.String("game", g.ID), zap.Stringer("state", g.State.Kind))
	return s, nil
}

func seatsOf(g *game.Game) []game.PlayerSetup {
	seats := make([]game.PlayerSetup, len(g.Players))
	for i, p := range g.Players {
		seats[i] = game.PlayerSetup{Name: p.Name, Color: p.Color}
	}
	return seats
}

// ID returns the game id.
func (s *Session) ID() string { return s.game.ID }

// Name returns the display name.
func (s *Session) Name() string { return s.name }

// Game exposes the hosted game for reading.
func (s *Session) Game() *game.Game { return s.game }

// Aborted returns the error that closed the session, if any.
func (s *Session) Aborted() error { return s.aborted }

// Apply runs one action for player. Rejections leave the game as it
// was. An internal error aborts the session and every later call fails
// with ErrAborted.
func (s *Session) Apply(player game.PlayerID, a game.Action) error {
	if s.aborted != nil {
		return s.aborted
	}
	g := s.game

	if err := g.Apply(player, a); err != nil {
		if game.IsInternal(err) {
			s.abort(err)
			return err
		}
		logs.Info("action rejected",
			zap.String("game", g.ID),
			zap.Int("player", int(player)),
			zap.String("action", string(a.Type)),
			zap.Error(err))
		return err
	}

	logs.Debug("action applied",
		zap.String("game", g.ID),
		zap.Int("player", int(player)),
		zap.String("action", string(a.Type)),
		zap.Stringer("state", g.State.Kind))
	s.record(player, a)

	if g.IsOver() {
		logs.Info("game finished", zap.String("game", g.ID), zap.String("reason", g.EndReason), zap.Any("winners", g.Winners))
		s.history(game.NoPlayer, database.EventGameEnd, s.describeEnd())
		if s.store != nil {
			if err := s.store.EndGame(g.ID, database.GameStatusFinished, g.EndReason); err != nil {
				logs.Error("failed to mark game finished", zap.String("game", g.ID), zap.Error(err))
			}
		}
	}
	return nil
}

// Tensor encodes the current state in the tensor text format.
func (s *Session) Tensor() (string, error) {
	snap, err := tensor.Encode(s.game)
	if err != nil {
		return "", err
	}
	return snap.String(), nil
}

func (s *Session) abort(err error) {
	s.aborted = errors.Wrap(ErrAborted, err.Error())
	logs.Error("internal error, session closed", zap.String("game", s.game.ID), zap.Error(err))
	if s.store == nil {
		return
	}
	s.history(game.NoPlayer, database.EventAborted, err.Error())
	if err := s.store.EndGame(s.game.ID, database.GameStatusAborted, err.Error()); err != nil {
		logs.Error("failed to mark game aborted", zap.String("game", s.game.ID), zap.Error(err))
	}
}

// record persists an accepted action. Storage failures are logged; the
// game itself already moved on.
func (s *Session) record(player game.PlayerID, a game.Action) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(a)
	if err != nil {
		logs.Error("failed to encode action", zap.String("game", s.game.ID), zap.Error(err))
		return
	}
	if err := s.store.LogAction(s.game.ID, int(player), string(a.Type), string(data)); err != nil {
		logs.Error("failed to log action", zap.String("game", s.game.ID), zap.Error(err))
	}
	if event, msg := s.describe(player, a); event != "" {
		s.history(player, event, msg)
	}
	s.save()
}

func (s *Session) save() {
	g := s.game
	data, err := json.Marshal(g)
	if err != nil {
		logs.Error("failed to encode game", zap.String("game", g.ID), zap.Error(err))
		return
	}
	text, err := s.Tensor()
	if err != nil {
		logs.Warn("tensor snapshot skipped", zap.String("game", g.ID), zap.Error(err))
	}
	err = s.store.SaveGameState(database.GameState{
		GameID:        g.ID,
		StateJSON:     string(data),
		Tensor:        text,
		CurrentPlayer: int(g.Current),
		StateKind:     g.State.Kind.String(),
	})
	if err != nil {
		logs.Error("failed to save game state", zap.String("game", g.ID), zap.Error(err))
	}
}

func (s *Session) history(player game.PlayerID, event, msg string) {
	if s.store == nil {
		return
	}
	name := ""
	if p := s.game.Player(player); p != nil {
		name = p.Name
	}
	if err := s.store.AddHistoryEvent(s.game.ID, int(player), name, event, msg); err != nil {
		logs.Error("failed to add history event", zap.String("game", s.game.ID), zap.Error(err))
	}
}
