package server

import (
	"github.com/asynkron/protoactor-go/actor"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/protocol"
	"hansa-teutonica/internal/session"
)

// ErrUnknownGame is returned for requests naming a game that is neither
// running nor stored.
var ErrUnknownGame = errors.New("unknown game")

// Messages understood by the actors. Every request is answered with a
// *Reply.
type (
	createGame struct {
		opts session.Options
	}
	applyAction struct {
		game   string
		seat   game.PlayerID
		action game.Action
	}
	stateRequest struct {
		game string
	}
	tensorRequest struct {
		game string
	}
	deleteGame struct {
		game string
	}
)

// gameRequest is implemented by messages the manager forwards to a
// session actor.
type gameRequest interface {
	gameID() string
}

func (m *applyAction) gameID() string   { return m.game }
func (m *stateRequest) gameID() string  { return m.game }
func (m *tensorRequest) gameID() string { return m.game }

// Reply is the answer to every request.
type Reply struct {
	GameID string
	MapID  string
	State  *protocol.Message // game_state after the request
	Ended  *protocol.Message // game_ended when the request finished the game
	Tensor string
	Err    error
}

// ManagerActor owns one SessionActor per hosted game. It restores
// stored games on first use.
type ManagerActor struct {
	db       *database.DB
	sessions map[string]*actor.PID
}

func NewManagerActor(db *database.DB) *ManagerActor {
	return &ManagerActor{
		db:       db,
		sessions: make(map[string]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.Debug("session manager started")
	case *createGame:
		s, err := session.New(msg.opts, m.store())
		if err != nil {
			ctx.Respond(&Reply{Err: err})
			return
		}
		m.spawn(ctx, s)
		ctx.Respond(&Reply{GameID: s.ID(), MapID: s.Game().MapID})
	case *deleteGame:
		ctx.Respond(&Reply{GameID: msg.game, Err: m.remove(ctx, msg.game)})
	case gameRequest:
		pid, err := m.lookup(ctx, msg.gameID())
		if err != nil {
			ctx.Respond(&Reply{Err: err})
			return
		}
		ctx.Forward(pid)
	}
}

func (m *ManagerActor) store() session.Store {
	if m.db == nil {
		return nil
	}
	return m.db
}

func (m *ManagerActor) lookup(ctx actor.Context, id string) (*actor.PID, error) {
	if pid, ok := m.sessions[id]; ok && pid != nil {
		return pid, nil
	}
	if m.db == nil {
		return nil, errors.Wrap(ErrUnknownGame, id)
	}

	rec, err := m.db.GetGame(id)
	if errors.Is(err, database.ErrGameNotFound) {
		return nil, errors.Wrap(ErrUnknownGame, id)
	}
	if err != nil {
		return nil, err
	}
	s, err := m.restore(rec)
	if err != nil {
		return nil, err
	}
	return m.spawn(ctx, s), nil
}

// restore resumes a stored game from its snapshot, falling back to the
// action log when the snapshot is missing or unreadable.
func (m *ManagerActor) restore(rec *database.Game) (*session.Session, error) {
	state, err := m.db.GetGameState(rec.ID)
	if err == nil {
		s, rerr := session.Restore(rec, state, m.db)
		if rerr == nil {
			return s, nil
		}
		err = rerr
	}
	logs.Warn("snapshot unusable, replaying action log", zap.String("game", rec.ID), zap.Error(err))

	actions, err := m.db.GetActions(rec.ID)
	if err != nil {
		return nil, errors.WithMessagef(err, "load actions of %s", rec.ID)
	}
	return session.Rebuild(rec, actions, m.db)
}

// remove stops a game's actor and deletes everything stored for it.
func (m *ManagerActor) remove(ctx actor.Context, id string) error {
	pid, running := m.sessions[id]
	if running {
		if err := ctx.StopFuture(pid).Wait(); err != nil {
			logs.Warn("session actor did not stop cleanly", zap.String("game", id), zap.Error(err))
		}
		delete(m.sessions, id)
	}
	if m.db == nil {
		if !running {
			return errors.Wrap(ErrUnknownGame, id)
		}
		return nil
	}

	err := m.db.DeleteGame(id)
	if errors.Is(err, database.ErrGameNotFound) {
		return errors.Wrap(ErrUnknownGame, id)
	}
	if err == nil {
		logs.Info("game deleted", zap.String("game", id))
	}
	return err
}

func (m *ManagerActor) spawn(ctx actor.Context, s *session.Session) *actor.PID {
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSessionActor(s)
	})
	pid := ctx.Spawn(props)
	m.sessions[s.ID()] = pid
	return pid
}

// SessionActor serializes every access to one game.
type SessionActor struct {
	session *session.Session
}

func NewSessionActor(s *session.Session) *SessionActor {
	return &SessionActor{session: s}
}

func (a *SessionActor) Receive(ctx actor.Context) {
	s := a.session
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.Info("session actor started", zap.String("game", s.ID()))
	case *actor.Stopping:
		logs.Info("session actor stopping", zap.String("game", s.ID()))
	case *applyAction:
		if err := s.Apply(msg.seat, msg.action); err != nil {
			ctx.Respond(&Reply{GameID: s.ID(), Err: err})
			return
		}
		r := a.state()
		if s.Game().IsOver() {
			r.Ended, r.Err = endedMessage(s.Game())
		}
		ctx.Respond(r)
	case *stateRequest:
		ctx.Respond(a.state())
	case *tensorRequest:
		text, err := s.Tensor()
		ctx.Respond(&Reply{GameID: s.ID(), Tensor: text, Err: err})
	}
}

// state encodes the game inside the actor so no other goroutine reads
// it while it changes.
func (a *SessionActor) state() *Reply {
	s := a.session
	text, err := s.Tensor()
	if err != nil {
		logs.Warn("tensor snapshot skipped", zap.String("game", s.ID()), zap.Error(err))
	}
	msg, err := protocol.NewMessage(protocol.TypeGameState, protocol.GameStatePayload{State: s.Game(), Tensor: text})
	return &Reply{GameID: s.ID(), MapID: s.Game().MapID, State: msg, Tensor: text, Err: err}
}

func endedMessage(g *game.Game) (*protocol.Message, error) {
	scores := make([]int, len(g.Players))
	for i, p := range g.Players {
		scores[i] = p.FinalScore
	}
	return protocol.NewMessage(protocol.TypeGameEnded, protocol.GameEndedPayload{
		Reason:  g.EndReason,
		Winners: g.Winners,
		Scores:  scores,
	})
}
