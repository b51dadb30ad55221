package play

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/protocol"
	"hansa-teutonica/internal/session"
)

// ErrDisconnected is reported once the server connection is gone.
var ErrDisconnected = errors.New("disconnected from server")

// Driver is where the client's game lives: in this process or on a
// server. Every method is called from the ebiten update goroutine.
type Driver interface {
	// Game returns the newest state, nil before the first one arrives.
	Game() *game.Game
	// Seat is the player the next click acts for.
	Seat() game.PlayerID
	// Submit plays one action. A local driver returns the engine's
	// verdict; a remote one reports rejections through Poll.
	Submit(a game.Action) error
	// Poll returns an error that arrived since the last call, or nil.
	Poll() error
	// Tensor returns the tensor text of the newest state.
	Tensor() (string, error)
	Close() error
}

// LocalDriver plays a hot-seat game in process. The seat follows the
// player who has to act.
type LocalDriver struct {
	session *session.Session
}

// NewLocalDriver wraps s.
func NewLocalDriver(s *session.Session) *LocalDriver {
	return &LocalDriver{session: s}
}

func (d *LocalDriver) Game() *game.Game    { return d.session.Game() }
func (d *LocalDriver) Seat() game.PlayerID { return d.session.Game().Active() }
func (d *LocalDriver) Poll() error         { return nil }
func (d *LocalDriver) Close() error        { return nil }

func (d *LocalDriver) Submit(a game.Action) error {
	return d.session.Apply(d.Seat(), a)
}

func (d *LocalDriver) Tensor() (string, error) {
	return d.session.Tensor()
}

// RemoteError is an error message sent by the server.
type RemoteError struct {
	Code    protocol.ErrorCode
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Fatal reports whether the server gave up on the game.
func (e *RemoteError) Fatal() bool {
	return e.Code == protocol.ErrCodeInternalError
}

// RemoteDriver plays one seat of a game hosted by a server.
type RemoteDriver struct {
	net    *NetworkClient
	prefs  *Prefs
	gameID string

	mu     sync.Mutex
	game   *game.Game
	tensor string
	seat   game.PlayerID
	errs   []error
}

// DialRemote connects to serverAddr and asks for seat in gameID. The
// seat token saved in prefs is presented when there is one.
func DialRemote(ctx context.Context, serverAddr, gameID string, seat int, name string, prefs *Prefs) (*RemoteDriver, error) {
	d := &RemoteDriver{
		net:    NewNetworkClient(),
		prefs:  prefs,
		gameID: gameID,
		seat:   game.NoPlayer,
	}
	d.net.OnMessage = d.handle
	d.net.OnDisconnect = func(err error) {
		if err != nil {
			d.push(errors.Wrap(ErrDisconnected, err.Error()))
			return
		}
		d.push(ErrDisconnected)
	}

	if err := d.net.Connect(ctx, serverAddr); err != nil {
		return nil, err
	}
	join := protocol.JoinGamePayload{GameID: gameID, Seat: seat, Name: name}
	if prefs != nil {
		join.Token = prefs.Token(gameID)
	}
	if err := d.net.SendPayload(protocol.TypeJoinGame, join); err != nil {
		d.net.Disconnect()
		return nil, err
	}
	return d, nil
}

func (d *RemoteDriver) handle(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeJoinedGame:
		var p protocol.JoinedGamePayload
		if err := msg.ParsePayload(&p); err != nil {
			d.push(err)
			return
		}
		if d.prefs != nil {
			d.prefs.SetToken(p.GameID, p.Token)
			if err := d.prefs.Save(); err != nil {
				logs.Warn("failed to save prefs", zap.Error(err))
			}
		}
		d.mu.Lock()
		d.seat = p.Seat
		d.mu.Unlock()
		logs.Info("joined game", zap.String("game", p.GameID), zap.Int("seat", int(p.Seat)))

	case protocol.TypeGameState:
		var p protocol.GameStatePayload
		if err := msg.ParsePayload(&p); err != nil {
			d.push(err)
			return
		}
		d.mu.Lock()
		d.game = p.State
		d.tensor = p.Tensor
		d.mu.Unlock()

	case protocol.TypeGameEnded:
		var p protocol.GameEndedPayload
		if err := msg.ParsePayload(&p); err == nil {
			logs.Info("game ended", zap.String("reason", p.Reason), zap.Ints("scores", p.Scores))
		}

	case protocol.TypeError:
		var p protocol.ErrorPayload
		if err := msg.ParsePayload(&p); err != nil {
			d.push(err)
			return
		}
		d.push(&RemoteError{Code: p.Code, Message: p.Message})
	}
}

func (d *RemoteDriver) push(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs = append(d.errs, err)
}

func (d *RemoteDriver) Game() *game.Game {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.game
}

func (d *RemoteDriver) Seat() game.PlayerID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seat
}

func (d *RemoteDriver) Submit(a game.Action) error {
	if !d.net.IsConnected() {
		return ErrDisconnected
	}
	return d.net.SendPayload(protocol.TypeAction, protocol.ActionPayload{Action: a})
}

func (d *RemoteDriver) Poll() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.errs) == 0 {
		return nil
	}
	err := d.errs[0]
	d.errs = d.errs[1:]
	return err
}

func (d *RemoteDriver) Tensor() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tensor == "" {
		return "", errors.New("no state received yet")
	}
	return d.tensor, nil
}

func (d *RemoteDriver) Close() error {
	d.net.Disconnect()
	return nil
}
