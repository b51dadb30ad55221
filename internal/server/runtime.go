package server

import (
	"context"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
	"github.com/pkg/errors"

	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/session"
)

const defaultAskTimeout = 3 * time.Second

// Runtime is the synchronous face of the actor system.
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

// NewRuntime starts the actor system and its session manager. db may be
// nil, in which case games live in memory only.
func NewRuntime(db *database.DB, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return NewManagerActor(db)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown stops every actor.
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		r.root.Stop(r.manager)
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(ctx context.Context, msg any) (*Reply, error) {
	future := r.root.RequestFuture(r.manager, msg, r.timeoutFromContext(ctx))
	res, err := future.Result()
	if err != nil {
		return nil, errors.Wrap(err, "actor request failed")
	}
	rep, ok := res.(*Reply)
	if !ok {
		return nil, errors.Errorf("actor returned %T", res)
	}
	return rep, rep.Err
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	return min(remain, r.timeout)
}

// CreateGame starts a new hosted game.
func (r *Runtime) CreateGame(ctx context.Context, opts session.Options) (*Reply, error) {
	return r.request(ctx, &createGame{opts: opts})
}

// Apply runs one action for seat in game id.
func (r *Runtime) Apply(ctx context.Context, id string, seat game.PlayerID, action game.Action) (*Reply, error) {
	return r.request(ctx, &applyAction{game: id, seat: seat, action: action})
}

// State returns the current game_state message of game id.
func (r *Runtime) State(ctx context.Context, id string) (*Reply, error) {
	return r.request(ctx, &stateRequest{game: id})
}

// Tensor returns the tensor text of game id.
func (r *Runtime) Tensor(ctx context.Context, id string) (string, error) {
	rep, err := r.request(ctx, &tensorRequest{game: id})
	if err != nil {
		return "", err
	}
	return rep.Tensor, nil
}

// DeleteGame stops game id and removes it from storage.
func (r *Runtime) DeleteGame(ctx context.Context, id string) error {
	_, err := r.request(ctx, &deleteGame{game: id})
	return err
}
