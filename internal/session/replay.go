package session

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/pkg/maps"
)

// Replay rebuilds a game from its creation record and action log. The
// seed in the record reproduces the bonus pool order, so the result
// matches the live game move for move.
func Replay(rec *database.Game, actions []*database.ActionRecord) (*game.Game, error) {
	m := maps.Get(rec.Settings.MapID)
	if m == nil {
		return nil, errors.Wrapf(game.ErrConfig, "unknown map %q", rec.Settings.MapID)
	}
	settings := game.Settings{Seed: rec.Settings.Seed, ScoreLimit: rec.Settings.ScoreLimit}
	g, err := game.NewGame(m.Data, rec.Seats, settings)
	if err != nil {
		return nil, err
	}
	g.ID = rec.ID

	for _, r := range actions {
		var a game.Action
		if err := json.Unmarshal([]byte(r.ActionJSON), &a); err != nil {
			return nil, errors.Wrapf(err, "decode action %d", r.ID)
		}
		if err := g.Apply(game.PlayerID(r.Player), a); err != nil {
			return nil, errors.WithMessagef(err, "replay action %d (%s)", r.ID, r.ActionType)
		}
	}
	return g, nil
}

// Rebuild resumes a stored game by replaying its action log and stores a
// fresh snapshot of the result.
func Rebuild(rec *database.Game, actions []*database.ActionRecord, store Store) (*Session, error) {
	g, err := Replay(rec, actions)
	if err != nil {
		return nil, err
	}
	s := &Session{name: rec.Name, game: g, store: store}
	if rec.Status == database.GameStatusAborted {
		s.aborted = errors.Wrap(ErrAborted, rec.EndReason)
	}
	if store != nil {
		s.save()
	}
	logs.Info("game rebuilt from action log", zap.String("game", g.ID), zap.Int("actions", len(actions)))
	return s, nil
}
