package session

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/tensor"
	"hansa-teutonica/pkg/maps"
)

func openDB(t *testing.T) *database.DB {
	t.Helper()
	require.NoError(t, maps.LoadAll())
	db, err := database.New(filepath.Join(t.TempDir(), "hansa.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testOptions() Options {
	return Options{
		Name:     "test",
		MapID:    "hanse",
		Seats:    []game.PlayerSetup{{Name: "Ann", Color: "red"}, {Name: "Bo", Color: "blue"}},
		Settings: game.Settings{Seed: 3},
	}
}

func post(route, index int) game.PostRef {
	return game.PostRef{Route: game.RouteID(route), Index: index}
}

// opening plays two short turns.
var opening = []struct {
	player game.PlayerID
	action game.Action
}{
	{0, game.Action{Type: game.ActionClaimPost, Post: post(0, 0), Shape: game.ShapeSquare}},
	{0, game.Action{Type: game.ActionClaimPost, Post: post(0, 1), Shape: game.ShapeSquare}},
	{0, game.Action{Type: game.ActionEndTurn, Skip: true}},
	{1, game.Action{Type: game.ActionClaimPost, Post: post(1, 0), Shape: game.ShapeSquare}},
	{1, game.Action{Type: game.ActionIncome, Squares: 3}},
	{1, game.Action{Type: game.ActionEndTurn, Skip: true}},
}

func playOpening(t *testing.T, s *Session) {
	t.Helper()
	for i, step := range opening {
		require.NoError(t, s.Apply(step.player, step.action), "step %d", i)
	}
}

func TestNewRecordsGame(t *testing.T) {
	db := openDB(t)
	s, err := New(testOptions(), db)
	require.NoError(t, err)

	rec, err := db.GetGame(s.ID())
	require.NoError(t, err)
	assert.Equal(t, "test", rec.Name)
	assert.Equal(t, uint64(3), rec.Settings.Seed)
	assert.Equal(t, game.DefaultScoreLimit, rec.Settings.ScoreLimit)
	assert.Equal(t, "Ann", rec.Seats[0].Name)

	state, err := db.GetGameState(s.ID())
	require.NoError(t, err)
	assert.Equal(t, "Normal", state.StateKind)

	snap, err := tensor.Parse(state.Tensor)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Game[1])

	events, err := db.GetGameHistory(s.ID())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, database.EventGameStart, events[0].EventType)
}

func TestNewRejectsBadSetup(t *testing.T) {
	require.NoError(t, maps.LoadAll())

	opts := testOptions()
	opts.MapID = "atlantis"
	_, err := New(opts, nil)
	assert.ErrorIs(t, err, game.ErrConfig)

	opts = testOptions()
	opts.Seats = opts.Seats[:1]
	_, err = New(opts, nil)
	assert.ErrorIs(t, err, game.ErrConfig)
}

func TestApplyPersistsAcceptedActions(t *testing.T) {
	db := openDB(t)
	s, err := New(testOptions(), db)
	require.NoError(t, err)
	playOpening(t, s)

	actions, err := db.GetActions(s.ID())
	require.NoError(t, err)
	require.Len(t, actions, len(opening))
	assert.Equal(t, "claim_post", actions[0].ActionType)
	assert.Equal(t, 1, actions[3].Player)

	state, err := db.GetGameState(s.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, state.CurrentPlayer)

	var stored game.Game
	require.NoError(t, json.Unmarshal([]byte(state.StateJSON), &stored))
	assert.Equal(t, game.PlayerID(0), stored.Board.Routes[0].Posts[1].Owner)

	events, err := db.GetGameHistory(s.ID())
	require.NoError(t, err)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}
	assert.Equal(t, []string{
		database.EventGameStart,
		database.EventPostClaimed,
		database.EventPostClaimed,
		database.EventTurnEnd,
		database.EventPostClaimed,
		database.EventIncome,
		database.EventTurnEnd,
	}, types)
	assert.Equal(t, "Ann placed a square on Groningen-Emden", events[1].Message)
}

func TestApplyRejectionChangesNothing(t *testing.T) {
	db := openDB(t)
	s, err := New(testOptions(), db)
	require.NoError(t, err)

	before, err := json.Marshal(s.Game())
	require.NoError(t, err)

	err = s.Apply(1, game.Action{Type: game.ActionClaimPost, Post: post(0, 0), Shape: game.ShapeSquare})
	assert.ErrorIs(t, err, game.ErrNotYourTurn)
	err = s.Apply(0, game.Action{Type: game.ActionEndTurn})
	assert.ErrorIs(t, err, game.ErrActionsRemaining)

	after, err := json.Marshal(s.Game())
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))

	actions, err := db.GetActions(s.ID())
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestReplayMatchesLiveGame(t *testing.T) {
	db := openDB(t)
	s, err := New(testOptions(), db)
	require.NoError(t, err)
	playOpening(t, s)

	rec, err := db.GetGame(s.ID())
	require.NoError(t, err)
	actions, err := db.GetActions(s.ID())
	require.NoError(t, err)

	replayed, err := Replay(rec, actions)
	require.NoError(t, err)

	live, err := json.Marshal(s.Game())
	require.NoError(t, err)
	again, err := json.Marshal(replayed)
	require.NoError(t, err)
	assert.JSONEq(t, string(live), string(again))
}

func TestRestoreContinuesGame(t *testing.T) {
	db := openDB(t)
	s, err := New(testOptions(), db)
	require.NoError(t, err)
	playOpening(t, s)

	rec, err := db.GetGame(s.ID())
	require.NoError(t, err)
	state, err := db.GetGameState(s.ID())
	require.NoError(t, err)

	restored, err := Restore(rec, state, db)
	require.NoError(t, err)
	assert.Equal(t, s.ID(), restored.ID())
	assert.Equal(t, "test", restored.Name())

	require.NoError(t, restored.Apply(0, game.Action{Type: game.ActionClaimPost, Post: post(0, 2), Shape: game.ShapeSquare}))
	assert.True(t, restored.Game().Board.Routes[0].ControlledBy(0))

	text, err := restored.Tensor()
	require.NoError(t, err)
	assert.Contains(t, text, "Player Tensor: ")
}

// recorder is a Store that remembers what it was asked to do.
type recorder struct {
	statuses map[string]database.GameStatus
	events   []string
	saves    int
}

func newRecorder() *recorder {
	return &recorder{statuses: make(map[string]database.GameStatus)}
}

func (r *recorder) CreateGame(id, name string, settings database.GameSettings, seats []game.PlayerSetup) (*database.Game, error) {
	r.statuses[id] = database.GameStatusActive
	return &database.Game{}, nil
}

func (r *recorder) SaveGameState(database.GameState) error {
	r.saves++
	return nil
}

func (r *recorder) LogAction(string, int, string, string) error { return nil }

func (r *recorder) AddHistoryEvent(_ string, _ int, _, eventType, _ string) error {
	r.events = append(r.events, eventType)
	return nil
}

func (r *recorder) EndGame(id string, status database.GameStatus, _ string) error {
	r.statuses[id] = status
	return nil
}

func TestAbortClosesSession(t *testing.T) {
	require.NoError(t, maps.LoadAll())
	store := newRecorder()
	s, err := New(testOptions(), store)
	require.NoError(t, err)

	s.abort(game.Internalf("test", "broken board"))
	assert.Equal(t, database.GameStatusAborted, store.statuses[s.ID()])
	assert.Contains(t, store.events, database.EventAborted)

	err = s.Apply(0, game.Action{Type: game.ActionClaimPost, Post: post(0, 0), Shape: game.ShapeSquare})
	assert.True(t, errors.Is(err, ErrAborted))
	assert.ErrorIs(t, s.Aborted(), ErrAborted)
	assert.Equal(t, game.NoPlayer, s.Game().Board.Routes[0].Posts[0].Owner)
}

func TestGameEndMarksFinished(t *testing.T) {
	require.NoError(t, maps.LoadAll())
	store := newRecorder()
	s, err := New(testOptions(), store)
	require.NoError(t, err)

	// Reaching the limit ends the game after the next accepted action.
	g := s.Game()
	g.Players[0].Score = game.DefaultScoreLimit

	require.NoError(t, s.Apply(0, game.Action{Type: game.ActionClaimPost, Post: post(0, 0), Shape: game.ShapeSquare}))
	require.True(t, g.IsOver())
	assert.Equal(t, database.GameStatusFinished, store.statuses[s.ID()])
	assert.Contains(t, store.events, database.EventGameEnd)

	err = s.Apply(0, game.Action{Type: game.ActionIncome, Squares: 1})
	assert.ErrorIs(t, err, game.ErrGameOver)
}
