package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansa-teutonica/internal/game"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var testSeats = []game.PlayerSetup{{Name: "Ann", Color: "red"}, {Name: "Bo", Color: "blue"}}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hansa.db")
	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&count))
	assert.Equal(t, len(migrations), count)
	assert.Equal(t, migrations[len(migrations)-1].id, db.Version())
}

func TestDSNCarriesPragmas(t *testing.T) {
	got := dsn("data/hansa.db")
	assert.Equal(t, "data/hansa.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", got)
}

func TestGameLifecycle(t *testing.T) {
	db := openTestDB(t)
	settings := GameSettings{MapID: "hanse", Seed: 9, ScoreLimit: 20}

	created, err := db.CreateGame("g1", "Friday game", settings, testSeats)
	require.NoError(t, err)
	assert.Equal(t, GameStatusActive, created.Status)

	got, err := db.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "Friday game", got.Name)
	assert.Equal(t, "hanse", got.MapID)
	assert.Equal(t, settings, got.Settings)
	assert.Equal(t, testSeats, got.Seats)
	assert.Equal(t, 2, got.PlayerCount)
	assert.Nil(t, got.EndedAt)

	_, err = db.GetGame("nope")
	assert.ErrorIs(t, err, ErrGameNotFound)

	require.NoError(t, db.EndGame("g1", GameStatusFinished, "score limit"))
	got, err = db.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, GameStatusFinished, got.Status)
	assert.Equal(t, "score limit", got.EndReason)
	assert.NotNil(t, got.EndedAt)

	assert.ErrorIs(t, db.EndGame("nope", GameStatusAborted, ""), ErrGameNotFound)
}

func TestListGames(t *testing.T) {
	db := openTestDB(t)
	for _, id := range []string{"a", "b", "c"} {
		_, err := db.CreateGame(id, "game "+id, GameSettings{MapID: "hanse"}, testSeats)
		require.NoError(t, err)
	}
	require.NoError(t, db.EndGame("b", GameStatusAborted, "internal error"))

	all, err := db.ListGames()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := db.ListGames(GameStatusActive)
	require.NoError(t, err)
	ids := []string{}
	for _, g := range active {
		ids = append(ids, g.ID)
		assert.Equal(t, 2, g.PlayerCount)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, ids)

	over, err := db.ListGames(GameStatusFinished, GameStatusAborted)
	require.NoError(t, err)
	require.Len(t, over, 1)
	assert.Equal(t, "b", over[0].ID)
}

func TestGameStateUpsert(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateGame("g1", "x", GameSettings{MapID: "hanse"}, testSeats)
	require.NoError(t, err)

	_, err = db.GetGameState("g1")
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, db.SaveGameState(GameState{GameID: "g1", StateJSON: `{"a":1}`, Tensor: "t1", CurrentPlayer: 0, StateKind: "Normal"}))
	require.NoError(t, db.SaveGameState(GameState{GameID: "g1", StateJSON: `{"a":2}`, Tensor: "t2", CurrentPlayer: 1, StateKind: "Displacement"}))

	s, err := db.GetGameState("g1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, s.StateJSON)
	assert.Equal(t, "t2", s.Tensor)
	assert.Equal(t, 1, s.CurrentPlayer)
	assert.Equal(t, "Displacement", s.StateKind)
}

func TestActionLogAndHistory(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateGame("g1", "x", GameSettings{MapID: "hanse"}, testSeats)
	require.NoError(t, err)

	require.NoError(t, db.LogAction("g1", 0, "claim_post", `{"type":"claim_post"}`))
	require.NoError(t, db.LogAction("g1", 0, "end_turn", `{"type":"end_turn"}`))
	actions, err := db.GetActions("g1")
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "claim_post", actions[0].ActionType)
	assert.Equal(t, "end_turn", actions[1].ActionType)

	require.NoError(t, db.AddHistoryEvent("g1", 0, "Ann", EventPostClaimed, "Ann placed a square"))
	require.NoError(t, db.AddHistoryEvent("g1", 1, "Bo", EventTurnEnd, "Bo ended the turn"))
	events, err := db.GetGameHistory("g1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Ann", events[0].PlayerName)

	since, err := db.GetGameHistorySince("g1", events[0].ID)
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, EventTurnEnd, since[0].EventType)

	require.NoError(t, db.DeleteGame("g1"))
	actions, err = db.GetActions("g1")
	require.NoError(t, err)
	assert.Empty(t, actions)
	assert.ErrorIs(t, db.DeleteGame("g1"), ErrGameNotFound)
}

func TestSeats(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateGame("g1", "x", GameSettings{MapID: "hanse"}, testSeats)
	require.NoError(t, err)

	ann, err := db.CreatePlayer("Ann")
	require.NoError(t, err)
	bo, err := db.CreatePlayer("Bo")
	require.NoError(t, err)
	assert.Len(t, ann.Token, 64)

	found, err := db.GetPlayerByToken(ann.Token)
	require.NoError(t, err)
	assert.Equal(t, ann.ID, found.ID)
	_, err = db.GetPlayerByToken("missing")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	require.NoError(t, db.ClaimSeat("g1", 0, ann.ID))
	require.NoError(t, db.ClaimSeat("g1", 0, ann.ID))
	assert.ErrorIs(t, db.ClaimSeat("g1", 0, bo.ID), ErrSeatTaken)
	require.NoError(t, db.ClaimSeat("g1", 1, bo.ID))

	seats, err := db.GetSeats("g1")
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, "Ann", seats[0].Name)
	assert.Equal(t, 1, seats[1].Seat)
}
