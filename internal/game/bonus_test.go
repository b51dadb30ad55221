package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseExtraActions(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	setTurn(g, 0, 0)
	ann.Markers = []MarkerKind{MarkerExtraActions4}

	require.NoError(t, g.UseBonusMarker(0, MarkerExtraActions4))

	assert.Equal(t, 4, ann.ActionsLeft)
	assert.Empty(t, ann.Markers)
	assert.Equal(t, []MarkerKind{MarkerExtraActions4}, ann.UsedMarkers)
	assert.Equal(t, StateNormal, g.State.Kind)
}

func TestUseBonusMarkerRejections(t *testing.T) {
	g := newTestGame(t, 2)
	g.Players[0].Markers = []MarkerKind{MarkerPlaceAdjacent, MarkerSwapOffice}

	assert.ErrorIs(t, g.UseBonusMarker(1, MarkerSwapOffice), ErrNotYourTurn)
	assert.ErrorIs(t, g.UseBonusMarker(0, MarkerPlaceAdjacent), ErrInvalidTarget)
	assert.ErrorIs(t, g.UseBonusMarker(0, MarkerMoveAny2), ErrInvalidTarget)
	assert.ErrorIs(t, g.UseBonusMarker(0, MarkerExtraActions3), ErrNoMarker)
	assert.ErrorIs(t, g.UseBonusMarker(0, MarkerSwapOffice), ErrInvalidTarget, "no offices to swap")
	assert.Len(t, g.Players[0].Markers, 2)
}

func TestSwapOffices(t *testing.T) {
	g := newTestGame(t, 2)
	g.Players[0].Markers = []MarkerKind{MarkerSwapOffice}
	setOffice(g, arnheim, 0, 1)
	setOffice(g, arnheim, 1, 0)

	require.NoError(t, g.UseBonusMarker(0, MarkerSwapOffice))
	require.Equal(t, StateBonusEffect, g.State.Kind)

	assert.ErrorIs(t, g.SwapOffices(0, arnheim, 1), ErrInvalidTarget)
	assert.ErrorIs(t, g.SwapOffices(0, bremen, 0), ErrInvalidTarget)
	require.NoError(t, g.SwapOffices(0, arnheim, 0))

	offices := g.Board.Cities[arnheim].Offices
	assert.Equal(t, PlayerID(0), offices[0].Controller)
	assert.Equal(t, PlayerID(1), offices[1].Controller)
	assert.Equal(t, StateNormal, g.State.Kind)
	assert.Equal(t, 2, g.Players[0].ActionsLeft)
}

func TestSwapOfficesWrongState(t *testing.T) {
	g := newTestGame(t, 2)

	assert.ErrorIs(t, g.SwapOffices(0, arnheim, 0), ErrWrongState)
}

func TestChooseUpgrade(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	ann.Markers = []MarkerKind{MarkerUpgradeAbility}

	require.NoError(t, g.UseBonusMarker(0, MarkerUpgradeAbility))
	assert.ErrorIs(t, g.ChooseUpgrade(0, Ability(42)), ErrInvalidTarget)
	require.NoError(t, g.ChooseUpgrade(0, AbilityActions))

	assert.Equal(t, 3, ann.Value(AbilityActions))
	assert.Equal(t, 3, ann.ActionsLeft, "the new action is usable this turn")
	assert.Equal(t, StateNormal, g.State.Kind)
}

func TestChooseUpgradeAllMaxed(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	ann.Markers = []MarkerKind{MarkerUpgradeAbility}
	for _, a := range Abilities {
		ann.Levels[a] = LadderLength(a) - 1
	}

	assert.ErrorIs(t, g.UseBonusMarker(0, MarkerUpgradeAbility), ErrAbilityMaxed)
}

func TestMove3(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	ann.Markers = []MarkerKind{MarkerMove3}
	occupy(g, 0, 0, 1, ShapeSquare)
	occupy(g, 0, 1, 1, ShapeCircle)
	occupy(g, 0, 2, 1, ShapeSquare)
	occupy(g, 1, 0, 0, ShapeSquare)

	require.NoError(t, g.UseBonusMarker(0, MarkerMove3))
	assert.Equal(t, 3, ann.MoveBudget)

	assert.ErrorIs(t, g.PickUp(0, post(1, 0)), ErrInvalidTarget, "own pieces stay")
	require.NoError(t, g.PickUp(0, post(0, 0)))
	require.NoError(t, g.PickUp(0, post(0, 1)))
	require.NoError(t, g.PlacePiece(0, post(2, 0), ShapeNone))
	assert.ErrorIs(t, g.PickUp(0, post(0, 2)), ErrMoveLimit, "placing closes the pick up phase")
	assert.ErrorIs(t, g.PlacePiece(0, post(0, 2), ShapeNone), ErrPostOccupied)
	require.NoError(t, g.PlacePiece(0, post(3, 1), ShapeNone))

	assert.Equal(t, StateNormal, g.State.Kind)
	assert.Equal(t, Post{Owner: 1, Shape: ShapeSquare}, g.Board.Routes[2].Posts[0])
	assert.Equal(t, Post{Owner: 1, Shape: ShapeCircle, Required: ShapeCircle}, g.Board.Routes[3].Posts[1])
	assert.Equal(t, 2, ann.ActionsLeft)
	assertInvariants(t, g)
}

func TestMove3NeedsOpponents(t *testing.T) {
	g := newTestGame(t, 2)
	g.Players[0].Markers = []MarkerKind{MarkerMove3}

	assert.ErrorIs(t, g.UseBonusMarker(0, MarkerMove3), ErrInvalidTarget)
}

func TestFinishEffect(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	ann.Markers = []MarkerKind{MarkerMove3}
	occupy(g, 0, 0, 1, ShapeSquare)

	assert.ErrorIs(t, g.FinishEffect(0), ErrWrongState)
	require.NoError(t, g.UseBonusMarker(0, MarkerMove3))
	require.NoError(t, g.PickUp(0, post(0, 0)))
	assert.ErrorIs(t, g.FinishEffect(0), ErrPiecesHeld)

	require.NoError(t, g.PlacePiece(0, post(1, 0), ShapeNone))
	assert.Equal(t, StateNormal, g.State.Kind)
}

func TestFinishEffectForfeitsPlacements(t *testing.T) {
	g := newTestGame(t, 2)
	controlRoute(g, 4, 0)
	require.NoError(t, g.ClaimRouteForPoints(0, 4))
	require.NoError(t, g.PlacePiece(0, post(4, 0), ShapeSquare))

	require.NoError(t, g.FinishEffect(0))

	assert.Equal(t, StateNormal, g.State.Kind)
	assert.True(t, g.Board.Routes[4].Posts[1].Empty())
}

func TestMoveAny2Permanent(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	g.Board.Routes[1].Permanent = MarkerMoveAny2
	controlRoute(g, 1, 0)
	occupy(g, 0, 0, 0, ShapeSquare)
	occupy(g, 2, 0, 1, ShapeSquare)

	require.NoError(t, g.ClaimRouteForPoints(0, 1))
	require.Equal(t, MarkerMoveAny2, g.State.Effect.Kind)

	require.NoError(t, g.PickUp(0, post(0, 0)))
	require.NoError(t, g.PickUp(0, post(2, 0)))
	assert.ErrorIs(t, g.PickUp(0, post(2, 1)), ErrInvalidTarget, "empty post")
	require.NoError(t, g.PlacePiece(0, post(1, 0), ShapeNone))
	require.NoError(t, g.PlacePiece(0, post(1, 1), ShapeNone))

	assert.Equal(t, StateNormal, g.State.Kind)
	assert.Equal(t, PlayerID(0), g.Board.Routes[1].Posts[0].Owner)
	assert.Equal(t, PlayerID(1), g.Board.Routes[1].Posts[1].Owner)
	assert.Equal(t, 1, ann.ActionsLeft)
}

func TestGreenCityPermanent(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	g.Board.Routes[1].Permanent = MarkerGreenCity
	controlRoute(g, 1, 0)

	require.NoError(t, g.ClaimRouteForPoints(0, 1))
	require.Equal(t, MarkerGreenCity, g.State.Effect.Kind)

	assert.ErrorIs(t, g.ClaimGreenCity(0, bremen), ErrInvalidTarget)
	require.NoError(t, g.ClaimGreenCity(0, emden))

	assert.Equal(t, PlayerID(0), g.Board.Cities[emden].Offices[0].Controller)
	assert.Equal(t, 2, ann.Score)
	assert.Equal(t, 4, ann.Personal.Squares)
	assert.Equal(t, StateNormal, g.State.Kind)
}

func TestGreenCitySkippedWhenTaken(t *testing.T) {
	g := newTestGame(t, 2)
	g.Board.Routes[1].Permanent = MarkerGreenCity
	setOffice(g, emden, 0, 1)
	controlRoute(g, 1, 0)

	require.NoError(t, g.ClaimRouteForPoints(0, 1))
	assert.Equal(t, StateNormal, g.State.Kind)
}

func TestPlace2Regional(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	g.Board.Routes[1].Permanent = MarkerPlace2Regional
	controlRoute(g, 1, 0)

	require.NoError(t, g.ClaimRouteForPoints(0, 1))
	assert.ErrorIs(t, g.PlacePiece(0, post(0, 0), ShapeSquare), ErrInvalidTarget)
	require.NoError(t, g.PlacePiece(0, post(5, 0), ShapeSquare))
	require.NoError(t, g.PlacePiece(0, post(6, 0), ShapeCircle))

	assert.Equal(t, StateNormal, g.State.Kind)
	assert.Equal(t, Supply{Squares: 4}, ann.Personal)
	assert.Equal(t, 1, ann.RegionUses[RegionWales], "bonus placements do not spend privilege")
}

func TestReplaceBonusMarker(t *testing.T) {
	g := newTestGame(t, 2)
	g.Board.Routes[0].Marker = MarkerExtraActions3
	controlRoute(g, 0, 0)
	setTurn(g, 0, 1)
	require.NoError(t, g.ClaimRouteForPoints(0, 0))
	require.Equal(t, 1, g.MarkersOwed)

	assert.ErrorIs(t, g.ReplaceBonusMarker(0, 4), ErrInvalidTarget, "permanent route")
	require.NoError(t, g.ReplaceBonusMarker(0, 0))

	assert.True(t, g.Board.Routes[0].Marker.Temporary())
	assert.Len(t, g.Pool, 5)
	assert.Equal(t, 0, g.MarkersOwed)
	assert.ErrorIs(t, g.ReplaceBonusMarker(0, 1), ErrInvalidTarget, "nothing owed")
}

func TestReplaceBonusMarkerWaitsForActions(t *testing.T) {
	g := newTestGame(t, 2)
	g.MarkersOwed = 1

	assert.ErrorIs(t, g.ReplaceBonusMarker(0, 0), ErrActionsRemaining)
}

func TestReplaceBonusMarkerEmptyPoolEndsGame(t *testing.T) {
	g := newTestGame(t, 2)
	setTurn(g, 0, 0)
	g.Pool = nil
	g.MarkersOwed = 1

	require.NoError(t, g.ReplaceBonusMarker(0, 0))

	assert.True(t, g.PoolExhausted)
	assert.Equal(t, StateGameOver, g.State.Kind)
	assert.Equal(t, "bonus marker pool exhausted", g.EndReason)
}

func TestReplaceBonusMarkerLastDrawEndsGame(t *testing.T) {
	g := newTestGame(t, 2)
	setTurn(g, 0, 0)
	g.Pool = g.Pool[:1]
	g.MarkersOwed = 1

	require.NoError(t, g.ReplaceBonusMarker(0, 0))

	assert.Empty(t, g.Pool)
	assert.NotEqual(t, MarkerNone, g.Board.Routes[0].Marker, "the last marker is still placed")
	assert.False(t, g.PoolExhausted)
	assert.Equal(t, StateGameOver, g.State.Kind)
	assert.Equal(t, "bonus marker pool exhausted", g.EndReason)
}
