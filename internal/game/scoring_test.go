package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerScore(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 1, 2: 3, 3: 3, 4: 6, 6: 10, 8: 15, 9: 15, 10: 21, 14: 21} {
		assert.Equal(t, want, MarkerScore(n), "%d markers", n)
	}
}

func TestEastWestConnection(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	setOffice(g, arnheim, 0, 0)
	setOffice(g, celle, 0, 0)
	controlRoute(g, 2, 0, ShapeCircle, ShapeSquare)

	require.NoError(t, g.ClaimRouteForOffice(0, 2, dortmund, false))

	assert.Equal(t, 1, ann.EastWestRank)
	assert.Equal(t, []PlayerID{0}, g.EastWest)
	assert.Equal(t, 2+7, ann.Score, "celle and dortmund plus the first connection")

	bo := g.Players[1]
	setOffice(g, arnheim, 1, 1)
	setOffice(g, celle, 1, 1)
	setOffice(g, dortmund, 1, 1)
	g.checkEastWest(bo)
	assert.Equal(t, 2, bo.EastWestRank)
	assert.Equal(t, 4, bo.Score)

	g.checkEastWest(bo)
	assert.Equal(t, 4, bo.Score, "a connection scores once")
}

func TestConnectsEastWestNeedsEveryCity(t *testing.T) {
	g := newTestGame(t, 2)
	setOffice(g, arnheim, 0, 0)
	setOffice(g, dortmund, 0, 0)

	assert.False(t, g.ConnectsEastWest(0))
	setOffice(g, wrexham, 0, 0)
	setOffice(g, bremen, 0, 0)
	assert.True(t, g.ConnectsEastWest(0))
}

func TestLargestNetwork(t *testing.T) {
	g := newTestGame(t, 2)
	assert.Equal(t, 0, g.LargestNetwork(0))

	setOffice(g, arnheim, 0, 0)
	setOffice(g, bremen, 0, 0)
	setOffice(g, dortmund, 0, 0)
	assert.Equal(t, 2, g.LargestNetwork(0))

	setOffice(g, celle, 0, 0)
	setOffice(g, celle, 1, 0)
	assert.Equal(t, 5, g.LargestNetwork(0))
	assert.Equal(t, 0, g.LargestNetwork(1))
}

func TestScoreBreakdown(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	ann.Score = 3
	ann.Levels[AbilityKeys] = LadderLength(AbilityKeys) - 1
	ann.UsedMarkers = []MarkerKind{MarkerMove3, MarkerSwapOffice}
	ann.PrestigePoints = 7
	setOffice(g, arnheim, 0, 0)
	setOffice(g, bremen, 0, 0)

	assert.Equal(t, ScoreBreakdown{
		Running:   3,
		Abilities: 4,
		Markers:   3,
		Prestige:  7,
		Cities:    4,
		Network:   8,
		Total:     29,
	}, g.Score(0))

	g.PerkOwners[PerkAbilityBonus] = 0
	g.PerkOwners[PerkCityBonus] = 0
	s := g.Score(0)
	assert.Equal(t, 7, s.Abilities)
	assert.Equal(t, 8, s.Cities)
	assert.Equal(t, 36, s.Total)

	assert.Equal(t, ScoreBreakdown{}, g.Score(9))
}

func TestGameEndsAtScoreLimit(t *testing.T) {
	g := newTestGame(t, 2)
	ann := g.Players[0]
	ann.Score = 19
	setOffice(g, arnheim, 0, 0)
	controlRoute(g, 0, 0)

	require.NoError(t, g.ClaimRouteForPoints(0, 0))

	require.True(t, g.IsOver())
	assert.Equal(t, 20, ann.Score)
	assert.Equal(t, 23, ann.FinalScore, "2 for arnheim and a network of one")
	assert.Equal(t, 0, g.Players[1].FinalScore)
	assert.Equal(t, []PlayerID{0}, g.Winners)
	assert.Contains(t, g.EndReason, "20 points")

	assert.ErrorIs(t, g.Income(0, 1, 0), ErrGameOver)
	assert.ErrorIs(t, g.EndTurn(0, true), ErrGameOver)
}

func TestGameEndsWhenCitiesFill(t *testing.T) {
	g := newTestGame(t, 2)
	g.Board.MaxFullCities = 1
	setOffice(g, wrexham, 0, 1)

	require.NoError(t, g.Income(0, 1, 0))

	assert.True(t, g.IsOver())
	assert.Equal(t, "1 cities are full", g.EndReason)
}

func TestGameEndWaitsForEffect(t *testing.T) {
	g := newTestGame(t, 2)
	g.Players[0].Score = 19
	setOffice(g, dortmund, 0, 0)
	controlRoute(g, 4, 0)

	require.NoError(t, g.ClaimRouteForPoints(0, 4))
	assert.False(t, g.IsOver(), "the placement bonus finishes first")

	require.NoError(t, g.FinishEffect(0))
	assert.True(t, g.IsOver())
}

func TestGameEndTies(t *testing.T) {
	g := newTestGame(t, 2)
	g.Settings.ScoreLimit = 1
	g.Players[1].Score = 1
	g.Players[0].Score = 1

	require.NoError(t, g.Income(0, 1, 0))

	assert.Equal(t, []PlayerID{0, 1}, g.Winners)
}
