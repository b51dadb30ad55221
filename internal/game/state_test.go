package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	arnheim CityID = iota
	bremen
	celle
	dortmund
	emden
	wrexham
)

// testMap is a small board:
//
//	Arnheim -0- Bremen -1- Celle -2- Dortmund -4- Emden(green)
//	   \________3________/              |
//	            Bremen -5- Wrexham -6- Dortmund   (5 and 6 in Wales)
func testMap() MapData {
	white := func(s Shape) OfficeData { return OfficeData{Shape: s, Color: ColorWhite} }
	return MapData{
		ID:   "test",
		Name: "Test",
		Cities: []CityData{
			{Name: "Arnheim", Offices: []OfficeData{white(ShapeSquare), white(ShapeCircle)}},
			{Name: "Bremen", Offices: []OfficeData{white(ShapeSquare), {Shape: ShapeSquare, Color: ColorOrange}}},
			{Name: "Celle", Offices: []OfficeData{white(ShapeSquare), white(ShapeSquare)}, Upgrades: []Upgrade{UpgradeBank}},
			{Name: "Dortmund", Offices: []OfficeData{white(ShapeCircle), white(ShapeSquare)}, Upgrades: []Upgrade{UpgradePrestige}},
			{Name: "Emden", Category: CategoryGreen, Offices: []OfficeData{{Shape: ShapeSquare, Color: ColorGreen, Points: 2}}},
			{Name: "Wrexham", Offices: []OfficeData{white(ShapeSquare)}, Perk: PerkExtraDisplaced},
		},
		Routes: []RouteData{
			{Cities: [2]CityID{arnheim, bremen}, Posts: []Shape{ShapeNone, ShapeNone, ShapeNone}},
			{Cities: [2]CityID{bremen, celle}, Posts: []Shape{ShapeNone, ShapeNone}},
			{Cities: [2]CityID{celle, dortmund}, Posts: []Shape{ShapeNone, ShapeNone}},
			{Cities: [2]CityID{arnheim, celle}, Posts: []Shape{ShapeNone, ShapeCircle}},
			{Cities: [2]CityID{dortmund, emden}, Posts: []Shape{ShapeNone, ShapeNone}, Permanent: MarkerPlace2FromRoute},
			{Cities: [2]CityID{bremen, wrexham}, Posts: []Shape{ShapeNone, ShapeNone}, Region: RegionWales},
			{Cities: [2]CityID{wrexham, dortmund}, Posts: []Shape{ShapeNone}, Region: RegionWales},
		},
		EastWest:      [2]CityID{arnheim, dortmund},
		MaxFullCities: 4,
		Prestige: []PrestigeSlot{
			{Points: 7, Privilege: 1},
			{Points: 8, Privilege: 2},
			{Points: 9, Privilege: 3},
			{Points: 11, Privilege: 4},
		},
		BonusPool: []MarkerKind{
			MarkerPlaceAdjacent, MarkerSwapOffice, MarkerUpgradeAbility,
			MarkerMove3, MarkerExtraActions3, MarkerExtraActions4,
		},
	}
}

func newTestGame(t *testing.T, players int) *Game {
	t.Helper()
	setups := []PlayerSetup{{Name: "Ann"}, {Name: "Bo"}, {Name: "Cy"}, {Name: "Di"}, {Name: "Ed"}}
	g, err := NewGame(testMap(), setups[:players], Settings{Seed: 7})
	require.NoError(t, err)
	return g
}

// occupy puts a piece on a post without touching any supply.
func occupy(g *Game, route RouteID, index int, owner PlayerID, s Shape) {
	g.Board.Routes[route].Posts[index].Set(owner, s)
}

// setTurn makes id the current player with the given actions.
func setTurn(g *Game, id PlayerID, actions int) {
	g.Current = id
	g.Players[id].ActionsLeft = actions
}

func setOffice(g *Game, city CityID, index int, owner PlayerID) {
	g.Board.Cities[city].Offices[index].Controller = owner
}

func post(route RouteID, index int) PostRef {
	return PostRef{Route: route, Index: index}
}

// assertInvariants checks the rules that must hold after any operation.
func assertInvariants(t *testing.T, g *Game) {
	t.Helper()
	for _, r := range g.Board.Routes {
		for i, p := range r.Posts {
			assert.Equal(t, p.Owner == NoPlayer, p.Shape == ShapeNone, "route %d post %d owner/shape", r.ID, i)
		}
		assert.False(t, r.Marker != MarkerNone && !r.Marker.Temporary(), "route %d carries a non-temporary marker", r.ID)
	}
	for _, p := range g.Players {
		for _, n := range []int{p.General.Squares, p.General.Circles, p.Personal.Squares, p.Personal.Circles} {
			assert.GreaterOrEqual(t, n, 0, "player %d supply", p.ID)
		}
	}
}

func TestNewGame_InitialSupply(t *testing.T) {
	g := newTestGame(t, 3)

	for i, p := range g.Players {
		assert.Equal(t, 5+i, p.Personal.Squares)
		assert.Equal(t, 1, p.Personal.Circles)
		assert.Equal(t, StartingSquares-5-i, p.General.Squares)
		assert.Equal(t, StartingCircles-1, p.General.Circles)
		assert.Equal(t, 1, p.RegionUses[RegionWales])
		assert.Equal(t, 1, p.RegionUses[RegionScotland])
		assert.Equal(t, PlayerColors[i], p.Color)
	}
	assert.Equal(t, PlayerID(0), g.Current)
	assert.Equal(t, 2, g.Players[0].ActionsLeft)
	assert.Equal(t, 0, g.Players[1].ActionsLeft)
	assert.Equal(t, StateNormal, g.State.Kind)
	assert.Len(t, g.Pool, 6)
	assert.Equal(t, DefaultScoreLimit, g.Settings.ScoreLimit)
	assert.NotEmpty(t, g.ID)
	assertInvariants(t, g)
}

func TestNewGame_StartRoutesDrawMarkers(t *testing.T) {
	data := testMap()
	data.StartRoutes = []RouteID{0, 1}

	g, err := NewGame(data, []PlayerSetup{{Name: "Ann"}, {Name: "Bo"}}, Settings{Seed: 1})
	require.NoError(t, err)

	assert.True(t, g.Board.Routes[0].Marker.Temporary())
	assert.True(t, g.Board.Routes[1].Marker.Temporary())
	assert.Len(t, g.Pool, 4)
}

func TestNewGame_SeedIsDeterministic(t *testing.T) {
	a, err := NewGame(testMap(), []PlayerSetup{{Name: "Ann"}, {Name: "Bo"}}, Settings{Seed: 99})
	require.NoError(t, err)
	b, err := NewGame(testMap(), []PlayerSetup{{Name: "Ann"}, {Name: "Bo"}}, Settings{Seed: 99})
	require.NoError(t, err)

	assert.Equal(t, a.Pool, b.Pool)
}

func TestNewGame_RejectsBadSetup(t *testing.T) {
	_, err := NewGame(testMap(), []PlayerSetup{{Name: "Solo"}}, Settings{})
	assert.ErrorIs(t, err, ErrConfig)

	data := testMap()
	data.Routes[0].Cities[1] = 42
	_, err = NewGame(data, []PlayerSetup{{Name: "Ann"}, {Name: "Bo"}}, Settings{})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewGame(testMap(), []PlayerSetup{{Name: "Ann", Color: "teal"}, {Name: "Bo"}}, Settings{})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewGame(testMap(), []PlayerSetup{{Name: "Ann"}, {Name: "Bo", Color: "red"}}, Settings{})
	assert.ErrorIs(t, err, ErrConfig, "colors are unique")

	data = testMap()
	data.Routes[0].Permanent = MarkerMove3
	_, err = NewGame(data, []PlayerSetup{{Name: "Ann"}, {Name: "Bo"}}, Settings{})
	assert.ErrorIs(t, err, ErrConfig)
}
