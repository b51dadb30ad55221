package maps

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansa-teutonica/internal/game"
)

func TestLoadAll(t *testing.T) {
	require.NoError(t, LoadAll())

	hanse := Get("hanse")
	require.NotNil(t, hanse)
	assert.Equal(t, 0, hanse.Index)
	assert.Equal(t, "Hansa Teutonica", hanse.Name)

	brit := Get("britannia")
	require.NotNil(t, brit)
	assert.Same(t, brit, ByIndex(1))
	assert.Nil(t, ByIndex(99))
	assert.Nil(t, Get("atlantis"))

	infos := List()
	require.GreaterOrEqual(t, len(infos), 2)
	assert.Equal(t, "hanse", infos[0].ID)
	assert.Equal(t, hanse.CityCount(), infos[0].CityCount)
}

func TestEmbeddedMapsStartGames(t *testing.T) {
	require.NoError(t, LoadAll())

	for _, id := range []string{"hanse", "britannia"} {
		t.Run(id, func(t *testing.T) {
			m := Get(id)
			require.NotNil(t, m)
			assert.True(t, m.Connected())

			g, err := game.NewGame(m.Data, []game.PlayerSetup{{Name: "Ann"}, {Name: "Bo"}, {Name: "Cy"}}, game.Settings{Seed: 3})
			require.NoError(t, err)

			for _, rid := range m.Data.StartRoutes {
				assert.True(t, g.Board.Routes[rid].Marker.Temporary(), "start route %d", rid)
			}
			assert.Len(t, g.Pool, len(m.Data.BonusPool)-len(m.Data.StartRoutes))
			assert.NotEqual(t, m.Data.EastWest[0], m.Data.EastWest[1])
		})
	}
}

func TestBritanniaFeatures(t *testing.T) {
	require.NoError(t, LoadAll())
	m := Get("britannia")
	require.NotNil(t, m)

	regions := map[game.Region]int{}
	permanents := map[game.MarkerKind]bool{}
	for _, r := range m.Data.Routes {
		regions[r.Region]++
		permanents[r.Permanent] = true
	}
	assert.Positive(t, regions[game.RegionWales])
	assert.Positive(t, regions[game.RegionScotland])
	for _, k := range []game.MarkerKind{game.MarkerMoveAny2, game.MarkerGreenCity, game.MarkerPlace2FromRoute, game.MarkerPlace2Regional} {
		assert.True(t, permanents[k], "permanent %s", k)
	}

	stirling, ok := m.CityID("Stirling")
	require.True(t, ok)
	assert.Equal(t, game.CategoryGreen, m.Data.Cities[stirling].Category)

	perks := map[game.Perk]bool{}
	for _, c := range m.Data.Cities {
		perks[c.Perk] = true
	}
	for _, p := range game.Perks {
		assert.True(t, perks[p], "perk %s", p)
	}
}

// minimalMap returns a small valid raw map for mutation.
func minimalMap() RawMap {
	return RawMap{
		ID:     "mini",
		Index:  50,
		Name:   "Mini",
		Width:  400,
		Height: 300,
		Cities: []RawCity{
			{Name: "A", X: 10, Y: 10, Offices: []RawOffice{{Shape: "square", Color: "white"}}},
			{Name: "B", X: 90, Y: 10, Offices: []RawOffice{{Shape: "circle", Color: "orange"}}, Upgrades: []string{"bank"}},
			{Name: "C", X: 50, Y: 90, Category: "green", Offices: []RawOffice{{Shape: "square", Color: "green", Points: 2}}},
		},
		Routes: []RawRoute{
			{From: "A", To: "B", Posts: []string{"", "", "circle"}, Start: true},
			{From: "B", To: "C", Posts: []string{"", ""}, Region: "wales", Permanent: "green_city"},
		},
		EastWest:      [2]string{"A", "B"},
		MaxFullCities: 2,
		Prestige:      []RawPrestige{{Points: 7, Privilege: 1}},
		BonusPool:     map[string]int{"move_3": 1, "swap_office": 2},
	}
}

func loadRaw(t *testing.T, raw RawMap) (*Map, error) {
	t.Helper()
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	return LoadFromJSON(data)
}

func TestLoadFromJSON(t *testing.T) {
	m, err := loadRaw(t, minimalMap())
	require.NoError(t, err)

	assert.Equal(t, []game.RouteID{0}, m.Data.StartRoutes)
	assert.Equal(t, []game.Shape{game.ShapeNone, game.ShapeNone, game.ShapeCircle}, m.Data.Routes[0].Posts)
	assert.Equal(t, game.RegionWales, m.Data.Routes[1].Region)
	assert.Equal(t, game.MarkerGreenCity, m.Data.Routes[1].Permanent)
	assert.Equal(t, []game.Upgrade{game.UpgradeBank}, m.Data.Cities[1].Upgrades)
	assert.Equal(t, [2]game.CityID{0, 1}, m.Data.EastWest)
	assert.Equal(t, []game.MarkerKind{game.MarkerSwapOffice, game.MarkerSwapOffice, game.MarkerMove3}, m.Data.BonusPool,
		"pool follows marker order, not JSON order")
	assert.Equal(t, []game.CityID{0, 2}, m.Neighbors(1))
}

func TestLoadFromJSONRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawMap)
	}{
		{"no id", func(m *RawMap) { m.ID = "" }},
		{"no full city limit", func(m *RawMap) { m.MaxFullCities = 0 }},
		{"duplicate city", func(m *RawMap) { m.Cities[1].Name = "A" }},
		{"unknown route city", func(m *RawMap) { m.Routes[0].To = "Z" }},
		{"loop", func(m *RawMap) { m.Routes[0].To = "A" }},
		{"unknown shape", func(m *RawMap) { m.Cities[0].Offices[0].Shape = "triangle" }},
		{"shapeless office", func(m *RawMap) { m.Cities[0].Offices[0].Shape = "" }},
		{"unknown color", func(m *RawMap) { m.Cities[0].Offices[0].Color = "teal" }},
		{"green office in plain city", func(m *RawMap) { m.Cities[0].Offices[0].Color = "green" }},
		{"too many posts", func(m *RawMap) { m.Routes[0].Posts = make([]string, 6) }},
		{"no posts", func(m *RawMap) { m.Routes[0].Posts = nil }},
		{"temporary permanent", func(m *RawMap) { m.Routes[1].Permanent = "move_3" }},
		{"permanent start route", func(m *RawMap) { m.Routes[1].Start = true }},
		{"permanent in pool", func(m *RawMap) { m.BonusPool["green_city"] = 1 }},
		{"unknown region", func(m *RawMap) { m.Routes[0].Region = "cornwall" }},
		{"bad prestige", func(m *RawMap) { m.Prestige[0].Privilege = 5 }},
		{"unknown east west", func(m *RawMap) { m.EastWest[1] = "Z" }},
		{"disconnected", func(m *RawMap) { m.Routes = m.Routes[:1]; m.Routes[0].Start = false }},
		{"too many offices", func(m *RawMap) {
			m.Cities[0].Offices = make([]RawOffice, game.MaxOffices+1)
			for i := range m.Cities[0].Offices {
				m.Cities[0].Offices[i] = RawOffice{Shape: "square", Color: "white"}
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := minimalMap()
			tt.mutate(&raw)
			_, err := loadRaw(t, raw)
			assert.ErrorIs(t, err, game.ErrConfig)
		})
	}

	_, err := LoadFromJSON([]byte("{"))
	assert.ErrorIs(t, err, game.ErrConfig)
}

func TestRegisterRejectsSharedIndex(t *testing.T) {
	require.NoError(t, LoadAll())
	m, err := loadRaw(t, minimalMap())
	require.NoError(t, err)
	m.ID = "clash"
	m.Index = 0

	assert.ErrorIs(t, Register(m), game.ErrConfig)
	assert.Nil(t, Get("clash"))
}

func TestDebug(t *testing.T) {
	m, err := loadRaw(t, minimalMap())
	require.NoError(t, err)

	out := m.Debug()
	assert.Contains(t, out, "Map: Mini (mini, index 50)")
	assert.Contains(t, out, "C (green)")
	assert.Contains(t, out, "B - C, 2 posts, wales, permanent green city")
	assert.Contains(t, out, "A - B, 3 posts, start marker")
	assert.Contains(t, m.AdjacencyMatrix(), " 1: X  -  X ")
}
