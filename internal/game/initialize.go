package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

const (
	MinPlayers = 2
	MaxPlayers = 5

	// StartingSquares and StartingCircles are each player's piece totals.
	StartingSquares = 26
	StartingCircles = 4

	DefaultScoreLimit = 20
	MaxOffices        = 11
	MaxPosts          = 5
)

// MapData is the data extracted from a map for game initialization.
type MapData struct {
	ID            string
	Name          string
	Cities        []CityData
	Routes        []RouteData
	EastWest      [2]CityID
	MaxFullCities int
	Prestige      []PrestigeSlot
	BonusPool     []MarkerKind
	StartRoutes   []RouteID
}

// CityData contains city information from the map.
type CityData struct {
	Name     string
	X, Y     float64
	Category CityCategory
	Offices  []OfficeData
	Upgrades []Upgrade
	Perk     Perk
}

// OfficeData contains office information from the map.
type OfficeData struct {
	Shape  Shape
	Color  OfficeColor
	Points int
}

// RouteData contains route information from the map. Posts holds the
// required shape of each post, ShapeNone for any.
type RouteData struct {
	Cities     [2]CityID
	Posts      []Shape
	Region     Region
	Permanent  MarkerKind
	MinCircles int
}

// PlayerSetup describes one seat.
type PlayerSetup struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// NewGame creates a new game from a map and players.
func NewGame(data MapData, setups []PlayerSetup, settings Settings) (*Game, error) {
	if len(setups) < MinPlayers || len(setups) > MaxPlayers {
		return nil, errors.Wrapf(ErrConfig, "need %d to %d players, got %d", MinPlayers, MaxPlayers, len(setups))
	}
	board, err := buildBoard(data)
	if err != nil {
		return nil, err
	}
	if settings.ScoreLimit <= 0 {
		settings.ScoreLimit = DefaultScoreLimit
	}
	if settings.Seed == 0 {
		settings.Seed = uint64(time.Now().UnixNano())
	}

	g := &Game{
		ID:       uuid.New().String(),
		MapID:    data.ID,
		Settings: settings,
		Board:    board,
		Current:  0,
		Pool:     append([]MarkerKind(nil), data.BonusPool...),
	}
	for i := range g.RegionHolders {
		g.RegionHolders[i] = NoPlayer
	}
	for i := range g.PerkOwners {
		g.PerkOwners[i] = NoPlayer
	}

	colors := make(map[string]bool)
	for i, s := range setups {
		p := newPlayer(PlayerID(i), s)
		if ColorIndex(p.Color) < 0 || colors[p.Color] {
			return nil, errors.Wrapf(ErrConfig, "player %d cannot use color %q", i, p.Color)
		}
		colors[p.Color] = true
		g.Players = append(g.Players, p)
	}
	first := g.Players[0]
	first.ActionsLeft = first.Value(AbilityActions)

	rng := rand.New(rand.NewSource(settings.Seed))
	rng.Shuffle(len(g.Pool), func(i, j int) {
		g.Pool[i], g.Pool[j] = g.Pool[j], g.Pool[i]
	})
	for _, id := range data.StartRoutes {
		if !g.AssignBonusMarker(id) {
			return nil, errors.Wrapf(ErrConfig, "start route %d cannot take a bonus marker", id)
		}
	}

	g.setNormal()
	return g, nil
}

func newPlayer(id PlayerID, s PlayerSetup) *Player {
	color := s.Color
	if color == "" {
		color = PlayerColors[int(id)%len(PlayerColors)]
	}
	squares := 5 + int(id)
	p := &Player{
		ID:       id,
		Name:     s.Name,
		Color:    color,
		Order:    int(id),
		Personal: Supply{Squares: squares, Circles: 1},
		General:  Supply{Squares: StartingSquares - squares, Circles: StartingCircles - 1},
	}
	for _, r := range SpecialRegions {
		p.RegionUses[r] = 1
	}
	return p
}

func buildBoard(data MapData) (*Board, error) {
	b := &Board{
		EastWest:      data.EastWest,
		MaxFullCities: data.MaxFullCities,
	}
	for i, cd := range data.Cities {
		if len(cd.Offices) > MaxOffices {
			return nil, errors.Wrapf(ErrConfig, "city %s has %d offices", cd.Name, len(cd.Offices))
		}
		c := &City{
			ID:       CityID(i),
			Name:     cd.Name,
			X:        cd.X,
			Y:        cd.Y,
			Category: cd.Category,
			Upgrades: append([]Upgrade(nil), cd.Upgrades...),
			Perk:     cd.Perk,
		}
		for _, od := range cd.Offices {
			c.Offices = append(c.Offices, Office{Shape: od.Shape, Color: od.Color, Points: od.Points, Controller: NoPlayer})
		}
		b.Cities = append(b.Cities, c)
	}

	for i, rd := range data.Routes {
		for _, cid := range rd.Cities {
			if b.City(cid) == nil {
				return nil, errors.Wrapf(ErrConfig, "route %d references unknown city %d", i, cid)
			}
		}
		if len(rd.Posts) == 0 || len(rd.Posts) > MaxPosts {
			return nil, errors.Wrapf(ErrConfig, "route %d has %d posts", i, len(rd.Posts))
		}
		if rd.Permanent != MarkerNone && !rd.Permanent.Permanent() {
			return nil, errors.Wrapf(ErrConfig, "route %d has temporary marker %s as permanent", i, rd.Permanent)
		}
		r := &Route{
			ID:         RouteID(i),
			Cities:     rd.Cities,
			Region:     rd.Region,
			Permanent:  rd.Permanent,
			MinCircles: rd.MinCircles,
		}
		for _, req := range rd.Posts {
			r.Posts = append(r.Posts, Post{Owner: NoPlayer, Required: req})
		}
		b.Routes = append(b.Routes, r)
	}

	for _, cid := range data.EastWest {
		if b.City(cid) == nil {
			return nil, errors.Wrapf(ErrConfig, "east-west city %d does not exist", cid)
		}
	}
	for _, slot := range data.Prestige {
		b.Prestige = append(b.Prestige, PrestigeSlot{Points: slot.Points, Privilege: slot.Privilege, Owner: NoPlayer})
	}

	b.Link()
	return b, nil
}
