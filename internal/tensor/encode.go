package tensor

import (
	"github.com/pkg/errors"

	"hansa-teutonica/internal/game"
	"hansa-teutonica/pkg/maps"
)

// ErrMapMismatch means a snapshot does not belong to any known map, or
// its cities and routes differ from the map's.
var ErrMapMismatch = errors.New("snapshot does not match the map")

// Snapshot is one encoded game state.
type Snapshot struct {
	Game    []int
	Cities  []int
	Routes  []int
	Players []int
}

// ref encodes an optional index as index+1, with negatives as 0.
func ref[T ~int](id T) int {
	if id < 0 {
		return 0
	}
	return int(id) + 1
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Encode flattens g. Values that do not fit the layout are internal
// errors: the engine never produces them.
func Encode(g *game.Game) (*Snapshot, error) {
	m := maps.Get(g.MapID)
	if m == nil {
		return nil, errors.Wrapf(ErrMapMismatch, "unknown map %q", g.MapID)
	}

	s := &Snapshot{
		Game:    encodeGame(g, m.Index),
		Cities:  make([]int, 0, len(g.Board.Cities)*CityFields),
		Routes:  make([]int, 0, len(g.Board.Routes)*RouteFields),
		Players: make([]int, 0, len(g.Players)*PlayerFields),
	}
	for _, c := range g.Board.Cities {
		row, err := encodeCity(c)
		if err != nil {
			return nil, err
		}
		s.Cities = append(s.Cities, row...)
	}
	for _, r := range g.Board.Routes {
		row, err := encodeRoute(r)
		if err != nil {
			return nil, err
		}
		s.Routes = append(s.Routes, row...)
	}
	for _, p := range g.Players {
		row, err := encodePlayer(p)
		if err != nil {
			return nil, err
		}
		s.Players = append(s.Players, row...)
	}
	return s, nil
}

func encodeGame(g *game.Game, mapIndex int) []int {
	row := make([]int, GameFields)
	row[gMapIndex] = mapIndex
	row[gPlayerCount] = len(g.Players)
	row[gCurrent] = int(g.Current)
	row[gActive] = int(g.Active())
	row[gMarkersOwed] = g.MarkersOwed
	row[gStateKind] = int(g.State.Kind)
	if e := g.State.Effect; e != nil {
		row[gEffectKind] = int(e.Kind)
		row[gEffectRemaining] = e.Remaining
		row[gEffectRoute] = ref(e.Route)
	}
	if d := g.State.Displacement; d != nil {
		row[gDisplacedPlayer] = ref(d.Player)
		row[gDisplacedShape] = int(d.Shape)
		row[gFreePlaced] = flag(d.FreePlaced)
		row[gDisplacedRemaining] = d.Remaining
		row[gDisplacementRoute] = ref(d.Route)
	}
	row[gWalesHolder] = ref(g.RegionHolder(game.RegionWales))
	row[gScotlandHolder] = ref(g.RegionHolder(game.RegionScotland))
	for i, perk := range game.Perks {
		row[gPerkOwners+i] = ref(g.PerkOwner(perk))
	}
	return row
}

func encodeCity(c *game.City) ([]int, error) {
	if len(c.Offices) > MaxOffices || len(c.Upgrades) > 2 {
		return nil, game.Internalf("tensor encode", "city %s has %d offices and %d upgrades", c.Name, len(c.Offices), len(c.Upgrades))
	}
	row := make([]int, CityFields)
	row[cID] = int(c.ID)
	row[cCategory] = int(c.Category)
	for i, u := range c.Upgrades {
		row[cUpgrade1+i] = int(u) + 1
	}
	row[cOfficeCount] = len(c.Offices)
	for i, o := range c.Offices {
		base := cOffices + i*officeWidth
		row[base] = int(o.Shape)
		row[base+1] = int(o.Color)
		row[base+2] = ref(o.Controller)
		row[base+3] = flag(o.Dynamic)
	}
	return row, nil
}

func encodeRoute(r *game.Route) ([]int, error) {
	if len(r.Posts) > MaxPosts {
		return nil, game.Internalf("tensor encode", "route %d has %d posts", r.ID, len(r.Posts))
	}
	row := make([]int, RouteFields)
	row[rID] = int(r.ID)
	row[rCityA] = int(r.Cities[0])
	row[rCityB] = int(r.Cities[1])
	row[rRegion] = int(r.Region)
	row[rPostCount] = len(r.Posts)
	row[rMarker] = int(r.Marker)
	row[rPermanent] = int(r.Permanent)
	for i, p := range r.Posts {
		base := rPosts + i*postWidth
		row[base] = ref(p.Owner)
		row[base+1] = int(p.Shape) + 4*flag(p.Highlighted)
	}
	return row, nil
}

func encodePlayer(p *game.Player) ([]int, error) {
	color := game.ColorIndex(p.Color)
	if color < 0 {
		return nil, game.Internalf("tensor encode", "player %d has color %q", p.ID, p.Color)
	}
	if len(p.Holding) > MaxHolding {
		return nil, game.Internalf("tensor encode", "player %d holds %d pieces", p.ID, len(p.Holding))
	}

	row := make([]int, PlayerFields)
	row[pID] = int(p.ID)
	row[pColor] = color
	row[pOrder] = p.Order
	row[pScore] = p.Score
	row[pFinalScore] = p.FinalScore
	for i, a := range game.Abilities {
		row[pLevels+i] = p.Levels[a]
	}
	row[pGeneralSquares] = p.General.Squares
	row[pGeneralCircles] = p.General.Circles
	row[pPersonalSquares] = p.Personal.Squares
	row[pPersonalCircles] = p.Personal.Circles
	row[pActionsLeft] = p.ActionsLeft
	row[pWalesUses] = p.RegionUses[game.RegionWales]
	row[pScotlandUses] = p.RegionUses[game.RegionScotland]
	row[pPrestige] = p.PrestigePoints
	row[pEastWestRank] = p.EastWestRank
	for i, k := range game.TemporaryMarkers {
		row[pHeld+i] = countMarkers(p.Markers, k)
		row[pUsed+i] = countMarkers(p.UsedMarkers, k)
	}
	row[pMoveBudget] = p.MoveBudget
	for i, h := range p.Holding {
		row[pHolding+i] = int(h.Shape) + 3*int(h.Region) + 9*int(h.Owner)
	}
	return row, nil
}

func countMarkers(list []game.MarkerKind, k game.MarkerKind) int {
	n := 0
	for _, m := range list {
		if m == k {
			n++
		}
	}
	return n
}
