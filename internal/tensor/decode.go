package tensor

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"hansa-teutonica/internal/game"
	"hansa-teutonica/pkg/maps"
)

// Decode rebuilds a game from a snapshot. Fields outside the layout
// (player names, the game id, the pool order) get fresh values; the
// remaining pool is the map's pool minus every marker in play.
func Decode(s *Snapshot) (*game.Game, error) {
	if len(s.Game) != GameFields {
		return nil, game.Internalf("tensor decode", "game tensor has %d fields, want %d", len(s.Game), GameFields)
	}
	m := maps.ByIndex(s.Game[gMapIndex])
	if m == nil {
		return nil, errors.Wrapf(ErrMapMismatch, "no map with index %d", s.Game[gMapIndex])
	}

	n := s.Game[gPlayerCount]
	if n < game.MinPlayers || n > game.MaxPlayers {
		return nil, game.Internalf("tensor decode", "%d players", n)
	}
	players, err := split(s.Players, PlayerFields, "player")
	if err != nil {
		return nil, err
	}
	if len(players) != n {
		return nil, game.Internalf("tensor decode", "%d player rows for %d players", len(players), n)
	}
	cities, err := split(s.Cities, CityFields, "city")
	if err != nil {
		return nil, err
	}
	routes, err := split(s.Routes, RouteFields, "route")
	if err != nil {
		return nil, err
	}
	if len(cities) != m.CityCount() || len(routes) != m.RouteCount() {
		return nil, errors.Wrapf(ErrMapMismatch, "%d cities and %d routes on map %s", len(cities), len(routes), m.ID)
	}

	setups := make([]game.PlayerSetup, n)
	for i, row := range players {
		c := row[pColor]
		if c < 0 || c >= len(game.PlayerColors) {
			return nil, game.Internalf("tensor decode", "player %d color index %d", i, c)
		}
		setups[i] = game.PlayerSetup{Name: fmt.Sprintf("Player %d", i+1), Color: game.PlayerColors[c]}
	}
	g, err := game.NewGame(m.Data, setups, game.Settings{Seed: 1})
	if err != nil {
		return nil, err
	}

	d := decoder{g: g, m: m, n: n}
	for i, row := range cities {
		if err := d.city(i, row); err != nil {
			return nil, err
		}
	}
	for i, row := range routes {
		if err := d.route(i, row); err != nil {
			return nil, err
		}
	}
	for i, row := range players {
		if err := d.player(i, row); err != nil {
			return nil, err
		}
	}
	if err := d.game(s.Game); err != nil {
		return nil, err
	}
	if err := d.pool(); err != nil {
		return nil, err
	}
	return g, nil
}

// split cuts a flat tensor into rows of width fields.
func split(data []int, width int, what string) ([][]int, error) {
	if len(data)%width != 0 {
		return nil, game.Internalf("tensor decode", "%s tensor has %d fields, not a multiple of %d", what, len(data), width)
	}
	rows := make([][]int, 0, len(data)/width)
	for i := 0; i < len(data); i += width {
		rows = append(rows, data[i:i+width])
	}
	return rows, nil
}

type decoder struct {
	g *game.Game
	m *maps.Map
	n int
}

// player turns a stored player reference back into an id.
func (d *decoder) player(i int, row []int) error {
	p := d.g.Players[i]
	if row[pID] != i {
		return game.Internalf("tensor decode", "player row %d has id %d", i, row[pID])
	}
	p.Order = row[pOrder]
	p.Score = row[pScore]
	p.FinalScore = row[pFinalScore]
	for j, a := range game.Abilities {
		level := row[pLevels+j]
		if level < 0 || level >= game.LadderLength(a) {
			return game.Internalf("tensor decode", "player %d %s level %d", i, a, level)
		}
		p.Levels[a] = level
	}
	p.General = game.Supply{Squares: row[pGeneralSquares], Circles: row[pGeneralCircles]}
	p.Personal = game.Supply{Squares: row[pPersonalSquares], Circles: row[pPersonalCircles]}
	p.ActionsLeft = row[pActionsLeft]
	p.RegionUses[game.RegionWales] = row[pWalesUses]
	p.RegionUses[game.RegionScotland] = row[pScotlandUses]
	p.PrestigePoints = row[pPrestige]
	p.EastWestRank = row[pEastWestRank]

	p.Markers, p.UsedMarkers = nil, nil
	for j, k := range game.TemporaryMarkers {
		for range row[pHeld+j] {
			p.Markers = append(p.Markers, k)
		}
		for range row[pUsed+j] {
			p.UsedMarkers = append(p.UsedMarkers, k)
		}
	}

	p.MoveBudget = row[pMoveBudget]
	p.Holding = nil
	for j := 0; j < MaxHolding; j++ {
		v := row[pHolding+j]
		if v == 0 {
			break
		}
		h := game.HeldPiece{Shape: game.Shape(v % 3), Region: game.Region(v / 3 % 3), Owner: game.PlayerID(v / 9)}
		if !h.Shape.Valid() || int(h.Owner) >= d.n {
			return game.Internalf("tensor decode", "player %d holds piece %d", i, v)
		}
		p.Holding = append(p.Holding, h)
	}
	return nil
}

func (d *decoder) owner(v int, what string) (game.PlayerID, error) {
	if v < 0 || v > d.n {
		return game.NoPlayer, game.Internalf("tensor decode", "%s refers to player %d", what, v-1)
	}
	return game.PlayerID(v - 1), nil
}

func (d *decoder) city(i int, row []int) error {
	c := d.g.Board.Cities[i]
	static := d.m.Data.Cities[i].Offices
	if row[cID] != i || game.CityCategory(row[cCategory]) != c.Category {
		return errors.Wrapf(ErrMapMismatch, "city row %d does not match %s", i, c.Name)
	}
	for j := range 2 {
		want := 0
		if j < len(c.Upgrades) {
			want = int(c.Upgrades[j]) + 1
		}
		if row[cUpgrade1+j] != want {
			return errors.Wrapf(ErrMapMismatch, "upgrades of %s", c.Name)
		}
	}

	count := row[cOfficeCount]
	if count < 0 || count > MaxOffices {
		return game.Internalf("tensor decode", "%s has %d offices", c.Name, count)
	}
	offices := make([]game.Office, 0, count)
	next := 0
	for j := 0; j < count; j++ {
		base := cOffices + j*officeWidth
		owner, err := d.owner(row[base+2], c.Name)
		if err != nil {
			return err
		}
		o := game.Office{
			Shape:      game.Shape(row[base]),
			Color:      game.OfficeColor(row[base+1]),
			Controller: owner,
			Dynamic:    row[base+3] != 0,
		}
		if !o.Dynamic {
			if next >= len(static) {
				return errors.Wrapf(ErrMapMismatch, "%s has more offices than the map", c.Name)
			}
			o.Points = static[next].Points
			next++
		}
		offices = append(offices, o)
	}
	if next != len(static) {
		return errors.Wrapf(ErrMapMismatch, "%s has %d map offices, snapshot %d", c.Name, len(static), next)
	}
	c.Offices = offices
	return nil
}

func (d *decoder) route(i int, row []int) error {
	r := d.g.Board.Routes[i]
	if row[rID] != i ||
		row[rCityA] != int(r.Cities[0]) || row[rCityB] != int(r.Cities[1]) ||
		row[rRegion] != int(r.Region) || row[rPostCount] != len(r.Posts) ||
		row[rPermanent] != int(r.Permanent) {
		return errors.Wrapf(ErrMapMismatch, "route row %d", i)
	}

	marker := game.MarkerKind(row[rMarker])
	if marker != game.MarkerNone && !marker.Temporary() {
		return game.Internalf("tensor decode", "route %d carries marker %d", i, marker)
	}
	r.Marker = marker

	for j := range r.Posts {
		base := rPosts + j*postWidth
		owner, err := d.owner(row[base], fmt.Sprintf("route %d", i))
		if err != nil {
			return err
		}
		post := &r.Posts[j]
		post.Owner = owner
		post.Shape = game.Shape(row[base+1] % 4)
		post.Highlighted = row[base+1]/4 == 1
		if (post.Owner == game.NoPlayer) != (post.Shape == game.ShapeNone) {
			return game.Internalf("tensor decode", "route %d post %d owner %d shape %s", i, j, owner, post.Shape)
		}
	}
	return nil
}

func (d *decoder) game(row []int) error {
	g := d.g
	if row[gCurrent] < 0 || row[gCurrent] >= d.n {
		return game.Internalf("tensor decode", "current player %d", row[gCurrent])
	}
	g.Current = game.PlayerID(row[gCurrent])
	g.MarkersOwed = row[gMarkersOwed]

	kind := game.StateKind(row[gStateKind])
	g.State = game.State{Kind: kind}
	switch kind {
	case game.StateNormal, game.StateMoving, game.StateGameOver:
	case game.StateBonusEffect:
		g.State.Effect = &game.Effect{
			Kind:      game.MarkerKind(row[gEffectKind]),
			Remaining: row[gEffectRemaining],
			Route:     game.RouteID(row[gEffectRoute] - 1),
		}
	case game.StateDisplacement:
		victim, err := d.owner(row[gDisplacedPlayer], "displacement")
		if err != nil {
			return err
		}
		g.State.Displacement = &game.Displacement{
			Player:     victim,
			By:         g.Current,
			Route:      game.RouteID(row[gDisplacementRoute] - 1),
			Shape:      game.Shape(row[gDisplacedShape]),
			FreePlaced: row[gFreePlaced] != 0,
			Remaining:  row[gDisplacedRemaining],
		}
	default:
		return game.Internalf("tensor decode", "state %d", kind)
	}
	if int(g.Active()) != row[gActive] {
		return game.Internalf("tensor decode", "active player %d, state says %d", row[gActive], g.Active())
	}

	var err error
	if g.RegionHolders[game.RegionWales], err = d.owner(row[gWalesHolder], "wales"); err != nil {
		return err
	}
	if g.RegionHolders[game.RegionScotland], err = d.owner(row[gScotlandHolder], "scotland"); err != nil {
		return err
	}
	for i, perk := range game.Perks {
		if g.PerkOwners[perk], err = d.owner(row[gPerkOwners+i], perk.String()); err != nil {
			return err
		}
	}

	// The award order follows the stored ranks.
	g.EastWest = nil
	ranked := make([]*game.Player, 0, d.n)
	for _, p := range g.Players {
		if p.EastWestRank > 0 {
			ranked = append(ranked, p)
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].EastWestRank < ranked[j].EastWestRank })
	for _, p := range ranked {
		g.EastWest = append(g.EastWest, p.ID)
	}

	if kind == game.StateGameOver {
		top := 0
		for _, p := range g.Players {
			top = max(top, p.FinalScore)
		}
		for _, p := range g.Players {
			if p.FinalScore == top {
				g.Winners = append(g.Winners, p.ID)
			}
		}
		g.EndReason = "restored from snapshot"
	}
	return nil
}

// pool removes every marker on a route or in a player's hands from the
// map's pool.
func (d *decoder) pool() error {
	inPlay := make(map[game.MarkerKind]int)
	for _, r := range d.g.Board.Routes {
		if r.Marker != game.MarkerNone {
			inPlay[r.Marker]++
		}
	}
	for _, p := range d.g.Players {
		for _, k := range p.Markers {
			inPlay[k]++
		}
		for _, k := range p.UsedMarkers {
			inPlay[k]++
		}
	}

	d.g.Pool = nil
	for _, k := range d.m.Data.BonusPool {
		if inPlay[k] > 0 {
			inPlay[k]--
			continue
		}
		d.g.Pool = append(d.g.Pool, k)
	}
	for k, extra := range inPlay {
		if extra > 0 {
			return game.Internalf("tensor decode", "%d more %s markers than the map has", extra, k)
		}
	}
	return nil
}
