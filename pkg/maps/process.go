package maps

import (
	"github.com/pkg/errors"

	"hansa-teutonica/internal/game"
)

// Process converts a validated raw map into game data.
func Process(raw *RawMap) (*Map, error) {
	m := &Map{
		ID:      raw.ID,
		Index:   raw.Index,
		Name:    raw.Name,
		Width:   raw.Width,
		Height:  raw.Height,
		cityIDs: make(map[string]game.CityID, len(raw.Cities)),
	}
	m.Data = game.MapData{
		ID:            raw.ID,
		Name:          raw.Name,
		MaxFullCities: raw.MaxFullCities,
	}

	// Step 1: cities, offices, upgrades and perks
	for i, rc := range raw.Cities {
		if _, dup := m.cityIDs[rc.Name]; dup {
			return nil, errors.Wrapf(game.ErrConfig, "duplicate city %q", rc.Name)
		}
		m.cityIDs[rc.Name] = game.CityID(i)
		city, err := processCity(rc)
		if err != nil {
			return nil, errors.WithMessagef(err, "city %q", rc.Name)
		}
		m.Data.Cities = append(m.Data.Cities, city)
	}

	// Step 2: routes, resolving endpoints by name
	for i, rr := range raw.Routes {
		route, err := m.processRoute(rr)
		if err != nil {
			return nil, errors.WithMessagef(err, "route %d (%s-%s)", i, rr.From, rr.To)
		}
		m.Data.Routes = append(m.Data.Routes, route)
		if rr.Start {
			m.Data.StartRoutes = append(m.Data.StartRoutes, game.RouteID(i))
		}
	}

	// Step 3: scoring data
	for i, name := range raw.EastWest {
		id, ok := m.cityIDs[name]
		if !ok {
			return nil, errors.Wrapf(game.ErrConfig, "east-west city %q", name)
		}
		m.Data.EastWest[i] = id
	}
	for _, p := range raw.Prestige {
		if p.Privilege < 1 || p.Privilege > 4 {
			return nil, errors.Wrapf(game.ErrConfig, "prestige slot needs privilege 1-4, got %d", p.Privilege)
		}
		m.Data.Prestige = append(m.Data.Prestige, game.PrestigeSlot{Points: p.Points, Privilege: p.Privilege, Owner: game.NoPlayer})
	}

	// Step 4: the bonus marker pool, in a fixed order so seeded shuffles
	// repeat
	pool, err := processPool(raw.BonusPool)
	if err != nil {
		return nil, err
	}
	m.Data.BonusPool = pool
	if len(m.Data.StartRoutes) > len(pool) {
		return nil, errors.Wrapf(game.ErrConfig, "%d start routes but only %d markers", len(m.Data.StartRoutes), len(pool))
	}

	if !m.Connected() {
		return nil, errors.Wrap(game.ErrConfig, "map is not connected")
	}
	return m, nil
}

func processCity(rc RawCity) (game.CityData, error) {
	cd := game.CityData{Name: rc.Name, X: rc.X, Y: rc.Y}
	var err error
	if cd.Category, err = lookup(categories, "category", rc.Category); err != nil {
		return cd, err
	}
	if cd.Perk, err = lookup(perks, "perk", rc.Perk); err != nil {
		return cd, err
	}
	if len(rc.Offices) == 0 || len(rc.Offices) > game.MaxOffices {
		return cd, errors.Wrapf(game.ErrConfig, "%d offices", len(rc.Offices))
	}
	for _, ro := range rc.Offices {
		shape, err := lookup(shapes, "shape", ro.Shape)
		if err != nil {
			return cd, err
		}
		if !shape.Valid() {
			return cd, errors.Wrap(game.ErrConfig, "office without a shape")
		}
		color, err := lookup(colors, "color", ro.Color)
		if err != nil {
			return cd, err
		}
		if (color == game.ColorGreen) != (cd.Category == game.CategoryGreen) {
			return cd, errors.Wrap(game.ErrConfig, "green offices belong to green cities only")
		}
		cd.Offices = append(cd.Offices, game.OfficeData{Shape: shape, Color: color, Points: ro.Points})
	}
	if len(rc.Upgrades) > 2 {
		return cd, errors.Wrapf(game.ErrConfig, "%d upgrades", len(rc.Upgrades))
	}
	for _, name := range rc.Upgrades {
		u, err := lookup(upgrades, "upgrade", name)
		if err != nil {
			return cd, err
		}
		cd.Upgrades = append(cd.Upgrades, u)
	}
	return cd, nil
}

func (m *Map) processRoute(rr RawRoute) (game.RouteData, error) {
	var rd game.RouteData
	for i, name := range []string{rr.From, rr.To} {
		id, ok := m.cityIDs[name]
		if !ok {
			return rd, errors.Wrapf(game.ErrConfig, "unknown city %q", name)
		}
		rd.Cities[i] = id
	}
	if rd.Cities[0] == rd.Cities[1] {
		return rd, errors.Wrap(game.ErrConfig, "route loops on itself")
	}
	if len(rr.Posts) == 0 || len(rr.Posts) > game.MaxPosts {
		return rd, errors.Wrapf(game.ErrConfig, "%d posts", len(rr.Posts))
	}
	for _, name := range rr.Posts {
		s, err := lookup(shapes, "shape", name)
		if err != nil {
			return rd, err
		}
		rd.Posts = append(rd.Posts, s)
	}
	var err error
	if rd.Region, err = lookup(regions, "region", rr.Region); err != nil {
		return rd, err
	}
	if rd.Permanent, err = lookup(MarkerNames, "marker", rr.Permanent); err != nil {
		return rd, err
	}
	if rd.Permanent != game.MarkerNone && !rd.Permanent.Permanent() {
		return rd, errors.Wrapf(game.ErrConfig, "%s is not a permanent marker", rd.Permanent)
	}
	if rr.Start && rd.Permanent != game.MarkerNone {
		return rd, errors.Wrap(game.ErrConfig, "a start route cannot carry a permanent marker")
	}
	if rr.MinCircles < 0 || rr.MinCircles > len(rr.Posts) {
		return rd, errors.Wrapf(game.ErrConfig, "minCircles %d", rr.MinCircles)
	}
	rd.MinCircles = rr.MinCircles
	return rd, nil
}

func processPool(counts map[string]int) ([]game.MarkerKind, error) {
	for name, n := range counts {
		kind, err := lookup(MarkerNames, "marker", name)
		if err != nil {
			return nil, err
		}
		if !kind.Temporary() || n < 0 {
			return nil, errors.Wrapf(game.ErrConfig, "bonus pool entry %q: %d", name, n)
		}
	}
	var pool []game.MarkerKind
	for _, kind := range game.TemporaryMarkers {
		for range counts[markerName(kind)] {
			pool = append(pool, kind)
		}
	}
	if len(pool) == 0 {
		return nil, errors.Wrap(game.ErrConfig, "empty bonus pool")
	}
	return pool, nil
}
