// Package maps handles map loading, validation and generation.
package maps

import "hansa-teutonica/internal/game"

// RawMap is the format stored in JSON files. Cities are referenced by
// name, enumerations by their lowercase names.
type RawMap struct {
	ID            string         `json:"id"`
	Index         int            `json:"index"`
	Name          string         `json:"name"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	Cities        []RawCity      `json:"cities"`
	Routes        []RawRoute     `json:"routes"`
	EastWest      [2]string      `json:"eastWest"`
	MaxFullCities int            `json:"maxFullCities"`
	Prestige      []RawPrestige  `json:"prestige"`
	BonusPool     map[string]int `json:"bonusPool"`
}

// RawCity is city data from the JSON file.
type RawCity struct {
	Name     string      `json:"name"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Category string      `json:"category,omitempty"` // "" or green
	Offices  []RawOffice `json:"offices"`
	Upgrades []string    `json:"upgrades,omitempty"`
	Perk     string      `json:"perk,omitempty"`
}

// RawOffice is one office slot, left to right.
type RawOffice struct {
	Shape  string `json:"shape"`
	Color  string `json:"color"`
	Points int    `json:"points,omitempty"`
}

// RawRoute connects two cities. Posts lists the required shape of each
// post, "" for any.
type RawRoute struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Posts      []string `json:"posts"`
	Region     string   `json:"region,omitempty"`
	Permanent  string   `json:"permanent,omitempty"`
	MinCircles int      `json:"minCircles,omitempty"`
	Start      bool     `json:"start,omitempty"`
}

// RawPrestige is one prestige track slot.
type RawPrestige struct {
	Points    int `json:"points"`
	Privilege int `json:"privilege"`
}

// Map is a validated map, ready to start games on.
type Map struct {
	ID     string
	Index  int
	Name   string
	Width  int
	Height int

	// Data is handed to game.NewGame as is.
	Data game.MapData

	cityIDs map[string]game.CityID
}

// CityID looks up a city by name.
func (m *Map) CityID(name string) (game.CityID, bool) {
	id, ok := m.cityIDs[name]
	return id, ok
}

// CityCount returns the number of cities.
func (m *Map) CityCount() int {
	return len(m.Data.Cities)
}

// RouteCount returns the number of routes.
func (m *Map) RouteCount() int {
	return len(m.Data.Routes)
}

// Neighbors returns the cities one route away from id.
func (m *Map) Neighbors(id game.CityID) []game.CityID {
	var out []game.CityID
	for _, r := range m.Data.Routes {
		switch id {
		case r.Cities[0]:
			out = appendUnique(out, r.Cities[1])
		case r.Cities[1]:
			out = appendUnique(out, r.Cities[0])
		}
	}
	return out
}

// Connected reports whether every city can be reached from the first.
func (m *Map) Connected() bool {
	if len(m.Data.Cities) == 0 {
		return true
	}
	seen := map[game.CityID]bool{0: true}
	queue := []game.CityID{0}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, n := range m.Neighbors(id) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(seen) == len(m.Data.Cities)
}
