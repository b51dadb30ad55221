package maps

import (
	"fmt"
	"strings"

	"hansa-teutonica/internal/game"
)

// Debug returns a text description of the map.
func (m *Map) Debug() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Map: %s (%s, index %d)\n", m.Name, m.ID, m.Index))
	sb.WriteString(fmt.Sprintf("Size: %dx%d\n", m.Width, m.Height))
	sb.WriteString(fmt.Sprintf("Cities: %d, routes: %d, full city limit: %d\n",
		len(m.Data.Cities), len(m.Data.Routes), m.Data.MaxFullCities))
	sb.WriteString(fmt.Sprintf("East-west: %s to %s\n",
		m.Data.Cities[m.Data.EastWest[0]].Name, m.Data.Cities[m.Data.EastWest[1]].Name))
	sb.WriteString(fmt.Sprintf("Bonus pool: %d markers\n\n", len(m.Data.BonusPool)))

	sb.WriteString("Cities:\n")
	for i, c := range m.Data.Cities {
		sb.WriteString(fmt.Sprintf("  %2d. %s", i, c.Name))
		if c.Category == game.CategoryGreen {
			sb.WriteString(" (green)")
		}
		sb.WriteString("\n")
		offices := make([]string, len(c.Offices))
		for j, o := range c.Offices {
			offices[j] = o.Color.String() + " " + o.Shape.String()
		}
		sb.WriteString(fmt.Sprintf("      Offices: %s\n", strings.Join(offices, ", ")))
		if len(c.Upgrades) > 0 {
			sb.WriteString(fmt.Sprintf("      Upgrades: %v\n", c.Upgrades))
		}
		if c.Perk != game.PerkNone {
			sb.WriteString(fmt.Sprintf("      Perk: %s\n", c.Perk))
		}
	}

	sb.WriteString("\nRoutes:\n")
	start := make(map[game.RouteID]bool)
	for _, id := range m.Data.StartRoutes {
		start[id] = true
	}
	for i, r := range m.Data.Routes {
		sb.WriteString(fmt.Sprintf("  %2d. %s - %s, %d posts",
			i, m.Data.Cities[r.Cities[0]].Name, m.Data.Cities[r.Cities[1]].Name, len(r.Posts)))
		if r.Region.Special() {
			sb.WriteString(", " + r.Region.String())
		}
		if r.Permanent != game.MarkerNone {
			sb.WriteString(", permanent " + r.Permanent.String())
		}
		if start[game.RouteID(i)] {
			sb.WriteString(", start marker")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// AdjacencyMatrix prints which cities share a route.
func (m *Map) AdjacencyMatrix() string {
	var sb strings.Builder

	n := len(m.Data.Cities)
	sb.WriteString("Adjacency Matrix:\n   ")
	for i := 0; i < n; i++ {
		sb.WriteString(fmt.Sprintf("%2d ", i))
	}
	sb.WriteString("\n")

	for i := 0; i < n; i++ {
		sb.WriteString(fmt.Sprintf("%2d:", i))
		neighbors := m.Neighbors(game.CityID(i))
		for j := 0; j < n; j++ {
			switch {
			case i == j:
				sb.WriteString(" - ")
			case contains(neighbors, game.CityID(j)):
				sb.WriteString(" X ")
			default:
				sb.WriteString(" . ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func contains(ids []game.CityID, id game.CityID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
