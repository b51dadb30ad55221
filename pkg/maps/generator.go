package maps

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

// GeneratorOptions contains settings for random map generation.
type GeneratorOptions struct {
	Cities      int    // Target city count: 8-40
	Width       int    // Canvas width, height is 5/8 of it
	Seed        uint64 // 0 picks a fixed default
	Regions     bool   // Tag western routes Wales and northern routes Scotland
	GreenCities int    // Cities with a single green office
	ExtraRoutes int    // Routes beyond the spanning tree, as a percentage of cities
}

// DefaultOptions returns default generator options.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Cities:      20,
		Width:       1280,
		Seed:        1,
		ExtraRoutes: 50,
	}
}

// Generator builds random but valid maps. Used to exercise the engine on
// boards nobody drew by hand.
type Generator struct {
	options GeneratorOptions
	rng     *rand.Rand
	width   int
	height  int
	cities  []RawCity
	edges   map[[2]int]bool
}

// NewGenerator creates a new map generator.
func NewGenerator(opts GeneratorOptions) *Generator {
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	g := &Generator{
		options: opts,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		width:   clamp(opts.Width, 640, 2560),
		edges:   make(map[[2]int]bool),
	}
	g.height = g.width * 5 / 8
	g.options.Cities = clamp(opts.Cities, 8, 40)
	g.options.GreenCities = clamp(opts.GreenCities, 0, 2)
	return g
}

// clamp restricts a value to a range
func clamp(val, lo, hi int) int {
	return max(lo, min(val, hi))
}

// Generate creates the raw map; Process turns it into game data.
func (g *Generator) Generate() *RawMap {
	g.placeCities()
	g.spanningTree()
	g.extraRoutes()

	raw := &RawMap{
		ID:            fmt.Sprintf("gen_%d", g.options.Seed),
		Index:         1000 + int(g.options.Seed%1000),
		Name:          fmt.Sprintf("Generated %d", g.options.Seed),
		Width:         g.width,
		Height:        g.height,
		Cities:        g.cities,
		MaxFullCities: max(3, len(g.cities)/3),
		Prestige: []RawPrestige{
			{Points: 7, Privilege: 1},
			{Points: 8, Privilege: 2},
			{Points: 9, Privilege: 3},
			{Points: 11, Privilege: 4},
		},
		BonusPool: map[string]int{
			"place_adjacent":  2,
			"swap_office":     2,
			"upgrade_ability": 2,
			"move_3":          2,
			"extra_actions_3": 2,
			"extra_actions_4": 2,
		},
	}
	g.assignOffices()
	raw.Routes = g.buildRoutes()
	raw.EastWest = g.eastWest()
	return raw
}

// placeCities scatters cities keeping a minimum spacing.
func (g *Generator) placeCities() {
	margin := 60.0
	spacing := math.Sqrt(float64(g.width*g.height)/float64(g.options.Cities)) * 0.6
	for attempt := 0; len(g.cities) < g.options.Cities && attempt < 5000; attempt++ {
		x := margin + g.rng.Float64()*(float64(g.width)-2*margin)
		y := margin + g.rng.Float64()*(float64(g.height)-2*margin)
		if g.tooClose(x, y, spacing) {
			continue
		}
		g.cities = append(g.cities, RawCity{Name: g.genName(len(g.cities)), X: math.Round(x), Y: math.Round(y)})
	}
}

func (g *Generator) tooClose(x, y, spacing float64) bool {
	for _, c := range g.cities {
		if math.Hypot(c.X-x, c.Y-y) < spacing {
			return true
		}
	}
	return false
}

func (g *Generator) dist(a, b int) float64 {
	return math.Hypot(g.cities[a].X-g.cities[b].X, g.cities[a].Y-g.cities[b].Y)
}

func (g *Generator) addEdge(a, b int) {
	if a > b {
		a, b = b, a
	}
	g.edges[[2]int{a, b}] = true
}

// spanningTree connects every city with Prim's algorithm on distance.
func (g *Generator) spanningTree() {
	in := make([]bool, len(g.cities))
	in[0] = true
	for added := 1; added < len(g.cities); added++ {
		bestA, bestB, best := -1, -1, math.MaxFloat64
		for a := range g.cities {
			if !in[a] {
				continue
			}
			for b := range g.cities {
				if in[b] {
					continue
				}
				if d := g.dist(a, b); d < best {
					bestA, bestB, best = a, b, d
				}
			}
		}
		g.addEdge(bestA, bestB)
		in[bestB] = true
	}
}

// extraRoutes adds short routes between near neighbours that are not yet
// connected.
func (g *Generator) extraRoutes() {
	want := len(g.cities) * clamp(g.options.ExtraRoutes, 0, 100) / 100
	type pair struct {
		a, b int
		d    float64
	}
	var candidates []pair
	for a := range g.cities {
		for b := a + 1; b < len(g.cities); b++ {
			if !g.edges[[2]int{a, b}] {
				candidates = append(candidates, pair{a, b, g.dist(a, b)})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].d < candidates[j].d })
	for _, c := range candidates {
		if want == 0 {
			break
		}
		if c.d > float64(g.width)/4 {
			break
		}
		g.addEdge(c.a, c.b)
		want--
	}
}

var officeColors = []string{"white", "white", "orange", "purple", "black"}

// assignOffices gives every city one to four offices and spreads the
// upgrades and green cities.
func (g *Generator) assignOffices() {
	for i := range g.cities {
		n := 1 + g.rng.Intn(4)
		for j := 0; j < n; j++ {
			shape := "square"
			if g.rng.Intn(4) == 0 {
				shape = "circle"
			}
			g.cities[i].Offices = append(g.cities[i].Offices, RawOffice{Shape: shape, Color: officeColors[min(j+g.rng.Intn(2), len(officeColors)-1)]})
		}
	}

	order := g.rng.Perm(len(g.cities))
	for i, name := range []string{"keys", "privilege", "actions", "bank", "book", "prestige"} {
		c := &g.cities[order[i%len(order)]]
		c.Upgrades = append(c.Upgrades, name)
	}
	for i := 0; i < g.options.GreenCities; i++ {
		c := &g.cities[order[len(order)-1-i]]
		c.Category = "green"
		c.Upgrades = nil
		c.Offices = []RawOffice{{Shape: "square", Color: "green", Points: 2}}
	}
}

func (g *Generator) buildRoutes() []RawRoute {
	keys := make([][2]int, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	routes := make([]RawRoute, 0, len(keys))
	for _, k := range keys {
		a, b := g.cities[k[0]], g.cities[k[1]]
		posts := clamp(int(g.dist(k[0], k[1])/80), 2, 4)
		r := RawRoute{From: a.Name, To: b.Name, Posts: make([]string, posts)}
		if g.options.Regions {
			switch {
			case a.X < float64(g.width)/5 && b.X < float64(g.width)/5:
				r.Region = "wales"
			case a.Y < float64(g.height)/5 && b.Y < float64(g.height)/5:
				r.Region = "scotland"
			}
		}
		routes = append(routes, r)
	}

	perm := g.rng.Perm(len(routes))
	for i, idx := range perm {
		switch {
		case i < 3:
			routes[idx].Start = true
		case i == 3 && g.options.GreenCities > 0:
			routes[idx].Permanent = "green_city"
		case i == 4 && len(routes) > 12:
			routes[idx].Permanent = "move_any_2"
		}
	}
	return routes
}

// eastWest picks the westernmost and easternmost cities.
func (g *Generator) eastWest() [2]string {
	west, east := 0, 0
	for i, c := range g.cities {
		if c.X < g.cities[west].X {
			west = i
		}
		if c.X > g.cities[east].X {
			east = i
		}
	}
	return [2]string{g.cities[west].Name, g.cities[east].Name}
}

var (
	namePrefixes = []string{"Alt", "Neu", "Ober", "Nieder", "Gross", "Klein", "Sankt", "Bad"}
	nameStems    = []string{"born", "burg", "dorf", "feld", "furt", "hausen", "heim", "stadt", "stedt", "wald", "brueck", "hagen"}
	nameRoots    = []string{"Ahl", "Bie", "Cel", "Dan", "Eil", "Fal", "Gar", "Hel", "Ilm", "Kal", "Lin", "Mar", "Nor", "Ol", "Pir", "Ros", "Sal", "Tor", "Ul", "Wol"}
)

// genName derives a unique German sounding name from the city index.
func (g *Generator) genName(id int) string {
	root := nameRoots[id%len(nameRoots)]
	stem := nameStems[(id/len(nameRoots)+id)%len(nameStems)]
	if id < len(nameRoots) {
		return root + stem
	}
	return namePrefixes[(id/len(nameRoots))%len(namePrefixes)] + " " + root + stem
}
