package game

// Office is one claimable slot inside a city.
type Office struct {
	Shape      Shape       `json:"shape"`
	Color      OfficeColor `json:"color"`
	Points     int         `json:"points,omitempty"`
	Controller PlayerID    `json:"controller"`
	Dynamic    bool        `json:"dynamic,omitempty"`
}

// Claimed reports whether a player holds the office.
func (o Office) Claimed() bool {
	return o.Controller != NoPlayer
}

// City is a node of the trade network.
type City struct {
	ID       CityID       `json:"id"`
	Name     string       `json:"name"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Category CityCategory `json:"category,omitempty"`
	Offices  []Office     `json:"offices"`
	Upgrades []Upgrade    `json:"upgrades,omitempty"`
	Perk     Perk         `json:"perk,omitempty"`
	Routes   []RouteID    `json:"routes"`
}

// Full reports whether the city has no office left to claim. A green city
// is full as soon as any office is taken.
func (c *City) Full() bool {
	if len(c.Offices) == 0 {
		return false
	}
	if c.Category == CategoryGreen {
		for _, o := range c.Offices {
			if o.Claimed() {
				return true
			}
		}
		return false
	}
	for _, o := range c.Offices {
		if !o.Claimed() {
			return false
		}
	}
	return true
}

// NextOffice returns the index of the leftmost unclaimed office, or -1.
func (c *City) NextOffice() int {
	if c.Full() {
		return -1
	}
	for i, o := range c.Offices {
		if !o.Claimed() {
			return i
		}
	}
	return -1
}

// HasEmptyOffice reports whether any office is still open.
func (c *City) HasEmptyOffice() bool {
	return c.NextOffice() >= 0
}

// OfficeCount counts the offices held by p.
func (c *City) OfficeCount(p PlayerID) int {
	n := 0
	for _, o := range c.Offices {
		if o.Controller == p {
			n++
		}
	}
	return n
}

// HostsUpgrade reports whether u can be taken from this city.
func (c *City) HostsUpgrade(u Upgrade) bool {
	for _, h := range c.Upgrades {
		if h == u {
			return true
		}
	}
	return false
}

// Controller returns the player with the most offices. Ties go to the
// tied player holding the rightmost office.
func (c *City) Controller() PlayerID {
	counts := make(map[PlayerID]int)
	rightmost := make(map[PlayerID]int)
	for i, o := range c.Offices {
		if !o.Claimed() {
			continue
		}
		counts[o.Controller]++
		rightmost[o.Controller] = i
	}

	best := NoPlayer
	for p, n := range counts {
		if best == NoPlayer || n > counts[best] || (n == counts[best] && rightmost[p] > rightmost[best]) {
			best = p
		}
	}
	return best
}

// Post is a claimable slot on a route.
type Post struct {
	Owner       PlayerID `json:"owner"`
	Shape       Shape    `json:"shape"`
	Required    Shape    `json:"required,omitempty"`
	Highlighted bool     `json:"highlighted,omitempty"`
}

// Empty reports whether nobody occupies the post.
func (p *Post) Empty() bool {
	return p.Owner == NoPlayer
}

// Accepts reports whether a piece of shape s fits the post.
func (p *Post) Accepts(s Shape) bool {
	return p.Required == ShapeNone || p.Required == s
}

// Set places a piece. Owner and shape always change together.
func (p *Post) Set(owner PlayerID, s Shape) {
	p.Owner = owner
	p.Shape = s
}

// Clear removes the occupant.
func (p *Post) Clear() {
	p.Owner = NoPlayer
	p.Shape = ShapeNone
}

// Route connects two cities through a row of posts.
type Route struct {
	ID         RouteID    `json:"id"`
	Cities     [2]CityID  `json:"cities"`
	Posts      []Post     `json:"posts"`
	Region     Region     `json:"region,omitempty"`
	Marker     MarkerKind `json:"marker,omitempty"`
	Permanent  MarkerKind `json:"permanent,omitempty"`
	MinCircles int        `json:"minCircles,omitempty"`
}

// ControlledBy reports whether p owns every post.
func (r *Route) ControlledBy(p PlayerID) bool {
	if len(r.Posts) == 0 {
		return false
	}
	for _, post := range r.Posts {
		if post.Owner != p {
			return false
		}
	}
	return true
}

// Unoccupied reports whether no post is owned.
func (r *Route) Unoccupied() bool {
	for _, post := range r.Posts {
		if !post.Empty() {
			return false
		}
	}
	return true
}

// Count counts p's pieces of shape s.
func (r *Route) Count(p PlayerID, s Shape) int {
	n := 0
	for _, post := range r.Posts {
		if post.Owner == p && post.Shape == s {
			n++
		}
	}
	return n
}

// Touches reports whether c is an endpoint.
func (r *Route) Touches(c CityID) bool {
	return r.Cities[0] == c || r.Cities[1] == c
}

// PrestigeSlot is one entry of the prestige upgrade table.
type PrestigeSlot struct {
	Points    int      `json:"points"`
	Privilege int      `json:"privilege"`
	Owner     PlayerID `json:"owner"`
}

// Board is the map topology plus its mutable occupancy.
type Board struct {
	Cities        []*City        `json:"cities"`
	Routes        []*Route       `json:"routes"`
	EastWest      [2]CityID      `json:"eastWest"`
	MaxFullCities int            `json:"maxFullCities"`
	Prestige      []PrestigeSlot `json:"prestige,omitempty"`
}

// City returns the city with id, or nil.
func (b *Board) City(id CityID) *City {
	if id < 0 || int(id) >= len(b.Cities) {
		return nil
	}
	return b.Cities[id]
}

// Route returns the route with id, or nil.
func (b *Board) Route(id RouteID) *Route {
	if id < 0 || int(id) >= len(b.Routes) {
		return nil
	}
	return b.Routes[id]
}

// Post resolves ref. Both results are nil when it points nowhere.
func (b *Board) Post(ref PostRef) (*Route, *Post) {
	r := b.Route(ref.Route)
	if r == nil || ref.Index < 0 || ref.Index >= len(r.Posts) {
		return nil, nil
	}
	return r, &r.Posts[ref.Index]
}

// Link rebuilds each city's route list. Call once after all routes exist.
func (b *Board) Link() {
	for _, c := range b.Cities {
		c.Routes = nil
	}
	for _, r := range b.Routes {
		for _, id := range r.Cities {
			if c := b.City(id); c != nil {
				c.Routes = append(c.Routes, r.ID)
			}
		}
	}
}

// Neighbors returns the cities one route away from id.
func (b *Board) Neighbors(id CityID) []CityID {
	c := b.City(id)
	if c == nil {
		return nil
	}
	seen := make(map[CityID]bool)
	var out []CityID
	for _, rid := range c.Routes {
		r := b.Routes[rid]
		other := r.Cities[0]
		if other == id {
			other = r.Cities[1]
		}
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// AdjacentRoutes returns routes sharing a city with id, excluding id.
func (b *Board) AdjacentRoutes(id RouteID) []RouteID {
	r := b.Route(id)
	if r == nil {
		return nil
	}
	seen := map[RouteID]bool{id: true}
	var out []RouteID
	for _, cid := range r.Cities {
		for _, adj := range b.Cities[cid].Routes {
			if !seen[adj] {
				seen[adj] = true
				out = append(out, adj)
			}
		}
	}
	return out
}

// FullCities counts cities with no office left.
func (b *Board) FullCities() int {
	n := 0
	for _, c := range b.Cities {
		if c.Full() {
			n++
		}
	}
	return n
}

// ClearHighlights unmarks every post.
func (b *Board) ClearHighlights() {
	for _, r := range b.Routes {
		for i := range r.Posts {
			r.Posts[i].Highlighted = false
		}
	}
}

// Highlighted lists the posts marked as displacement targets.
func (b *Board) Highlighted() []PostRef {
	var out []PostRef
	for _, r := range b.Routes {
		for i, p := range r.Posts {
			if p.Highlighted && p.Empty() {
				out = append(out, PostRef{Route: r.ID, Index: i})
			}
		}
	}
	return out
}
