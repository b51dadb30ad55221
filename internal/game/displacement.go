package game

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/logs"
)

// displacementCost is the total pieces paid to displace an occupant of
// shape s, the displacing piece included. It is also the number of pieces
// the displaced player puts back.
func displacementCost(s Shape) int {
	if s == ShapeCircle {
		return 3
	}
	return 2
}

// Displace replaces an opponent's piece with one of the player's own and
// hands play to the displaced player until their pieces are re-placed.
func (g *Game) Displace(player PlayerID, ref PostRef, shape Shape) (err error) {
	defer g.settle(&err)

	p, err := g.turnAction(player)
	if err != nil {
		return err
	}
	route, post := g.Board.Post(ref)
	switch {
	case post == nil:
		return errors.Wrapf(ErrInvalidTarget, "post %v", ref)
	case post.Empty():
		return errors.Wrap(ErrInvalidTarget, "nothing to displace")
	case post.Owner == p.ID:
		return errors.Wrap(ErrInvalidTarget, "cannot displace own piece")
	case !shape.Valid():
		return ErrInvalidShape
	case !post.Accepts(shape):
		return errors.Wrapf(ErrShapeMismatch, "post needs a %s", post.Required)
	case !p.HasPersonal(shape):
		return errors.Wrapf(ErrInsufficientSupply, "no %s in personal supply", shape)
	}

	cost := displacementCost(post.Shape)
	if p.Personal.Total()-1 < cost-1 {
		return errors.Wrapf(ErrInsufficientSupply, "displacing a %s costs %d pieces", post.Shape, cost)
	}
	if !g.canUseRegion(p, route.Region) {
		return errors.Wrapf(ErrNoPrivilege, "no %s privilege", route.Region)
	}

	victim := g.Player(post.Owner)
	if victim == nil {
		return internalf("displace", "post %v owned by unknown player %d", ref, post.Owner)
	}
	count := cost
	if g.PerkOwners[PerkExtraDisplaced] == victim.ID {
		count++
	}
	eligible := g.eligiblePosts(route.ID, count, nil, post.Shape)
	if !g.anyAccepts(eligible, post.Shape) {
		return errors.Wrapf(ErrNoDisplacementSpace, "around route %d", route.ID)
	}

	if err := p.Personal.Take(shape, 1); err != nil {
		return internal("displace", err)
	}
	paid, err := payFrom(&p.Personal, cost-1)
	if err != nil {
		return internal("displace", err)
	}
	p.General.Squares += paid.Squares
	p.General.Circles += paid.Circles
	g.spendRegion(p, route.Region)

	d := &Displacement{
		Player:    victim.ID,
		By:        p.ID,
		Route:     route.ID,
		Shape:     post.Shape,
		Remaining: count,
	}
	post.Set(p.ID, shape)
	g.State = State{Kind: StateDisplacement, Displacement: d}
	for _, e := range eligible {
		g.Board.Routes[e.Route].Posts[e.Index].Highlighted = true
	}
	g.trimDisplacement(victim, d)

	logs.Debug("piece displaced",
		zap.Int("by", int(p.ID)),
		zap.Int("victim", int(victim.ID)),
		zap.Int("route", int(route.ID)),
		zap.Int("toPlace", d.Remaining))
	return nil
}

// eligiblePosts collects empty posts around origin, one ring of adjacent
// routes at a time, until at least need posts are found and one of them
// takes want (ShapeNone for any), or the reachable routes run out. Routes
// the region rule forbids are not entered. A nil fits accepts every empty
// post.
func (g *Game) eligiblePosts(origin RouteID, need int, fits func(*Post) bool, want Shape) []PostRef {
	start := g.Board.Route(origin)
	if start == nil {
		return nil
	}
	visited := map[RouteID]bool{origin: true}
	frontier := []RouteID{origin}
	var found []PostRef

	covered := want == ShapeNone
	for len(frontier) > 0 && (len(found) < need || !covered) {
		var next []RouteID
		for _, id := range frontier {
			for _, adj := range g.Board.AdjacentRoutes(id) {
				if visited[adj] {
					continue
				}
				visited[adj] = true
				r := g.Board.Routes[adj]
				if !canEnter(start.Region, r.Region) {
					continue
				}
				next = append(next, adj)
				for i := range r.Posts {
					post := &r.Posts[i]
					if !post.Empty() || (fits != nil && !fits(post)) {
						continue
					}
					found = append(found, PostRef{Route: adj, Index: i})
					covered = covered || post.Accepts(want)
				}
			}
		}
		frontier = next
	}
	return found
}

func (g *Game) anyAccepts(refs []PostRef, s Shape) bool {
	for _, ref := range refs {
		if _, post := g.Board.Post(ref); post != nil && post.Accepts(s) {
			return true
		}
	}
	return false
}

// canPlace reports whether the displaced player still has a piece of
// shape s to put down.
func canPlace(p *Player, d *Displacement, s Shape) bool {
	if !d.FreePlaced && s == d.Shape {
		return true
	}
	return p.General.Count(s)+p.Personal.Count(s) > 0
}

// fitsDisplaced reports whether post can take any piece the displaced
// player still has.
func fitsDisplaced(p *Player, d *Displacement, post *Post) bool {
	for _, s := range []Shape{ShapeSquare, ShapeCircle} {
		if post.Accepts(s) && canPlace(p, d, s) {
			return true
		}
	}
	return false
}

// stalled reports whether the highlighted posts can no longer take the
// pieces still owed: none fits, or the free piece has nowhere to go.
func (g *Game) stalled(p *Player, d *Displacement) bool {
	fits, free := false, d.FreePlaced
	for _, ref := range g.Board.Highlighted() {
		_, post := g.Board.Post(ref)
		if post == nil || !post.Empty() {
			continue
		}
		fits = fits || fitsDisplaced(p, d, post)
		free = free || post.Accepts(d.Shape)
	}
	return !fits || !free
}

// freeSpotBesides reports whether a highlighted post other than skip can
// still take the displaced shape.
func (g *Game) freeSpotBesides(skip *Post, d *Displacement) bool {
	for _, ref := range g.Board.Highlighted() {
		_, post := g.Board.Post(ref)
		if post != nil && post != skip && post.Empty() && post.Accepts(d.Shape) {
			return true
		}
	}
	return false
}

// trimDisplacement lowers the placement count when the displaced player
// cannot pay for the non-free placements.
func (g *Game) trimDisplacement(victim *Player, d *Displacement) {
	free := 0
	if !d.FreePlaced {
		free = 1
	}
	avail := victim.General.Total() + victim.Personal.Total()
	if d.Remaining-free > avail {
		d.Remaining = avail + free
	}
}

// placeDisplaced handles one placement by the displaced player.
func (g *Game) placeDisplaced(p *Player, post *Post, shape Shape) error {
	d := g.State.Displacement
	switch {
	case !post.Highlighted || !post.Empty():
		return errors.Wrap(ErrInvalidTarget, "post is not a displacement target")
	case !shape.Valid():
		return ErrInvalidShape
	case !post.Accepts(shape):
		return errors.Wrapf(ErrShapeMismatch, "post needs a %s", post.Required)
	case d.Remaining == 1 && !d.FreePlaced && shape != d.Shape:
		return errors.Wrapf(ErrShapeMismatch, "the displaced %s must be placed", d.Shape)
	case !d.FreePlaced && shape != d.Shape && !g.freeSpotBesides(post, d):
		return errors.Wrapf(ErrShapeMismatch, "this is the last post for the displaced %s", d.Shape)
	}

	if shape == d.Shape && !d.FreePlaced {
		d.FreePlaced = true
	} else {
		pool := &p.General
		if pool.Count(shape) == 0 {
			pool = &p.Personal
		}
		if pool.Count(shape) == 0 {
			return errors.Wrapf(ErrInsufficientSupply, "no %s left", shape)
		}
		if err := pool.Take(shape, 1); err != nil {
			return internal("place displaced", err)
		}
	}
	post.Set(p.ID, shape)
	post.Highlighted = false
	d.Remaining--

	g.trimDisplacement(p, d)
	if d.Remaining == 0 {
		return g.endDisplacement()
	}
	if !g.stalled(p, d) {
		return nil
	}

	want := ShapeNone
	if !d.FreePlaced {
		want = d.Shape
	}
	g.Board.ClearHighlights()
	retry := g.eligiblePosts(d.Route, d.Remaining, func(post *Post) bool {
		return fitsDisplaced(p, d, post)
	}, want)
	for _, e := range retry {
		g.Board.Routes[e.Route].Posts[e.Index].Highlighted = true
	}
	if g.stalled(p, d) {
		return internalf("place displaced", "no usable post reachable from route %d with %d pieces to place", d.Route, d.Remaining)
	}
	logs.Debug("displacement targets recomputed", zap.Int("route", int(d.Route)), zap.Int("posts", len(retry)))
	return nil
}

// endDisplacement charges the displacing player's action and resumes play.
func (g *Game) endDisplacement() error {
	d := g.State.Displacement
	g.Board.ClearHighlights()
	by := g.Player(d.By)
	if by == nil {
		return internalf("end displacement", "displacing player %d does not exist", d.By)
	}
	by.ActionsLeft--
	g.setNormal()
	return nil
}
