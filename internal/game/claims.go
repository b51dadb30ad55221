package game

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/logs"
)

// claimableRoute validates a route claim by p and returns the route.
func (g *Game) claimableRoute(p *Player, id RouteID) (*Route, error) {
	r := g.Board.Route(id)
	if r == nil {
		return nil, errors.Wrapf(ErrInvalidTarget, "route %d", id)
	}
	if !r.ControlledBy(p.ID) {
		return nil, errors.Wrapf(ErrRouteNotControlled, "route %d", id)
	}
	if r.Count(p.ID, ShapeCircle) < r.MinCircles {
		return nil, errors.Wrapf(ErrShapeMismatch, "route %d needs %d circles", id, r.MinCircles)
	}
	return r, nil
}

func (g *Game) endpoint(r *Route, id CityID) (*City, error) {
	if !r.Touches(id) {
		return nil, errors.Wrapf(ErrInvalidTarget, "city %d is not on route %d", id, r.ID)
	}
	return g.Board.Cities[id], nil
}

// ClaimRouteForOffice claims a controlled route and opens an office in one
// of its cities. When the next office cannot be taken, or adjacent is set,
// a held place adjacent marker creates a new office left of the others.
func (g *Game) ClaimRouteForOffice(player PlayerID, route RouteID, city CityID, adjacent bool) (err error) {
	defer g.settle(&err)

	p, err := g.turnAction(player)
	if err != nil {
		return err
	}
	r, err := g.claimableRoute(p, route)
	if err != nil {
		return err
	}
	c, err := g.endpoint(r, city)
	if err != nil {
		return err
	}
	if c.Category == CategoryGreen {
		return errors.Wrapf(ErrInvalidTarget, "%s is only claimed through the green city bonus", c.Name)
	}

	var consumed Shape
	idx, why := g.nextOfficeFor(p, r, c)
	switch {
	case why == nil && !adjacent:
		office := &c.Offices[idx]
		office.Controller = p.ID
		p.Score += office.Points
		consumed = office.Shape
	case p.HasMarker(MarkerPlaceAdjacent) && len(c.Offices) >= MaxOffices:
		return errors.Wrapf(ErrCityFull, "%s has no room for another office", c.Name)
	case p.HasMarker(MarkerPlaceAdjacent):
		consumed = ShapeCircle
		if r.Count(p.ID, ShapeSquare) > 0 {
			consumed = ShapeSquare
		}
		c.Offices = append([]Office{{Shape: consumed, Color: ColorWhite, Controller: p.ID, Dynamic: true}}, c.Offices...)
		p.spendMarker(MarkerPlaceAdjacent)
	case why != nil:
		return why
	default:
		return errors.Wrap(ErrNoMarker, "place adjacent")
	}

	g.acquirePerk(p, c)
	logs.Debug("office claimed", zap.Int("player", int(p.ID)), zap.String("city", c.Name))
	g.completeRouteClaim(p, r, consumed)
	return nil
}

// nextOfficeFor returns the office p would take in c, or why it cannot.
func (g *Game) nextOfficeFor(p *Player, r *Route, c *City) (int, error) {
	idx := c.NextOffice()
	if idx < 0 {
		return -1, errors.Wrapf(ErrCityFull, "%s", c.Name)
	}
	office := c.Offices[idx]
	if office.Color == ColorGreen || p.Value(AbilityPrivilege) < int(office.Color) {
		return -1, errors.Wrapf(ErrNoPrivilege, "%s office in %s", office.Color, c.Name)
	}
	if r.Count(p.ID, office.Shape) == 0 {
		return -1, errors.Wrapf(ErrShapeMismatch, "%s office needs a %s on the route", c.Name, office.Shape)
	}
	return idx, nil
}

// ClaimRouteForUpgrade claims a controlled route to take the upgrade one
// of its cities hosts.
func (g *Game) ClaimRouteForUpgrade(player PlayerID, route RouteID, city CityID, upgrade Upgrade) (err error) {
	defer g.settle(&err)

	p, err := g.turnAction(player)
	if err != nil {
		return err
	}
	r, err := g.claimableRoute(p, route)
	if err != nil {
		return err
	}
	c, err := g.endpoint(r, city)
	if err != nil {
		return err
	}
	if !c.HostsUpgrade(upgrade) {
		return errors.Wrapf(ErrInvalidTarget, "%s has no %s upgrade", c.Name, upgrade)
	}

	consumed := ShapeNone
	if upgrade == UpgradePrestige {
		if r.Count(p.ID, ShapeCircle) == 0 {
			return errors.Wrap(ErrShapeMismatch, "prestige needs a circle on the route")
		}
		slot := g.Board.bestPrestige(p.Value(AbilityPrivilege))
		if slot < 0 {
			return errors.Wrap(ErrInvalidTarget, "no prestige slot available")
		}
		g.Board.Prestige[slot].Owner = p.ID
		p.PrestigePoints += g.Board.Prestige[slot].Points
		consumed = ShapeCircle
	} else {
		a, ok := upgrade.Ability()
		if !ok {
			return errors.Wrapf(ErrInvalidTarget, "upgrade %d", upgrade)
		}
		if err := p.Upgrade(a); err != nil {
			return err
		}
	}

	logs.Debug("upgrade claimed", zap.Int("player", int(p.ID)), zap.Stringer("upgrade", upgrade))
	g.completeRouteClaim(p, r, consumed)
	return nil
}

// bestPrestige returns the highest-value open slot the privilege allows.
func (b *Board) bestPrestige(privilege int) int {
	best := -1
	for i, s := range b.Prestige {
		if s.Owner != NoPlayer || s.Privilege > privilege {
			continue
		}
		if best < 0 || s.Points > b.Prestige[best].Points {
			best = i
		}
	}
	return best
}

// ClaimRouteForPoints claims a controlled route for endpoint scoring only.
func (g *Game) ClaimRouteForPoints(player PlayerID, route RouteID) (err error) {
	defer g.settle(&err)

	p, err := g.turnAction(player)
	if err != nil {
		return err
	}
	r, err := g.claimableRoute(p, route)
	if err != nil {
		return err
	}
	g.completeRouteClaim(p, r, ShapeNone)
	return nil
}

// completeRouteClaim applies everything every route claim does. consumed
// is the shape of the route piece spent on the claim itself.
func (g *Game) completeRouteClaim(p *Player, r *Route, consumed Shape) {
	for i := range r.Posts {
		post := &r.Posts[i]
		if post.Empty() {
			continue
		}
		if consumed != ShapeNone && post.Shape == consumed {
			consumed = ShapeNone
		} else {
			g.Players[post.Owner].General.Add(post.Shape, 1)
		}
		post.Clear()
	}

	for _, cid := range r.Cities {
		if owner := g.Board.Cities[cid].Controller(); owner != NoPlayer {
			g.Players[owner].Score++
		}
	}

	if r.Marker != MarkerNone {
		p.Markers = append(p.Markers, r.Marker)
		logs.Debug("bonus marker taken", zap.Int("player", int(p.ID)), zap.Stringer("marker", r.Marker))
		r.Marker = MarkerNone
		g.MarkersOwed++
	}
	if r.Region.Special() {
		g.RegionHolders[r.Region] = p.ID
	}

	p.ActionsLeft--
	g.checkEastWest(p)
	if r.Permanent != MarkerNone {
		g.triggerPermanent(p, r)
	}
}

// acquirePerk gives c's perk to p if nobody owns it yet.
func (g *Game) acquirePerk(p *Player, c *City) {
	if c.Perk == PerkNone || g.PerkOwners[c.Perk] != NoPlayer {
		return
	}
	g.PerkOwners[c.Perk] = p.ID
	logs.Info("perk acquired", zap.Int("player", int(p.ID)), zap.Stringer("perk", c.Perk))
}
