package game

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/logs"
)

const (
	move3Budget    = 3
	moveAnyBudget  = 2
	placeBonusSize = 2
)

// UseBonusMarker activates a held temporary marker. Extra actions apply
// at once; the other kinds open an effect that takes further input.
func (g *Game) UseBonusMarker(player PlayerID, kind MarkerKind) (err error) {
	defer g.settle(&err)

	p, err := g.actor(player)
	if err != nil {
		return err
	}
	if err := g.requireState(StateNormal); err != nil {
		return err
	}
	if !kind.Usable() {
		return errors.Wrapf(ErrInvalidTarget, "%s cannot be activated", kind)
	}
	if !p.HasMarker(kind) {
		return errors.Wrapf(ErrNoMarker, "%s", kind)
	}

	switch kind {
	case MarkerSwapOffice:
		if !g.canSwapAny(p.ID) {
			return errors.Wrap(ErrInvalidTarget, "no offices to swap")
		}
	case MarkerUpgradeAbility:
		if allMaxed(p) {
			return errors.Wrap(ErrAbilityMaxed, "every ability")
		}
	case MarkerMove3:
		if !g.hasOpponentPiece(p.ID) {
			return errors.Wrap(ErrInvalidTarget, "no opponent pieces to move")
		}
	}

	p.spendMarker(kind)
	logs.Debug("bonus marker used", zap.Int("player", int(p.ID)), zap.Stringer("marker", kind))

	switch kind {
	case MarkerExtraActions3:
		p.ActionsLeft += 3
	case MarkerExtraActions4:
		p.ActionsLeft += 4
	case MarkerMove3:
		p.startMove(move3Budget)
		g.beginEffect(kind, move3Budget, -1)
	default:
		g.beginEffect(kind, 1, -1)
	}
	return nil
}

func (g *Game) beginEffect(kind MarkerKind, remaining int, route RouteID) {
	g.State = State{Kind: StateBonusEffect, Effect: &Effect{Kind: kind, Remaining: remaining, Route: route}}
}

func (g *Game) effect(kind MarkerKind) error {
	if g.State.Kind != StateBonusEffect || g.State.Effect == nil {
		return errors.Wrapf(ErrWrongState, "state is %s", g.State.Kind)
	}
	if g.State.Effect.Kind != kind {
		return errors.Wrapf(ErrWrongState, "waiting for %s", g.State.Effect.Kind)
	}
	return nil
}

func (g *Game) endEffect(p *Player) {
	p.MoveBudget = 0
	g.setNormal()
}

// triggerPermanent opens the effect of a route's permanent marker. An
// effect that cannot do anything is skipped.
func (g *Game) triggerPermanent(p *Player, r *Route) {
	switch r.Permanent {
	case MarkerMoveAny2:
		if !g.hasAnyPiece() {
			return
		}
		p.startMove(moveAnyBudget)
		g.beginEffect(MarkerMoveAny2, moveAnyBudget, r.ID)
	case MarkerGreenCity:
		if !g.hasOpenGreenCity() {
			return
		}
		g.beginEffect(MarkerGreenCity, 1, r.ID)
	case MarkerPlace2FromRoute:
		if p.Personal.Total() == 0 {
			return
		}
		g.beginEffect(MarkerPlace2FromRoute, placeBonusSize, r.ID)
	case MarkerPlace2Regional:
		if p.Personal.Total() == 0 || !g.hasEmptyRegionalPost() {
			return
		}
		g.beginEffect(MarkerPlace2Regional, placeBonusSize, r.ID)
	default:
		return
	}
	logs.Debug("permanent bonus triggered", zap.Int("route", int(r.ID)), zap.Stringer("marker", r.Permanent))
}

// placeForEffect handles PlacePiece while a bonus effect is open.
func (g *Game) placeForEffect(p *Player, r *Route, post *Post, shape Shape) error {
	eff := g.State.Effect
	switch eff.Kind {
	case MarkerMove3, MarkerMoveAny2:
		if err := p.placeHeld(post, r.Region); err != nil {
			return err
		}
		if len(p.Holding) == 0 {
			g.endEffect(p)
		}
		return nil

	case MarkerPlace2FromRoute, MarkerPlace2Regional:
		switch {
		case eff.Kind == MarkerPlace2FromRoute && r.ID != eff.Route:
			return errors.Wrapf(ErrInvalidTarget, "pieces go on route %d", eff.Route)
		case eff.Kind == MarkerPlace2Regional && !r.Region.Special():
			return errors.Wrap(ErrInvalidTarget, "pieces go on regional posts")
		case !post.Empty():
			return ErrPostOccupied
		case !shape.Valid():
			return ErrInvalidShape
		case !post.Accepts(shape):
			return errors.Wrapf(ErrShapeMismatch, "post needs a %s", post.Required)
		}
		if err := p.Personal.Take(shape, 1); err != nil {
			return err
		}
		post.Set(p.ID, shape)
		eff.Remaining--
		if eff.Remaining == 0 || p.Personal.Total() == 0 {
			g.endEffect(p)
		}
		return nil
	}
	return errors.Wrapf(ErrWrongState, "%s does not place pieces", eff.Kind)
}

// SwapOffices exchanges the holders of offices index and index+1 in city.
// One of the two must belong to the player.
func (g *Game) SwapOffices(player PlayerID, city CityID, index int) (err error) {
	defer g.settle(&err)

	p, err := g.actor(player)
	if err != nil {
		return err
	}
	if err := g.effect(MarkerSwapOffice); err != nil {
		return err
	}
	c := g.Board.City(city)
	if c == nil || !canSwap(c, index, p.ID) {
		return errors.Wrapf(ErrInvalidTarget, "cannot swap office %d in city %d", index, city)
	}
	c.Offices[index].Controller, c.Offices[index+1].Controller = c.Offices[index+1].Controller, c.Offices[index].Controller
	g.endEffect(p)
	return nil
}

func canSwap(c *City, i int, p PlayerID) bool {
	if i < 0 || i+1 >= len(c.Offices) {
		return false
	}
	a, b := c.Offices[i].Controller, c.Offices[i+1].Controller
	return a != NoPlayer && b != NoPlayer && a != b && (a == p || b == p)
}

func (g *Game) canSwapAny(p PlayerID) bool {
	for _, c := range g.Board.Cities {
		for i := range c.Offices {
			if canSwap(c, i, p) {
				return true
			}
		}
	}
	return false
}

// ChooseUpgrade applies the free upgrade of an upgrade ability marker.
func (g *Game) ChooseUpgrade(player PlayerID, ability Ability) (err error) {
	defer g.settle(&err)

	p, err := g.actor(player)
	if err != nil {
		return err
	}
	if err := g.effect(MarkerUpgradeAbility); err != nil {
		return err
	}
	if err := p.Upgrade(ability); err != nil {
		return err
	}
	g.endEffect(p)
	return nil
}

func allMaxed(p *Player) bool {
	for _, a := range Abilities {
		if !p.Maxed(a) {
			return false
		}
	}
	return true
}

// ClaimGreenCity opens the office of a green city with a piece from the
// personal supply.
func (g *Game) ClaimGreenCity(player PlayerID, city CityID) (err error) {
	defer g.settle(&err)

	p, err := g.actor(player)
	if err != nil {
		return err
	}
	if err := g.effect(MarkerGreenCity); err != nil {
		return err
	}
	c := g.Board.City(city)
	if c == nil || c.Category != CategoryGreen {
		return errors.Wrapf(ErrInvalidTarget, "city %d is not green", city)
	}
	idx := c.NextOffice()
	if idx < 0 {
		return errors.Wrapf(ErrCityFull, "%s", c.Name)
	}
	office := &c.Offices[idx]
	if err := p.Personal.Take(office.Shape, 1); err != nil {
		return err
	}
	office.Controller = p.ID
	p.Score += office.Points
	g.acquirePerk(p, c)
	g.checkEastWest(p)
	g.endEffect(p)
	return nil
}

// FinishEffect closes the open bonus effect, forfeiting what is left.
func (g *Game) FinishEffect(player PlayerID) (err error) {
	defer g.settle(&err)

	p, err := g.actor(player)
	if err != nil {
		return err
	}
	if err := g.requireState(StateBonusEffect); err != nil {
		return err
	}
	if len(p.Holding) > 0 {
		return errors.Wrapf(ErrPiecesHeld, "%d", len(p.Holding))
	}
	g.endEffect(p)
	return nil
}

// ReplaceBonusMarker pays one owed marker by drawing from the pool onto
// route. Drawing from an empty pool clears the debt and ends the game.
func (g *Game) ReplaceBonusMarker(player PlayerID, route RouteID) (err error) {
	defer g.settle(&err)

	p, err := g.actor(player)
	if err != nil {
		return err
	}
	if err := g.requireState(StateNormal); err != nil {
		return err
	}
	if g.MarkersOwed == 0 {
		return errors.Wrap(ErrInvalidTarget, "no bonus marker owed")
	}
	if p.ActionsLeft > 0 {
		return errors.Wrapf(ErrActionsRemaining, "%d left", p.ActionsLeft)
	}
	if len(g.Pool) == 0 {
		g.MarkersOwed = 0
		g.PoolExhausted = true
		logs.Info("bonus marker pool exhausted")
		return nil
	}
	if !g.AssignBonusMarker(route) {
		return errors.Wrapf(ErrInvalidTarget, "route %d cannot take a bonus marker", route)
	}
	g.MarkersOwed--
	return nil
}

func (g *Game) hasOpponentPiece(p PlayerID) bool {
	for _, r := range g.Board.Routes {
		for _, post := range r.Posts {
			if !post.Empty() && post.Owner != p {
				return true
			}
		}
	}
	return false
}

func (g *Game) hasAnyPiece() bool {
	for _, r := range g.Board.Routes {
		if !r.Unoccupied() {
			return true
		}
	}
	return false
}

func (g *Game) hasOpenGreenCity() bool {
	for _, c := range g.Board.Cities {
		if c.Category == CategoryGreen && c.HasEmptyOffice() {
			return true
		}
	}
	return false
}

func (g *Game) hasEmptyRegionalPost() bool {
	for _, r := range g.Board.Routes {
		if !r.Region.Special() {
			continue
		}
		for _, post := range r.Posts {
			if post.Empty() {
				return true
			}
		}
	}
	return false
}
