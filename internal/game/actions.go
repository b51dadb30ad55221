package game

import (
	"github.com/pkg/errors"
)

// ClaimPost puts a piece from the personal supply on an empty post.
func (g *Game) ClaimPost(player PlayerID, ref PostRef, shape Shape) (err error) {
	defer g.settle(&err)

	p, err := g.turnAction(player)
	if err != nil {
		return err
	}
	route, post := g.Board.Post(ref)
	switch {
	case post == nil:
		return errors.Wrapf(ErrInvalidTarget, "post %v", ref)
	case !post.Empty():
		return errors.Wrapf(ErrPostOccupied, "post %v", ref)
	case p.Personal.Total() == 0:
		return errors.Wrap(ErrInsufficientSupply, "no pieces left in personal supply")
	case !shape.Valid():
		return ErrInvalidShape
	case !post.Accepts(shape):
		return errors.Wrapf(ErrShapeMismatch, "post needs a %s", post.Required)
	case !p.HasPersonal(shape):
		return errors.Wrapf(ErrInsufficientSupply, "no %s in personal supply", shape)
	case !g.canUseRegion(p, route.Region):
		return errors.Wrapf(ErrNoPrivilege, "no %s privilege", route.Region)
	}

	if err := p.Personal.Take(shape, 1); err != nil {
		return internal("claim post", err)
	}
	g.spendRegion(p, route.Region)
	post.Set(p.ID, shape)
	p.ActionsLeft--
	return nil
}

// Income moves pieces from general stock to personal supply.
func (g *Game) Income(player PlayerID, squares, circles int) (err error) {
	defer g.settle(&err)

	p, err := g.turnAction(player)
	if err != nil {
		return err
	}
	if err := p.collectIncome(squares, circles); err != nil {
		return err
	}
	p.ActionsLeft--
	return nil
}

// PickUp lifts a piece off the board. From normal play it starts a move
// of the player's own pieces; during a move bonus it lifts the pieces the
// bonus allows.
func (g *Game) PickUp(player PlayerID, ref PostRef) (err error) {
	defer g.settle(&err)

	p, err := g.actor(player)
	if err != nil {
		return err
	}
	route, post := g.Board.Post(ref)
	if post == nil {
		return errors.Wrapf(ErrInvalidTarget, "post %v", ref)
	}

	switch g.State.Kind {
	case StateNormal:
		if p.ActionsLeft <= 0 {
			return ErrNoActions
		}
		if post.Owner != p.ID {
			return errors.Wrap(ErrInvalidTarget, "can only move own pieces")
		}
		p.startMove(p.Value(AbilityBook))
		g.State = State{Kind: StateMoving}
		return p.pickUp(post, route.Region)

	case StateMoving:
		if post.Owner != p.ID {
			return errors.Wrap(ErrInvalidTarget, "can only move own pieces")
		}
		return p.pickUp(post, route.Region)

	case StateBonusEffect:
		switch g.State.Effect.Kind {
		case MarkerMove3:
			if post.Empty() || post.Owner == p.ID {
				return errors.Wrap(ErrInvalidTarget, "can only move opponent pieces")
			}
		case MarkerMoveAny2:
		default:
			return errors.Wrapf(ErrWrongState, "%s does not move pieces", g.State.Effect.Kind)
		}
		return p.pickUp(post, route.Region)
	}
	return errors.Wrapf(ErrWrongState, "state is %s", g.State.Kind)
}

// PlacePiece puts a piece on an empty post. What is placed depends on the
// state: a displaced player's replacement, the next piece of a move, or a
// bonus placement from the personal supply.
func (g *Game) PlacePiece(player PlayerID, ref PostRef, shape Shape) (err error) {
	defer g.settle(&err)

	p, err := g.actor(player)
	if err != nil {
		return err
	}
	route, post := g.Board.Post(ref)
	if post == nil {
		return errors.Wrapf(ErrInvalidTarget, "post %v", ref)
	}

	switch g.State.Kind {
	case StateDisplacement:
		return g.placeDisplaced(p, post, shape)
	case StateMoving:
		if err := p.placeHeld(post, route.Region); err != nil {
			return err
		}
		if len(p.Holding) == 0 {
			p.ActionsLeft--
			g.setNormal()
		}
		return nil
	case StateBonusEffect:
		return g.placeForEffect(p, route, post, shape)
	}
	return errors.Wrapf(ErrWrongState, "state is %s", g.State.Kind)
}
