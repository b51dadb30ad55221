package game

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/logs"
)

// actor returns the player allowed to issue the next action.
func (g *Game) actor(id PlayerID) (*Player, error) {
	if g.IsOver() {
		return nil, ErrGameOver
	}
	if id != g.Active() {
		return nil, ErrNotYourTurn
	}
	p := g.Player(id)
	if p == nil {
		return nil, internalf("actor", "active player %d does not exist", id)
	}
	return p, nil
}

func (g *Game) requireState(kinds ...StateKind) error {
	for _, k := range kinds {
		if g.State.Kind == k {
			return nil
		}
	}
	return errors.Wrapf(ErrWrongState, "state is %s", g.State.Kind)
}

// turnAction checks the common preconditions of a primary action.
func (g *Game) turnAction(id PlayerID) (*Player, error) {
	p, err := g.actor(id)
	if err != nil {
		return nil, err
	}
	if err := g.requireState(StateNormal); err != nil {
		return nil, err
	}
	if p.ActionsLeft <= 0 {
		return nil, ErrNoActions
	}
	return p, nil
}

// settle runs the end-of-game check after every accepted action.
func (g *Game) settle(err *error) {
	if *err != nil {
		return
	}
	g.checkGameEnd()
}

// canUseRegion reports whether p may occupy a post in region r. The slot
// holder enters freely, everybody else spends a regional use.
func (g *Game) canUseRegion(p *Player, r Region) bool {
	if !r.Special() {
		return true
	}
	return g.RegionHolders[r] == p.ID || p.RegionUses[r] > 0
}

func (g *Game) spendRegion(p *Player, r Region) {
	if r.Special() && g.RegionHolders[r] != p.ID {
		p.RegionUses[r]--
	}
}

// EndTurn passes play to the next seat. The player must have no actions
// or marker replacements left, and must pass explicitly on usable markers.
func (g *Game) EndTurn(player PlayerID, skipMarkers bool) (err error) {
	defer g.settle(&err)

	p, err := g.actor(player)
	if err != nil {
		return err
	}
	if err := g.requireState(StateNormal); err != nil {
		return err
	}
	if p.ActionsLeft > 0 {
		return errors.Wrapf(ErrActionsRemaining, "%d left", p.ActionsLeft)
	}
	if p.HasUsableMarkers() && !skipMarkers {
		return ErrUnusedMarkers
	}
	if g.MarkersOwed > 0 {
		switch {
		case len(g.Pool) == 0:
			g.MarkersOwed = 0
			g.PoolExhausted = true
		case g.Board.hasMarkerTarget():
			return errors.Wrapf(ErrMarkersOwed, "%d owed", g.MarkersOwed)
		default:
			logs.Warn("no route can take a bonus marker, debt dropped", zap.Int("owed", g.MarkersOwed))
			g.MarkersOwed = 0
		}
	}

	g.Current = PlayerID((int(g.Current) + 1) % len(g.Players))
	next := g.Players[g.Current]
	next.ActionsLeft = next.Value(AbilityActions)
	logs.Debug("turn passed", zap.Int("from", int(player)), zap.Int("to", int(g.Current)))
	return nil
}
