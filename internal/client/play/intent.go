package play

import (
	"hansa-teutonica/internal/client/layout"
	"hansa-teutonica/internal/game"
)

// Modifiers are the input details a click carries besides its target.
type Modifiers struct {
	Shape    game.Shape // left click square, right click circle
	Adjacent bool       // shift held: open a new office with place adjacent
}

// Command is what a click resolves to. At most one of Action, Select and
// Copy is set; an empty Command means the click does nothing.
type Command struct {
	Action *game.Action
	Select game.RouteID
	Copy   bool
}

func noCommand() Command {
	return Command{Select: -1}
}

func act(a game.Action) Command {
	return Command{Action: &a, Select: -1}
}

// Intent maps a click on t to a command for seat, given the current state
// and the route the player selected earlier (-1 for none). It only picks
// the action; the engine still decides whether it is legal.
func Intent(g *game.Game, seat game.PlayerID, t layout.Target, mods Modifiers, selected game.RouteID) Command {
	if g == nil || g.IsOver() {
		if t.Kind == layout.KindButton && t.Button == layout.ButtonCopy {
			return Command{Select: -1, Copy: true}
		}
		return noCommand()
	}
	shape := mods.Shape
	if !shape.Valid() {
		shape = game.ShapeSquare
	}

	switch t.Kind {
	case layout.KindPost:
		return postIntent(g, seat, t.Post, shape)
	case layout.KindRoute:
		if g.State.Kind == game.StateNormal && g.MarkersOwed > 0 {
			return act(game.Action{Type: game.ActionReplaceMarker, Route: t.Route})
		}
		if selected == t.Route {
			return noCommand()
		}
		return Command{Select: t.Route}
	case layout.KindOffice, layout.KindCity:
		return cityIntent(g, seat, t, mods, selected)
	case layout.KindUpgrade:
		c := g.Board.City(t.City)
		route := claimRoute(g, seat, t.City, selected)
		if c == nil || t.Index >= len(c.Upgrades) || route < 0 {
			return noCommand()
		}
		return act(game.Action{Type: game.ActionClaimUpgrade, Route: route, City: t.City, Upgrade: c.Upgrades[t.Index]})
	case layout.KindAbility:
		if effectKind(g) == game.MarkerUpgradeAbility {
			return act(game.Action{Type: game.ActionChooseUpgrade, Ability: t.Ability})
		}
	case layout.KindMarker:
		p := g.Player(seat)
		if p != nil && t.Index < len(p.Markers) {
			return act(game.Action{Type: game.ActionUseMarker, Marker: p.Markers[t.Index]})
		}
	case layout.KindButton:
		return buttonIntent(g, seat, t.Button, selected)
	}
	return noCommand()
}

func postIntent(g *game.Game, seat game.PlayerID, ref game.PostRef, shape game.Shape) Command {
	_, post := g.Board.Post(ref)
	if post == nil {
		return noCommand()
	}

	switch g.State.Kind {
	case game.StateDisplacement:
		return act(game.Action{Type: game.ActionPlace, Post: ref, Shape: shape})
	case game.StateMoving:
		return movingIntent(post, ref, shape)
	case game.StateBonusEffect:
		switch effectKind(g) {
		case game.MarkerMove3, game.MarkerMoveAny2:
			return movingIntent(post, ref, shape)
		}
		return act(game.Action{Type: game.ActionPlace, Post: ref, Shape: shape})
	}

	switch {
	case post.Empty():
		return act(game.Action{Type: game.ActionClaimPost, Post: ref, Shape: shape})
	case post.Owner == seat:
		return act(game.Action{Type: game.ActionPickUp, Post: ref})
	default:
		return act(game.Action{Type: game.ActionDisplace, Post: ref, Shape: shape})
	}
}

// movingIntent picks up from occupied posts and drops on empty ones.
func movingIntent(post *game.Post, ref game.PostRef, shape game.Shape) Command {
	if post.Empty() {
		return act(game.Action{Type: game.ActionPlace, Post: ref, Shape: shape})
	}
	return act(game.Action{Type: game.ActionPickUp, Post: ref})
}

func cityIntent(g *game.Game, seat game.PlayerID, t layout.Target, mods Modifiers, selected game.RouteID) Command {
	switch effectKind(g) {
	case game.MarkerSwapOffice:
		if t.Kind == layout.KindOffice {
			return act(game.Action{Type: game.ActionSwapOffices, City: t.City, Index: t.Index})
		}
		return noCommand()
	case game.MarkerGreenCity:
		return act(game.Action{Type: game.ActionClaimGreenCity, City: t.City})
	}

	route := claimRoute(g, seat, t.City, selected)
	if route < 0 {
		return noCommand()
	}
	return act(game.Action{Type: game.ActionClaimOffice, Route: route, City: t.City, Adjacent: mods.Adjacent})
}

// claimRoute is the route a city click claims: the selected route when
// it ends in city, else the only route seat controls there.
func claimRoute(g *game.Game, seat game.PlayerID, city game.CityID, selected game.RouteID) game.RouteID {
	if r := g.Board.Route(selected); r != nil && r.Touches(city) {
		return selected
	}
	c := g.Board.City(city)
	if c == nil {
		return -1
	}
	found := game.RouteID(-1)
	for _, id := range c.Routes {
		if g.Board.Routes[id].ControlledBy(seat) {
			if found >= 0 {
				return -1
			}
			found = id
		}
	}
	return found
}

func buttonIntent(g *game.Game, seat game.PlayerID, b layout.Button, selected game.RouteID) Command {
	switch b {
	case layout.ButtonEndTurn:
		return act(game.Action{Type: game.ActionEndTurn})
	case layout.ButtonSkipMarkers:
		return act(game.Action{Type: game.ActionEndTurn, Skip: true})
	case layout.ButtonIncome:
		p := g.Player(seat)
		if p == nil {
			return noCommand()
		}
		squares, circles := incomeSplit(p)
		return act(game.Action{Type: game.ActionIncome, Squares: squares, Circles: circles})
	case layout.ButtonPoints:
		if selected < 0 {
			return noCommand()
		}
		return act(game.Action{Type: game.ActionClaimPoints, Route: selected})
	case layout.ButtonFinish:
		return act(game.Action{Type: game.ActionFinishEffect})
	case layout.ButtonCopy:
		return Command{Select: -1, Copy: true}
	}
	return noCommand()
}

// incomeSplit moves as many pieces as the bank allows, circles first.
func incomeSplit(p *game.Player) (squares, circles int) {
	bank := p.Value(game.AbilityBank)
	circles = min(p.General.Circles, bank)
	squares = min(p.General.Squares, bank-circles)
	return squares, circles
}

func effectKind(g *game.Game) game.MarkerKind {
	if g.State.Kind != game.StateBonusEffect || g.State.Effect == nil {
		return game.MarkerNone
	}
	return g.State.Effect.Kind
}
