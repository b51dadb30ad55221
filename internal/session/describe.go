package session

import (
	"fmt"
	"strings"

	"hansa-teutonica/internal/database"
	"hansa-teutonica/internal/game"
)

// describe turns an accepted action into a history line. Steps inside a
// move or an effect are not worth a line of their own.
func (s *Session) describe(player game.PlayerID, a game.Action) (string, string) {
	g := s.game
	name := "?"
	if p := g.Player(player); p != nil {
		name = p.Name
	}

	switch a.Type {
	case game.ActionClaimPost:
		return database.EventPostClaimed, fmt.Sprintf("%s placed a %s on %s", name, a.Shape, s.routeName(a.Post.Route))
	case game.ActionDisplace:
		return database.EventDisplacement, fmt.Sprintf("%s displaced a piece on %s with a %s", name, s.routeName(a.Post.Route), a.Shape)
	case game.ActionIncome:
		return database.EventIncome, fmt.Sprintf("%s collected %d squares and %d circles", name, a.Squares, a.Circles)
	case game.ActionClaimOffice:
		return database.EventRouteClaimed, fmt.Sprintf("%s claimed %s for an office in %s", name, s.routeName(a.Route), s.cityName(a.City))
	case game.ActionClaimUpgrade:
		return database.EventRouteClaimed, fmt.Sprintf("%s claimed %s to upgrade %s", name, s.routeName(a.Route), a.Upgrade)
	case game.ActionClaimPoints:
		return database.EventRouteClaimed, fmt.Sprintf("%s claimed %s for points", name, s.routeName(a.Route))
	case game.ActionUseMarker:
		return database.EventMarker, fmt.Sprintf("%s used %s", name, a.Marker)
	case game.ActionReplaceMarker:
		return database.EventMarker, fmt.Sprintf("%s placed a bonus marker on %s", name, s.routeName(a.Route))
	case game.ActionPlace:
		if g.State.Kind == game.StateNormal {
			return database.EventMove, fmt.Sprintf("%s placed the last piece on %s", name, s.routeName(a.Post.Route))
		}
	case game.ActionEndTurn:
		next := g.Player(g.Current)
		return database.EventTurnEnd, fmt.Sprintf("%s ended the turn, %s is next", name, next.Name)
	}
	return "", ""
}

func (s *Session) describeEnd() string {
	g := s.game
	names := make([]string, 0, len(g.Winners))
	for _, id := range g.Winners {
		names = append(names, g.Player(id).Name)
	}
	var scores []string
	for _, p := range g.Players {
		scores = append(scores, fmt.Sprintf("%s %d", p.Name, p.FinalScore))
	}
	return fmt.Sprintf("game over (%s): won by %s; %s", g.EndReason, strings.Join(names, " and "), strings.Join(scores, ", "))
}

func (s *Session) routeName(id game.RouteID) string {
	r := s.game.Board.Route(id)
	if r == nil {
		return fmt.Sprintf("route %d", id)
	}
	return s.cityName(r.Cities[0]) + "-" + s.cityName(r.Cities[1])
}

func (s *Session) cityName(id game.CityID) string {
	if c := s.game.Board.City(id); c != nil {
		return c.Name
	}
	return fmt.Sprintf("city %d", id)
}
