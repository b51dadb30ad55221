package game

import (
	"fmt"

	"go.uber.org/zap"

	"hansa-teutonica/internal/logs"
)

// eastWestPoints are awarded in order to the first players to connect the
// two east-west cities.
var eastWestPoints = []int{7, 4, 2}

// markerSteps maps a collected marker count to its end-game score.
var markerSteps = []struct{ min, points int }{
	{10, 21},
	{8, 15},
	{6, 10},
	{4, 6},
	{2, 3},
	{1, 1},
}

// MarkerScore returns the end-game score for n collected markers.
func MarkerScore(n int) int {
	for _, s := range markerSteps {
		if n >= s.min {
			return s.points
		}
	}
	return 0
}

// ConnectsEastWest reports whether p has an office in every city of some
// path between the two east-west cities.
func (g *Game) ConnectsEastWest(p PlayerID) bool {
	from, to := g.Board.EastWest[0], g.Board.EastWest[1]
	if from == to || g.Board.City(from) == nil || g.Board.City(to) == nil {
		return false
	}
	if g.Board.Cities[from].OfficeCount(p) == 0 {
		return false
	}

	visited := map[CityID]bool{from: true}
	stack := []CityID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		for _, n := range g.Board.Neighbors(id) {
			if visited[n] || g.Board.Cities[n].OfficeCount(p) == 0 {
				continue
			}
			visited[n] = true
			stack = append(stack, n)
		}
	}
	return false
}

func (g *Game) checkEastWest(p *Player) {
	if p.EastWestRank != 0 || len(g.EastWest) >= len(eastWestPoints) {
		return
	}
	if !g.ConnectsEastWest(p.ID) {
		return
	}
	g.EastWest = append(g.EastWest, p.ID)
	p.EastWestRank = len(g.EastWest)
	points := eastWestPoints[p.EastWestRank-1]
	p.Score += points
	logs.Info("east-west connection", zap.Int("player", int(p.ID)), zap.Int("rank", p.EastWestRank), zap.Int("points", points))
}

// LargestNetwork returns the office count of p's largest connected group
// of cities.
func (g *Game) LargestNetwork(p PlayerID) int {
	visited := make(map[CityID]bool)
	best := 0
	for _, c := range g.Board.Cities {
		if visited[c.ID] || c.OfficeCount(p) == 0 {
			continue
		}
		size := 0
		visited[c.ID] = true
		stack := []CityID{c.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size += g.Board.Cities[id].OfficeCount(p)
			for _, n := range g.Board.Neighbors(id) {
				if !visited[n] && g.Board.Cities[n].OfficeCount(p) > 0 {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		best = max(best, size)
	}
	return best
}

// ScoreBreakdown itemises a player's end-game score.
type ScoreBreakdown struct {
	Running   int `json:"running"`
	Abilities int `json:"abilities"`
	Markers   int `json:"markers"`
	Prestige  int `json:"prestige"`
	Cities    int `json:"cities"`
	Network   int `json:"network"`
	Total     int `json:"total"`
}

// scoredAbilities earn points when maxed at the end of the game.
var scoredAbilities = []Ability{AbilityKeys, AbilityBook, AbilityActions, AbilityBank}

// Score computes p's end-game score from the current board.
func (g *Game) Score(id PlayerID) ScoreBreakdown {
	p := g.Player(id)
	if p == nil {
		return ScoreBreakdown{}
	}
	s := ScoreBreakdown{Running: p.Score}

	perAbility := 4
	if g.PerkOwners[PerkAbilityBonus] == id {
		perAbility += 3
	}
	for _, a := range scoredAbilities {
		if p.Maxed(a) {
			s.Abilities += perAbility
		}
	}

	s.Markers = MarkerScore(p.MarkerCount())
	s.Prestige = p.PrestigePoints

	perCity := 2
	if g.PerkOwners[PerkCityBonus] == id {
		perCity *= 2
	}
	for _, c := range g.Board.Cities {
		if c.Controller() == id {
			s.Cities += perCity
		}
	}

	s.Network = g.LargestNetwork(id) * p.Value(AbilityKeys)
	s.Total = max(s.Running, s.Running+s.Abilities+s.Markers+s.Prestige+s.Cities+s.Network)
	return s
}

// endTrigger returns why the game should end, or "".
func (g *Game) endTrigger() string {
	if g.PoolExhausted || len(g.Pool) == 0 {
		return "bonus marker pool exhausted"
	}
	limit := g.Settings.ScoreLimit
	if limit <= 0 {
		limit = DefaultScoreLimit
	}
	for _, p := range g.Players {
		if p.Score >= limit {
			return fmt.Sprintf("%s reached %d points", p.Name, p.Score)
		}
	}
	if most := g.Board.MaxFullCities; most > 0 {
		if full := g.Board.FullCities(); full >= most {
			return fmt.Sprintf("%d cities are full", full)
		}
	}
	return ""
}

// checkGameEnd ends the game when a trigger holds. Open sub-protocols
// finish first.
func (g *Game) checkGameEnd() {
	if g.State.Kind != StateNormal {
		return
	}
	reason := g.endTrigger()
	if reason == "" {
		return
	}

	top := 0
	for _, p := range g.Players {
		p.FinalScore = g.Score(p.ID).Total
		top = max(top, p.FinalScore)
	}
	g.Winners = nil
	for _, p := range g.Players {
		if p.FinalScore == top {
			g.Winners = append(g.Winners, p.ID)
		}
	}
	g.EndReason = reason
	g.State = State{Kind: StateGameOver}
	logs.Info("game over", zap.String("game", g.ID), zap.String("reason", reason), zap.Any("winners", g.Winners))
}
