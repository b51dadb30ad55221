package game

import (
	"go.uber.org/zap"

	"hansa-teutonica/internal/logs"
)

// MarkerKind is a bonus marker type. Temporary kinds travel from a route
// to a player; permanent kinds stay on their route for the whole game.
type MarkerKind int

const (
	MarkerNone MarkerKind = iota
	MarkerPlaceAdjacent
	MarkerSwapOffice
	MarkerUpgradeAbility
	MarkerMove3
	MarkerExtraActions3
	MarkerExtraActions4
	MarkerMoveAny2
	MarkerGreenCity
	MarkerPlace2FromRoute
	MarkerPlace2Regional
)

// TemporaryMarkers lists the temporary kinds in tensor order.
var TemporaryMarkers = []MarkerKind{
	MarkerPlaceAdjacent,
	MarkerSwapOffice,
	MarkerUpgradeAbility,
	MarkerMove3,
	MarkerExtraActions3,
	MarkerExtraActions4,
}

var markerNames = map[MarkerKind]string{
	MarkerNone:            "none",
	MarkerPlaceAdjacent:   "place adjacent",
	MarkerSwapOffice:      "swap office",
	MarkerUpgradeAbility:  "upgrade ability",
	MarkerMove3:           "move 3",
	MarkerExtraActions3:   "3 actions",
	MarkerExtraActions4:   "4 actions",
	MarkerMoveAny2:        "move any 2",
	MarkerGreenCity:       "green city",
	MarkerPlace2FromRoute: "place 2 on route",
	MarkerPlace2Regional:  "place 2 regional",
}

func (k MarkerKind) String() string {
	if name, ok := markerNames[k]; ok {
		return name
	}
	return "unknown"
}

// Temporary reports whether k is a single-use marker.
func (k MarkerKind) Temporary() bool {
	return k >= MarkerPlaceAdjacent && k <= MarkerExtraActions4
}

// Permanent reports whether k is fixed to a route.
func (k MarkerKind) Permanent() bool {
	return k >= MarkerMoveAny2 && k <= MarkerPlace2Regional
}

// Usable reports whether k can be activated on its own. Place adjacent
// only works as part of an office claim.
func (k MarkerKind) Usable() bool {
	return k.Temporary() && k != MarkerPlaceAdjacent
}

// EligibleForMarker reports whether a new temporary marker may go on
// route id: nothing on it, no pieces, and an open office at either end.
func (b *Board) EligibleForMarker(id RouteID) bool {
	r := b.Route(id)
	if r == nil || r.Marker != MarkerNone || r.Permanent != MarkerNone || !r.Unoccupied() {
		return false
	}
	for _, cid := range r.Cities {
		if b.Cities[cid].HasEmptyOffice() {
			return true
		}
	}
	return false
}

// hasMarkerTarget reports whether any route could take a marker.
func (b *Board) hasMarkerTarget() bool {
	for _, r := range b.Routes {
		if b.EligibleForMarker(r.ID) {
			return true
		}
	}
	return false
}

// AssignBonusMarker pops the next pooled marker onto route id. An empty
// pool or an ineligible route is logged and leaves everything unchanged.
func (g *Game) AssignBonusMarker(id RouteID) bool {
	if len(g.Pool) == 0 {
		logs.Info("bonus marker pool is empty", zap.Int("route", int(id)))
		return false
	}
	if !g.Board.EligibleForMarker(id) {
		logs.Info("route cannot take a bonus marker", zap.Int("route", int(id)))
		return false
	}
	last := len(g.Pool) - 1
	g.Board.Routes[id].Marker = g.Pool[last]
	g.Pool = g.Pool[:last]
	logs.Debug("bonus marker placed",
		zap.Int("route", int(id)),
		zap.Stringer("marker", g.Board.Routes[id].Marker),
		zap.Int("pool", len(g.Pool)))
	return true
}
