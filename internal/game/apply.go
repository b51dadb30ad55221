package game

import "github.com/pkg/errors"

// ActionType names one engine operation.
type ActionType string

const (
	ActionClaimPost      ActionType = "claim_post"
	ActionDisplace       ActionType = "displace"
	ActionPickUp         ActionType = "pick_up"
	ActionPlace          ActionType = "place"
	ActionIncome         ActionType = "income"
	ActionClaimOffice    ActionType = "claim_office"
	ActionClaimUpgrade   ActionType = "claim_upgrade"
	ActionClaimPoints    ActionType = "claim_points"
	ActionUseMarker      ActionType = "use_marker"
	ActionSwapOffices    ActionType = "swap_offices"
	ActionChooseUpgrade  ActionType = "choose_upgrade"
	ActionClaimGreenCity ActionType = "claim_green_city"
	ActionFinishEffect   ActionType = "finish_effect"
	ActionReplaceMarker  ActionType = "replace_marker"
	ActionEndTurn        ActionType = "end_turn"
)

// Action is one player input in serializable form. Only the fields the
// type needs are read.
type Action struct {
	Type     ActionType `json:"type"`
	Post     PostRef    `json:"post,omitempty"`
	Route    RouteID    `json:"route,omitempty"`
	City     CityID     `json:"city,omitempty"`
	Shape    Shape      `json:"shape,omitempty"`
	Upgrade  Upgrade    `json:"upgrade,omitempty"`
	Ability  Ability    `json:"ability,omitempty"`
	Marker   MarkerKind `json:"marker,omitempty"`
	Index    int        `json:"index,omitempty"`
	Squares  int        `json:"squares,omitempty"`
	Circles  int        `json:"circles,omitempty"`
	Adjacent bool       `json:"adjacent,omitempty"`
	Skip     bool       `json:"skip,omitempty"`
}

// Apply dispatches a to the matching operation on behalf of player.
func (g *Game) Apply(player PlayerID, a Action) error {
	switch a.Type {
	case ActionClaimPost:
		return g.ClaimPost(player, a.Post, a.Shape)
	case ActionDisplace:
		return g.Displace(player, a.Post, a.Shape)
	case ActionPickUp:
		return g.PickUp(player, a.Post)
	case ActionPlace:
		return g.PlacePiece(player, a.Post, a.Shape)
	case ActionIncome:
		return g.Income(player, a.Squares, a.Circles)
	case ActionClaimOffice:
		return g.ClaimRouteForOffice(player, a.Route, a.City, a.Adjacent)
	case ActionClaimUpgrade:
		return g.ClaimRouteForUpgrade(player, a.Route, a.City, a.Upgrade)
	case ActionClaimPoints:
		return g.ClaimRouteForPoints(player, a.Route)
	case ActionUseMarker:
		return g.UseBonusMarker(player, a.Marker)
	case ActionSwapOffices:
		return g.SwapOffices(player, a.City, a.Index)
	case ActionChooseUpgrade:
		return g.ChooseUpgrade(player, a.Ability)
	case ActionClaimGreenCity:
		return g.ClaimGreenCity(player, a.City)
	case ActionFinishEffect:
		return g.FinishEffect(player)
	case ActionReplaceMarker:
		return g.ReplaceBonusMarker(player, a.Route)
	case ActionEndTurn:
		return g.EndTurn(player, a.Skip)
	}
	return errors.Wrapf(ErrInvalidTarget, "unknown action %q", a.Type)
}
