// Package game contains the rules engine for Hansa Teutonica.
// This package is shared between client and server.
package game

// StateKind is the engine's current mode.
type StateKind int

const (
	StateNormal StateKind = iota
	StateMoving
	StateDisplacement
	StateBonusEffect
	StateGameOver
)

// String returns the state name.
func (k StateKind) String() string {
	switch k {
	case StateNormal:
		return "Normal"
	case StateMoving:
		return "Moving"
	case StateDisplacement:
		return "Displacement"
	case StateBonusEffect:
		return "Bonus Effect"
	case StateGameOver:
		return "Game Over"
	default:
		return "Unknown"
	}
}

// State is the engine mode plus the payload that mode needs.
type State struct {
	Kind         StateKind     `json:"kind"`
	Displacement *Displacement `json:"displacement,omitempty"`
	Effect       *Effect       `json:"effect,omitempty"`
}

// Displacement tracks the displaced player's out-of-turn placements.
// Eligible posts are the board's highlighted posts.
type Displacement struct {
	Player     PlayerID `json:"player"`
	By         PlayerID `json:"by"`
	Route      RouteID  `json:"route"`
	Shape      Shape    `json:"shape"`
	FreePlaced bool     `json:"freePlaced"`
	Remaining  int      `json:"remaining"`
}

// Effect tracks a bonus marker effect waiting for input.
type Effect struct {
	Kind      MarkerKind `json:"kind"`
	Remaining int        `json:"remaining"`
	Route     RouteID    `json:"route"`
}

// Settings contains the configurable game parameters.
type Settings struct {
	Seed       uint64 `json:"seed"`
	ScoreLimit int    `json:"scoreLimit"`
}

// Game is the complete state of one game.
type Game struct {
	ID            string               `json:"id"`
	MapID         string               `json:"mapId"`
	Settings      Settings             `json:"settings"`
	Board         *Board               `json:"board"`
	Players       []*Player            `json:"players"`
	Current       PlayerID             `json:"current"`
	State         State                `json:"state"`
	MarkersOwed   int                  `json:"markersOwed"`
	Pool          []MarkerKind         `json:"pool"`
	PoolExhausted bool                 `json:"poolExhausted,omitempty"`
	EastWest      []PlayerID           `json:"eastWest,omitempty"`
	RegionHolders [numRegions]PlayerID `json:"regionHolders"`
	PerkOwners    [numPerks]PlayerID   `json:"perkOwners"`
	EndReason     string               `json:"endReason,omitempty"`
	Winners       []PlayerID           `json:"winners,omitempty"`
}

// Player returns the player with id, or nil.
func (g *Game) Player(id PlayerID) *Player {
	if id < 0 || int(id) >= len(g.Players) {
		return nil
	}
	return g.Players[id]
}

// Active returns the player who must act next. During a displacement
// that is the displaced player, not the current one.
func (g *Game) Active() PlayerID {
	if g.State.Kind == StateDisplacement && g.State.Displacement != nil {
		return g.State.Displacement.Player
	}
	return g.Current
}

// IsOver reports whether the game has ended.
func (g *Game) IsOver() bool {
	return g.State.Kind == StateGameOver
}

// RegionHolder returns the holder of region r's privilege slot.
func (g *Game) RegionHolder(r Region) PlayerID {
	if !r.Special() {
		return NoPlayer
	}
	return g.RegionHolders[r]
}

// PerkOwner returns the owner of perk k.
func (g *Game) PerkOwner(k Perk) PlayerID {
	if k <= PerkNone || k >= numPerks {
		return NoPlayer
	}
	return g.PerkOwners[k]
}

func (g *Game) setNormal() {
	g.State = State{Kind: StateNormal}
}
