package game

// PlayerID identifies a player by seat.
type PlayerID int

// NoPlayer marks an unowned post, office, slot or perk.
const NoPlayer PlayerID = -1

// CityID indexes Board.Cities.
type CityID int

// RouteID indexes Board.Routes.
type RouteID int

// PostRef addresses one post on one route.
type PostRef struct {
	Route RouteID `json:"route"`
	Index int     `json:"index"`
}

// Shape is a piece shape: a square trader or a circle merchant.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeSquare
	ShapeCircle
)

var shapeNames = map[Shape]string{
	ShapeNone:   "none",
	ShapeSquare: "square",
	ShapeCircle: "circle",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether s is a real piece shape.
func (s Shape) Valid() bool {
	return s == ShapeSquare || s == ShapeCircle
}

// Region tags routes in one of the two special regions.
type Region int

const (
	RegionNone Region = iota
	RegionWales
	RegionScotland
	numRegions
)

// SpecialRegions lists the regions gated by regional privilege.
var SpecialRegions = []Region{RegionWales, RegionScotland}

func (r Region) String() string {
	switch r {
	case RegionNone:
		return "none"
	case RegionWales:
		return "wales"
	case RegionScotland:
		return "scotland"
	default:
		return "unknown"
	}
}

// Special reports whether r is gated by regional privilege.
func (r Region) Special() bool {
	return r == RegionWales || r == RegionScotland
}

// canEnter applies the region transition rule: a piece from a plain post
// stays on plain posts; a piece from a special region stays in that region
// or goes back to plain posts.
func canEnter(from, to Region) bool {
	if to == RegionNone {
		return true
	}
	return from == to
}

// OfficeColor is the privilege an office requires. Green offices are only
// reachable through the green city bonus.
type OfficeColor int

const (
	ColorWhite OfficeColor = iota + 1
	ColorOrange
	ColorPurple
	ColorBlack
	ColorGreen
)

func (c OfficeColor) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorOrange:
		return "orange"
	case ColorPurple:
		return "purple"
	case ColorBlack:
		return "black"
	case ColorGreen:
		return "green"
	default:
		return "unknown"
	}
}

// CityCategory changes how a city's offices are claimed.
type CityCategory int

const (
	CategoryNormal CityCategory = iota
	CategoryGreen
)

// Perk is a one-time city reward owned by the first player to open an
// office there.
type Perk int

const (
	PerkNone Perk = iota
	PerkExtraDisplaced
	PerkAbilityBonus
	PerkCityBonus
	numPerks
)

// Perks lists the real perks in tensor order.
var Perks = []Perk{PerkExtraDisplaced, PerkAbilityBonus, PerkCityBonus}

func (p Perk) String() string {
	switch p {
	case PerkExtraDisplaced:
		return "extra displaced piece"
	case PerkAbilityBonus:
		return "ability bonus"
	case PerkCityBonus:
		return "city bonus"
	default:
		return "none"
	}
}

// Ability is one of the five upgradable player tracks.
type Ability int

const (
	AbilityKeys Ability = iota
	AbilityPrivilege
	AbilityActions
	AbilityBank
	AbilityBook
	numAbilities
)

// Abilities lists all tracks in tensor order.
var Abilities = []Ability{AbilityKeys, AbilityPrivilege, AbilityActions, AbilityBank, AbilityBook}

func (a Ability) String() string {
	switch a {
	case AbilityKeys:
		return "keys"
	case AbilityPrivilege:
		return "privilege"
	case AbilityActions:
		return "actions"
	case AbilityBank:
		return "bank"
	case AbilityBook:
		return "book"
	default:
		return "unknown"
	}
}

// Upgrade is a city upgrade slot: one of the abilities or prestige.
type Upgrade int

const (
	UpgradeKeys Upgrade = iota
	UpgradePrivilege
	UpgradeActions
	UpgradeBank
	UpgradeBook
	UpgradePrestige
)

// Ability returns the track an upgrade advances; prestige has none.
func (u Upgrade) Ability() (Ability, bool) {
	if u >= UpgradeKeys && u <= UpgradeBook {
		return Ability(u), true
	}
	return 0, false
}

func (u Upgrade) String() string {
	if u == UpgradePrestige {
		return "prestige"
	}
	if a, ok := u.Ability(); ok {
		return a.String()
	}
	return "unknown"
}

// PlayerColors are assigned by seat when a setup leaves the color empty.
var PlayerColors = []string{"red", "blue", "green", "yellow", "purple"}

// ColorIndex returns the position of name in PlayerColors, or -1.
func ColorIndex(name string) int {
	for i, c := range PlayerColors {
		if c == name {
			return i
		}
	}
	return -1
}
