package maps

import (
	"github.com/pkg/errors"

	"hansa-teutonica/internal/game"
)

func appendUnique(ids []game.CityID, id game.CityID) []game.CityID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

var shapes = map[string]game.Shape{
	"":       game.ShapeNone,
	"square": game.ShapeSquare,
	"circle": game.ShapeCircle,
}

var colors = map[string]game.OfficeColor{
	"white":  game.ColorWhite,
	"orange": game.ColorOrange,
	"purple": game.ColorPurple,
	"black":  game.ColorBlack,
	"green":  game.ColorGreen,
}

var regions = map[string]game.Region{
	"":         game.RegionNone,
	"wales":    game.RegionWales,
	"scotland": game.RegionScotland,
}

var categories = map[string]game.CityCategory{
	"":      game.CategoryNormal,
	"green": game.CategoryGreen,
}

var upgrades = map[string]game.Upgrade{
	"keys":      game.UpgradeKeys,
	"privilege": game.UpgradePrivilege,
	"actions":   game.UpgradeActions,
	"bank":      game.UpgradeBank,
	"book":      game.UpgradeBook,
	"prestige":  game.UpgradePrestige,
}

var perks = map[string]game.Perk{
	"":                game.PerkNone,
	"extra_displaced": game.PerkExtraDisplaced,
	"ability_bonus":   game.PerkAbilityBonus,
	"city_bonus":      game.PerkCityBonus,
}

// MarkerNames maps the JSON names of bonus markers to their kinds.
var MarkerNames = map[string]game.MarkerKind{
	"":                 game.MarkerNone,
	"place_adjacent":   game.MarkerPlaceAdjacent,
	"swap_office":      game.MarkerSwapOffice,
	"upgrade_ability":  game.MarkerUpgradeAbility,
	"move_3":           game.MarkerMove3,
	"extra_actions_3":  game.MarkerExtraActions3,
	"extra_actions_4":  game.MarkerExtraActions4,
	"move_any_2":       game.MarkerMoveAny2,
	"green_city":       game.MarkerGreenCity,
	"place_2_on_route": game.MarkerPlace2FromRoute,
	"place_2_regional": game.MarkerPlace2Regional,
}

func lookup[T any](table map[string]T, kind, name string) (T, error) {
	v, ok := table[name]
	if !ok {
		return v, errors.Wrapf(game.ErrConfig, "unknown %s %q", kind, name)
	}
	return v, nil
}

// markerName returns the JSON name of k.
func markerName(k game.MarkerKind) string {
	for name, kind := range MarkerNames {
		if kind == k {
			return name
		}
	}
	return ""
}
