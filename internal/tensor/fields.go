// Package tensor converts games to and from the flat integer snapshots
// read by learning agents.
//
// A snapshot is four tagged lines of comma separated integers:
//
//	Game Tensor: <GameFields ints>
//	City Tensor: <CityFields ints per city>
//	Route Tensor: <RouteFields ints per route>
//	Player Tensor: <PlayerFields ints per player>
//
// Player, route and city references are stored plus one so that 0 means
// none. Enumerations use the numeric values of the game package types.
package tensor

// Game tensor layout.
const (
	gMapIndex = iota
	gPlayerCount
	gCurrent
	gActive
	gMarkersOwed
	gStateKind
	gEffectKind
	gEffectRemaining
	gEffectRoute     // +1
	gDisplacedPlayer // +1
	gDisplacedShape
	gFreePlaced
	gDisplacedRemaining
	gDisplacementRoute // +1
	gWalesHolder       // +1
	gScotlandHolder    // +1
	gPerkOwners        // +1, one per game.Perks entry

	GameFields = gPerkOwners + 3
)

// City tensor layout. Each office slot holds shape, color, controller+1
// and a dynamic flag; unused slots are zero.
const (
	cID = iota
	cCategory
	cUpgrade1 // +1
	cUpgrade2 // +1
	cOfficeCount
	cOffices

	MaxOffices  = 11
	officeWidth = 4
	CityFields  = cOffices + MaxOffices*officeWidth
)

// Route tensor layout. Each post holds owner+1 and shape + 4*highlighted.
const (
	rID = iota
	rCityA
	rCityB
	rRegion
	rPostCount
	rMarker
	rPermanent
	rPosts

	MaxPosts    = 5
	postWidth   = 2
	RouteFields = rPosts + MaxPosts*postWidth
)

// Player tensor layout. Held pieces are encoded as
// shape + 3*region + 9*owner, 0 for an empty slot.
const (
	pID              = 0
	pColor           = 1 // index in game.PlayerColors
	pOrder           = 2
	pScore           = 3
	pFinalScore      = 4
	pLevels          = 5 // one per game.Abilities entry
	pGeneralSquares  = 10
	pGeneralCircles  = 11
	pPersonalSquares = 12
	pPersonalCircles = 13
	pActionsLeft     = 14
	pWalesUses       = 15
	pScotlandUses    = 16
	pPrestige        = 17
	pEastWestRank    = 18
	pHeld            = 19 // count per game.TemporaryMarkers entry
	pUsed            = 25
	pMoveBudget      = 31
	pHolding         = 32

	MaxHolding   = 5
	PlayerFields = pHolding + MaxHolding
)
