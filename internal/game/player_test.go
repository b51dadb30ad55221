package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerUpgradeLadders(t *testing.T) {
	p := newPlayer(0, PlayerSetup{Name: "Ann"})

	assert.Equal(t, 1, p.Value(AbilityKeys))
	assert.Equal(t, 1, p.Value(AbilityPrivilege))
	assert.Equal(t, 2, p.Value(AbilityActions))
	assert.Equal(t, 3, p.Value(AbilityBank))
	assert.Equal(t, 2, p.Value(AbilityBook))

	for range LadderLength(AbilityBank) - 1 {
		require.NoError(t, p.Upgrade(AbilityBank))
	}
	assert.Equal(t, BankUnlimited, p.Value(AbilityBank))
	assert.True(t, p.Maxed(AbilityBank))
	assert.ErrorIs(t, p.Upgrade(AbilityBank), ErrAbilityMaxed)
}

func TestPlayerUpgradeGrantsPiece(t *testing.T) {
	p := newPlayer(0, PlayerSetup{Name: "Ann"})

	require.NoError(t, p.Upgrade(AbilityKeys))
	assert.Equal(t, 6, p.Personal.Squares)

	require.NoError(t, p.Upgrade(AbilityBook))
	assert.Equal(t, 2, p.Personal.Circles)
	assert.Equal(t, 3, p.Value(AbilityBook))
}

func TestPlayerUpgradeActions(t *testing.T) {
	p := newPlayer(0, PlayerSetup{Name: "Ann"})
	p.ActionsLeft = 1

	require.NoError(t, p.Upgrade(AbilityActions))
	assert.Equal(t, 3, p.Value(AbilityActions))
	assert.Equal(t, 2, p.ActionsLeft, "2 -> 3 grants an action")

	require.NoError(t, p.Upgrade(AbilityActions))
	assert.Equal(t, 3, p.Value(AbilityActions))
	assert.Equal(t, 2, p.ActionsLeft, "3 -> 3 grants nothing")
}

func TestPlayerUpgradePrivilegeAddsRegionUses(t *testing.T) {
	p := newPlayer(0, PlayerSetup{Name: "Ann"})

	require.NoError(t, p.Upgrade(AbilityPrivilege))
	assert.Equal(t, 2, p.Value(AbilityPrivilege))
	assert.Equal(t, 2, p.RegionUses[RegionWales])
	assert.Equal(t, 2, p.RegionUses[RegionScotland])
}

func TestSupplyTakeNeverNegative(t *testing.T) {
	s := Supply{Squares: 1}

	assert.ErrorIs(t, s.Take(ShapeCircle, 1), ErrInsufficientSupply)
	assert.ErrorIs(t, s.Take(ShapeSquare, 2), ErrInsufficientSupply)
	assert.ErrorIs(t, s.Take(ShapeNone, 1), ErrInvalidShape)
	assert.Equal(t, Supply{Squares: 1}, s)

	require.NoError(t, s.Take(ShapeSquare, 1))
	assert.Equal(t, 0, s.Total())
}

func TestPayFromSquaresFirst(t *testing.T) {
	s := Supply{Squares: 1, Circles: 2}

	paid, err := payFrom(&s, 2)
	require.NoError(t, err)
	assert.Equal(t, Supply{Squares: 1, Circles: 1}, paid)
	assert.Equal(t, Supply{Circles: 1}, s)

	_, err = payFrom(&s, 2)
	assert.ErrorIs(t, err, ErrInsufficientSupply)
	assert.Equal(t, Supply{Circles: 1}, s)
}

func TestCollectIncome(t *testing.T) {
	p := newPlayer(0, PlayerSetup{Name: "Ann"})

	assert.ErrorIs(t, p.collectIncome(4, 0), ErrInsufficientSupply, "bank is 3")
	assert.ErrorIs(t, p.collectIncome(0, 0), ErrInvalidTarget)
	assert.ErrorIs(t, p.collectIncome(0, 4), ErrInsufficientSupply)

	require.NoError(t, p.collectIncome(2, 1))
	assert.Equal(t, Supply{Squares: 7, Circles: 2}, p.Personal)
	assert.Equal(t, Supply{Squares: 19, Circles: 2}, p.General)
}

func TestPlaceHeldFollowsPickUpOrder(t *testing.T) {
	p := newPlayer(0, PlayerSetup{Name: "Ann"})
	p.startMove(2)
	a := Post{Owner: 0, Shape: ShapeSquare}
	b := Post{Owner: 0, Shape: ShapeCircle}

	require.NoError(t, p.pickUp(&a, RegionNone))
	require.NoError(t, p.pickUp(&b, RegionWales))
	assert.ErrorIs(t, p.pickUp(&Post{Owner: 0, Shape: ShapeSquare}, RegionNone), ErrMoveLimit)

	circleOnly := Post{Owner: NoPlayer, Required: ShapeCircle}
	assert.ErrorIs(t, p.placeHeld(&circleOnly, RegionNone), ErrShapeMismatch, "the square comes first")

	target := Post{Owner: NoPlayer}
	require.NoError(t, p.placeHeld(&target, RegionNone))
	assert.Equal(t, ShapeSquare, target.Shape)

	scottish := Post{Owner: NoPlayer}
	assert.ErrorIs(t, p.placeHeld(&scottish, RegionScotland), ErrRegionTransition)
	require.NoError(t, p.placeHeld(&circleOnly, RegionNone))
	assert.Nil(t, p.Holding, "an empty hand is nil")
	assert.ErrorIs(t, p.placeHeld(&Post{Owner: NoPlayer}, RegionNone), ErrNothingHeld)
}
