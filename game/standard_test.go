package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStandardRulesDamage(t *testing.T) {
	rules := NewStandardRules()
	types := StandardUnitTypes()
	terrains := StandardTerrains()
	unit := func(name string) *Unit { return NewUnit(1, 1, types[name], Coord{}) }

	tests := []struct {
		name     string
		attacker string
		target   string
		terrain  string
		want     int
	}{
		{"archer vs warrior on plains", Archer, Warrior, TerrainPlains, 3},
		{"warrior vs archer", Warrior, Archer, TerrainPlains, 6},
		{"archer vs defender is halved then armored", Archer, Defender, TerrainPlains, 1},
		{"warrior vs defender in forest", Warrior, Defender, TerrainForest, 2},
		{"spearman vs defender on hills", Spearman, Defender, TerrainHills, 3},
		{"defender vs defender never below the minimum", Defender, Defender, TerrainForest, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.Damage(unit(tt.attacker), unit(tt.target), terrains[tt.terrain])
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStandardRulesMovementCost(t *testing.T) {
	rules := NewStandardRules()
	types := StandardUnitTypes()
	terrains := StandardTerrains()

	cost, ok := rules.MovementCost(types[Warrior], terrains[TerrainForest])
	require.True(t, ok)
	require.Equal(t, 2, cost)

	cost, ok = rules.MovementCost(types[Defender], terrains[TerrainHills])
	require.True(t, ok)
	require.Equal(t, 3, cost, "Heavy units climb hills slower")

	_, ok = rules.MovementCost(types[Archer], terrains[TerrainWater])
	require.False(t, ok, "Water is impassable")
	_, ok = rules.MovementCost(types[Spearman], terrains[TerrainMountain])
	require.False(t, ok, "Mountains are impassable")
}

func TestStandardRulesValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, NewStandardRules().Validate())
	})

	t.Run("unknown movement class", func(t *testing.T) {
		rules := NewStandardRules()
		rules.UnitTypes[Warrior].MovementClass = "hover"
		require.ErrorContains(t, rules.Validate(), "hover")
	})

	t.Run("unknown terrain in class", func(t *testing.T) {
		rules := NewStandardRules()
		rules.MovementClasses["foot"]["swamp"] = 3
		require.ErrorContains(t, rules.Validate(), "swamp")
	})

	t.Run("inverted range", func(t *testing.T) {
		rules := NewStandardRules()
		rules.UnitTypes[Archer].Range = RangeBand{Min: 3, Max: 2}
		require.Error(t, rules.Validate())
	})

	t.Run("non positive initiative", func(t *testing.T) {
		rules := NewStandardRules()
		rules.InitiativeLimit = 0
		require.Error(t, rules.Validate())
	})
}

func TestUnitTypes(t *testing.T) {
	types := StandardUnitTypes()
	terrains := StandardTerrains()

	require.True(t, types[Archer].HasRangedAttack())
	require.False(t, types[Archer].CanMelee(), "Archers cannot strike adjacent tiles")
	require.True(t, types[Spearman].HasRangedAttack())
	require.True(t, types[Spearman].CanMelee())
	require.False(t, types[Warrior].HasRangedAttack())
	require.True(t, types[Spearman].StraightLine, "Spears strike along rows and columns")
	require.False(t, types[Archer].StraightLine)

	require.Equal(t, 5, types[Archer].EffectiveMovement(terrains[TerrainPlains]))
	require.Equal(t, 4, types[Archer].EffectiveMovement(terrains[TerrainForest]))
	require.Equal(t, 3, types[Defender].EffectiveMovement(terrains[TerrainPlains]))
}

func TestUnitApplyDamage(t *testing.T) {
	u := NewUnit(1, 1, StandardUnitTypes()[Archer], Coord{})

	require.False(t, u.ApplyDamage(4))
	require.Equal(t, 2, u.HP)
	require.False(t, u.ApplyDamage(0), "Zero damage is a no-op")

	require.True(t, u.ApplyDamage(5), "The killing blow reports destruction")
	require.Equal(t, 0, u.HP, "HP is clamped at zero")
	require.False(t, u.Alive())

	require.False(t, u.ApplyDamage(3), "A destroyed unit is only destroyed once")
	require.Equal(t, 0, u.HP)
}

func TestUnitTurnFlags(t *testing.T) {
	u := NewUnit(1, 1, StandardUnitTypes()[Warrior], Coord{})

	u.Move(Coord{X: 1, Y: 2})
	require.Equal(t, Coord{X: 1, Y: 2}, u.Pos)
	require.True(t, u.HasMoved)
	u.MarkActed()
	require.True(t, u.HasActed)

	u.ResetTurn()
	require.False(t, u.HasMoved)
	require.False(t, u.HasActed)
	require.Equal(t, Coord{X: 1, Y: 2}, u.Pos, "Resetting keeps the position")
}
