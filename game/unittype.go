package game

// Names of the built-in unit types.
const (
	Defender = "defender"
	Warrior  = "warrior"
	Archer   = "archer"
	Spearman = "spearman"
)

// RangeBand is the inclusive tile distance band an attack can reach.
type RangeBand struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// Contains reports whether distance d lies within the band.
func (r RangeBand) Contains(d int) bool {
	return d >= r.Min && d <= r.Max
}

// UnitType is the static stat block shared by every unit of a kind. It is
// never mutated once the rules are built.
type UnitType struct {
	Name        string `mapstructure:"name"`
	AttackPower int    `mapstructure:"attack"`
	Movement    int    `mapstructure:"movement"`
	// MovementModifiers adjusts Movement by the terrain the unit starts its
	// move on, keyed by terrain name (an Archer moves 5 on plains, 4 elsewhere).
	MovementModifiers   map[string]int `mapstructure:"movement_modifiers"`
	MaxHP               int            `mapstructure:"hp"`
	Armor               int            `mapstructure:"armor"`
	Range               RangeBand      `mapstructure:"range"`
	RequiresLineOfSight bool           `mapstructure:"line_of_sight"`
	// StraightLine restricts ranged attacks to targets in the same row or
	// column as the attacker.
	StraightLine  bool   `mapstructure:"straight_line"`
	MovementClass string `mapstructure:"movement_class"`
	DefenseClass  string `mapstructure:"defense_class"`
}

// HasRangedAttack reports whether the type can attack beyond adjacent tiles.
func (ut *UnitType) HasRangedAttack() bool {
	return ut.Range.Max > 1
}

// CanMelee reports whether the type can strike an adjacent tile.
func (ut *UnitType) CanMelee() bool {
	return ut.Range.Contains(1)
}

// EffectiveMovement is the movement budget when starting from terrain.
func (ut *UnitType) EffectiveMovement(terrain Terrain) int {
	mv := ut.Movement + ut.MovementModifiers[terrain.Name]
	if mv < 0 {
		return 0
	}
	return mv
}

// StandardUnitTypes returns the default stat table, keyed by type name.
func StandardUnitTypes() map[string]*UnitType {
	return map[string]*UnitType{
		Defender: {
			Name:          Defender,
			AttackPower:   2,
			Movement:      3,
			MaxHP:         12,
			Armor:         1,
			Range:         RangeBand{Min: 1, Max: 1},
			MovementClass: "heavy",
			DefenseClass:  "armored",
		},
		Warrior: {
			Name:          Warrior,
			AttackPower:   4,
			Movement:      4,
			MaxHP:         10,
			Range:         RangeBand{Min: 1, Max: 1},
			MovementClass: "foot",
			DefenseClass:  "infantry",
		},
		Archer: {
			Name:              Archer,
			AttackPower:       3,
			Movement:          4,
			MovementModifiers: map[string]int{TerrainPlains: 1},
			MaxHP:             6,
			Range:             RangeBand{Min: 2, Max: 3},
			MovementClass:     "foot",
			DefenseClass:      "skirmisher",
		},
		Spearman: {
			Name:                Spearman,
			AttackPower:         3,
			Movement:            4,
			MaxHP:               8,
			Range:               RangeBand{Min: 1, Max: 2},
			RequiresLineOfSight: true,
			StraightLine:        true,
			MovementClass:       "foot",
			DefenseClass:        "infantry",
		},
	}
}
