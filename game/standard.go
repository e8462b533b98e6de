package game

import (
	"fmt"
	"math"
	"sort"
)

// Names of the built-in terrains.
const (
	TerrainPlains   = "plains"
	TerrainForest   = "forest"
	TerrainHills    = "hills"
	TerrainWater    = "water"
	TerrainMountain = "mountain"
)

const DefaultInitiative = 4

// StandardRules is the table-driven Rules implementation. All tables are
// keyed by name so they can be loaded from a rules file.
type StandardRules struct {
	InitiativeLimit int
	MinDamage       int
	Terrains        map[string]Terrain
	UnitTypes       map[string]*UnitType
	// MovementClasses maps movement class -> terrain name -> entry cost.
	// A terrain missing from a class is impassable for that class.
	MovementClasses map[string]map[string]int
	// Modifiers maps attacking unit type -> target defense class -> damage
	// multiplier. Missing entries count as 1.
	Modifiers map[string]map[string]float64
}

func StandardTerrains() map[string]Terrain {
	return map[string]Terrain{
		TerrainPlains:   {Name: TerrainPlains},
		TerrainForest:   {Name: TerrainForest, Defense: 0.25, BlocksSight: true},
		TerrainHills:    {Name: TerrainHills, Defense: 0.2},
		TerrainWater:    {Name: TerrainWater},
		TerrainMountain: {Name: TerrainMountain, BlocksSight: true},
	}
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		InitiativeLimit: DefaultInitiative,
		MinDamage:       1,
		Terrains:        StandardTerrains(),
		UnitTypes:       StandardUnitTypes(),
		MovementClasses: map[string]map[string]int{
			"foot":  {TerrainPlains: 1, TerrainForest: 2, TerrainHills: 2},
			"heavy": {TerrainPlains: 1, TerrainForest: 2, TerrainHills: 3},
		},
		Modifiers: map[string]map[string]float64{
			Archer:   {"armored": 0.5},
			Spearman: {"armored": 1.5},
			Warrior:  {"skirmisher": 1.5},
		},
	}
}

func (sr *StandardRules) Initiative() int {
	return sr.InitiativeLimit
}

func (sr *StandardRules) MovementCost(ut *UnitType, terrain Terrain) (int, bool) {
	costs, ok := sr.MovementClasses[ut.MovementClass]
	if !ok {
		return 0, false
	}
	cost, ok := costs[terrain.Name]
	if !ok || cost <= 0 {
		return 0, false
	}
	return cost, true
}

// Modifier is the damage multiplier of attacker against target's defense class.
func (sr *StandardRules) Modifier(attacker, target *UnitType) float64 {
	if mods, ok := sr.Modifiers[attacker.Name]; ok {
		if m, ok := mods[target.DefenseClass]; ok {
			return m
		}
	}
	return 1
}

// Damage computes round(AP * modifier * (1 - terrain defense)) - armor, never
// less than MinDamage.
func (sr *StandardRules) Damage(attacker, target *Unit, terrain Terrain) int {
	raw := float64(attacker.Type.AttackPower) * sr.Modifier(attacker.Type, target.Type) * (1 - terrain.Defense)
	dmg := int(math.Round(raw)) - target.Type.Armor
	if dmg < sr.MinDamage {
		return sr.MinDamage
	}
	return dmg
}

func (sr *StandardRules) UnitType(name string) (*UnitType, bool) {
	ut, ok := sr.UnitTypes[name]
	return ut, ok
}

func (sr *StandardRules) Terrain(name string) (Terrain, bool) {
	t, ok := sr.Terrains[name]
	return t, ok
}

// Validate cross-checks the tables: every movement class must only name
// known terrains and every unit type must use a known movement class.
func (sr *StandardRules) Validate() error {
	if sr.InitiativeLimit <= 0 {
		return fmt.Errorf("initiative must be positive, got %d", sr.InitiativeLimit)
	}
	if sr.MinDamage < 0 {
		return fmt.Errorf("min damage must not be negative, got %d", sr.MinDamage)
	}
	for _, class := range sortedKeys(sr.MovementClasses) {
		for _, tname := range sortedKeys(sr.MovementClasses[class]) {
			if _, ok := sr.Terrains[tname]; !ok {
				return fmt.Errorf("unrecognized terrain %q for movement class %q", tname, class)
			}
		}
	}
	for _, name := range sortedKeys(sr.UnitTypes) {
		ut := sr.UnitTypes[name]
		if _, ok := sr.MovementClasses[ut.MovementClass]; !ok {
			return fmt.Errorf("unit type %q: unrecognized movement class %q", name, ut.MovementClass)
		}
		for tname := range ut.MovementModifiers {
			if _, ok := sr.Terrains[tname]; !ok {
				return fmt.Errorf("unit type %q: unrecognized terrain %q in movement modifiers", name, tname)
			}
		}
		if ut.MaxHP <= 0 {
			return fmt.Errorf("unit type %q: hp must be positive", name)
		}
		if ut.Range.Min < 1 || ut.Range.Max < ut.Range.Min {
			return fmt.Errorf("unit type %q: invalid range %d-%d", name, ut.Range.Min, ut.Range.Max)
		}
	}
	for _, name := range sortedKeys(sr.Modifiers) {
		if _, ok := sr.UnitTypes[name]; !ok {
			return fmt.Errorf("modifiers for unrecognized unit type %q", name)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
