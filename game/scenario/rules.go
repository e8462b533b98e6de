package scenario

import (
	"fmt"

	"github.com/spf13/viper"

	"tactics/game"
)

// LoadRules overlays a rules file on the standard tables. Every section is
// optional; an entry in a section replaces the standard entry of the same
// name as a whole. An empty path returns the standard rules.
//
//	initiative = 4
//	min_damage = 1
//
//	[terrain.swamp]
//	defense = 0.1
//
//	[units.archer]
//	attack = 3
//	movement = 4
//	movement_modifiers = { plains = 1 }
//	hp = 6
//	range = { min = 2, max = 3 }
//	movement_class = "foot"
//	defense_class = "skirmisher"
//
//	[movement_classes.foot]
//	plains = 1
//	swamp = 3
//
//	[modifiers.warrior]
//	skirmisher = 1.5
func LoadRules(path string) (*game.StandardRules, error) {
	rules := game.NewStandardRules()
	if path == "" {
		return rules, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading rules file: %v", err)
	}

	if v.IsSet("initiative") {
		rules.InitiativeLimit = v.GetInt("initiative")
	}
	if v.IsSet("min_damage") {
		rules.MinDamage = v.GetInt("min_damage")
	}

	terrains := map[string]game.Terrain{}
	if err := v.UnmarshalKey("terrain", &terrains); err != nil {
		return nil, fmt.Errorf("cannot decode terrain table: %w", err)
	}
	for name, t := range terrains {
		t.Name = name
		rules.Terrains[name] = t
	}

	units := map[string]*game.UnitType{}
	if err := v.UnmarshalKey("units", &units); err != nil {
		return nil, fmt.Errorf("cannot decode unit table: %w", err)
	}
	for name, ut := range units {
		ut.Name = name
		rules.UnitTypes[name] = ut
	}

	classes := map[string]map[string]int{}
	if err := v.UnmarshalKey("movement_classes", &classes); err != nil {
		return nil, fmt.Errorf("cannot decode movement classes: %w", err)
	}
	for name, costs := range classes {
		rules.MovementClasses[name] = costs
	}

	modifiers := map[string]map[string]float64{}
	if err := v.UnmarshalKey("modifiers", &modifiers); err != nil {
		return nil, fmt.Errorf("cannot decode modifiers: %w", err)
	}
	for name, mods := range modifiers {
		rules.Modifiers[name] = mods
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules in %s: %w", path, err)
	}
	return rules, nil
}
