package scenario

import (
	"fmt"

	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"tactics/game"
)

// Patch paints a rectangle of the grid with one terrain. A Width or Height
// left at zero means one tile; negative sizes are rejected by Build.
type Patch struct {
	Terrain string `mapstructure:"terrain"`
	X       int    `mapstructure:"x"`
	Y       int    `mapstructure:"y"`
	Width   int    `mapstructure:"width"`
	Height  int    `mapstructure:"height"`
}

// Placement puts one unit on the board at setup.
type Placement struct {
	Player game.PlayerID `mapstructure:"player"`
	Type   string        `mapstructure:"type"`
	X      int           `mapstructure:"x"`
	Y      int           `mapstructure:"y"`
}

// Scenario describes the starting position of a game. Later patches paint
// over earlier ones.
type Scenario struct {
	Name    string          `mapstructure:"name"`
	Width   int             `mapstructure:"width"`
	Height  int             `mapstructure:"height"`
	Terrain string          `mapstructure:"terrain"`
	Players []game.PlayerID `mapstructure:"players"`
	Patches []Patch         `mapstructure:"patches"`
	Units   []Placement     `mapstructure:"units"`
}

// Load reads a scenario file. The format follows the file extension (toml,
// yaml or json).
func Load(path string) (*Scenario, error) {
	v := viper.New()
	v.SetDefault("terrain", game.TerrainPlains)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading scenario file: %v", err)
	}

	var s Scenario
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("cannot decode scenario %s: %w", path, err)
	}
	return &s, nil
}

// Build lays out the grid and the units and returns a game ready for the
// first player's turn.
func (s *Scenario) Build(rules game.Rules) (*game.GameState, error) {
	base, ok := rules.Terrain(s.Terrain)
	if !ok {
		return nil, fmt.Errorf("scenario %q: unrecognized terrain %q", s.Name, s.Terrain)
	}
	grid, err := game.NewGrid(s.Width, s.Height, base)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	for i, p := range s.Patches {
		terrain, ok := rules.Terrain(p.Terrain)
		if !ok {
			return nil, fmt.Errorf("scenario %q: patch %d: unrecognized terrain %q", s.Name, i, p.Terrain)
		}
		if p.Width < 0 || p.Height < 0 {
			return nil, fmt.Errorf("scenario %q: patch %d: negative size %dx%d", s.Name, i, p.Width, p.Height)
		}
		for y := p.Y; y < p.Y+max(p.Height, 1); y++ {
			for x := p.X; x < p.X+max(p.Width, 1); x++ {
				if err := grid.SetTerrain(game.Coord{X: x, Y: y}, terrain); err != nil {
					return nil, fmt.Errorf("scenario %q: patch %d: %w", s.Name, i, err)
				}
			}
		}
	}

	gs, err := game.NewGameState(grid, rules, s.Players)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	for i, u := range s.Units {
		if _, err := gs.AddUnit(u.Player, u.Type, game.Coord{X: u.X, Y: u.Y}); err != nil {
			return nil, fmt.Errorf("scenario %q: unit %d: %w", s.Name, i, err)
		}
	}
	for _, p := range s.Players {
		if !slices.ContainsFunc(s.Units, func(u Placement) bool { return u.Player == p }) {
			return nil, fmt.Errorf("scenario %q: player %d has no units", s.Name, p)
		}
	}
	return gs, nil
}

// Skirmish is the built-in two player scenario: a 10x8 field split by a
// forest belt and a river with a single ford.
func Skirmish() *Scenario {
	return &Scenario{
		Name:    "skirmish",
		Width:   10,
		Height:  8,
		Terrain: game.TerrainPlains,
		Players: []game.PlayerID{1, 2},
		Patches: []Patch{
			{Terrain: game.TerrainWater, X: 0, Y: 4, Width: 10, Height: 1},
			{Terrain: game.TerrainPlains, X: 4, Y: 4, Width: 2, Height: 1},
			{Terrain: game.TerrainForest, X: 1, Y: 2, Width: 2, Height: 2},
			{Terrain: game.TerrainForest, X: 7, Y: 5, Width: 2, Height: 2},
			{Terrain: game.TerrainHills, X: 5, Y: 2, Width: 1, Height: 1},
			{Terrain: game.TerrainHills, X: 4, Y: 5, Width: 1, Height: 1},
			{Terrain: game.TerrainMountain, X: 9, Y: 3, Width: 1, Height: 1},
		},
		Units: []Placement{
			{Player: 1, Type: game.Defender, X: 4, Y: 1},
			{Player: 1, Type: game.Warrior, X: 3, Y: 1},
			{Player: 1, Type: game.Warrior, X: 6, Y: 1},
			{Player: 1, Type: game.Spearman, X: 5, Y: 1},
			{Player: 1, Type: game.Archer, X: 2, Y: 0},
			{Player: 1, Type: game.Archer, X: 7, Y: 0},
			{Player: 2, Type: game.Defender, X: 5, Y: 6},
			{Player: 2, Type: game.Warrior, X: 6, Y: 6},
			{Player: 2, Type: game.Warrior, X: 3, Y: 6},
			{Player: 2, Type: game.Spearman, X: 4, Y: 6},
			{Player: 2, Type: game.Archer, X: 7, Y: 7},
			{Player: 2, Type: game.Archer, X: 2, Y: 7},
		},
	}
}
