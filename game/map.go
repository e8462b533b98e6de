package game

import "fmt"

// Coord is a tile coordinate on the grid. X grows to the east, Y to the north.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the coordinate offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Less orders coordinates row-major, used wherever a canonical order is needed.
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Distance is the Manhattan distance between two tiles. Units move and
// melee across the four cardinal neighbours, so this is the tile distance
// used for range bands and adjacency as well.
func Distance(a, b Coord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// cardinal offsets in N, E, S, W order
var cardinal = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Terrain describes the static properties of a tile kind. Movement costs
// are not stored here; they live in the rules' movement class table so
// the same terrain can cost different unit types differently.
type Terrain struct {
	Name        string  `mapstructure:"name"`
	Defense     float64 `mapstructure:"defense"`      // fraction of incoming damage absorbed, 0..1
	BlocksSight bool    `mapstructure:"blocks_sight"` // occludes line-of-sight through the tile
}

// Tile is a single grid cell. The occupant is a non-owning reference: units
// belong to the game state roster.
type Tile struct {
	Coord    Coord
	Terrain  Terrain
	Occupant *Unit
}

// Grid owns a dense Width x Height rectangle of tiles, indexed row-major.
type Grid struct {
	Width  int
	Height int
	Tiles  []Tile
}

// NewGrid creates a grid filled with the given terrain.
func NewGrid(width, height int, terrain Terrain) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	g := &Grid{
		Width:  width,
		Height: height,
		Tiles:  make([]Tile, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Tiles[y*width+x] = Tile{Coord: Coord{X: x, Y: y}, Terrain: terrain}
		}
	}
	return g, nil
}

// InBounds reports whether c addresses a tile of the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// TileAt returns the tile at c.
func (g *Grid) TileAt(c Coord) (*Tile, error) {
	if !g.InBounds(c) {
		return nil, fmt.Errorf("tile %s on %dx%d grid: %w", c, g.Width, g.Height, ErrOutOfBounds)
	}
	return &g.Tiles[c.Y*g.Width+c.X], nil
}

// IsOccupied reports whether a unit stands on c.
func (g *Grid) IsOccupied(c Coord) (bool, error) {
	t, err := g.TileAt(c)
	if err != nil {
		return false, err
	}
	return t.Occupant != nil, nil
}

// SetTerrain replaces the terrain of a single tile.
func (g *Grid) SetTerrain(c Coord, terrain Terrain) error {
	t, err := g.TileAt(c)
	if err != nil {
		return err
	}
	t.Terrain = terrain
	return nil
}

// Neighbors returns the in-bounds cardinal neighbours of c.
func (g *Grid) Neighbors(c Coord) []Coord {
	neighbors := make([]Coord, 0, 4)
	for _, d := range cardinal {
		n := c.Add(d[0], d[1])
		if g.InBounds(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// place puts u on c. The tile must be empty.
func (g *Grid) place(u *Unit, c Coord) error {
	t, err := g.TileAt(c)
	if err != nil {
		return err
	}
	if t.Occupant != nil {
		return fmt.Errorf("tile %s already holds unit %d: %w", c, t.Occupant.ID, ErrTileOccupied)
	}
	t.Occupant = u
	return nil
}

// remove clears the occupant of c, if any.
func (g *Grid) remove(c Coord) {
	if t, err := g.TileAt(c); err == nil {
		t.Occupant = nil
	}
}

// relocate moves the occupant of from onto to. Callers validate both tiles.
func (g *Grid) relocate(from, to Coord) {
	if from == to {
		return
	}
	src := &g.Tiles[from.Y*g.Width+from.X]
	dst := &g.Tiles[to.Y*g.Width+to.X]
	dst.Occupant = src.Occupant
	src.Occupant = nil
}

// copyTerrain returns a grid with the same terrain and no occupants.
func (g *Grid) copyTerrain() *Grid {
	tiles := make([]Tile, len(g.Tiles))
	for i, t := range g.Tiles {
		tiles[i] = Tile{Coord: t.Coord, Terrain: t.Terrain}
	}
	return &Grid{Width: g.Width, Height: g.Height, Tiles: tiles}
}
