package game

// Visibility is the outcome of a line-of-sight check.
type Visibility int

const (
	Clear Visibility = iota
	Blocked
)

func (v Visibility) String() string {
	if v == Blocked {
		return "blocked"
	}
	return "clear"
}

// Line returns the tiles strictly between a and b on the straight line
// joining them (Bresenham). The line is always traced from the lesser
// endpoint, so Line(a, b) and Line(b, a) cover the same tiles.
func Line(a, b Coord) []Coord {
	if a == b {
		return nil
	}
	if b.Less(a) {
		a, b = b, a
	}

	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	var line []Coord
	x, y := a.X, a.Y
	e := dx + dy
	for {
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
		if x == b.X && y == b.Y {
			return line
		}
		line = append(line, Coord{X: x, Y: y})
	}
}

// LineOfSight checks whether anything stands between a and b. Any unit,
// friendly or enemy, on an intermediate tile blocks, as does terrain that
// blocks sight. The endpoints themselves never block.
func LineOfSight(g *Grid, a, b Coord) (Visibility, error) {
	if !g.InBounds(a) {
		_, err := g.TileAt(a)
		return Blocked, err
	}
	if !g.InBounds(b) {
		_, err := g.TileAt(b)
		return Blocked, err
	}
	if a == b {
		return Clear, nil
	}
	for _, c := range Line(a, b) {
		t := &g.Tiles[c.Y*g.Width+c.X]
		if t.Occupant != nil || t.Terrain.BlocksSight {
			return Blocked, nil
		}
	}
	return Clear, nil
}
