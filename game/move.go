package game

import (
	"container/heap"
	"fmt"
)

// movementBudget is how far u may move this turn.
func (gs *GameState) movementBudget(u *Unit) int {
	start := &gs.Grid.Tiles[u.Pos.Y*gs.Grid.Width+u.Pos.X]
	return u.Type.EffectiveMovement(start.Terrain)
}

// stepCost is the cost for u to enter c, or an error if it cannot.
func (gs *GameState) stepCost(u *Unit, c Coord) (int, error) {
	t, err := gs.Grid.TileAt(c)
	if err != nil {
		return 0, err
	}
	if t.Occupant != nil && t.Occupant != u {
		return 0, fmt.Errorf("tile %s holds unit %d: %w", c, t.Occupant.ID, ErrPathBlocked)
	}
	cost, ok := gs.Rules.MovementCost(u.Type, t.Terrain)
	if !ok {
		return 0, fmt.Errorf("%s cannot enter %s at %s: %w", u.Type.Name, t.Terrain.Name, c, ErrPathBlocked)
	}
	return cost, nil
}

// PathCost validates path for u and returns its total cost. Every step must
// be a cardinal neighbour of the previous tile; no unit may stand on the
// path other than u itself, and the path may not end on u's own tile.
func (gs *GameState) PathCost(u *Unit, path []Coord) (int, error) {
	if len(path) == 0 {
		return 0, fmt.Errorf("empty path: %w", ErrInvalidPath)
	}
	total := 0
	prev := u.Pos
	for _, c := range path {
		if !gs.Grid.InBounds(c) {
			return 0, fmt.Errorf("path step %s: %w", c, ErrOutOfBounds)
		}
		if Distance(prev, c) != 1 {
			return 0, fmt.Errorf("step %s -> %s is not adjacent: %w", prev, c, ErrInvalidPath)
		}
		cost, err := gs.stepCost(u, c)
		if err != nil {
			return 0, err
		}
		total += cost
		prev = c
	}
	if prev == u.Pos {
		return 0, fmt.Errorf("path ends where unit %d stands: %w", u.ID, ErrInvalidPath)
	}
	return total, nil
}

// Reachable returns, for every tile u can end a move on this turn, the
// cheapest path to it. The unit's own tile is not included.
func (gs *GameState) Reachable(u *Unit) map[Coord][]Coord {
	budget := gs.movementBudget(u)
	dist := map[Coord]int{u.Pos: 0}
	prev := map[Coord]Coord{}

	pq := &frontier{{coord: u.Pos}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(node)
		if cur.cost > dist[cur.coord] {
			continue
		}
		for _, n := range gs.Grid.Neighbors(cur.coord) {
			cost, err := gs.stepCost(u, n)
			if err != nil {
				continue
			}
			next := cur.cost + cost
			if next > budget {
				continue
			}
			if d, seen := dist[n]; seen && d <= next {
				continue
			}
			dist[n] = next
			prev[n] = cur.coord
			heap.Push(pq, node{coord: n, cost: next})
		}
	}

	paths := make(map[Coord][]Coord, len(prev))
	for dest := range prev {
		var path []Coord
		for c := dest; c != u.Pos; c = prev[c] {
			path = append(path, c)
		}
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		paths[dest] = path
	}
	return paths
}

// FindPath returns the cheapest path for a unit to dest within this
// turn's movement budget.
func (gs *GameState) FindPath(id UnitID, dest Coord) ([]Coord, error) {
	u, ok := gs.Units[id]
	if !ok || !u.Alive() {
		return nil, fmt.Errorf("unit %d: %w", id, ErrUnknownUnit)
	}
	if !gs.Grid.InBounds(dest) {
		return nil, fmt.Errorf("destination %s: %w", dest, ErrOutOfBounds)
	}
	path, ok := gs.Reachable(u)[dest]
	if !ok {
		return nil, fmt.Errorf("unit %d cannot reach %s this turn: %w", id, dest, ErrInsufficientMovement)
	}
	return path, nil
}

type node struct {
	coord Coord
	cost  int
}

// frontier is a min-heap of nodes by cost, ties broken by coordinate so
// the search is deterministic.
type frontier []node

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].coord.Less(f[j].coord)
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)   { *f = append(*f, x.(node)) }
func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	*f = old[:len(old)-1]
	return n
}
