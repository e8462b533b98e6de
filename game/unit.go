package game

// PlayerID identifies a player. NoPlayer marks "nobody", e.g. no winner yet.
type PlayerID int

const NoPlayer PlayerID = 0

// UnitID identifies a unit for the lifetime of a game.
type UnitID int

// Unit is the runtime state of one unit on the board.
type Unit struct {
	ID        UnitID
	Owner     PlayerID
	Type      *UnitType
	HP        int
	Pos       Coord
	HasMoved  bool // moved during the current turn
	HasActed  bool // attacked during the current turn
	Destroyed bool
}

// NewUnit creates a unit at full health.
func NewUnit(id UnitID, owner PlayerID, ut *UnitType, pos Coord) *Unit {
	return &Unit{
		ID:    id,
		Owner: owner,
		Type:  ut,
		HP:    ut.MaxHP,
		Pos:   pos,
	}
}

func (u *Unit) Alive() bool {
	return !u.Destroyed
}

// ApplyDamage lowers HP, clamping at zero. It returns true only on the call
// that destroys the unit, so removal from the grid happens exactly once.
func (u *Unit) ApplyDamage(amount int) bool {
	if u.Destroyed || amount <= 0 {
		return false
	}
	u.HP -= amount
	if u.HP > 0 {
		return false
	}
	u.HP = 0
	u.Destroyed = true
	return true
}

// Move records a completed move. The grid is updated by the game state.
func (u *Unit) Move(to Coord) {
	u.Pos = to
	u.HasMoved = true
}

func (u *Unit) MarkActed() {
	u.HasActed = true
}

// ResetTurn clears the per-turn flags.
func (u *Unit) ResetTurn() {
	u.HasMoved = false
	u.HasActed = false
}
