package game

import "fmt"

// ActionType represents the type of action a player can perform.
type ActionType int

const (
	MoveAction ActionType = iota
	RangedAttackAction
	MeleeAttackAction
	EndTurnAction
)

func (t ActionType) String() string {
	switch t {
	case MoveAction:
		return "move"
	case RangedAttackAction:
		return "ranged_attack"
	case MeleeAttackAction:
		return "melee_attack"
	case EndTurnAction:
		return "end_turn"
	default:
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
}

// Action represents an action submitted by a player. Path lists the tiles
// walked through, excluding the unit's starting tile; its last element is
// the destination. Target is only read by attacks.
type Action struct {
	Type   ActionType
	Player PlayerID
	Unit   UnitID
	Path   []Coord
	Target UnitID
}

func (a Action) String() string {
	switch a.Type {
	case MoveAction:
		return fmt.Sprintf("player %d: move unit %d along %v", a.Player, a.Unit, a.Path)
	case RangedAttackAction, MeleeAttackAction:
		return fmt.Sprintf("player %d: %s unit %d -> unit %d", a.Player, a.Type, a.Unit, a.Target)
	default:
		return fmt.Sprintf("player %d: %s", a.Player, a.Type)
	}
}
