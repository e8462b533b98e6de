package game

import "fmt"

type EventType int

const (
	UnitMoved EventType = iota
	UnitAttacked
	UnitDestroyed
	TurnEnded
	TurnStarted
	PlayerDefeated
	GameWon
)

func (t EventType) String() string {
	switch t {
	case UnitMoved:
		return "unit_moved"
	case UnitAttacked:
		return "unit_attacked"
	case UnitDestroyed:
		return "unit_destroyed"
	case TurnEnded:
		return "turn_ended"
	case TurnStarted:
		return "turn_started"
	case PlayerDefeated:
		return "player_defeated"
	case GameWon:
		return "game_won"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is an observable consequence of an applied action. Only the fields
// relevant to the event type are set.
type Event struct {
	Type   EventType
	Turn   int
	Player PlayerID
	Unit   UnitID
	Target UnitID
	From   Coord
	To     Coord
	Cost   int
	Damage int
}
