package metrics

import (
	"sync/atomic"
	"time"

	"tactics/game"
)

// ActionMetric describes one action chosen by an agent.
type ActionMetric struct {
	Step     int
	Turn     int
	Player   game.PlayerID
	Action   game.ActionType
	Duration time.Duration // time the agent took to choose
	Damage   int
	Killed   int
	Rejected bool
}

type GameMetric struct {
	StartingPlayer game.PlayerID
	Winner         game.PlayerID // NoPlayer when the turn limit was hit
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	Turns          int
	TotalActions   int
}

// Counts aggregates what a Collector observed.
type Counts struct {
	Moves         int
	RangedAttacks int
	MeleeAttacks  int
	EndTurns      int
	Rejected      int
	Damage        int
	Destroyed     int
	Duration      time.Duration
}

type Collector interface {
	Start()
	AddAction(action game.Action, events []game.Event)
	AddRejected()
	Complete() Counts
}

type collector struct {
	startTime     time.Time
	moves         atomic.Int32
	rangedAttacks atomic.Int32
	meleeAttacks  atomic.Int32
	endTurns      atomic.Int32
	rejected      atomic.Int32
	damage        atomic.Int32
	destroyed     atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

func (m *collector) AddAction(action game.Action, events []game.Event) {
	switch action.Type {
	case game.MoveAction:
		m.moves.Add(1)
	case game.RangedAttackAction:
		m.rangedAttacks.Add(1)
	case game.MeleeAttackAction:
		m.meleeAttacks.Add(1)
	case game.EndTurnAction:
		m.endTurns.Add(1)
	}
	damage, destroyed := Tally(events)
	m.damage.Add(int32(damage))
	m.destroyed.Add(int32(destroyed))
}

func (m *collector) AddRejected() {
	m.rejected.Add(1)
}

func (m *collector) Complete() Counts {
	return Counts{
		Moves:         int(m.moves.Load()),
		RangedAttacks: int(m.rangedAttacks.Load()),
		MeleeAttacks:  int(m.meleeAttacks.Load()),
		EndTurns:      int(m.endTurns.Load()),
		Rejected:      int(m.rejected.Load()),
		Damage:        int(m.damage.Load()),
		Destroyed:     int(m.destroyed.Load()),
		Duration:      time.Since(m.startTime),
	}
}

// Tally sums the damage dealt and units destroyed in events.
func Tally(events []game.Event) (damage, destroyed int) {
	for _, e := range events {
		switch e.Type {
		case game.UnitAttacked:
			damage += e.Damage
		case game.UnitDestroyed:
			destroyed++
		}
	}
	return damage, destroyed
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                              {}
func (m *dummyCollector) AddAction(game.Action, []game.Event) {}
func (m *dummyCollector) AddRejected()                        {}
func (m *dummyCollector) Complete() Counts                    { return Counts{} }
