package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type Phase int

const (
	AwaitingMove Phase = iota
	ResolvingAction
	TurnComplete
	GameOver
)

func (p Phase) String() string {
	switch p {
	case AwaitingMove:
		return "awaiting_move"
	case ResolvingAction:
		return "resolving_action"
	case TurnComplete:
		return "turn_complete"
	case GameOver:
		return "game_over"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Turn is the bookkeeping of the player currently acting. It is replaced
// wholesale when the turn passes.
type Turn struct {
	Number     int
	Player     PlayerID
	MovedUnits int             // distinct units moved this turn
	Acted      map[UnitID]bool // units that attacked this turn
}

func newTurn(number int, player PlayerID) Turn {
	return Turn{Number: number, Player: player, Acted: map[UnitID]bool{}}
}

// GameState represents the full state of a game: the board, the roster and
// whose turn it is. It is not safe for concurrent use; callers serialize
// actions (see the gamemaster package).
type GameState struct {
	Grid    *Grid
	Rules   Rules
	Units   map[UnitID]*Unit // roster, including destroyed units
	Players []PlayerID       // surviving players in turn order
	Turn    Turn
	Phase   Phase
	winner  PlayerID
	nextID  UnitID
}

// NewGameState creates a game on grid for the given players. The first
// player in the list takes the first turn.
func NewGameState(grid *Grid, rules Rules, players []PlayerID) (*GameState, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("need at least two players, got %d", len(players))
	}
	for i, p := range players {
		if p == NoPlayer {
			return nil, fmt.Errorf("player id %d is reserved", NoPlayer)
		}
		if slices.Contains(players[:i], p) {
			return nil, fmt.Errorf("duplicate player %d", p)
		}
	}
	return &GameState{
		Grid:    grid,
		Rules:   rules,
		Units:   map[UnitID]*Unit{},
		Players: slices.Clone(players),
		Turn:    newTurn(1, players[0]),
		Phase:   AwaitingMove,
	}, nil
}

// AddUnit places a new unit of the named type for owner on pos.
func (gs *GameState) AddUnit(owner PlayerID, typeName string, pos Coord) (*Unit, error) {
	if !slices.Contains(gs.Players, owner) {
		return nil, fmt.Errorf("cannot add unit: unknown player %d", owner)
	}
	ut, ok := gs.Rules.UnitType(typeName)
	if !ok {
		return nil, fmt.Errorf("cannot add unit: unknown unit type %q", typeName)
	}
	tile, err := gs.Grid.TileAt(pos)
	if err != nil {
		return nil, fmt.Errorf("cannot add unit: %w", err)
	}
	if _, ok := gs.Rules.MovementCost(ut, tile.Terrain); !ok {
		return nil, fmt.Errorf("cannot add unit: %s cannot stand on %s at %s", ut.Name, tile.Terrain.Name, pos)
	}
	u := NewUnit(gs.nextID+1, owner, ut, pos)
	if err := gs.Grid.place(u, pos); err != nil {
		return nil, fmt.Errorf("cannot add unit: %w", err)
	}
	gs.nextID++
	gs.Units[u.ID] = u
	return u, nil
}

// Player returns the player whose turn it is.
func (gs *GameState) Player() PlayerID {
	return gs.Turn.Player
}

// Winner returns the last player standing, or NoPlayer.
func (gs *GameState) Winner() PlayerID {
	return gs.winner
}

// Unit looks up a unit of the roster, destroyed or not.
func (gs *GameState) Unit(id UnitID) (*Unit, bool) {
	u, ok := gs.Units[id]
	return u, ok
}

// UnitsOf returns the living units of player ordered by ID.
func (gs *GameState) UnitsOf(player PlayerID) []*Unit {
	var units []*Unit
	for _, id := range gs.unitIDs() {
		if u := gs.Units[id]; u.Owner == player && u.Alive() {
			units = append(units, u)
		}
	}
	return units
}

func (gs *GameState) enemiesOf(player PlayerID) []*Unit {
	var units []*Unit
	for _, id := range gs.unitIDs() {
		if u := gs.Units[id]; u.Owner != player && u.Alive() {
			units = append(units, u)
		}
	}
	return units
}

func (gs *GameState) unitIDs() []UnitID {
	ids := make([]UnitID, 0, len(gs.Units))
	for id := range gs.Units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (gs *GameState) checkTurn(player PlayerID) error {
	if gs.Phase == GameOver {
		return ErrGameOver
	}
	if player != gs.Turn.Player {
		return fmt.Errorf("player %d acted during player %d's turn: %w", player, gs.Turn.Player, ErrNotUnitsTurn)
	}
	return nil
}

// actingUnit resolves a living unit of player that may act now.
func (gs *GameState) actingUnit(player PlayerID, id UnitID) (*Unit, error) {
	if err := gs.checkTurn(player); err != nil {
		return nil, err
	}
	u, ok := gs.Units[id]
	if !ok || !u.Alive() {
		return nil, fmt.Errorf("unit %d: %w", id, ErrUnknownUnit)
	}
	if u.Owner != player {
		return nil, fmt.Errorf("unit %d belongs to player %d: %w", id, u.Owner, ErrNotUnitsTurn)
	}
	return u, nil
}

func (gs *GameState) targetUnit(attacker *Unit, id UnitID) (*Unit, error) {
	t, ok := gs.Units[id]
	if !ok || !t.Alive() {
		return nil, fmt.Errorf("target unit %d: %w", id, ErrUnknownUnit)
	}
	if t.Owner == attacker.Owner {
		return nil, fmt.Errorf("target unit %d: %w", id, ErrFriendlyTarget)
	}
	return t, nil
}

func (gs *GameState) validateMove(player PlayerID, id UnitID, path []Coord) (*Unit, int, error) {
	u, err := gs.actingUnit(player, id)
	if err != nil {
		return nil, 0, err
	}
	if u.HasActed {
		return nil, 0, ErrAlreadyActed
	}
	if u.HasMoved {
		return nil, 0, fmt.Errorf("already moved this turn: %w", ErrAlreadyActed)
	}
	if gs.Turn.MovedUnits >= gs.Rules.Initiative() {
		return nil, 0, fmt.Errorf("%d of %d units moved: %w", gs.Turn.MovedUnits, gs.Rules.Initiative(), ErrInitiativeExceeded)
	}
	cost, err := gs.PathCost(u, path)
	if err != nil {
		return nil, 0, err
	}
	if budget := gs.movementBudget(u); cost > budget {
		return nil, 0, fmt.Errorf("path costs %d, movement is %d: %w", cost, budget, ErrInsufficientMovement)
	}
	return u, cost, nil
}

func (gs *GameState) validateRanged(player PlayerID, attackerID, targetID UnitID) (*Unit, *Unit, error) {
	a, err := gs.actingUnit(player, attackerID)
	if err != nil {
		return nil, nil, err
	}
	t, err := gs.targetUnit(a, targetID)
	if err != nil {
		return nil, nil, err
	}
	if a.HasActed {
		return nil, nil, ErrAlreadyActed
	}
	if a.HasMoved {
		return nil, nil, ErrMovedThisTurn
	}
	if !a.Type.HasRangedAttack() {
		return nil, nil, fmt.Errorf("%s: %w", a.Type.Name, ErrNoRangedAttack)
	}
	if d := Distance(a.Pos, t.Pos); !a.Type.Range.Contains(d) {
		return nil, nil, fmt.Errorf("distance %d outside %d-%d: %w", d, a.Type.Range.Min, a.Type.Range.Max, ErrOutOfRange)
	}
	if a.Type.StraightLine && a.Pos.X != t.Pos.X && a.Pos.Y != t.Pos.Y {
		return nil, nil, fmt.Errorf("%s only attacks along rows and columns: %w", a.Type.Name, ErrOutOfRange)
	}
	if a.Type.RequiresLineOfSight {
		vis, err := LineOfSight(gs.Grid, a.Pos, t.Pos)
		if err != nil {
			return nil, nil, err
		}
		if vis == Blocked {
			return nil, nil, fmt.Errorf("%s -> %s: %w", a.Pos, t.Pos, ErrLineOfSightBlocked)
		}
	}
	return a, t, nil
}

func (gs *GameState) validateMelee(player PlayerID, attackerID, targetID UnitID) (*Unit, *Unit, error) {
	a, err := gs.actingUnit(player, attackerID)
	if err != nil {
		return nil, nil, err
	}
	t, err := gs.targetUnit(a, targetID)
	if err != nil {
		return nil, nil, err
	}
	if a.HasActed {
		return nil, nil, ErrAlreadyActed
	}
	if d := Distance(a.Pos, t.Pos); d != 1 {
		return nil, nil, fmt.Errorf("melee needs an adjacent target, distance is %d: %w", d, ErrOutOfRange)
	}
	if !a.Type.CanMelee() {
		return nil, nil, fmt.Errorf("%s cannot strike adjacent tiles: %w", a.Type.Name, ErrOutOfRange)
	}
	return a, t, nil
}

// MoveUnit walks a unit along path. A unit moves at most once per turn,
// never after attacking, and at most Initiative() distinct units move per
// turn.
func (gs *GameState) MoveUnit(player PlayerID, id UnitID, path []Coord) ([]Event, error) {
	u, cost, err := gs.validateMove(player, id, path)
	if err != nil {
		return nil, fmt.Errorf("cannot move unit %d: %w", id, err)
	}

	gs.Phase = ResolvingAction
	from, dest := u.Pos, path[len(path)-1]
	gs.Grid.relocate(from, dest)
	u.Move(dest)
	gs.Turn.MovedUnits++

	events := []Event{{
		Type:   UnitMoved,
		Turn:   gs.Turn.Number,
		Player: player,
		Unit:   u.ID,
		From:   from,
		To:     dest,
		Cost:   cost,
	}}
	return append(events, gs.settle()...), nil
}

// RangedAttack fires at target. The attacker must not have moved this turn.
func (gs *GameState) RangedAttack(player PlayerID, attackerID, targetID UnitID) ([]Event, error) {
	a, t, err := gs.validateRanged(player, attackerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("cannot ranged attack with unit %d: %w", attackerID, err)
	}
	return gs.resolveAttack(a, t), nil
}

// MeleeAttack strikes an adjacent target. Moving first is allowed.
func (gs *GameState) MeleeAttack(player PlayerID, attackerID, targetID UnitID) ([]Event, error) {
	a, t, err := gs.validateMelee(player, attackerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("cannot melee attack with unit %d: %w", attackerID, err)
	}
	return gs.resolveAttack(a, t), nil
}

// EndTurn passes the turn to the next surviving player.
func (gs *GameState) EndTurn(player PlayerID) ([]Event, error) {
	if err := gs.checkTurn(player); err != nil {
		return nil, fmt.Errorf("cannot end turn: %w", err)
	}
	return gs.completeTurn(), nil
}

// Apply dispatches a by its type.
func (gs *GameState) Apply(a Action) ([]Event, error) {
	switch a.Type {
	case MoveAction:
		return gs.MoveUnit(a.Player, a.Unit, a.Path)
	case RangedAttackAction:
		return gs.RangedAttack(a.Player, a.Unit, a.Target)
	case MeleeAttackAction:
		return gs.MeleeAttack(a.Player, a.Unit, a.Target)
	case EndTurnAction:
		return gs.EndTurn(a.Player)
	default:
		return nil, fmt.Errorf("%s: %w", a.Type, ErrInvalidAction)
	}
}

func (gs *GameState) resolveAttack(a, t *Unit) []Event {
	gs.Phase = ResolvingAction

	terrain := gs.Grid.Tiles[t.Pos.Y*gs.Grid.Width+t.Pos.X].Terrain
	before := t.HP
	destroyed := t.ApplyDamage(gs.Rules.Damage(a, t, terrain))
	a.MarkActed()
	gs.Turn.Acted[a.ID] = true

	events := []Event{{
		Type:   UnitAttacked,
		Turn:   gs.Turn.Number,
		Player: a.Owner,
		Unit:   a.ID,
		Target: t.ID,
		From:   a.Pos,
		To:     t.Pos,
		Damage: before - t.HP,
	}}
	if destroyed {
		events = append(events, gs.destroy(t)...)
	}
	return append(events, gs.settle()...)
}

// destroy removes a unit that just reached 0 HP from the board and checks
// whether its owner is out of the game.
func (gs *GameState) destroy(u *Unit) []Event {
	gs.Grid.remove(u.Pos)
	log.Debug().Msgf("unit %d (%s) of player %d destroyed at %s", u.ID, u.Type.Name, u.Owner, u.Pos)

	events := []Event{{
		Type:   UnitDestroyed,
		Turn:   gs.Turn.Number,
		Player: u.Owner,
		Unit:   u.ID,
		From:   u.Pos,
	}}
	if len(gs.UnitsOf(u.Owner)) > 0 {
		return events
	}

	gs.Players = slices.DeleteFunc(gs.Players, func(p PlayerID) bool { return p == u.Owner })
	log.Debug().Msgf("player %d defeated", u.Owner)
	events = append(events, Event{Type: PlayerDefeated, Turn: gs.Turn.Number, Player: u.Owner})

	if len(gs.Players) == 1 {
		gs.winner = gs.Players[0]
		gs.Phase = GameOver
		events = append(events, Event{Type: GameWon, Turn: gs.Turn.Number, Player: gs.winner})
	}
	return events
}

// settle returns the engine to AwaitingMove, or completes the turn once
// every unit of the current player has acted.
func (gs *GameState) settle() []Event {
	if gs.Phase == GameOver {
		return nil
	}
	for _, u := range gs.UnitsOf(gs.Turn.Player) {
		if !u.HasActed {
			gs.Phase = AwaitingMove
			return nil
		}
	}
	return gs.completeTurn()
}

func (gs *GameState) completeTurn() []Event {
	gs.Phase = TurnComplete
	ended := gs.Turn
	events := []Event{{Type: TurnEnded, Turn: ended.Number, Player: ended.Player}}

	next := gs.nextPlayer()
	gs.Turn = newTurn(ended.Number+1, next)
	for _, u := range gs.UnitsOf(next) {
		u.ResetTurn()
	}
	gs.Phase = AwaitingMove

	return append(events, Event{Type: TurnStarted, Turn: gs.Turn.Number, Player: next})
}

func (gs *GameState) nextPlayer() PlayerID {
	i := slices.Index(gs.Players, gs.Turn.Player)
	return gs.Players[(i+1)%len(gs.Players)]
}

// LegalActions lists every action the current player could submit right
// now, in a deterministic order. EndTurn is always last.
func (gs *GameState) LegalActions() []Action {
	if gs.Phase == GameOver {
		return nil
	}
	player := gs.Turn.Player
	var actions []Action
	for _, u := range gs.UnitsOf(player) {
		if !u.HasActed && !u.HasMoved && gs.Turn.MovedUnits < gs.Rules.Initiative() {
			paths := gs.Reachable(u)
			dests := make([]Coord, 0, len(paths))
			for d := range paths {
				dests = append(dests, d)
			}
			sort.Slice(dests, func(i, j int) bool { return dests[i].Less(dests[j]) })
			for _, d := range dests {
				actions = append(actions, Action{Type: MoveAction, Player: player, Unit: u.ID, Path: paths[d]})
			}
		}
		if u.HasActed {
			continue
		}
		for _, t := range gs.enemiesOf(player) {
			if _, _, err := gs.validateRanged(player, u.ID, t.ID); err == nil {
				actions = append(actions, Action{Type: RangedAttackAction, Player: player, Unit: u.ID, Target: t.ID})
			}
			if _, _, err := gs.validateMelee(player, u.ID, t.ID); err == nil {
				actions = append(actions, Action{Type: MeleeAttackAction, Player: player, Unit: u.ID, Target: t.ID})
			}
		}
	}
	return append(actions, Action{Type: EndTurnAction, Player: player})
}

// Copy returns a deep copy sharing only the immutable rules.
func (gs *GameState) Copy() *GameState {
	acted := make(map[UnitID]bool, len(gs.Turn.Acted))
	for id, v := range gs.Turn.Acted {
		acted[id] = v
	}
	c := &GameState{
		Grid:    gs.Grid.copyTerrain(),
		Rules:   gs.Rules,
		Units:   make(map[UnitID]*Unit, len(gs.Units)),
		Players: slices.Clone(gs.Players),
		Turn: Turn{
			Number:     gs.Turn.Number,
			Player:     gs.Turn.Player,
			MovedUnits: gs.Turn.MovedUnits,
			Acted:      acted,
		},
		Phase:  gs.Phase,
		winner: gs.winner,
		nextID: gs.nextID,
	}
	for id, u := range gs.Units {
		cu := *u
		c.Units[id] = &cu
		if cu.Alive() {
			c.Grid.Tiles[cu.Pos.Y*c.Grid.Width+cu.Pos.X].Occupant = &cu
		}
	}
	return c
}

func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()
	write := func(v int64) {
		binary.Write(hasher, binary.LittleEndian, v)
	}

	write(int64(gs.Turn.Number))
	write(int64(gs.Turn.Player))
	write(int64(gs.Turn.MovedUnits))
	write(int64(gs.Phase))
	for _, p := range gs.Players {
		write(int64(p))
	}
	for _, id := range gs.unitIDs() {
		u := gs.Units[id]
		write(int64(id))
		write(int64(u.Owner))
		write(int64(u.HP))
		write(int64(u.Pos.X))
		write(int64(u.Pos.Y))
		var flags int64
		if u.HasMoved {
			flags |= 1
		}
		if u.HasActed {
			flags |= 2
		}
		if u.Destroyed {
			flags |= 4
		}
		write(flags)
	}
	return StateHash(hasher.Sum64())
}
