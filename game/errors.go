package game

import (
	"errors"
	"fmt"
)

// Rejection reasons for an attempted action. None of them is fatal: the
// action is refused and the game state is left exactly as it was.
var (
	ErrInitiativeExceeded   = errors.New("initiative exceeded")
	ErrInsufficientMovement = errors.New("insufficient movement")
	ErrAlreadyActed         = errors.New("unit already acted")
	ErrOutOfRange           = errors.New("target out of range")
	ErrLineOfSightBlocked   = errors.New("line of sight blocked")
	ErrOutOfBounds          = errors.New("coordinate out of bounds")
	ErrNotUnitsTurn         = errors.New("not this unit's turn")

	ErrNoRangedAttack = errors.New("unit has no ranged attack")
	ErrInvalidPath    = errors.New("invalid path")
	ErrPathBlocked    = errors.New("path blocked")
	ErrTileOccupied   = errors.New("tile occupied")
	ErrUnknownUnit    = errors.New("unknown unit")
	ErrFriendlyTarget = errors.New("cannot target a friendly unit")
	ErrInvalidAction  = errors.New("invalid action")
	ErrGameOver       = errors.New("game is over")
)

// ErrMovedThisTurn rejects a ranged attack by a unit that already moved this
// turn. It matches ErrAlreadyActed under errors.Is.
var ErrMovedThisTurn = fmt.Errorf("%w: moved this turn, ranged attack not allowed", ErrAlreadyActed)
