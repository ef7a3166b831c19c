package engine

import (
	"errors"
	"fmt"
)

// Rejection kinds. A rejected move leaves the state untouched; errors.Is matches these on a *MoveError.
var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrOutOfTurn        = errors.New("out of turn")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrEmptyDeckDraw    = errors.New("deck is empty")
	ErrGameOver         = errors.New("game is over")
	ErrWrongPhase       = errors.New("wrong game phase")
)

// Fatal setup failures. These indicate a broken deck or deal, not a player mistake.
var (
	ErrDeckIntegrity  = errors.New("deck integrity violation")
	ErrNotEnoughCards = errors.New("not enough cards to deal")
)

// MoveError describes why a move was rejected.
type MoveError struct {
	Kind   error
	Reason string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *MoveError) Unwrap() error { return e.Kind }

func reject(kind error, format string, args ...interface{}) *MoveError {
	return &MoveError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Reason extracts the human-readable reason from a rejection, falling back to err.Error().
func Reason(err error) string {
	var me *MoveError
	if errors.As(err, &me) {
		return me.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
