package session

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an operation is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid state transition")

// State is the lifecycle position of a Session.
type State int

const (
	Uninitialized State = iota
	Initialized
	Iterating
	Converged
	IterationLimitReached
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case IterationLimitReached:
		return "iteration_limit_reached"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Terminal reports whether no further steps are allowed in this run.
func (s State) Terminal() bool {
	return s == Converged || s == IterationLimitReached
}

// CanStep reports whether Step is allowed.
func (s State) CanStep() bool {
	return s == Initialized || s == Iterating
}

// ErrTransition describes a rejected operation.
type ErrTransition struct {
	Op    string
	State State
}

func (e *ErrTransition) Error() string {
	return fmt.Sprintf("invalid state transition: %s not allowed in state %s", e.Op, e.State)
}

// Is reports whether target is ErrInvalidTransition.
func (e *ErrTransition) Is(target error) bool { return target == ErrInvalidTransition }
