package lifecycle

import "errors"

var (
	// ErrInvalidTransition is returned for every rejected status change and for
	// edits of a calculation that is no longer a draft.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrGuardFailed is returned alongside ErrInvalidTransition when the
	// transition exists but its precondition does not hold.
	ErrGuardFailed = errors.New("guard condition failed")
)
