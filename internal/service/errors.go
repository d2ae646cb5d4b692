package service

import (
	"errors"
	"fmt"

	"github.com/nurpe/kostenersatz/internal/lifecycle"
	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/pricing"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrDispatchFailure  = errors.New("dispatch failed")
	ErrPersistence      = errors.New("persistence failed")

	ErrRateNotFound      = pricing.ErrRateNotFound
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
)

// PersistenceError carries the calculation that could not be written so the
// caller can hand the unsaved state back to the user.
type PersistenceError struct {
	Calculation *model.Calculation
	Err         error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPersistence, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
