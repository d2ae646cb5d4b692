// Package lifecycle gates a calculation through draft, completed and sent.
package lifecycle

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nurpe/kostenersatz/internal/model"
)

type Trigger string

const (
	TriggerComplete Trigger = "complete"
	TriggerDispatch Trigger = "dispatch"
)

func (t Trigger) String() string {
	return string(t)
}

// GuardFunc returns a non-nil error naming the unmet precondition.
type GuardFunc func(calc model.Calculation) error

type transition struct {
	to    model.CalculationStatus
	guard GuardFunc
}

type Machine struct {
	transitions map[model.CalculationStatus]map[Trigger][]transition
}

func NewMachine() *Machine {
	return &Machine{transitions: make(map[model.CalculationStatus]map[Trigger][]transition)}
}

// NewCalculationMachine returns the machine every calculation runs through.
// A sent calculation may be dispatched again; nothing leads back to draft.
func NewCalculationMachine() *Machine {
	return NewMachine().
		PermitIf(model.StatusDraft, TriggerComplete, model.StatusCompleted, requireRecipientName).
		Permit(model.StatusCompleted, TriggerDispatch, model.StatusSent).
		Permit(model.StatusSent, TriggerDispatch, model.StatusSent)
}

func (m *Machine) Permit(from model.CalculationStatus, trigger Trigger, to model.CalculationStatus) *Machine {
	return m.PermitIf(from, trigger, to, nil)
}

func (m *Machine) PermitIf(from model.CalculationStatus, trigger Trigger, to model.CalculationStatus, guard GuardFunc) *Machine {
	if !IsKnown(from) || !IsKnown(to) {
		panic(fmt.Sprintf("invalid transition %s -> %s", from, to))
	}
	byTrigger, ok := m.transitions[from]
	if !ok {
		byTrigger = make(map[Trigger][]transition)
		m.transitions[from] = byTrigger
	}
	byTrigger[trigger] = append(byTrigger[trigger], transition{to: to, guard: guard})
	return m
}

// Fire evaluates trigger for calc and returns the status it moves to. The
// calculation itself is not modified.
func (m *Machine) Fire(calc model.Calculation, trigger Trigger) (model.CalculationStatus, error) {
	candidates := m.transitions[calc.Status][trigger]
	if len(candidates) == 0 {
		return calc.Status, fmt.Errorf("%w: cannot %s a calculation in status %s", ErrInvalidTransition, trigger, calc.Status)
	}

	var reasons []string
	for _, t := range candidates {
		if t.guard == nil {
			return t.to, nil
		}
		if err := t.guard(calc); err != nil {
			reasons = append(reasons, err.Error())
			continue
		}
		return t.to, nil
	}
	return calc.Status, fmt.Errorf("%w: %w: %s", ErrInvalidTransition, ErrGuardFailed, strings.Join(reasons, "; "))
}

// PermittedTriggers lists the triggers configured for status, guards not
// evaluated.
func (m *Machine) PermittedTriggers(status model.CalculationStatus) []Trigger {
	triggers := make([]Trigger, 0, len(m.transitions[status]))
	for trigger := range m.transitions[status] {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}

func IsKnown(status model.CalculationStatus) bool {
	switch status {
	case model.StatusDraft, model.StatusCompleted, model.StatusSent:
		return true
	default:
		return false
	}
}

func requireRecipientName(calc model.Calculation) error {
	if strings.TrimSpace(calc.Recipient.Name) == "" {
		return errors.New("recipient name is required")
	}
	return nil
}
