package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/kostenersatz/internal/model"
)

// EnsureDraft rejects edits of items, custom items, recipient, vehicles and
// overrides once a calculation has left draft.
func EnsureDraft(calc model.Calculation) error {
	if calc.Status != model.StatusDraft {
		return fmt.Errorf("%w: calculation %s is %s and can no longer be edited", ErrInvalidTransition, calc.ID, calc.Status)
	}
	return nil
}

func EnsureDeletable(calc model.Calculation) error {
	if calc.Status == model.StatusSent {
		return fmt.Errorf("%w: calculation %s was already sent", ErrInvalidTransition, calc.ID)
	}
	return nil
}

// Duplicate copies the billable content of src into a new draft. Works from
// any status; identity, timestamps and the dispatch marker are not carried
// over.
func Duplicate(src model.Calculation, id uuid.UUID, createdBy uuid.UUID, now time.Time) model.Calculation {
	out := src.Clone()
	out.ID = id
	out.Status = model.StatusDraft
	out.CreatedBy = createdBy
	out.CreatedAt = now
	out.UpdatedAt = now
	out.EmailSentAt = nil
	return out
}
