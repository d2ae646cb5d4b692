package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/pricing"
)

func mapStoreErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func requireAdmin(principal model.Principal) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}

func mapPricingErr(err error) error {
	if errors.Is(err, pricing.ErrInvalidValue) || errors.Is(err, pricing.ErrItemNotFound) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// sanitizeFileName keeps letters, digits, dash and underscore and turns
// everything else into underscores.
func sanitizeFileName(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "kostenersatz"
	}
	return out
}
