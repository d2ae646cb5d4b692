package tariff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nurpe/kostenersatz/internal/model"
)

var ErrInvalidCatalog = errors.New("invalid rate catalog")

// PrepareSeed validates a catalog before it is written and stamps every rate
// with the version id and validFrom date. The input slice is not modified.
func PrepareSeed(version model.RateVersion, rates []model.Rate) ([]model.Rate, error) {
	version.ID = strings.TrimSpace(version.ID)
	if version.ID == "" {
		return nil, fmt.Errorf("%w: version id is required", ErrInvalidCatalog)
	}
	if version.ValidFrom.IsZero() {
		return nil, fmt.Errorf("%w: validFrom is required", ErrInvalidCatalog)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: at least one rate is required", ErrInvalidCatalog)
	}

	seen := make(map[string]struct{}, len(rates))
	out := make([]model.Rate, 0, len(rates))
	for _, rate := range rates {
		if strings.TrimSpace(rate.ID) == "" {
			return nil, fmt.Errorf("%w: rate without id", ErrInvalidCatalog)
		}
		if _, dup := seen[rate.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate rate %s", ErrInvalidCatalog, rate.ID)
		}
		seen[rate.ID] = struct{}{}

		if rate.CategoryNumber < 1 || rate.CategoryNumber > 12 {
			return nil, fmt.Errorf("%w: rate %s has category number %d", ErrInvalidCatalog, rate.ID, rate.CategoryNumber)
		}
		if !rate.Category.IsValid() {
			return nil, fmt.Errorf("%w: rate %s has category %q", ErrInvalidCatalog, rate.ID, rate.Category)
		}
		if rate.Price.IsNegative() {
			return nil, fmt.Errorf("%w: rate %s has a negative price", ErrInvalidCatalog, rate.ID)
		}
		if rate.PricePauschal.Valid && rate.PricePauschal.Decimal.IsNegative() {
			return nil, fmt.Errorf("%w: rate %s has a negative flat price", ErrInvalidCatalog, rate.ID)
		}
		if rate.PauschalHours.Valid && !rate.PauschalHours.Decimal.IsPositive() {
			return nil, fmt.Errorf("%w: rate %s has a non-positive flat rate duration", ErrInvalidCatalog, rate.ID)
		}

		rate.Version = version.ID
		rate.ValidFrom = version.ValidFrom
		out = append(out, rate)
	}

	SortRates(out)
	return out, nil
}
