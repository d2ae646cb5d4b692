package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nurpe/kostenersatz/internal/model"
)

// Every edit below works on a copy and returns it recomputed. On error the
// caller keeps its previous calculation, totals included.

func SetItemUnits(calc model.Calculation, rates RateIndex, rateID string, einheiten int) (model.Calculation, error) {
	if einheiten < 0 {
		return calc, fmt.Errorf("%w: einheiten must not be negative", ErrInvalidValue)
	}
	if _, ok := rates.Lookup(rateID); !ok {
		return calc, fmt.Errorf("%w: %s", ErrRateNotFound, rateID)
	}

	out := calc.Clone()
	idx := out.ItemIndex(rateID)
	switch {
	case einheiten == 0 && idx >= 0:
		out.Items = append(out.Items[:idx], out.Items[idx+1:]...)
	case einheiten == 0:
		return calc, nil
	case idx >= 0:
		out.Items[idx].Einheiten = einheiten
	default:
		out.Items = append(out.Items, model.LineItem{
			RateID:        rateID,
			Einheiten:     einheiten,
			AnzahlStunden: out.DefaultStunden,
		})
	}
	return Recompute(out, rates), nil
}

func SetItemHours(calc model.Calculation, rates RateIndex, rateID string, hours decimal.Decimal) (model.Calculation, error) {
	if hours.IsNegative() {
		return calc, fmt.Errorf("%w: hours must not be negative", ErrInvalidValue)
	}
	idx := calc.ItemIndex(rateID)
	if idx < 0 {
		return calc, fmt.Errorf("%w: %s", ErrItemNotFound, rateID)
	}

	out := calc.Clone()
	out.Items[idx].AnzahlStunden = hours
	out.Items[idx].StundenOverridden = true
	return Recompute(out, rates), nil
}

// ResetItemHours makes the line follow the calculation default again.
func ResetItemHours(calc model.Calculation, rates RateIndex, rateID string) (model.Calculation, error) {
	idx := calc.ItemIndex(rateID)
	if idx < 0 {
		return calc, fmt.Errorf("%w: %s", ErrItemNotFound, rateID)
	}

	out := calc.Clone()
	out.Items[idx].AnzahlStunden = out.DefaultStunden
	out.Items[idx].StundenOverridden = false
	return Recompute(out, rates), nil
}

func SetDefaultStunden(calc model.Calculation, rates RateIndex, hours decimal.Decimal) (model.Calculation, error) {
	if !hours.IsPositive() {
		return calc, fmt.Errorf("%w: default hours must be positive", ErrInvalidValue)
	}

	out := calc.Clone()
	out.DefaultStunden = hours
	for i := range out.Items {
		if !out.Items[i].StundenOverridden {
			out.Items[i].AnzahlStunden = hours
		}
	}
	return Recompute(out, rates), nil
}

func AddCustomItem(calc model.Calculation, rates RateIndex, item model.CustomItem) (model.Calculation, error) {
	if err := validateCustomItem(item); err != nil {
		return calc, err
	}
	out := calc.Clone()
	out.CustomItems = append(out.CustomItems, item)
	return Recompute(out, rates), nil
}

func UpdateCustomItem(calc model.Calculation, rates RateIndex, index int, item model.CustomItem) (model.Calculation, error) {
	if index < 0 || index >= len(calc.CustomItems) {
		return calc, fmt.Errorf("%w: custom item %d", ErrItemNotFound, index)
	}
	if err := validateCustomItem(item); err != nil {
		return calc, err
	}
	out := calc.Clone()
	out.CustomItems[index] = item
	return Recompute(out, rates), nil
}

func RemoveCustomItem(calc model.Calculation, rates RateIndex, index int) (model.Calculation, error) {
	if index < 0 || index >= len(calc.CustomItems) {
		return calc, fmt.Errorf("%w: custom item %d", ErrItemNotFound, index)
	}
	out := calc.Clone()
	out.CustomItems = append(out.CustomItems[:index], out.CustomItems[index+1:]...)
	return Recompute(out, rates), nil
}

func validateCustomItem(item model.CustomItem) error {
	if strings.TrimSpace(item.Description) == "" {
		return fmt.Errorf("%w: custom item description is required", ErrInvalidValue)
	}
	if item.PricePerUnit.IsNegative() || item.Quantity.IsNegative() {
		return fmt.Errorf("%w: custom item price and quantity must not be negative", ErrInvalidValue)
	}
	return nil
}
