// Package pricing holds the pure Kostenersatz arithmetic: line item sums,
// per-category subtotals, and every edit that changes them. Nothing in here
// performs I/O, so the same functions back the editing API and server-side
// re-verification of stored calculations.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/kostenersatz/internal/model"
)

// DefaultPauschalHours is the duration a flat rate covers when the rate does
// not carry its own baseline.
var DefaultPauschalHours = decimal.NewFromInt(5)

const sumPlaces = 2

type ItemInput struct {
	Hours         decimal.Decimal
	Units         int
	Price         decimal.Decimal
	PricePauschal decimal.NullDecimal
	PauschalHours decimal.NullDecimal
	Extendable    bool
}

func InputFor(rate model.Rate, hours decimal.Decimal, units int) ItemInput {
	return ItemInput{
		Hours:         hours,
		Units:         units,
		Price:         rate.Price,
		PricePauschal: rate.PricePauschal,
		PauschalHours: rate.PauschalHours,
		Extendable:    rate.IsExtendable,
	}
}

// CalculateItemSum prices one line item.
//
// Without a flat price the line costs price * hours * units. With a flat
// price every unit costs at least pricePauschal, however short the use; hours
// beyond the baseline add price per extra hour only when the rate is
// extendable, otherwise the flat price is the cap.
func CalculateItemSum(in ItemInput) decimal.Decimal {
	if in.Units <= 0 || !in.Hours.IsPositive() {
		return decimal.Zero
	}
	units := decimal.NewFromInt(int64(in.Units))

	if !in.PricePauschal.Valid {
		return in.Price.Mul(in.Hours).Mul(units).Round(sumPlaces)
	}

	baseline := BaselineHours(in.PauschalHours)
	perUnit := in.PricePauschal.Decimal
	if in.Extendable && in.Hours.GreaterThan(baseline) {
		perUnit = perUnit.Add(in.Price.Mul(in.Hours.Sub(baseline)))
	}
	return perUnit.Mul(units).Round(sumPlaces)
}

func CalculateCustomItemSum(quantity, pricePerUnit decimal.Decimal) decimal.Decimal {
	return quantity.Mul(pricePerUnit).Round(sumPlaces)
}

func BaselineHours(pauschalHours decimal.NullDecimal) decimal.Decimal {
	if pauschalHours.Valid && pauschalHours.Decimal.IsPositive() {
		return pauschalHours.Decimal
	}
	return DefaultPauschalHours
}
