package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/kostenersatz/internal/model"
)

// RateIndex resolves rate ids against one catalog snapshot.
type RateIndex map[string]model.Rate

func IndexRates(rates []model.Rate) RateIndex {
	index := make(RateIndex, len(rates))
	for _, rate := range rates {
		index[rate.ID] = rate
	}
	return index
}

func (idx RateIndex) Lookup(rateID string) (model.Rate, bool) {
	rate, ok := idx[rateID]
	return rate, ok
}

// CalculateSubtotals sums line items per category number. Items whose rate
// is missing from the catalog are orphaned and left out.
func CalculateSubtotals(items []model.LineItem, rates RateIndex) model.Subtotals {
	subtotals := make(model.Subtotals)
	for _, item := range items {
		rate, ok := rates.Lookup(item.RateID)
		if !ok {
			continue
		}
		subtotals[rate.CategoryNumber] = subtotals[rate.CategoryNumber].Add(item.Sum)
	}
	return subtotals
}

func CalculateTotalSum(items []model.LineItem, customItems []model.CustomItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Sum)
	}
	for _, item := range customItems {
		total = total.Add(item.Sum)
	}
	return total
}

// Recompute re-derives every sum of calc against rates and returns the
// result as a new value. Orphaned line items keep the sum they were stored
// with.
func Recompute(calc model.Calculation, rates RateIndex) model.Calculation {
	out := calc.Clone()
	for i, item := range out.Items {
		rate, ok := rates.Lookup(item.RateID)
		if !ok {
			continue
		}
		out.Items[i].Sum = CalculateItemSum(InputFor(rate, item.AnzahlStunden, item.Einheiten))
	}
	for i, item := range out.CustomItems {
		out.CustomItems[i].Sum = CalculateCustomItemSum(item.Quantity, item.PricePerUnit)
	}
	out.Subtotals = CalculateSubtotals(out.Items, rates)
	out.TotalSum = CalculateTotalSum(out.Items, out.CustomItems)
	return out
}
