package excel

import (
	"sort"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/pricing"
	"github.com/nurpe/kostenersatz/internal/tariff"
)

func categoryNames(rates pricing.RateIndex) map[int]string {
	names := tariff.CategoryNames()
	for _, rate := range rates {
		if rate.CategoryName != "" {
			names[rate.CategoryNumber] = rate.CategoryName
		}
	}
	return names
}

func sortedCategories(subtotals model.Subtotals) []int {
	numbers := make([]int, 0, len(subtotals))
	for number := range subtotals {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	return numbers
}

func formatDate(doc model.CalculationDocument) string {
	date := doc.IncidentDate()
	if date.IsZero() {
		return "-"
	}
	return date.Format("02.01.2006")
}
