package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nurpe/kostenersatz/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func testRates() []model.Rate {
	return []model.Rate{
		{ID: "1.01", Category: model.CategoryPersonnel, CategoryNumber: 1, Price: dec("38.50"), PricePauschal: nullDec("192.50"), IsExtendable: true, SortOrder: 1},
		{ID: "2.01", Category: model.CategoryEquipment, CategoryNumber: 2, Price: dec("21.60"), PricePauschal: nullDec("108.00"), SortOrder: 2},
		{ID: "2.02", Category: model.CategoryEquipment, CategoryNumber: 2, Price: dec("25.20"), PricePauschal: nullDec("126.00"), SortOrder: 3},
		{ID: "3.01", Category: model.CategoryEquipment, CategoryNumber: 3, Price: dec("98.70"), PricePauschal: nullDec("493.50"), IsExtendable: true, SortOrder: 4},
		{ID: "9.01", Category: model.CategoryEquipment, CategoryNumber: 9, Price: dec("7.90"), SortOrder: 5},
		{ID: "11.01", Category: model.CategoryConsumables, CategoryNumber: 11, Price: dec("24.50"), PricePauschal: nullDec("24.50"), PauschalHours: nullDec("1"), SortOrder: 6},
	}
}

func newDraft() model.Calculation {
	return model.Calculation{
		ID:             uuid.New(),
		RateVersion:    "default",
		Status:         model.StatusDraft,
		DefaultStunden: dec("3"),
	}
}

func vehicle(name, rateID string) model.Vehicle {
	return model.Vehicle{ID: uuid.New(), Name: name, RateID: rateID}
}
