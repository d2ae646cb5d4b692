package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/pricing"
	"github.com/nurpe/kostenersatz/internal/tariff"
)

func sampleDocument(t *testing.T) model.CalculationDocument {
	t.Helper()
	rates := tariff.DefaultCatalog(tariff.DefaultVersionID)
	index := pricing.IndexRates(rates)
	calc := model.Calculation{
		ID:             uuid.New(),
		RateVersion:    tariff.DefaultVersionID,
		Status:         model.StatusCompleted,
		DefaultStunden: decimal.NewFromInt(3),
		Recipient:      model.Recipient{Name: "Spedition Müller", Address: "Hauptstraße 1, 4020 Linz", PaymentMethod: model.PaymentInvoice},
		Comment:        "Ölspur über 300 m gebunden",
	}
	var err error
	calc, err = pricing.SetItemUnits(calc, index, "1.01", 6)
	require.NoError(t, err)
	calc, err = pricing.SetItemUnits(calc, index, "2.01", 1)
	require.NoError(t, err)
	calc, err = pricing.SetItemUnits(calc, index, "11.01", 4)
	require.NoError(t, err)
	calc, err = pricing.AddCustomItem(calc, index, model.CustomItem{Description: "Straßenreinigung (Fremdleistung)", Unit: "pauschal", PricePerUnit: decimal.NewFromInt(250), Quantity: decimal.NewFromInt(1)})
	require.NoError(t, err)

	return model.CalculationDocument{
		Calculation: calc,
		Rates:       rates,
		Incident:    model.Incident{Name: "Ölspur B17", AlarmedAt: time.Date(2026, 3, 12, 7, 45, 0, 0, time.UTC)},
	}
}

func TestGenerator_Render(t *testing.T) {
	out, err := NewGenerator("Freiwillige Feuerwehr Musterdorf").Render(sampleDocument(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestGroupItems_OrdersByCatalog(t *testing.T) {
	doc := sampleDocument(t)
	doc.Calculation.Items = append(doc.Calculation.Items, model.LineItem{RateID: "99.01", Einheiten: 1})

	groups := groupItems(doc.Calculation.Items, pricing.IndexRates(doc.Rates))

	require.Len(t, groups, 3)
	assert.Equal(t, 1, groups[0].number)
	assert.Equal(t, 2, groups[1].number)
	assert.Equal(t, 11, groups[2].number)
	assert.Equal(t, "Bindemittel und Entsorgung", groups[2].name)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0,00 €", formatAmount(decimal.Zero))
	assert.Equal(t, "108,00 €", formatAmount(decimal.RequireFromString("108")))
	assert.Equal(t, "1.234,50 €", formatAmount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "1.234.567,89 €", formatAmount(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-12,30 €", formatAmount(decimal.RequireFromString("-12.3")))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2,5", formatHours(decimal.RequireFromString("2.5")))
	assert.Equal(t, "8", formatHours(decimal.NewFromInt(8)))
}
