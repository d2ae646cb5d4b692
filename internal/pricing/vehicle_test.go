package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/kostenersatz/internal/model"
)

func TestToggleVehicle_AddsLine(t *testing.T) {
	rates := IndexRates(testRates())
	kdo := vehicle("KDO Florian 1", "2.01")

	calc, err := ToggleVehicle(newDraft(), kdo, FleetRates([]model.Vehicle{kdo}), rates)
	require.NoError(t, err)

	require.Len(t, calc.Items, 1)
	item := calc.Items[0]
	assert.Equal(t, "2.01", item.RateID)
	assert.Equal(t, 1, item.Einheiten)
	assert.False(t, item.StundenOverridden)
	assertDecimal(t, "3", item.AnzahlStunden)
	assert.Equal(t, []string{kdo.ID.String()}, []string(calc.Vehicles))
}

func TestToggleVehicle_SharedRate(t *testing.T) {
	rates := IndexRates(testRates())
	first := vehicle("MTF 1", "2.02")
	second := vehicle("MTF 2", "2.02")
	fleet := FleetRates([]model.Vehicle{first, second})

	calc, err := ToggleVehicle(newDraft(), first, fleet, rates)
	require.NoError(t, err)
	calc, err = ToggleVehicle(calc, second, fleet, rates)
	require.NoError(t, err)
	require.Len(t, calc.Items, 1)
	assert.Equal(t, 2, calc.Items[0].Einheiten)

	calc, err = ToggleVehicle(calc, first, fleet, rates)
	require.NoError(t, err)
	require.Len(t, calc.Items, 1)
	assert.Equal(t, 1, calc.Items[0].Einheiten)
	assert.Equal(t, []string{second.ID.String()}, []string(calc.Vehicles))

	calc, err = ToggleVehicle(calc, second, fleet, rates)
	require.NoError(t, err)
	assert.Empty(t, calc.Items)
	assert.Empty(t, calc.Vehicles)
}

func TestToggleVehicle_LastVehicleRemovesLine(t *testing.T) {
	rates := IndexRates(testRates())
	kdo := vehicle("KDO Florian 1", "2.01")
	fleet := FleetRates([]model.Vehicle{kdo})
	units := func(n int) func(model.Calculation) model.Calculation {
		return func(c model.Calculation) model.Calculation {
			out, err := SetItemUnits(c, rates, "2.01", n)
			require.NoError(t, err)
			return out
		}
	}
	keep := func(c model.Calculation) model.Calculation { return c }

	tests := []struct {
		name   string
		before func(model.Calculation) model.Calculation
		after  func(model.Calculation) model.Calculation
	}{
		{name: "line created by selection", before: keep, after: keep},
		{name: "units raised by hand", before: keep, after: units(3)},
		{name: "line existed before selection", before: units(2), after: keep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			on, err := ToggleVehicle(tt.before(newDraft()), kdo, fleet, rates)
			require.NoError(t, err)

			off, err := ToggleVehicle(tt.after(on), kdo, fleet, rates)
			require.NoError(t, err)

			assert.Empty(t, off.Vehicles)
			assert.Equal(t, -1, off.ItemIndex("2.01"))
			assert.True(t, off.TotalSum.IsZero())
		})
	}
}

func TestToggleVehicle_OtherVehicleOnRateKeepsLine(t *testing.T) {
	rates := IndexRates(testRates())
	first := vehicle("TLF 2000", "3.01")
	second := vehicle("TLF 4000", "3.01")
	fleet := FleetRates([]model.Vehicle{first, second})

	calc, err := ToggleVehicle(newDraft(), first, fleet, rates)
	require.NoError(t, err)
	calc, err = ToggleVehicle(calc, second, fleet, rates)
	require.NoError(t, err)
	calc, err = SetItemUnits(calc, rates, "3.01", 4)
	require.NoError(t, err)

	calc, err = ToggleVehicle(calc, second, fleet, rates)
	require.NoError(t, err)
	idx := calc.ItemIndex("3.01")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, 3, calc.Items[idx].Einheiten)
	assert.Equal(t, []string{first.ID.String()}, []string(calc.Vehicles))
}

func TestToggleVehicle_UnknownRateIsNoop(t *testing.T) {
	rates := IndexRates(testRates())
	calc, err := SetItemUnits(newDraft(), rates, "2.01", 1)
	require.NoError(t, err)
	old := vehicle("Altfahrzeug", "7.77")

	out, err := ToggleVehicle(calc, old, FleetRates([]model.Vehicle{old}), rates)

	assert.ErrorIs(t, err, ErrRateNotFound)
	assert.Equal(t, calc.Items, out.Items)
	assert.Empty(t, out.Vehicles)
}
