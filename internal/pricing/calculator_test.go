package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateItemSum(t *testing.T) {
	tests := []struct {
		name string
		in   ItemInput
		want string
	}{
		{
			name: "flat rate below baseline",
			in:   ItemInput{Hours: dec("3"), Units: 1, Price: dec("21.60"), PricePauschal: nullDec("108.00")},
			want: "108.00",
		},
		{
			name: "flat rate capped beyond baseline",
			in:   ItemInput{Hours: dec("8"), Units: 2, Price: dec("21.60"), PricePauschal: nullDec("108.00")},
			want: "216.00",
		},
		{
			name: "extendable rate beyond baseline",
			in:   ItemInput{Hours: dec("8"), Units: 1, Price: dec("98.70"), PricePauschal: nullDec("493.50"), Extendable: true},
			want: "789.60",
		},
		{
			name: "extendable rate at baseline",
			in:   ItemInput{Hours: dec("5"), Units: 2, Price: dec("98.70"), PricePauschal: nullDec("493.50"), Extendable: true},
			want: "987.00",
		},
		{
			name: "extendable rate with half hour overage",
			in:   ItemInput{Hours: dec("5.5"), Units: 1, Price: dec("38.50"), PricePauschal: nullDec("192.50"), Extendable: true},
			want: "211.75",
		},
		{
			name: "hourly rate without flat price",
			in:   ItemInput{Hours: dec("2.5"), Units: 3, Price: dec("7.90")},
			want: "59.25",
		},
		{
			name: "custom baseline bills per unit",
			in:   ItemInput{Hours: dec("6"), Units: 4, Price: dec("24.50"), PricePauschal: nullDec("24.50"), PauschalHours: nullDec("1")},
			want: "98.00",
		},
		{
			name: "zero units",
			in:   ItemInput{Hours: dec("4"), Units: 0, Price: dec("21.60"), PricePauschal: nullDec("108.00")},
			want: "0",
		},
		{
			name: "zero hours with flat price",
			in:   ItemInput{Hours: decimal.Zero, Units: 2, Price: dec("21.60"), PricePauschal: nullDec("108.00")},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, CalculateItemSum(tt.in))
		})
	}
}

func TestCalculateItemSum_HourlyIsLinear(t *testing.T) {
	price := dec("21.60")
	for _, hours := range []string{"0", "0.5", "1", "2.5", "5", "7", "12.5"} {
		for _, units := range []int{0, 1, 2, 5} {
			got := CalculateItemSum(ItemInput{Hours: dec(hours), Units: units, Price: price})
			want := price.Mul(dec(hours)).Mul(decimal.NewFromInt(int64(units)))
			assert.Truef(t, want.Equal(got), "hours=%s units=%d: want %s, got %s", hours, units, want, got)
		}
	}
}

func TestCalculateItemSum_NonExtendableIsConstant(t *testing.T) {
	base := ItemInput{Units: 3, Price: dec("21.60"), PricePauschal: nullDec("108.00")}
	for _, hours := range []string{"0.5", "1", "4.5", "5", "5.5", "10", "24"} {
		in := base
		in.Hours = dec(hours)
		assertDecimal(t, "324.00", CalculateItemSum(in))
	}
}

func TestCalculateItemSum_ZeroAlwaysZero(t *testing.T) {
	for _, rate := range testRates() {
		for _, units := range []int{0, 1, 7} {
			got := CalculateItemSum(InputFor(rate, decimal.Zero, units))
			assert.True(t, got.IsZero(), "rate %s units %d", rate.ID, units)
		}
		for _, hours := range []string{"0", "1", "9"} {
			got := CalculateItemSum(InputFor(rate, dec(hours), 0))
			assert.True(t, got.IsZero(), "rate %s hours %s", rate.ID, hours)
		}
	}
}

func TestCalculateCustomItemSum(t *testing.T) {
	assertDecimal(t, "30.00", CalculateCustomItemSum(dec("3"), dec("10")))
	assertDecimal(t, "4.13", CalculateCustomItemSum(dec("1.25"), dec("3.30")))
	assertDecimal(t, "0", CalculateCustomItemSum(decimal.Zero, dec("99")))
}

func TestBaselineHours(t *testing.T) {
	assertDecimal(t, "5", BaselineHours(decimal.NullDecimal{}))
	assertDecimal(t, "5", BaselineHours(nullDec("0")))
	assertDecimal(t, "2", BaselineHours(nullDec("2")))
}

func TestInputFor(t *testing.T) {
	rates := testRates()
	in := InputFor(rates[3], dec("6"), 2)
	require.True(t, in.PricePauschal.Valid)
	assert.Equal(t, 2, in.Units)
	assert.True(t, in.Extendable)
	assertDecimal(t, "6", in.Hours)
}
