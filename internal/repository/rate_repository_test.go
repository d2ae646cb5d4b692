package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/tariff"
)

func seedVersion(t *testing.T, repo *RateRepository, id string) []model.Rate {
	t.Helper()
	version := model.RateVersion{ID: id, Name: "Tarif " + id, ValidFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rates, err := tariff.PrepareSeed(version, tariff.DefaultCatalog(id))
	require.NoError(t, err)
	stats, err := repo.SeedVersion(context.Background(), version, rates)
	require.NoError(t, err)
	require.Equal(t, len(rates), stats.Rates)
	return rates
}

func TestRateRepository_SeedAndList(t *testing.T) {
	repo := NewRateRepository(newTestDB(t))
	ctx := context.Background()
	seeded := seedVersion(t, repo, "2026")

	rates, err := repo.ListRates(ctx, "2026")
	require.NoError(t, err)
	require.Len(t, rates, len(seeded))

	var kdo model.Rate
	for _, rate := range rates {
		if rate.ID == "2.01" {
			kdo = rate
		}
	}
	assert.True(t, kdo.Price.Equal(decimal.RequireFromString("21.60")), kdo.Price.String())
	require.True(t, kdo.PricePauschal.Valid)
	assert.True(t, kdo.PricePauschal.Decimal.Equal(decimal.RequireFromString("108")))
	assert.False(t, kdo.PauschalHours.Valid)
	assert.Equal(t, model.CategoryEquipment, kdo.Category)

	empty, err := repo.ListRates(ctx, "1999")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRateRepository_SeedTwiceFails(t *testing.T) {
	repo := NewRateRepository(newTestDB(t))
	seedVersion(t, repo, "2026")

	_, err := repo.SeedVersion(context.Background(), model.RateVersion{ID: "2026", ValidFrom: time.Now()}, tariff.DefaultCatalog("2026"))

	assert.ErrorIs(t, err, ErrVersionExists)
	versions, err := repo.ListVersions(context.Background())
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestRateRepository_SeedRollsBack(t *testing.T) {
	repo := NewRateRepository(newTestDB(t))
	rates := tariff.DefaultCatalog("broken")
	rates = append(rates, rates[0])

	_, err := repo.SeedVersion(context.Background(), model.RateVersion{ID: "broken", ValidFrom: time.Now()}, rates)
	require.Error(t, err)

	_, err = repo.GetVersion(context.Background(), "broken")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	stored, err := repo.ListRates(context.Background(), "broken")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRateRepository_SetActiveSwapsVersion(t *testing.T) {
	repo := NewRateRepository(newTestDB(t))
	ctx := context.Background()
	seedVersion(t, repo, "2025")
	seedVersion(t, repo, "2026")

	_, err := repo.ActiveVersion(ctx)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.SetActive(ctx, "2025"))
	require.NoError(t, repo.SetActive(ctx, "2026"))

	active, err := repo.ActiveVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026", active.ID)

	old, err := repo.GetVersion(ctx, "2025")
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	err = repo.SetActive(ctx, "2030")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	active, err = repo.ActiveVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026", active.ID, "failed activation must not deactivate the current version")
}
