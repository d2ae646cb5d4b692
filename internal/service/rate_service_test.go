package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/repository"
	"github.com/nurpe/kostenersatz/internal/tariff"
)

var admin = model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin}

func newRateService() (*RateService, *mockRateStore, *mockCatalog) {
	store := &mockRateStore{}
	catalog := &mockCatalog{}
	svc := NewRateService(store, catalog, testConfig(), zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc, store, catalog
}

func TestRateService_ActiveVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("stored", func(t *testing.T) {
		svc, store, _ := newRateService()
		store.On("ActiveVersion", ctx).Return(&model.RateVersion{ID: "2025", IsActive: true}, nil)

		id, err := svc.ActiveVersionID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2025", id)
	})

	t.Run("falls back to configured default", func(t *testing.T) {
		svc, store, _ := newRateService()
		store.On("ActiveVersion", ctx).Return(nil, gorm.ErrRecordNotFound)

		version, err := svc.ActiveVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, tariff.DefaultVersionID, version.ID)
		assert.Equal(t, tariff.DefaultValidFrom, version.ValidFrom)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, store, _ := newRateService()
		store.On("ActiveVersion", ctx).Return(nil, errors.New("db down"))

		_, err := svc.ActiveVersionID(ctx)
		assert.EqualError(t, err, "db down")
	})
}

func TestRateService_Rates(t *testing.T) {
	ctx := context.Background()
	svc, store, catalog := newRateService()
	rates := []model.Rate{{ID: "2.01", Version: "2025"}}

	store.On("ActiveVersion", ctx).Return(&model.RateVersion{ID: "2025"}, nil).Once()
	catalog.On("Resolve", ctx, "2025").Return(rates, nil).Twice()

	got, err := svc.Rates(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, rates, got)

	got, err = svc.Rates(ctx, "2025")
	require.NoError(t, err)
	assert.Equal(t, rates, got)

	store.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestRateService_Seed(t *testing.T) {
	ctx := context.Background()
	validFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("admin only", func(t *testing.T) {
		svc, store, _ := newRateService()
		_, err := svc.Seed(ctx, SeedInput{
			Version:   model.RateVersion{ID: "2025", ValidFrom: validFrom},
			Principal: model.Principal{UserID: uuid.New(), Role: model.UserRoleUser},
		})
		assert.ErrorIs(t, err, ErrPermissionDenied)
		store.AssertNotCalled(t, "SeedVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("built-in catalog and activation", func(t *testing.T) {
		svc, store, _ := newRateService()
		expected := len(tariff.DefaultCatalog("2025"))
		store.On("SeedVersion", ctx,
			mock.MatchedBy(func(v model.RateVersion) bool {
				return v.ID == "2025" && v.CreatedBy == admin.UserID.String() && v.CreatedAt.Equal(testNow)
			}),
			mock.MatchedBy(func(rates []model.Rate) bool {
				return len(rates) == expected && rates[0].Version == "2025" && rates[0].ValidFrom.Equal(validFrom)
			}),
		).Return(repository.SeedStats{Rates: expected}, nil)
		store.On("SetActive", ctx, "2025").Return(nil)

		result, err := svc.Seed(ctx, SeedInput{
			Version:   model.RateVersion{ID: " 2025 ", Name: "Tarif 2025", ValidFrom: validFrom},
			Activate:  true,
			Principal: admin,
		})
		require.NoError(t, err)
		assert.Equal(t, expected, result.Rates)
		assert.True(t, result.Version.IsActive)
		store.AssertExpectations(t)
	})

	t.Run("existing version", func(t *testing.T) {
		svc, store, _ := newRateService()
		store.On("SeedVersion", ctx, mock.Anything, mock.Anything).
			Return(repository.SeedStats{}, fmt.Errorf("%w: 2025", repository.ErrVersionExists))

		_, err := svc.Seed(ctx, SeedInput{
			Version:   model.RateVersion{ID: "2025", ValidFrom: validFrom},
			Activate:  true,
			Principal: admin,
		})
		assert.ErrorIs(t, err, ErrConflict)
		store.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything)
	})

	t.Run("invalid catalog", func(t *testing.T) {
		svc, store, _ := newRateService()
		_, err := svc.Seed(ctx, SeedInput{
			Version:   model.RateVersion{ID: "2025"},
			Principal: admin,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorIs(t, err, tariff.ErrInvalidCatalog)
		store.AssertNotCalled(t, "SeedVersion", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRateService_Activate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown version", func(t *testing.T) {
		svc, store, _ := newRateService()
		store.On("GetVersion", ctx, "2030").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Activate(ctx, admin, "2030")
		assert.ErrorIs(t, err, ErrNotFound)
		store.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything)
	})

	t.Run("known version", func(t *testing.T) {
		svc, store, _ := newRateService()
		store.On("GetVersion", ctx, "2025").Return(&model.RateVersion{ID: "2025"}, nil)
		store.On("SetActive", ctx, "2025").Return(nil)

		version, err := svc.Activate(ctx, admin, "2025")
		require.NoError(t, err)
		assert.True(t, version.IsActive)
	})

	t.Run("user", func(t *testing.T) {
		svc, _, _ := newRateService()
		_, err := svc.Activate(ctx, model.Principal{UserID: uuid.New()}, "2025")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}
