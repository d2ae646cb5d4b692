package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/model"
)

var ErrVersionExists = errors.New("rate version already exists")

const seedBatchSize = 100

type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) ListRates(ctx context.Context, versionID string) ([]model.Rate, error) {
	var rates []model.Rate
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, version, category, category_number, category_name, description, unit,
			price, price_pauschal, pauschal_hours, is_extendable, sort_order, valid_from
		FROM rates
		WHERE version = ?
		ORDER BY sort_order ASC, id ASC
	`, versionID).Scan(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *RateRepository) ListVersions(ctx context.Context) ([]model.RateVersion, error) {
	var versions []model.RateVersion
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, valid_from, is_active, created_at, created_by
		FROM rate_versions
		ORDER BY valid_from DESC, id ASC
	`).Scan(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *RateRepository) GetVersion(ctx context.Context, id string) (*model.RateVersion, error) {
	var version model.RateVersion
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, valid_from, is_active, created_at, created_by
		FROM rate_versions
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&version).Error
	if err != nil {
		return nil, err
	}
	if version.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &version, nil
}

func (r *RateRepository) ActiveVersion(ctx context.Context) (*model.RateVersion, error) {
	var version model.RateVersion
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, valid_from, is_active, created_at, created_by
		FROM rate_versions
		WHERE is_active = ?
		LIMIT 1
	`, true).Scan(&version).Error
	if err != nil {
		return nil, err
	}
	if version.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &version, nil
}

type SeedStats struct {
	Rates int
}

// SeedVersion writes a version and all of its rates in one transaction. A
// version is written once; seeding an existing id fails with
// ErrVersionExists and leaves the stored catalog untouched.
func (r *RateRepository) SeedVersion(ctx context.Context, version model.RateVersion, rates []model.Rate) (SeedStats, error) {
	stats := SeedStats{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.RateVersion{}).Where("id = ?", version.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("check rate version: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrVersionExists, version.ID)
		}

		version.IsActive = false
		if version.CreatedAt.IsZero() {
			version.CreatedAt = time.Now().UTC()
		}
		if err := tx.Create(&version).Error; err != nil {
			return fmt.Errorf("insert rate version: %w", err)
		}
		if err := tx.CreateInBatches(rates, seedBatchSize).Error; err != nil {
			return fmt.Errorf("insert rates: %w", err)
		}
		stats.Rates = len(rates)
		return nil
	})
	if err != nil {
		return SeedStats{}, err
	}
	return stats, nil
}

// SetActive makes id the only active version.
func (r *RateRepository) SetActive(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.RateVersion{}).
			Where("is_active = ? AND id <> ?", true, id).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate rate versions: %w", err)
		}
		result := tx.Model(&model.RateVersion{}).Where("id = ?", id).Update("is_active", true)
		if result.Error != nil {
			return fmt.Errorf("activate rate version: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
