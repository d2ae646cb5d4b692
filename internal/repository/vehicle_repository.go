package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/model"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) List(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, description, rate_id, sort_order, created_at, updated_at
		FROM vehicles
		ORDER BY sort_order ASC, name ASC
	`).Scan(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) Get(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, description, rate_id, sort_order, created_at, updated_at
		FROM vehicles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&vehicle).Error
	if err != nil {
		return nil, err
	}
	if vehicle.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &vehicle, nil
}

// Create appends the vehicle at the end of the current ordering.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Raw(`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM vehicles`).Scan(&next).Error; err != nil {
			return fmt.Errorf("next sort order: %w", err)
		}
		vehicle.SortOrder = next
		return tx.Create(vehicle).Error
	})
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	result := r.db.WithContext(ctx).
		Model(&model.Vehicle{}).
		Where("id = ?", vehicle.ID).
		Updates(map[string]interface{}{
			"name":        vehicle.Name,
			"description": vehicle.Description,
			"rate_id":     vehicle.RateID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Vehicle{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Reorder assigns sort orders 0..n-1 following ids. Unknown ids abort the
// whole reorder.
func (r *VehicleRepository) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&model.Vehicle{}).Where("id = ?", id).Update("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("vehicle %s: %w", id, gorm.ErrRecordNotFound)
			}
		}
		return nil
	})
}
