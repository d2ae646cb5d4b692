package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/model"
)

// CalculationRepository stores calculations per incident. Writes replace the
// whole row; concurrent editors of one calculation overwrite each other.
type CalculationRepository struct {
	db *gorm.DB
}

func NewCalculationRepository(db *gorm.DB) *CalculationRepository {
	return &CalculationRepository{db: db}
}

func (r *CalculationRepository) Get(ctx context.Context, incidentID, id uuid.UUID) (*model.Calculation, error) {
	var calc model.Calculation
	err := r.db.WithContext(ctx).
		Where("incident_id = ? AND id = ?", incidentID, id).
		Take(&calc).Error
	if err != nil {
		return nil, err
	}
	return &calc, nil
}

func (r *CalculationRepository) ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]model.Calculation, error) {
	var calcs []model.Calculation
	err := r.db.WithContext(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at ASC").
		Find(&calcs).Error
	if err != nil {
		return nil, err
	}
	return calcs, nil
}

func (r *CalculationRepository) Create(ctx context.Context, calc *model.Calculation) error {
	return r.db.WithContext(ctx).Create(calc).Error
}

func (r *CalculationRepository) Save(ctx context.Context, calc *model.Calculation) error {
	result := r.db.WithContext(ctx).
		Model(&model.Calculation{}).
		Where("incident_id = ? AND id = ?", calc.IncidentID, calc.ID).
		Select("*").
		Omit("id", "incident_id", "created_at", "created_by").
		Updates(calc)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountDraftsWithVehicle counts draft calculations whose vehicle list holds
// vehicleID.
func (r *CalculationRepository) CountDraftsWithVehicle(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM calculations
		WHERE status = ? AND CAST(vehicles AS TEXT) LIKE ?
	`, model.StatusDraft, `%"`+vehicleID.String()+`"%`).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CalculationRepository) Delete(ctx context.Context, incidentID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("incident_id = ? AND id = ?", incidentID, id).
		Delete(&model.Calculation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
