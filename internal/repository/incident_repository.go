package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/model"
)

type IncidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

func (r *IncidentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Incident, error) {
	var incident model.Incident
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, description, address, alarmed_at, finished_at
		FROM incidents
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&incident).Error
	if err != nil {
		return nil, err
	}
	if incident.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &incident, nil
}
