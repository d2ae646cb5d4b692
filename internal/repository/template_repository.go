package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// ListVisible returns the shared templates plus the personal ones of userID.
func (r *TemplateRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]model.Template, error) {
	var templates []model.Template
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, description, is_shared, items, default_stunden, created_by, created_at, updated_at
		FROM calculation_templates
		WHERE is_shared = ? OR created_by = ?
		ORDER BY name ASC
	`, true, userID).Scan(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepository) Get(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	var tpl model.Template
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, description, is_shared, items, default_stunden, created_by, created_at, updated_at
		FROM calculation_templates
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&tpl).Error
	if err != nil {
		return nil, err
	}
	if tpl.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &tpl, nil
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *model.Template) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *model.Template) error {
	result := r.db.WithContext(ctx).
		Model(&model.Template{}).
		Where("id = ?", tpl.ID).
		Updates(map[string]interface{}{
			"name":            tpl.Name,
			"description":     tpl.Description,
			"is_shared":       tpl.IsShared,
			"default_stunden": tpl.DefaultStunden,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Template{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
