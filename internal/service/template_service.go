package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/pricing"
)

type TemplateService struct {
	store TemplateStore
	calcs CalculationStore
	log   zerolog.Logger
	now   func() time.Time
	newID func() uuid.UUID
}

type CalculationRef struct {
	IncidentID    uuid.UUID `json:"incidentId"`
	CalculationID uuid.UUID `json:"calculationId"`
}

// CreateTemplateInput captures either the lines of an existing calculation
// (Source) or the given Items.
type CreateTemplateInput struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	IsShared       bool                 `json:"isShared"`
	DefaultStunden decimal.NullDecimal  `json:"defaultStunden"`
	Items          []model.TemplateItem `json:"items"`
	Source         *CalculationRef      `json:"source,omitempty"`
}

type UpdateTemplateInput struct {
	Name           *string              `json:"name,omitempty"`
	Description    *string              `json:"description,omitempty"`
	IsShared       *bool                `json:"isShared,omitempty"`
	DefaultStunden *decimal.NullDecimal `json:"defaultStunden,omitempty"`
}

func NewTemplateService(store TemplateStore, calcs CalculationStore, log zerolog.Logger) *TemplateService {
	return &TemplateService{
		store: store,
		calcs: calcs,
		log:   log,
		now:   time.Now,
		newID: uuid.New,
	}
}

func (s *TemplateService) List(ctx context.Context, principal model.Principal) ([]model.Template, error) {
	return s.store.ListVisible(ctx, principal.UserID)
}

func (s *TemplateService) Create(ctx context.Context, principal model.Principal, input CreateTemplateInput) (*model.Template, error) {
	if input.IsShared && !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	capture := pricing.CaptureInput{
		Name:           input.Name,
		Description:    input.Description,
		DefaultStunden: input.DefaultStunden,
		IsShared:       input.IsShared,
	}
	if input.Source != nil {
		calc, err := s.calcs.Get(ctx, input.Source.IncidentID, input.Source.CalculationID)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		capture.Items = calc.Items
		if !capture.DefaultStunden.Valid {
			capture.DefaultStunden = decimal.NewNullDecimal(calc.DefaultStunden)
		}
	} else {
		capture.Items = make([]model.LineItem, 0, len(input.Items))
		for _, item := range input.Items {
			capture.Items = append(capture.Items, model.LineItem{RateID: item.RateID, Einheiten: item.Einheiten})
		}
	}

	tpl, err := pricing.CaptureTemplate(capture)
	if err != nil {
		return nil, mapPricingErr(err)
	}
	if len(tpl.Items) == 0 {
		return nil, fmt.Errorf("%w: template has no items", ErrInvalidInput)
	}

	now := s.now().UTC()
	tpl.ID = s.newID()
	tpl.CreatedBy = principal.UserID
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	if err := s.store.Create(ctx, &tpl); err != nil {
		return nil, err
	}
	s.log.Info().Str("template_id", tpl.ID.String()).Bool("shared", tpl.IsShared).Msg("template created")
	return &tpl, nil
}

func (s *TemplateService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateTemplateInput) (*model.Template, error) {
	tpl, err := s.manageable(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: template name is required", ErrInvalidInput)
		}
		tpl.Name = name
	}
	if input.Description != nil {
		tpl.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsShared != nil {
		if *input.IsShared && !principal.IsAdmin() {
			return nil, ErrPermissionDenied
		}
		tpl.IsShared = *input.IsShared
	}
	if input.DefaultStunden != nil {
		if input.DefaultStunden.Valid && !input.DefaultStunden.Decimal.IsPositive() {
			return nil, fmt.Errorf("%w: default hours must be positive", ErrInvalidInput)
		}
		tpl.DefaultStunden = *input.DefaultStunden
	}

	if err := s.store.Update(ctx, tpl); err != nil {
		return nil, mapStoreErr(err)
	}
	return tpl, nil
}

func (s *TemplateService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if _, err := s.manageable(ctx, principal, id); err != nil {
		return err
	}
	return mapStoreErr(s.store.Delete(ctx, id))
}

// manageable loads a template the principal may change: shared templates
// need the admin role, personal ones their creator.
func (s *TemplateService) manageable(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Template, error) {
	tpl, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if tpl.IsShared {
		if !principal.IsAdmin() {
			return nil, ErrPermissionDenied
		}
		return tpl, nil
	}
	if tpl.CreatedBy != principal.UserID {
		return nil, ErrNotFound
	}
	return tpl, nil
}
