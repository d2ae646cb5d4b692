package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/config"
	"github.com/nurpe/kostenersatz/internal/lifecycle"
	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/pricing"
)

type CalculationDeps struct {
	Calculations CalculationStore
	Incidents    IncidentStore
	Templates    TemplateStore
	Vehicles     VehicleStore
	Rates        *RateService
	Renderer     Renderer
	Exporter     Exporter
	Mailer       Mailer
}

type CalculationService struct {
	calcs          CalculationStore
	incidents      IncidentStore
	templates      TemplateStore
	vehicles       VehicleStore
	rates          *RateService
	renderer       Renderer
	exporter       Exporter
	mailer         Mailer
	machine        *lifecycle.Machine
	defaultStunden decimal.Decimal
	dispatch       config.DispatchConfig
	log            zerolog.Logger
	now            func() time.Time
	newID          func() uuid.UUID
}

type CreateCalculationInput struct {
	IncidentID     uuid.UUID
	DefaultStunden decimal.NullDecimal
	TemplateID     *uuid.UUID
	Principal      model.Principal
}

type CalculationDetail struct {
	Calculation  model.Calculation   `json:"calculation"`
	Rates        []model.Rate        `json:"rates"`
	SkippedRates []string            `json:"skippedRates,omitempty"`
	Actions      []lifecycle.Trigger `json:"actions"`
}

// ItemEdit changes one tariff line. Einheiten 0 removes the line;
// ResetStunden wins over AnzahlStunden.
type ItemEdit struct {
	RateID        string           `json:"rateId"`
	Einheiten     *int             `json:"einheiten,omitempty"`
	AnzahlStunden *decimal.Decimal `json:"anzahlStunden,omitempty"`
	ResetStunden  bool             `json:"resetStunden,omitempty"`
}

// CustomItemEdit adds an item when Index is nil, otherwise updates or
// removes the item at Index.
type CustomItemEdit struct {
	Index  *int              `json:"index,omitempty"`
	Remove bool              `json:"remove,omitempty"`
	Item   *model.CustomItem `json:"item,omitempty"`
}

type CalculationPatch struct {
	DefaultStunden      *decimal.Decimal `json:"defaultStunden,omitempty"`
	Items               []ItemEdit       `json:"items,omitempty"`
	CustomItems         []CustomItemEdit `json:"customItems,omitempty"`
	Recipient           *model.Recipient `json:"recipient,omitempty"`
	CallDateOverride    *time.Time       `json:"callDateOverride,omitempty"`
	StartDateOverride   *time.Time       `json:"startDateOverride,omitempty"`
	EndDateOverride     *time.Time       `json:"endDateOverride,omitempty"`
	NameOverride        *string          `json:"nameOverride,omitempty"`
	DescriptionOverride *string          `json:"descriptionOverride,omitempty"`
	Comment             *string          `json:"comment,omitempty"`
}

// locked reports whether the patch touches anything beyond the comment.
func (p CalculationPatch) locked() bool {
	return p.DefaultStunden != nil ||
		len(p.Items) > 0 ||
		len(p.CustomItems) > 0 ||
		p.Recipient != nil ||
		p.CallDateOverride != nil ||
		p.StartDateOverride != nil ||
		p.EndDateOverride != nil ||
		p.NameOverride != nil ||
		p.DescriptionOverride != nil
}

func NewCalculationService(deps CalculationDeps, cfg *config.Config, log zerolog.Logger) *CalculationService {
	return &CalculationService{
		calcs:          deps.Calculations,
		incidents:      deps.Incidents,
		templates:      deps.Templates,
		vehicles:       deps.Vehicles,
		rates:          deps.Rates,
		renderer:       deps.Renderer,
		exporter:       deps.Exporter,
		mailer:         deps.Mailer,
		machine:        lifecycle.NewCalculationMachine(),
		defaultStunden: cfg.Calculation.DefaultStunden,
		dispatch:       cfg.Dispatch,
		log:            log,
		now:            time.Now,
		newID:          uuid.New,
	}
}

func (s *CalculationService) Create(ctx context.Context, input CreateCalculationInput) (*CalculationDetail, error) {
	if input.IncidentID == uuid.Nil {
		return nil, fmt.Errorf("%w: incident id is required", ErrInvalidInput)
	}
	hours := s.defaultStunden
	if input.DefaultStunden.Valid {
		hours = input.DefaultStunden.Decimal
	}
	if !hours.IsPositive() {
		return nil, fmt.Errorf("%w: default hours must be positive", ErrInvalidInput)
	}

	if _, err := s.incidents.Get(ctx, input.IncidentID); err != nil {
		return nil, mapStoreErr(err)
	}

	versionID, err := s.rates.ActiveVersionID(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.Rates(ctx, versionID)
	if err != nil {
		return nil, err
	}
	index := pricing.IndexRates(rates)

	now := s.now().UTC()
	calc := model.Calculation{
		ID:             s.newID(),
		IncidentID:     input.IncidentID,
		RateVersion:    versionID,
		Status:         model.StatusDraft,
		DefaultStunden: hours,
		CreatedBy:      input.Principal.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var skipped []string
	if input.TemplateID != nil {
		tpl, err := s.visibleTemplate(ctx, input.Principal, *input.TemplateID)
		if err != nil {
			return nil, err
		}
		calc, skipped = pricing.ApplyTemplate(*tpl, calc, index)
	}
	calc = pricing.Recompute(calc, index)

	if err := s.calcs.Create(ctx, &calc); err != nil {
		return nil, s.persistErr(calc, err)
	}
	s.log.Info().
		Str("calculation_id", calc.ID.String()).
		Str("incident_id", calc.IncidentID.String()).
		Str("rate_version", calc.RateVersion).
		Msg("calculation created")

	return s.detail(calc, rates, skipped), nil
}

func (s *CalculationService) Get(ctx context.Context, incidentID, id uuid.UUID) (*CalculationDetail, error) {
	calc, err := s.load(ctx, incidentID, id)
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.Rates(ctx, calc.RateVersion)
	if err != nil {
		return nil, err
	}
	return s.detail(*calc, rates, nil), nil
}

func (s *CalculationService) List(ctx context.Context, incidentID uuid.UUID) ([]model.Calculation, error) {
	return s.calcs.ListByIncident(ctx, incidentID)
}

func (s *CalculationService) Update(ctx context.Context, incidentID, id uuid.UUID, patch CalculationPatch) (*model.Calculation, error) {
	calc, err := s.load(ctx, incidentID, id)
	if err != nil {
		return nil, err
	}
	if patch.locked() {
		if err := lifecycle.EnsureDraft(*calc); err != nil {
			s.logRejected(*calc, err)
			return nil, err
		}
	}

	rates, err := s.rateIndex(ctx, calc.RateVersion)
	if err != nil {
		return nil, err
	}

	next, err := applyPatch(*calc, rates, patch)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.calcs.Save(ctx, &next); err != nil {
		return nil, s.persistErr(next, err)
	}
	return &next, nil
}

func applyPatch(calc model.Calculation, rates pricing.RateIndex, patch CalculationPatch) (model.Calculation, error) {
	var err error
	if patch.DefaultStunden != nil {
		if calc, err = pricing.SetDefaultStunden(calc, rates, *patch.DefaultStunden); err != nil {
			return calc, mapPricingErr(err)
		}
	}

	for _, edit := range patch.Items {
		if edit.Einheiten != nil {
			if calc, err = pricing.SetItemUnits(calc, rates, edit.RateID, *edit.Einheiten); err != nil {
				return calc, mapPricingErr(err)
			}
		}
		switch {
		case edit.ResetStunden:
			calc, err = pricing.ResetItemHours(calc, rates, edit.RateID)
		case edit.AnzahlStunden != nil:
			calc, err = pricing.SetItemHours(calc, rates, edit.RateID, *edit.AnzahlStunden)
		}
		if err != nil {
			return calc, mapPricingErr(err)
		}
	}

	for _, edit := range patch.CustomItems {
		switch {
		case edit.Index == nil && edit.Item != nil:
			calc, err = pricing.AddCustomItem(calc, rates, *edit.Item)
		case edit.Index != nil && edit.Remove:
			calc, err = pricing.RemoveCustomItem(calc, rates, *edit.Index)
		case edit.Index != nil && edit.Item != nil:
			calc, err = pricing.UpdateCustomItem(calc, rates, *edit.Index, *edit.Item)
		default:
			err = fmt.Errorf("%w: custom item edit needs an item or an index to remove", ErrInvalidInput)
		}
		if err != nil {
			return calc, mapPricingErr(err)
		}
	}

	if patch.Recipient != nil {
		recipient := *patch.Recipient
		recipient.Name = strings.TrimSpace(recipient.Name)
		recipient.Email = strings.TrimSpace(recipient.Email)
		if !recipient.PaymentMethod.IsValid() {
			return calc, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, recipient.PaymentMethod)
		}
		calc.Recipient = recipient
	}

	if patch.CallDateOverride != nil {
		calc.CallDateOverride = patch.CallDateOverride
	}
	if patch.StartDateOverride != nil {
		calc.StartDateOverride = patch.StartDateOverride
	}
	if patch.EndDateOverride != nil {
		calc.EndDateOverride = patch.EndDateOverride
	}
	if patch.NameOverride != nil {
		calc.NameOverride = optionalText(*patch.NameOverride)
	}
	if patch.DescriptionOverride != nil {
		calc.DescriptionOverride = optionalText(*patch.DescriptionOverride)
	}
	if patch.Comment != nil {
		calc.Comment = strings.TrimSpace(*patch.Comment)
	}
	return calc, nil
}

// ToggleVehicle adds the vehicle to the calculation or removes it again. A
// vehicle whose rate is missing from the calculation's catalog leaves the
// calculation untouched.
func (s *CalculationService) ToggleVehicle(ctx context.Context, incidentID, id, vehicleID uuid.UUID) (*model.Calculation, error) {
	calc, err := s.load(ctx, incidentID, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.EnsureDraft(*calc); err != nil {
		s.logRejected(*calc, err)
		return nil, err
	}

	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	rates, err := s.rateIndex(ctx, calc.RateVersion)
	if err != nil {
		return nil, err
	}

	fleet, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}

	next, err := pricing.ToggleVehicle(*calc, *vehicle, pricing.FleetRates(fleet), rates)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("calculation_id", calc.ID.String()).
			Str("vehicle_id", vehicle.ID.String()).
			Msg("vehicle rate not in catalog")
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.calcs.Save(ctx, &next); err != nil {
		return nil, s.persistErr(next, err)
	}
	return &next, nil
}

func (s *CalculationService) ApplyTemplate(ctx context.Context, principal model.Principal, incidentID, id, templateID uuid.UUID) (*CalculationDetail, error) {
	calc, err := s.load(ctx, incidentID, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.EnsureDraft(*calc); err != nil {
		s.logRejected(*calc, err)
		return nil, err
	}

	tpl, err := s.visibleTemplate(ctx, principal, templateID)
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.Rates(ctx, calc.RateVersion)
	if err != nil {
		return nil, err
	}

	next, skipped := pricing.ApplyTemplate(*tpl, *calc, pricing.IndexRates(rates))
	if len(skipped) > 0 {
		s.log.Debug().
			Str("calculation_id", calc.ID.String()).
			Strs("rate_ids", skipped).
			Msg("template rates not in catalog")
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.calcs.Save(ctx, &next); err != nil {
		return nil, s.persistErr(next, err)
	}
	return s.detail(next, rates, skipped), nil
}

func (s *CalculationService) Complete(ctx context.Context, incidentID, id uuid.UUID) (*model.Calculation, error) {
	calc, err := s.load(ctx, incidentID, id)
	if err != nil {
		return nil, err
	}

	status, err := s.machine.Fire(*calc, lifecycle.TriggerComplete)
	if err != nil {
		s.logRejected(*calc, err)
		return nil, err
	}

	next := calc.Clone()
	next.Status = status
	next.UpdatedAt = s.now().UTC()
	if err := s.calcs.Save(ctx, &next); err != nil {
		return nil, s.persistErr(next, err)
	}
	s.log.Info().
		Str("calculation_id", next.ID.String()).
		Str("incident_id", next.IncidentID.String()).
		Msg("calculation completed")
	return &next, nil
}

func (s *CalculationService) Duplicate(ctx context.Context, principal model.Principal, incidentID, id uuid.UUID) (*model.Calculation, error) {
	src, err := s.load(ctx, incidentID, id)
	if err != nil {
		return nil, err
	}

	copied := lifecycle.Duplicate(*src, s.newID(), principal.UserID, s.now().UTC())
	if err := s.calcs.Create(ctx, &copied); err != nil {
		return nil, s.persistErr(copied, err)
	}
	s.log.Info().
		Str("calculation_id", copied.ID.String()).
		Str("source_id", src.ID.String()).
		Msg("calculation duplicated")
	return &copied, nil
}

func (s *CalculationService) Delete(ctx context.Context, incidentID, id uuid.UUID) error {
	calc, err := s.load(ctx, incidentID, id)
	if err != nil {
		return err
	}
	if err := lifecycle.EnsureDeletable(*calc); err != nil {
		s.logRejected(*calc, err)
		return err
	}
	if err := s.calcs.Delete(ctx, incidentID, id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (s *CalculationService) detail(calc model.Calculation, rates []model.Rate, skipped []string) *CalculationDetail {
	return &CalculationDetail{
		Calculation:  calc,
		Rates:        rates,
		SkippedRates: skipped,
		Actions:      s.machine.PermittedTriggers(calc.Status),
	}
}

func (s *CalculationService) load(ctx context.Context, incidentID, id uuid.UUID) (*model.Calculation, error) {
	calc, err := s.calcs.Get(ctx, incidentID, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return calc, nil
}

func (s *CalculationService) rateIndex(ctx context.Context, versionID string) (pricing.RateIndex, error) {
	rates, err := s.rates.Rates(ctx, versionID)
	if err != nil {
		return nil, err
	}
	return pricing.IndexRates(rates), nil
}

// visibleTemplate hides personal templates of other users behind ErrNotFound.
func (s *CalculationService) visibleTemplate(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Template, error) {
	tpl, err := s.templates.Get(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !tpl.IsShared && tpl.CreatedBy != principal.UserID {
		return nil, ErrNotFound
	}
	return tpl, nil
}

func (s *CalculationService) persistErr(calc model.Calculation, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	s.log.Error().
		Err(err).
		Str("calculation_id", calc.ID.String()).
		Str("incident_id", calc.IncidentID.String()).
		Msg("persist calculation")
	return &PersistenceError{Calculation: &calc, Err: err}
}

func (s *CalculationService) logRejected(calc model.Calculation, err error) {
	s.log.Info().
		Err(err).
		Str("calculation_id", calc.ID.String()).
		Str("incident_id", calc.IncidentID.String()).
		Str("status", string(calc.Status)).
		Msg("transition rejected")
}

func optionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
