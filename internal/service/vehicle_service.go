package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/pricing"
)

type VehicleService struct {
	store VehicleStore
	usage VehicleUsage
	rates *RateService
	log   zerolog.Logger
	now   func() time.Time
	newID func() uuid.UUID
}

type VehicleInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RateID      string `json:"rateId"`
}

func NewVehicleService(store VehicleStore, usage VehicleUsage, rates *RateService, log zerolog.Logger) *VehicleService {
	return &VehicleService{
		store: store,
		usage: usage,
		rates: rates,
		log:   log,
		now:   time.Now,
		newID: uuid.New,
	}
}

func (s *VehicleService) List(ctx context.Context) ([]model.Vehicle, error) {
	return s.store.List(ctx)
}

func (s *VehicleService) Create(ctx context.Context, principal model.Principal, input VehicleInput) (*model.Vehicle, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	input, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	vehicle := model.Vehicle{
		ID:          s.newID(),
		Name:        input.Name,
		Description: input.Description,
		RateID:      input.RateID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, &vehicle); err != nil {
		return nil, err
	}
	s.log.Info().Str("vehicle_id", vehicle.ID.String()).Str("rate_id", vehicle.RateID).Msg("vehicle created")
	return &vehicle, nil
}

func (s *VehicleService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input VehicleInput) (*model.Vehicle, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	input, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if vehicle.RateID != input.RateID {
		if err := s.ensureUnselected(ctx, *vehicle); err != nil {
			return nil, err
		}
	}
	vehicle.Name = input.Name
	vehicle.Description = input.Description
	vehicle.RateID = input.RateID
	if err := s.store.Update(ctx, vehicle); err != nil {
		return nil, mapStoreErr(err)
	}
	return vehicle, nil
}

func (s *VehicleService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return mapStoreErr(s.store.Delete(ctx, id))
}

// Reorder takes every vehicle id in its new position.
func (s *VehicleService) Reorder(ctx context.Context, principal model.Principal, ids []uuid.UUID) ([]model.Vehicle, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: vehicle ids are required", ErrInvalidInput)
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate vehicle id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	if err := s.store.Reorder(ctx, ids); err != nil {
		return nil, mapStoreErr(err)
	}
	return s.store.List(ctx)
}

// ensureUnselected refuses a rate change while drafts bill the vehicle under
// its current rate; deselecting it later would miss that line.
func (s *VehicleService) ensureUnselected(ctx context.Context, vehicle model.Vehicle) error {
	drafts, err := s.usage.CountDraftsWithVehicle(ctx, vehicle.ID)
	if err != nil {
		return err
	}
	if drafts > 0 {
		s.log.Warn().
			Str("vehicle_id", vehicle.ID.String()).
			Int64("drafts", drafts).
			Msg("rate change rejected for selected vehicle")
		return fmt.Errorf("%w: vehicle %s is selected on %d draft calculations", ErrConflict, vehicle.Name, drafts)
	}
	return nil
}

// validate requires a name and a rate that exists in the active catalog.
func (s *VehicleService) validate(ctx context.Context, input VehicleInput) (VehicleInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.RateID = strings.TrimSpace(input.RateID)
	if input.Name == "" {
		return input, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.RateID == "" {
		return input, fmt.Errorf("%w: rate id is required", ErrInvalidInput)
	}

	rates, err := s.rates.Rates(ctx, "")
	if err != nil {
		return input, err
	}
	if _, ok := pricing.IndexRates(rates).Lookup(input.RateID); !ok {
		return input, fmt.Errorf("%w: %s", ErrRateNotFound, input.RateID)
	}
	return input, nil
}
