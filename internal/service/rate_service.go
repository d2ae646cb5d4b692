package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/config"
	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/repository"
	"github.com/nurpe/kostenersatz/internal/tariff"
)

type RateService struct {
	store          RateStore
	catalog        RateCatalog
	defaultVersion string
	log            zerolog.Logger
	now            func() time.Time
}

type SeedInput struct {
	Version   model.RateVersion
	Rates     []model.Rate
	Activate  bool
	Principal model.Principal
}

type SeedResult struct {
	Version model.RateVersion `json:"version"`
	Rates   int               `json:"rates"`
}

func NewRateService(store RateStore, catalog RateCatalog, cfg *config.Config, log zerolog.Logger) *RateService {
	defaultVersion := cfg.Tariff.DefaultVersion
	if defaultVersion == "" {
		defaultVersion = tariff.DefaultVersionID
	}
	return &RateService{
		store:          store,
		catalog:        catalog,
		defaultVersion: defaultVersion,
		log:            log,
		now:            time.Now,
	}
}

// ActiveVersion returns the active rate version. Without one, the configured
// default version stands in so that new calculations can always be created.
func (s *RateService) ActiveVersion(ctx context.Context) (model.RateVersion, error) {
	version, err := s.store.ActiveVersion(ctx)
	if err == nil {
		return *version, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RateVersion{}, err
	}
	return model.RateVersion{
		ID:        s.defaultVersion,
		Name:      "Standardtarif",
		ValidFrom: tariff.DefaultValidFrom,
		IsActive:  true,
	}, nil
}

func (s *RateService) ActiveVersionID(ctx context.Context) (string, error) {
	version, err := s.ActiveVersion(ctx)
	if err != nil {
		return "", err
	}
	return version.ID, nil
}

// Rates resolves the catalog of versionID, or of the active version when
// versionID is empty.
func (s *RateService) Rates(ctx context.Context, versionID string) ([]model.Rate, error) {
	if strings.TrimSpace(versionID) == "" {
		active, err := s.ActiveVersionID(ctx)
		if err != nil {
			return nil, err
		}
		versionID = active
	}
	return s.catalog.Resolve(ctx, versionID)
}

func (s *RateService) ListVersions(ctx context.Context) ([]model.RateVersion, error) {
	return s.store.ListVersions(ctx)
}

// Seed writes a new rate version. An empty rate list seeds the built-in
// catalog under the given version id.
func (s *RateService) Seed(ctx context.Context, input SeedInput) (*SeedResult, error) {
	if err := requireAdmin(input.Principal); err != nil {
		return nil, err
	}

	version := input.Version
	version.ID = strings.TrimSpace(version.ID)
	version.Name = strings.TrimSpace(version.Name)
	if version.Name == "" {
		version.Name = version.ID
	}
	if version.CreatedBy == "" {
		version.CreatedBy = input.Principal.UserID.String()
	}
	version.CreatedAt = s.now().UTC()

	rates := input.Rates
	if len(rates) == 0 {
		rates = tariff.DefaultCatalog(version.ID)
	}
	prepared, err := tariff.PrepareSeed(version, rates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	stats, err := s.store.SeedVersion(ctx, version, prepared)
	if err != nil {
		if errors.Is(err, repository.ErrVersionExists) {
			return nil, fmt.Errorf("%w: rate version %s already exists", ErrConflict, version.ID)
		}
		return nil, err
	}
	s.log.Info().
		Str("version", version.ID).
		Int("rates", stats.Rates).
		Msg("rate version seeded")

	if input.Activate {
		if err := s.store.SetActive(ctx, version.ID); err != nil {
			return nil, mapStoreErr(err)
		}
		version.IsActive = true
		s.log.Info().Str("version", version.ID).Msg("rate version activated")
	}

	return &SeedResult{Version: version, Rates: stats.Rates}, nil
}

func (s *RateService) Activate(ctx context.Context, principal model.Principal, versionID string) (*model.RateVersion, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(versionID) == "" {
		return nil, fmt.Errorf("%w: version id is required", ErrInvalidInput)
	}

	version, err := s.store.GetVersion(ctx, versionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if err := s.store.SetActive(ctx, versionID); err != nil {
		return nil, mapStoreErr(err)
	}
	version.IsActive = true
	s.log.Info().Str("version", versionID).Msg("rate version activated")
	return version, nil
}
