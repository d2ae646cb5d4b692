package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nurpe/kostenersatz/internal/mail"
	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/repository"
)

type CalculationStore interface {
	Get(ctx context.Context, incidentID, id uuid.UUID) (*model.Calculation, error)
	ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]model.Calculation, error)
	Create(ctx context.Context, calc *model.Calculation) error
	Save(ctx context.Context, calc *model.Calculation) error
	Delete(ctx context.Context, incidentID, id uuid.UUID) error
}

type RateStore interface {
	ListVersions(ctx context.Context) ([]model.RateVersion, error)
	GetVersion(ctx context.Context, id string) (*model.RateVersion, error)
	ActiveVersion(ctx context.Context) (*model.RateVersion, error)
	SeedVersion(ctx context.Context, version model.RateVersion, rates []model.Rate) (repository.SeedStats, error)
	SetActive(ctx context.Context, id string) error
}

type RateCatalog interface {
	Resolve(ctx context.Context, versionID string) ([]model.Rate, error)
}

type VehicleStore interface {
	List(ctx context.Context) ([]model.Vehicle, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	Create(ctx context.Context, vehicle *model.Vehicle) error
	Update(ctx context.Context, vehicle *model.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// VehicleUsage reports how many draft calculations currently select a
// vehicle.
type VehicleUsage interface {
	CountDraftsWithVehicle(ctx context.Context, vehicleID uuid.UUID) (int64, error)
}

type TemplateStore interface {
	ListVisible(ctx context.Context, userID uuid.UUID) ([]model.Template, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Template, error)
	Create(ctx context.Context, tpl *model.Template) error
	Update(ctx context.Context, tpl *model.Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type IncidentStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Incident, error)
}

type Renderer interface {
	Render(doc model.CalculationDocument) ([]byte, error)
}

type Exporter interface {
	Generate(doc model.CalculationDocument) ([]byte, error)
}

type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}
