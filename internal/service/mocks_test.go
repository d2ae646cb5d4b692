package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/nurpe/kostenersatz/internal/config"
	"github.com/nurpe/kostenersatz/internal/mail"
	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/repository"
	"github.com/nurpe/kostenersatz/internal/tariff"
)

type mockCalculationStore struct{ mock.Mock }

func (m *mockCalculationStore) Get(ctx context.Context, incidentID, id uuid.UUID) (*model.Calculation, error) {
	args := m.Called(ctx, incidentID, id)
	calc, _ := args.Get(0).(*model.Calculation)
	return calc, args.Error(1)
}

func (m *mockCalculationStore) ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]model.Calculation, error) {
	args := m.Called(ctx, incidentID)
	calcs, _ := args.Get(0).([]model.Calculation)
	return calcs, args.Error(1)
}

func (m *mockCalculationStore) Create(ctx context.Context, calc *model.Calculation) error {
	return m.Called(ctx, calc).Error(0)
}

func (m *mockCalculationStore) Save(ctx context.Context, calc *model.Calculation) error {
	return m.Called(ctx, calc).Error(0)
}

func (m *mockCalculationStore) Delete(ctx context.Context, incidentID, id uuid.UUID) error {
	return m.Called(ctx, incidentID, id).Error(0)
}

type mockVehicleUsage struct{ mock.Mock }

func (m *mockVehicleUsage) CountDraftsWithVehicle(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, vehicleID)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

type mockRateStore struct{ mock.Mock }

func (m *mockRateStore) ListVersions(ctx context.Context) ([]model.RateVersion, error) {
	args := m.Called(ctx)
	versions, _ := args.Get(0).([]model.RateVersion)
	return versions, args.Error(1)
}

func (m *mockRateStore) GetVersion(ctx context.Context, id string) (*model.RateVersion, error) {
	args := m.Called(ctx, id)
	version, _ := args.Get(0).(*model.RateVersion)
	return version, args.Error(1)
}

func (m *mockRateStore) ActiveVersion(ctx context.Context) (*model.RateVersion, error) {
	args := m.Called(ctx)
	version, _ := args.Get(0).(*model.RateVersion)
	return version, args.Error(1)
}

func (m *mockRateStore) SeedVersion(ctx context.Context, version model.RateVersion, rates []model.Rate) (repository.SeedStats, error) {
	args := m.Called(ctx, version, rates)
	return args.Get(0).(repository.SeedStats), args.Error(1)
}

func (m *mockRateStore) SetActive(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) Resolve(ctx context.Context, versionID string) ([]model.Rate, error) {
	args := m.Called(ctx, versionID)
	rates, _ := args.Get(0).([]model.Rate)
	return rates, args.Error(1)
}

type mockVehicleStore struct{ mock.Mock }

func (m *mockVehicleStore) List(ctx context.Context) ([]model.Vehicle, error) {
	args := m.Called(ctx)
	vehicles, _ := args.Get(0).([]model.Vehicle)
	return vehicles, args.Error(1)
}

func (m *mockVehicleStore) Get(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	vehicle, _ := args.Get(0).(*model.Vehicle)
	return vehicle, args.Error(1)
}

func (m *mockVehicleStore) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return m.Called(ctx, vehicle).Error(0)
}

func (m *mockVehicleStore) Update(ctx context.Context, vehicle *model.Vehicle) error {
	return m.Called(ctx, vehicle).Error(0)
}

func (m *mockVehicleStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockVehicleStore) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

type mockTemplateStore struct{ mock.Mock }

func (m *mockTemplateStore) ListVisible(ctx context.Context, userID uuid.UUID) ([]model.Template, error) {
	args := m.Called(ctx, userID)
	templates, _ := args.Get(0).([]model.Template)
	return templates, args.Error(1)
}

func (m *mockTemplateStore) Get(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	args := m.Called(ctx, id)
	tpl, _ := args.Get(0).(*model.Template)
	return tpl, args.Error(1)
}

func (m *mockTemplateStore) Create(ctx context.Context, tpl *model.Template) error {
	return m.Called(ctx, tpl).Error(0)
}

func (m *mockTemplateStore) Update(ctx context.Context, tpl *model.Template) error {
	return m.Called(ctx, tpl).Error(0)
}

func (m *mockTemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockIncidentStore struct{ mock.Mock }

func (m *mockIncidentStore) Get(ctx context.Context, id uuid.UUID) (*model.Incident, error) {
	args := m.Called(ctx, id)
	incident, _ := args.Get(0).(*model.Incident)
	return incident, args.Error(1)
}

type mockRenderer struct{ mock.Mock }

func (m *mockRenderer) Render(doc model.CalculationDocument) ([]byte, error) {
	args := m.Called(doc)
	content, _ := args.Get(0).([]byte)
	return content, args.Error(1)
}

func (m *mockRenderer) Generate(doc model.CalculationDocument) ([]byte, error) {
	args := m.Called(doc)
	content, _ := args.Get(0).([]byte)
	return content, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, msg mail.Message) error {
	return m.Called(ctx, msg).Error(0)
}

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Tariff:      config.TariffConfig{DefaultVersion: tariff.DefaultVersionID},
		Calculation: config.CalculationConfig{DefaultStunden: decimal.NewFromInt(3)},
		Dispatch:    config.DispatchConfig{Timeout: time.Second, Attempts: 2},
	}
}

type calcFixture struct {
	calcs     *mockCalculationStore
	incidents *mockIncidentStore
	templates *mockTemplateStore
	vehicles  *mockVehicleStore
	rateStore *mockRateStore
	catalog   *mockCatalog
	renderer  *mockRenderer
	mailer    *mockMailer
	svc       *CalculationService
}

// newCalcFixture wires a CalculationService whose catalog is the built-in
// default catalog and which has no active rate version.
func newCalcFixture(t *testing.T) *calcFixture {
	t.Helper()
	f := &calcFixture{
		calcs:     &mockCalculationStore{},
		incidents: &mockIncidentStore{},
		templates: &mockTemplateStore{},
		vehicles:  &mockVehicleStore{},
		rateStore: &mockRateStore{},
		catalog:   &mockCatalog{},
		renderer:  &mockRenderer{},
		mailer:    &mockMailer{},
	}
	f.rateStore.On("ActiveVersion", mock.Anything).Return(nil, gorm.ErrRecordNotFound).Maybe()
	f.catalog.On("Resolve", mock.Anything, tariff.DefaultVersionID).
		Return(tariff.DefaultCatalog(tariff.DefaultVersionID), nil).Maybe()

	cfg := testConfig()
	rates := NewRateService(f.rateStore, f.catalog, cfg, zerolog.Nop())
	f.svc = NewCalculationService(CalculationDeps{
		Calculations: f.calcs,
		Incidents:    f.incidents,
		Templates:    f.templates,
		Vehicles:     f.vehicles,
		Rates:        rates,
		Renderer:     f.renderer,
		Exporter:     f.renderer,
		Mailer:       f.mailer,
	}, cfg, zerolog.Nop())
	f.svc.now = func() time.Time { return testNow }
	ids := []uuid.UUID{
		uuid.MustParse("00000000-0000-0000-0000-0000000000a1"),
		uuid.MustParse("00000000-0000-0000-0000-0000000000a2"),
	}
	next := 0
	f.svc.newID = func() uuid.UUID {
		id := ids[next%len(ids)]
		next++
		return id
	}

	t.Cleanup(func() {
		f.calcs.AssertExpectations(t)
		f.incidents.AssertExpectations(t)
		f.templates.AssertExpectations(t)
		f.vehicles.AssertExpectations(t)
		f.mailer.AssertExpectations(t)
	})
	return f
}

func draftCalc(incidentID uuid.UUID) *model.Calculation {
	return &model.Calculation{
		ID:             uuid.New(),
		IncidentID:     incidentID,
		RateVersion:    tariff.DefaultVersionID,
		Status:         model.StatusDraft,
		DefaultStunden: decimal.NewFromInt(3),
		Subtotals:      model.Subtotals{},
		CreatedAt:      testNow.Add(-time.Hour),
		UpdatedAt:      testNow.Add(-time.Hour),
	}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
