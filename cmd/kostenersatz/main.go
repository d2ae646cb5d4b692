package main

import (
	"fmt"
	"os"

	"github.com/nurpe/kostenersatz/internal/auth"
	"github.com/nurpe/kostenersatz/internal/config"
	"github.com/nurpe/kostenersatz/internal/db"
	"github.com/nurpe/kostenersatz/internal/excel"
	httphandler "github.com/nurpe/kostenersatz/internal/http"
	"github.com/nurpe/kostenersatz/internal/http/middleware"
	"github.com/nurpe/kostenersatz/internal/logger"
	"github.com/nurpe/kostenersatz/internal/mail"
	"github.com/nurpe/kostenersatz/internal/pdf"
	"github.com/nurpe/kostenersatz/internal/repository"
	"github.com/nurpe/kostenersatz/internal/service"
	"github.com/nurpe/kostenersatz/internal/tariff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	rateRepo := repository.NewRateRepository(database)
	calcRepo := repository.NewCalculationRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	templateRepo := repository.NewTemplateRepository(database)
	incidentRepo := repository.NewIncidentRepository(database)

	rateService := service.NewRateService(rateRepo, tariff.NewResolver(rateRepo, log), cfg, log)
	calcService := service.NewCalculationService(service.CalculationDeps{
		Calculations: calcRepo,
		Incidents:    incidentRepo,
		Templates:    templateRepo,
		Vehicles:     vehicleRepo,
		Rates:        rateService,
		Renderer:     pdf.NewGenerator(cfg.Document.Issuer),
		Exporter:     excel.NewGenerator(),
		Mailer:       mail.NewSMTPSender(cfg.SMTP, log),
	}, cfg, log)
	vehicleService := service.NewVehicleService(vehicleRepo, calcRepo, rateService, log)
	templateService := service.NewTemplateService(templateRepo, calcRepo, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(rateService, calcService, vehicleService, templateService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.CORSAllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Str("tariff", cfg.Tariff.DefaultVersion).Msg("starting kostenersatz service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
