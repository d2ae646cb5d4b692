// Command seed-rates writes the built-in tariff catalog as a new rate
// version and optionally activates it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/kostenersatz/internal/config"
	"github.com/nurpe/kostenersatz/internal/db"
	"github.com/nurpe/kostenersatz/internal/logger"
	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/repository"
	"github.com/nurpe/kostenersatz/internal/service"
	"github.com/nurpe/kostenersatz/internal/tariff"
)

func main() {
	versionID := flag.String("version", "", "rate version id to create (required)")
	name := flag.String("name", "", "display name of the version")
	validFrom := flag.String("valid-from", tariff.DefaultValidFrom.Format("2006-01-02"), "first day the rates apply (YYYY-MM-DD)")
	activate := flag.Bool("activate", false, "make the new version the active one")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	flag.Parse()

	if *versionID == "" {
		fmt.Fprintln(os.Stderr, "-version is required")
		flag.Usage()
		os.Exit(2)
	}
	from, err := time.Parse("2006-01-02", *validFrom)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -valid-from: %v\n", err)
		os.Exit(2)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rateRepo := repository.NewRateRepository(database)
	rates := service.NewRateService(rateRepo, tariff.NewResolver(rateRepo, log), cfg, log)
	result, err := rates.Seed(ctx, service.SeedInput{
		Version: model.RateVersion{
			ID:        *versionID,
			Name:      *name,
			ValidFrom: from,
			CreatedBy: "seed-rates",
		},
		Activate:  *activate,
		Principal: model.Principal{UserID: uuid.Nil, Role: model.UserRoleAdmin},
	})
	if err != nil {
		log.Error().Err(err).Str("version", *versionID).Msg("seed failed")
		os.Exit(1)
	}

	log.Info().
		Str("version", result.Version.ID).
		Int("rates", result.Rates).
		Bool("active", result.Version.IsActive).
		Msg("seed complete")
}
