package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"pricing-report/internal/config"
	"pricing-report/internal/core"
	"pricing-report/internal/db"
	"pricing-report/internal/email"
	"pricing-report/internal/logger"
	"pricing-report/internal/xlsx"
)

// Runs the PO vs SO pricing report for the previous calendar month. An
// external scheduler (cron) is expected to invoke this once a month.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.NewLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logg.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	service := core.NewPricingReportService(
		core.NewOrderStore(pool),
		core.NewRateConverter(pool),
		xlsx.NewWriter(),
		email.NewNotifier(email.NewClient(cfg.Email.ResendAPIKey), cfg.Email, logg),
		logg,
	)

	if err := service.Run(ctx, time.Now()); err != nil {
		logg.Fatalf("Pricing report run failed: %v", err)
	}
}
