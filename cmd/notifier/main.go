package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/openlots/parking-reservation/internal/adapters/database"
	"github.com/openlots/parking-reservation/internal/application/services"
	"github.com/openlots/parking-reservation/internal/infrastructure/clients/postgres"
	"github.com/openlots/parking-reservation/internal/infrastructure/notifications"
	"github.com/openlots/parking-reservation/internal/infrastructure/observability"
	"github.com/openlots/parking-reservation/pkg/config"
)

// Runs a single notifier sweep and exits. Intended for cron or one-off
// runs next to the in-process loop the API server carries.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger("parking-reservation-notifier", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	emailSender, err := notifications.NewSMTPSender(&cfg.SMTP)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize SMTP sender")
	}

	notifier := services.NewNotifierService(
		database.NewReservationAdapter(pgClient),
		database.NewAuditLogAdapter(pgClient),
		emailSender,
		nil,
		&cfg.Notifier,
	)

	stats, err := notifier.Sweep(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep failed")
	}

	log.Info().
		Int("start_reminders", stats.StartReminders).
		Int("end_reminders", stats.EndReminders).
		Int("overdue_charges", stats.OverdueCharges).
		Int("failures", stats.Failures).
		Msg("Sweep complete")
}
