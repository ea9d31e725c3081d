package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/providers"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
	"github.com/openlots/parking-reservation/internal/infrastructure/observability"
	"github.com/openlots/parking-reservation/pkg/config"
)

// SweepStats summarizes one notifier sweep
type SweepStats struct {
	StartReminders int
	EndReminders   int
	OverdueCharges int
	Failures       int
}

// NotifierService periodically scans reservations and emails users
// about upcoming starts, approaching ends and overdue cars. Each
// notification flag is claimed with a conditional update before the
// email goes out, so a reservation gets at most one email per
// category even with racing sweepers.
type NotifierService struct {
	reservationRepo repositories.ReservationRepository
	auditRepo       repositories.AuditLogRepository
	emailSender     providers.EmailSender
	metrics         *observability.Metrics

	startReminder  time.Duration
	endReminder    time.Duration
	overdueGrace   time.Duration
	lookbackWindow time.Duration

	now func() time.Time
}

// NewNotifierService creates a new notifier service
func NewNotifierService(
	reservationRepo repositories.ReservationRepository,
	auditRepo repositories.AuditLogRepository,
	emailSender providers.EmailSender,
	metrics *observability.Metrics,
	cfg *config.NotifierConfig,
) *NotifierService {
	return &NotifierService{
		reservationRepo: reservationRepo,
		auditRepo:       auditRepo,
		emailSender:     emailSender,
		metrics:         metrics,
		startReminder:   cfg.StartReminder,
		endReminder:     cfg.EndReminder,
		overdueGrace:    cfg.OverdueGrace,
		lookbackWindow:  cfg.LookbackWindow,
		now:             time.Now,
	}
}

// Sweep runs one pass over the reservation working set. A failure on
// one reservation is counted and does not stop the rest of the sweep.
func (s *NotifierService) Sweep(ctx context.Context) (SweepStats, error) {
	started := s.now()
	stats := SweepStats{}

	reservations, err := s.reservationRepo.ListDetailed(ctx, started.Add(-s.lookbackWindow))
	if err != nil {
		return stats, err
	}

	now := s.now()
	for _, r := range reservations {
		if !r.IsStartNotified && r.StartTime.After(now) && !r.StartTime.After(now.Add(s.startReminder)) {
			s.sendStartReminder(ctx, r, &stats)
		}
		if !r.IsEndNotified && r.EndTime.After(now) && !r.EndTime.After(now.Add(s.endReminder)) {
			s.sendEndReminder(ctx, r, &stats)
		}
		if !r.IsOverdueCharged && !r.EndTime.After(now.Add(-s.overdueGrace)) {
			s.applyOverdueCharge(ctx, r, &stats)
		}
	}

	duration := s.now().Sub(started)
	observability.RecordSweepMetrics(ctx,
		s.metrics,
		int64(stats.StartReminders),
		int64(stats.EndReminders),
		int64(stats.OverdueCharges),
		int64(stats.Failures),
		duration,
	)

	log.Info().
		Int("start_reminders", stats.StartReminders).
		Int("end_reminders", stats.EndReminders).
		Int("overdue_charges", stats.OverdueCharges).
		Int("failures", stats.Failures).
		Dur("duration", duration).
		Msg("notifier sweep completed")

	return stats, nil
}

func (s *NotifierService) sendStartReminder(ctx context.Context, r *entities.DetailedReservation, stats *SweepStats) {
	if r.UserEmail == "" {
		log.Warn().Str("reservation_id", r.ID).Msg("skipping start reminder, user has no email")
		return
	}

	won, err := s.reservationRepo.MarkStartNotified(ctx, r.ID)
	if err != nil {
		stats.Failures++
		log.Error().Err(err).Str("reservation_id", r.ID).Msg("failed to mark start notified")
		return
	}
	if !won {
		return
	}

	body := fmt.Sprintf("Hi %s,\n\nReminder: Your reservation for car %s at %s starts at %s.",
		r.UserFirstName, r.LicencePlate, r.ParkingName, r.StartTime.Format(time.Kitchen))

	if err := s.emailSender.Send(ctx, r.UserEmail, "Upcoming Parking Reservation", body); err != nil {
		stats.Failures++
		log.Error().Err(err).Str("reservation_id", r.ID).Str("email", r.UserEmail).
			Msg("failed to send start reminder")
		return
	}

	stats.StartReminders++
	log.Info().Str("reservation_id", r.ID).Str("email", r.UserEmail).Msg("start reminder sent")
}

func (s *NotifierService) sendEndReminder(ctx context.Context, r *entities.DetailedReservation, stats *SweepStats) {
	if r.UserEmail == "" {
		log.Warn().Str("reservation_id", r.ID).Msg("skipping end reminder, user has no email")
		return
	}

	won, err := s.reservationRepo.MarkEndNotified(ctx, r.ID)
	if err != nil {
		stats.Failures++
		log.Error().Err(err).Str("reservation_id", r.ID).Msg("failed to mark end notified")
		return
	}
	if !won {
		return
	}

	body := fmt.Sprintf("Hi %s,\n\nYour reservation ends at %s. Please remove your car to avoid extra charges.",
		r.UserFirstName, r.EndTime.Format(time.Kitchen))

	if err := s.emailSender.Send(ctx, r.UserEmail, "Remove Your Car Soon", body); err != nil {
		stats.Failures++
		log.Error().Err(err).Str("reservation_id", r.ID).Str("email", r.UserEmail).
			Msg("failed to send end reminder")
		return
	}

	stats.EndReminders++
	log.Info().Str("reservation_id", r.ID).Str("email", r.UserEmail).Msg("end reminder sent")
}

// applyOverdueCharge claims the overdue flags, emails the user and
// records an audit entry. The charge applies even when the user has no
// email address on file.
func (s *NotifierService) applyOverdueCharge(ctx context.Context, r *entities.DetailedReservation, stats *SweepStats) {
	won, err := s.reservationRepo.MarkOverdueCharged(ctx, r.ID)
	if err != nil {
		stats.Failures++
		log.Error().Err(err).Str("reservation_id", r.ID).Msg("failed to mark overdue charged")
		return
	}
	if !won {
		return
	}

	if r.UserEmail != "" {
		body := fmt.Sprintf("Hi %s,\n\nYour reservation ended at %s, but our system detected that your car was not removed in time.\nAn additional charge will be applied as per the terms of service.",
			r.UserFirstName, r.EndTime.Format(time.Kitchen))

		if err := s.emailSender.Send(ctx, r.UserEmail, "Overdue Charge Notice", body); err != nil {
			stats.Failures++
			log.Error().Err(err).Str("reservation_id", r.ID).Str("email", r.UserEmail).
				Msg("failed to send overdue notice")
		}
	}

	entry := &entities.AuditLog{
		ID:          uuid.New().String(),
		Action:      entities.AuditActionOverdueCharge,
		Entity:      "Reservation",
		Description: fmt.Sprintf("Overdue charge applied for Reservation ID %s", r.ID),
		UserID:      r.UserID,
		Timestamp:   s.now(),
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		stats.Failures++
		log.Error().Err(err).Str("reservation_id", r.ID).Msg("failed to append overdue audit entry")
	}

	stats.OverdueCharges++
	log.Info().Str("reservation_id", r.ID).Msg("overdue charge applied")
}

// StartPeriodicSweeping starts a background goroutine that sweeps at
// the given interval until the context is cancelled
func (s *NotifierService) StartPeriodicSweeping(ctx context.Context, interval time.Duration) {
	if _, err := s.Sweep(ctx); err != nil {
		log.Error().Err(err).Msg("initial notifier sweep failed")
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stopping notifier service")
				return
			case <-ticker.C:
				if _, err := s.Sweep(ctx); err != nil {
					log.Error().Err(err).Msg("notifier sweep failed")
				}
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("started periodic notifier sweeping")
}
