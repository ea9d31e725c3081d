package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/repositories"
	"github.com/openlots/parking-reservation/pkg/config"
)

// fakeReservationRepo keeps reservations in memory and enforces the
// same conditional-update semantics as the SQL adapter.
type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*entities.DetailedReservation
}

func newFakeReservationRepo(items ...*entities.DetailedReservation) *fakeReservationRepo {
	repo := &fakeReservationRepo{reservations: make(map[string]*entities.DetailedReservation)}
	for _, item := range items {
		repo.reservations[item.ID] = item
	}
	return repo
}

func (f *fakeReservationRepo) Create(ctx context.Context, r *entities.Reservation) error {
	return errors.New("not implemented")
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeReservationRepo) List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeReservationRepo) ListDetailed(ctx context.Context, endedAfter time.Time) ([]*entities.DetailedReservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entities.DetailedReservation
	for _, r := range f.reservations {
		if r.EndTime.After(endedAfter) {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeReservationRepo) MarkPaid(ctx context.Context, id string, requireOpen bool) (bool, error) {
	return false, errors.New("not implemented")
}

func (f *fakeReservationRepo) MarkCancelled(ctx context.Context, id string) (bool, error) {
	return false, errors.New("not implemented")
}

func (f *fakeReservationRepo) MarkStartNotified(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok || r.IsStartNotified {
		return false, nil
	}
	r.IsStartNotified = true
	return true, nil
}

func (f *fakeReservationRepo) MarkEndNotified(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok || r.IsEndNotified {
		return false, nil
	}
	r.IsEndNotified = true
	return true, nil
}

func (f *fakeReservationRepo) MarkOverdueCharged(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok || r.IsOverdueCharged {
		return false, nil
	}
	r.IsOverdue = true
	r.IsOverdueCharged = true
	return true, nil
}

func (f *fakeReservationRepo) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*entities.AuditLog
}

func (f *fakeAuditRepo) Append(ctx context.Context, entry *entities.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) ListRecent(ctx context.Context, limit int) ([]*entities.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, nil
}

// recordingEmailSender captures sent mail and can fail for chosen
// recipients.
type recordingEmailSender struct {
	mu      sync.Mutex
	sent    []sentEmail
	failFor map[string]bool
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func (r *recordingEmailSender) Send(ctx context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[to] {
		return errors.New("smtp unavailable")
	}
	r.sent = append(r.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

func (r *recordingEmailSender) subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	subjects := make([]string, 0, len(r.sent))
	for _, e := range r.sent {
		subjects = append(subjects, e.subject)
	}
	return subjects
}

func testNotifierConfig() *config.NotifierConfig {
	return &config.NotifierConfig{
		Enabled:        true,
		Interval:       5 * time.Minute,
		StartReminder:  60 * time.Minute,
		EndReminder:    15 * time.Minute,
		OverdueGrace:   15 * time.Minute,
		LookbackWindow: 24 * time.Hour,
	}
}

func detailedReservation(id string, start, end time.Time) *entities.DetailedReservation {
	return &entities.DetailedReservation{
		Reservation: entities.Reservation{
			ID:             id,
			UserID:         "user-" + id,
			CarID:          "car-" + id,
			ParkingSpaceID: "space-" + id,
			StartTime:      start,
			EndTime:        end,
		},
		UserEmail:     id + "@example.com",
		UserFirstName: "Ada",
		LicencePlate:  "AB-123",
		ParkingName:   "Central Garage",
		SpaceNumber:   "A1",
	}
}

func newTestNotifier(repo *fakeReservationRepo, audit *fakeAuditRepo, sender *recordingEmailSender, now time.Time) *NotifierService {
	service := NewNotifierService(repo, audit, sender, nil, testNotifierConfig())
	service.now = func() time.Time { return now }
	return service
}

func TestNotifierService_Sweep_Buckets(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		reservation *entities.DetailedReservation
		wantStats   SweepStats
		wantSubject string
	}{
		{
			name:        "start reminder inside window",
			reservation: detailedReservation("r1", now.Add(30*time.Minute), now.Add(2*time.Hour)),
			wantStats:   SweepStats{StartReminders: 1},
			wantSubject: "Upcoming Parking Reservation",
		},
		{
			name:        "start too far in the future",
			reservation: detailedReservation("r2", now.Add(90*time.Minute), now.Add(3*time.Hour)),
			wantStats:   SweepStats{},
		},
		{
			name:        "end reminder inside window",
			reservation: detailedReservation("r3", now.Add(-2*time.Hour), now.Add(10*time.Minute)),
			wantStats:   SweepStats{EndReminders: 1},
			wantSubject: "Remove Your Car Soon",
		},
		{
			name:        "overdue past the grace period",
			reservation: detailedReservation("r4", now.Add(-3*time.Hour), now.Add(-20*time.Minute)),
			wantStats:   SweepStats{OverdueCharges: 1},
			wantSubject: "Overdue Charge Notice",
		},
		{
			name:        "ended within the grace period",
			reservation: detailedReservation("r5", now.Add(-3*time.Hour), now.Add(-10*time.Minute)),
			wantStats:   SweepStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeReservationRepo(tt.reservation)
			audit := &fakeAuditRepo{}
			sender := &recordingEmailSender{}
			service := newTestNotifier(repo, audit, sender, now)

			stats, err := service.Sweep(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantStats, stats)

			if tt.wantSubject != "" {
				require.Len(t, sender.sent, 1)
				assert.Equal(t, tt.wantSubject, sender.sent[0].subject)
				assert.Contains(t, sender.sent[0].body, "Hi Ada")
			} else {
				assert.Empty(t, sender.sent)
			}
		})
	}
}

func TestNotifierService_Sweep_IdempotentAcrossSweeps(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	repo := newFakeReservationRepo(
		detailedReservation("r1", now.Add(30*time.Minute), now.Add(2*time.Hour)),
	)
	audit := &fakeAuditRepo{}
	sender := &recordingEmailSender{}
	service := newTestNotifier(repo, audit, sender, now)

	first, err := service.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.StartReminders)

	second, err := service.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.StartReminders)

	assert.Len(t, sender.sent, 1)
}

func TestNotifierService_Sweep_OverdueAppendsAudit(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	reservation := detailedReservation("r1", now.Add(-3*time.Hour), now.Add(-time.Hour))
	repo := newFakeReservationRepo(reservation)
	audit := &fakeAuditRepo{}
	sender := &recordingEmailSender{}
	service := newTestNotifier(repo, audit, sender, now)

	stats, err := service.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OverdueCharges)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, entities.AuditActionOverdueCharge, entry.Action)
	assert.Equal(t, "Reservation", entry.Entity)
	assert.Equal(t, reservation.UserID, entry.UserID)
	assert.Contains(t, entry.Description, reservation.ID)
}

func TestNotifierService_Sweep_OverdueWithoutEmailStillCharges(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	reservation := detailedReservation("r1", now.Add(-3*time.Hour), now.Add(-time.Hour))
	reservation.UserEmail = ""
	repo := newFakeReservationRepo(reservation)
	audit := &fakeAuditRepo{}
	sender := &recordingEmailSender{}
	service := newTestNotifier(repo, audit, sender, now)

	stats, err := service.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OverdueCharges)
	assert.Empty(t, sender.sent)
	require.Len(t, audit.entries, 1)

	assert.True(t, repo.reservations["r1"].IsOverdue)
	assert.True(t, repo.reservations["r1"].IsOverdueCharged)
}

func TestNotifierService_Sweep_FailureIsolation(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	bad := detailedReservation("bad", now.Add(30*time.Minute), now.Add(2*time.Hour))
	good := detailedReservation("good", now.Add(30*time.Minute), now.Add(2*time.Hour))
	repo := newFakeReservationRepo(bad, good)
	audit := &fakeAuditRepo{}
	sender := &recordingEmailSender{failFor: map[string]bool{"bad@example.com": true}}
	service := newTestNotifier(repo, audit, sender, now)

	stats, err := service.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.StartReminders)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, []string{"Upcoming Parking Reservation"}, sender.subjects())
}

func TestNotifierService_Sweep_MultipleBucketsInOnePass(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	// Ten minutes long, starting in five: matches both reminder windows.
	reservation := detailedReservation("r1", now.Add(5*time.Minute), now.Add(15*time.Minute))
	repo := newFakeReservationRepo(reservation)
	audit := &fakeAuditRepo{}
	sender := &recordingEmailSender{}
	service := newTestNotifier(repo, audit, sender, now)

	stats, err := service.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.StartReminders)
	assert.Equal(t, 1, stats.EndReminders)
	assert.Len(t, sender.sent, 2)
}
