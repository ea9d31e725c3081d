package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlots/parking-reservation/internal/domain/repositories"
	"github.com/openlots/parking-reservation/internal/infrastructure/clients/postgres"
	apperrors "github.com/openlots/parking-reservation/pkg/errors"
)

func setupReservationAdapter(t *testing.T) (repositories.ReservationRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewReservationAdapter(postgres.NewClientFromDB(db)), mock
}

func TestReservationAdapter_MarkPaid(t *testing.T) {
	tests := []struct {
		name         string
		requireOpen  bool
		rowsAffected int64
		want         bool
	}{
		{
			name:         "updates an unpaid reservation",
			rowsAffected: 1,
			want:         true,
		},
		{
			name:         "reports false when already paid",
			rowsAffected: 0,
			want:         false,
		},
		{
			name:         "reports false when cancelled and open required",
			requireOpen:  true,
			rowsAffected: 0,
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, mock := setupReservationAdapter(t)

			mock.ExpectExec(`UPDATE "reservations"`).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			got, err := adapter.MarkPaid(context.Background(), "res-1", tt.requireOpen)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReservationAdapter_MarkPaid_GuardsInQuery(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	// The unpaid and not-cancelled guards must be part of the UPDATE
	// itself so concurrent payments cannot both succeed.
	mock.ExpectExec(`UPDATE "reservations" SET .+ WHERE .*"is_paid" IS FALSE.*"is_cancelled" IS FALSE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := adapter.MarkPaid(context.Background(), "res-1", true)
	require.NoError(t, err)
	assert.True(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationAdapter_MarkStartNotified_Idempotent(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	mock.ExpectExec(`UPDATE "reservations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "reservations"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := adapter.MarkStartNotified(context.Background(), "res-1")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := adapter.MarkStartNotified(context.Background(), "res-1")
	require.NoError(t, err)
	assert.False(t, second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationAdapter_GetByID_NotFound(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	mock.ExpectQuery(`SELECT .+ FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	reservation, err := adapter.GetByID(context.Background(), "missing")
	assert.Nil(t, reservation)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReservationAdapter_List_ContainmentFilter(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	now := time.Now().UTC()
	end := now.Add(time.Hour)

	// Containment means start_time >= from AND end_time <= to.
	mock.ExpectQuery(`SELECT .+ FROM "reservations" WHERE \(\("start_time" >= .+\) AND \("end_time" <= .+\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "car_id", "parking_space_id",
			"start_time", "end_time",
			"is_paid", "is_cancelled",
			"is_start_notified", "is_end_notified", "is_overdue", "is_overdue_charged",
			"created_at", "updated_at",
		}).AddRow(
			"res-1", "user-1", "car-1", "space-1",
			now, end,
			false, false,
			false, false, false, false,
			now, now,
		))

	reservations, err := adapter.List(context.Background(), repositories.ReservationFilter{
		StartsAtOrAfter: &now,
		EndsAtOrBefore:  &end,
	})
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "res-1", reservations[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationAdapter_ListDetailed_JoinsAndCutoff(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	now := time.Now().UTC()
	cutoff := now.Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT .+ FROM "reservations" AS "r" INNER JOIN "users" .+ INNER JOIN "cars" .+ INNER JOIN "parking_spaces" .+ INNER JOIN "parkings" .+ WHERE \("r"\."end_time" > .+\)`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "car_id", "parking_space_id",
			"start_time", "end_time",
			"is_paid", "is_cancelled",
			"is_start_notified", "is_end_notified", "is_overdue", "is_overdue_charged",
			"created_at", "updated_at",
			"user_email", "user_first_name", "licence_plate", "parking_name", "space_number",
		}).AddRow(
			"res-1", "user-1", "car-1", "space-1",
			now, now.Add(time.Hour),
			true, false,
			false, false, false, false,
			now, now,
			"driver@example.com", "Ada", "AB-123-CD", "Central Garage", "A12",
		))

	reservations, err := adapter.ListDetailed(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "driver@example.com", reservations[0].UserEmail)
	assert.Equal(t, "Central Garage", reservations[0].ParkingName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationAdapter_Delete_NotFound(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	mock.ExpectExec(`DELETE FROM "reservations"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
