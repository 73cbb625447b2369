package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostrauskas/desk-booking-api/internal/model"
)

// The JOIN queries span multiple lines, so these tests use sqlmock's
// default regexp matcher instead of exact matching.
func mockBookings(t *testing.T) (sqlmock.Sqlmock, *BookingRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, NewBookingRepo(db)
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestFindByDeskAndDate(t *testing.T) {
	mock, bookings := mockBookings(t)
	date := mustDate(t, "2026-03-14")
	mock.ExpectQuery("SELECT id, user_id, desk_id, date, approved_status FROM bookings WHERE desk_id").
		WithArgs(7, date).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "desk_id", "date", "approved_status"}).
			AddRow(1, 2, 7, "2026-03-14", true))

	b, found, err := bookings.FindByDeskAndDate(context.Background(), 7, date)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(2), b.UserID)
	assert.Equal(t, "2026-03-14", b.Date.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByDeskAndDateAbsent(t *testing.T) {
	mock, bookings := mockBookings(t)
	date := mustDate(t, "2026-03-14")
	mock.ExpectQuery("SELECT id, user_id, desk_id, date, approved_status FROM bookings WHERE desk_id").
		WithArgs(7, date).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "desk_id", "date", "approved_status"}))

	_, found, err := bookings.FindByDeskAndDate(context.Background(), 7, date)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateBookingDuplicate(t *testing.T) {
	mock, bookings := mockBookings(t)
	date := mustDate(t, "2026-03-14")
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(2, 7, date, false).
		WillReturnError(errDuplicate)

	_, err := bookings.Create(context.Background(), 2, 7, date, false)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestListByRoomAndDate(t *testing.T) {
	mock, bookings := mockBookings(t)
	date := mustDate(t, "2026-03-14")
	mock.ExpectQuery("JOIN desks d ON d.id = b.desk_id").
		WithArgs(3, date).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "desk_id", "date", "approved_status"}).
			AddRow(1, 2, 7, "2026-03-14", true).
			AddRow(4, 5, 8, "2026-03-14", false))

	got, err := bookings.ListByRoomAndDate(context.Background(), 3, date)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(7), got[0].DeskID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser(t *testing.T) {
	mock, bookings := mockBookings(t)
	mock.ExpectQuery("JOIN rooms rm ON rm.id = d.room_id").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "desk_id", "date", "approved_status",
			"d.id", "d.number", "d.room_id", "rm.id", "rm.name",
		}).
			AddRow(9, 2, 7, "2026-03-15", true, 7, 12, 3, 3, "Room A").
			AddRow(1, 2, 8, "2026-03-14", false, 8, 13, 3, 3, "Room A"))

	got, err := bookings.ListByUser(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-03-15", got[0].Date.String())
	assert.Equal(t, 12, got[0].Desk.Number)
	assert.Equal(t, "Room A", got[0].Desk.Room.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
