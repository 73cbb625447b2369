package repository

import (
	"context"
	"database/sql"

	"github.com/ostrauskas/desk-booking-api/internal/model"
)

var bookingMeta = Meta[model.Booking]{
	Table:   "bookings",
	Columns: "id, user_id, desk_id, date, approved_status",
	SortFields: map[string]string{
		"id":              "id",
		"user_id":         "user_id",
		"desk_id":         "desk_id",
		"date":            "date",
		"approved_status": "approved_status",
	},
	Scan: func(row Scanner) (model.Booking, error) {
		var b model.Booking
		err := row.Scan(&b.ID, &b.UserID, &b.DeskID, &b.Date, &b.ApprovedStatus)
		return b, err
	},
}

// BookingRepo provides access to booking records.
type BookingRepo struct {
	*Store[model.Booking]
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{Store: NewStore(db, bookingMeta), db: db}
}

// Create inserts a booking and returns the stored record. The unique
// (desk_id, date) index maps violations to ErrConflict.
func (r *BookingRepo) Create(ctx context.Context, userID, deskID uint64, date model.Date, approved bool) (model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO bookings (user_id, desk_id, date, approved_status) VALUES (?,?,?,?)",
		userID, deskID, date, approved)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Booking{}, ErrConflict
		}
		return model.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Booking{}, err
	}
	b, _, err := r.GetByID(ctx, uint64(id))
	return b, err
}

// FindByDeskAndDate fetches the booking occupying a desk on a date, the
// pre-existence check behind booking creation.
func (r *BookingRepo) FindByDeskAndDate(ctx context.Context, deskID uint64, date model.Date) (model.Booking, bool, error) {
	b, err := bookingMeta.Scan(r.db.QueryRowContext(ctx,
		"SELECT id, user_id, desk_id, date, approved_status FROM bookings WHERE desk_id = ? AND date = ? LIMIT 1",
		deskID, date))
	if err == sql.ErrNoRows {
		return model.Booking{}, false, nil
	}
	if err != nil {
		return model.Booking{}, false, err
	}
	return b, true, nil
}

// ListByRoomAndDate returns every booking on the given date for desks
// belonging to the given room, joining through the desks table.
func (r *BookingRepo) ListByRoomAndDate(ctx context.Context, roomID uint64, date model.Date) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.desk_id, b.date, b.approved_status
		 FROM bookings b
		 JOIN desks d ON d.id = b.desk_id
		 WHERE d.room_id = ? AND b.date = ?
		 ORDER BY b.id ASC`,
		roomID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows, bookingMeta.Scan)
}

// ListByUser returns a user's bookings, most recent date first, each
// joined with its desk and that desk's room.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.BookingSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.desk_id, b.date, b.approved_status,
		        d.id, d.number, d.room_id, rm.id, rm.name
		 FROM bookings b
		 JOIN desks d ON d.id = b.desk_id
		 JOIN rooms rm ON rm.id = d.room_id
		 WHERE b.user_id = ?
		 ORDER BY b.date DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.BookingSummary{}
	for rows.Next() {
		var s model.BookingSummary
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.DeskID, &s.Date, &s.ApprovedStatus,
			&s.Desk.ID, &s.Desk.Number, &s.Desk.RoomID,
			&s.Desk.Room.ID, &s.Desk.Room.Name,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
