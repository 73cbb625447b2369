package repository

import (
	"context"
	"database/sql"

	"github.com/ostrauskas/desk-booking-api/internal/model"
)

var deskMeta = Meta[model.Desk]{
	Table:   "desks",
	Columns: "id, number, room_id",
	SortFields: map[string]string{
		"id":      "id",
		"number":  "number",
		"room_id": "room_id",
	},
	Scan: func(row Scanner) (model.Desk, error) {
		var d model.Desk
		err := row.Scan(&d.ID, &d.Number, &d.RoomID)
		return d, err
	},
}

// DeskRepo provides access to desk records.
type DeskRepo struct {
	*Store[model.Desk]
	db *sql.DB
}

func NewDeskRepo(db *sql.DB) *DeskRepo {
	return &DeskRepo{Store: NewStore(db, deskMeta), db: db}
}

// Create inserts a desk and returns the stored record. The unique
// (room_id, number) index maps violations to ErrConflict.
func (r *DeskRepo) Create(ctx context.Context, number int, roomID uint64) (model.Desk, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO desks (number, room_id) VALUES (?,?)", number, roomID)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Desk{}, ErrConflict
		}
		return model.Desk{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Desk{}, err
	}
	d, _, err := r.GetByID(ctx, uint64(id))
	return d, err
}

// FindByRoomAndNumber fetches the desk with the given number inside the
// given room, the pre-existence check behind desk creation.
func (r *DeskRepo) FindByRoomAndNumber(ctx context.Context, roomID uint64, number int) (model.Desk, bool, error) {
	d, err := deskMeta.Scan(r.db.QueryRowContext(ctx,
		"SELECT id, number, room_id FROM desks WHERE room_id = ? AND number = ? LIMIT 1",
		roomID, number))
	if err == sql.ErrNoRows {
		return model.Desk{}, false, nil
	}
	if err != nil {
		return model.Desk{}, false, err
	}
	return d, true, nil
}

// ListByRoom returns the desks of one room with the same sort and range
// semantics as the generic List.
func (r *DeskRepo) ListByRoom(ctx context.Context, roomID uint64, sort *Sort, rng *Range) ([]model.Desk, error) {
	order, err := r.orderBy(sort)
	if err != nil {
		return nil, err
	}
	q := "SELECT id, number, room_id FROM desks WHERE room_id = ? ORDER BY " + order
	args := []any{roomID}
	if rng != nil {
		q += " LIMIT ? OFFSET ?"
		args = append(args, rng.Limit, rng.Offset)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows, deskMeta.Scan)
}
