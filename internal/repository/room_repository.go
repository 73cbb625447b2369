package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ostrauskas/desk-booking-api/internal/model"
)

var roomMeta = Meta[model.Room]{
	Table:   "rooms",
	Columns: "id, name",
	SortFields: map[string]string{
		"id":   "id",
		"name": "name",
	},
	Scan: func(row Scanner) (model.Room, error) {
		var rm model.Room
		err := row.Scan(&rm.ID, &rm.Name)
		return rm, err
	},
}

// RoomRepo provides access to room records.
type RoomRepo struct {
	*Store[model.Room]
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{Store: NewStore(db, roomMeta), db: db}
}

// Create inserts a room and returns the stored record. Name uniqueness
// violations map to ErrConflict.
func (r *RoomRepo) Create(ctx context.Context, name string) (model.Room, error) {
	name = strings.TrimSpace(name)
	res, err := r.db.ExecContext(ctx, "INSERT INTO rooms (name) VALUES (?)", name)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Room{}, ErrConflict
		}
		return model.Room{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Room{}, err
	}
	rm, _, err := r.GetByID(ctx, uint64(id))
	return rm, err
}

// FindByName fetches a room by its exact name.
func (r *RoomRepo) FindByName(ctx context.Context, name string) (model.Room, bool, error) {
	rm, err := roomMeta.Scan(r.db.QueryRowContext(ctx,
		"SELECT id, name FROM rooms WHERE name = ? LIMIT 1", name))
	if err == sql.ErrNoRows {
		return model.Room{}, false, nil
	}
	if err != nil {
		return model.Room{}, false, err
	}
	return rm, true, nil
}
