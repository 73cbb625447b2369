package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ostrauskas/desk-booking-api/internal/model"
	"github.com/ostrauskas/desk-booking-api/internal/utils"
)

// userMeta maps the User entity onto the `users` table. The password
// hash is deliberately absent from SortFields: it is not a sortable
// attribute of the API surface.
var userMeta = Meta[model.User]{
	Table:   "users",
	Columns: "id, username, email, password_hash, admin",
	SortFields: map[string]string{
		"id":       "id",
		"username": "username",
		"email":    "email",
		"admin":    "admin",
	},
	Scan: func(row Scanner) (model.User, error) {
		var u model.User
		err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Admin)
		return u, err
	},
}

// UserRepo provides access to user records. Generic operations come
// from the embedded store; only user-specific lookups live here.
type UserRepo struct {
	*Store[model.User]
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{Store: NewStore(db, userMeta), db: db}
}

// Create hashes the password and inserts the user, returning the stored
// record. Username and email uniqueness violations map to ErrConflict.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, admin bool, cost int) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, admin) VALUES (?,?,?,?)",
		username, email, hash, admin)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrConflict
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u, _, err := r.GetByID(ctx, uint64(id))
	return u, err
}

// FindByUsername fetches a user by exact username. Absence is reported
// through the bool, not an error, mirroring the generic GetByID.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, bool, error) {
	u, err := userMeta.Scan(r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, admin FROM users WHERE username = ? LIMIT 1",
		username))
	if err == sql.ErrNoRows {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}
