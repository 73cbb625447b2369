package model

// User represents a principal record as stored in the `users` table.
// The bcrypt password hash never leaves the server; it is excluded
// from JSON so handlers can return the struct directly.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name, the subject of issued tokens.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Admin        – whether the user holds administrator rights.
type User struct {
	ID           uint64 `json:"id"`       // users.id
	Username     string `json:"username"` // users.username
	Email        string `json:"email"`    // users.email
	PasswordHash string `json:"-"`        // users.password_hash
	Admin        bool   `json:"admin"`    // users.admin
}
