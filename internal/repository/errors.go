// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update violates one of the
// uniqueness invariants (username/email, room name, room+desk number,
// desk+date). Handlers translate it into an HTTP 400 response carrying
// an "already exists" message.
var ErrConflict = errors.New("conflict")

// ErrInvalidSortField is returned when a list query names a sort field
// that is not in the entity's allow-list. Sort columns are spliced into
// SQL, so unknown names fail fast instead of reaching the database.
var ErrInvalidSortField = errors.New("invalid sort field")

// IsInvalidSort reports whether err is (or wraps) ErrInvalidSortField,
// sparing handlers an errors import for the one check they make.
func IsInvalidSort(err error) bool { return errors.Is(err, ErrInvalidSortField) }

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062), meaning a unique index rejected the write.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
