package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Direction selects ascending or descending order for a list query.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Sort is a dynamic ordering descriptor: an entity field name plus a
// direction. Field names are request input and are only ever resolved
// through an entity's sort-field allow-list, never spliced in raw.
type Sort struct {
	Field string
	Dir   Direction
}

// Range is an offset+limit paging descriptor. A nil *Range on List
// means "no paging, return everything".
type Range struct {
	Offset int
	Limit  int
}

// Diff collects the column assignments of a sparse update. Fields absent
// from the diff keep their stored value. The zero value is an empty diff.
type Diff struct {
	cols []string
	args []any
}

// Set records one column assignment.
func (d *Diff) Set(col string, v any) {
	d.cols = append(d.cols, col)
	d.args = append(d.args, v)
}

// Empty reports whether the diff assigns nothing.
func (d *Diff) Empty() bool { return len(d.cols) == 0 }

// Scanner is the subset of *sql.Row / *sql.Rows a row scanner needs.
type Scanner interface {
	Scan(dest ...any) error
}

// Meta describes how one entity kind maps onto its table: where it
// lives, which columns make up a record, which request-level sort names
// are accepted (and the column each resolves to), and how to scan a row.
// One Meta value per entity kind is the whole price of keeping the four
// entities on a single code path without reflection.
type Meta[T any] struct {
	Table      string
	Columns    string
	SortFields map[string]string
	Scan       func(Scanner) (T, error)
}

// Store is the generic entity access engine. All four entity kinds are
// served by this one implementation, parameterized by their Meta.
type Store[T any] struct {
	db   *sql.DB
	meta Meta[T]
}

// NewStore binds a Meta to a database handle.
func NewStore[T any](db *sql.DB, meta Meta[T]) *Store[T] {
	return &Store[T]{db: db, meta: meta}
}

// orderBy resolves a sort descriptor against the allow-list. A nil sort
// means the default ordering, ascending by id.
func (s *Store[T]) orderBy(sort *Sort) (string, error) {
	field, dir := "id", Asc
	if sort != nil {
		field = sort.Field
		dir = sort.Dir
	}
	col, ok := s.meta.SortFields[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, field)
	}
	if dir != Asc {
		dir = Desc
	}
	return col + " " + string(dir), nil
}

// List returns all records of the entity kind, ordered by the sort
// descriptor and optionally sliced by the range descriptor.
func (s *Store[T]) List(ctx context.Context, sort *Sort, rng *Range) ([]T, error) {
	order, err := s.orderBy(sort)
	if err != nil {
		return nil, err
	}
	q := "SELECT " + s.meta.Columns + " FROM " + s.meta.Table + " ORDER BY " + order
	var args []any
	if rng != nil {
		q += " LIMIT ? OFFSET ?"
		args = append(args, rng.Limit, rng.Offset)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows, s.meta.Scan)
}

// GetByID fetches a single record. Absence is not an error: the second
// return value reports whether the record exists.
func (s *Store[T]) GetByID(ctx context.Context, id uint64) (T, bool, error) {
	q := "SELECT " + s.meta.Columns + " FROM " + s.meta.Table + " WHERE id = ? LIMIT 1"
	v, err := s.meta.Scan(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// UpdateByDiff applies only the columns present in the diff and returns
// the refreshed record. An empty diff performs no write and returns the
// record as stored. Unique-index violations surface as ErrConflict.
func (s *Store[T]) UpdateByDiff(ctx context.Context, id uint64, d *Diff) (T, bool, error) {
	if d != nil && !d.Empty() {
		q := "UPDATE " + s.meta.Table + " SET " + strings.Join(assignments(d.cols), ", ") + " WHERE id = ?"
		args := append(append([]any{}, d.args...), id)
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			var zero T
			if isDuplicateKey(err) {
				return zero, false, ErrConflict
			}
			return zero, false, err
		}
	}
	return s.GetByID(ctx, id)
}

// DeleteByID removes the record. Deleting an id that does not exist is
// a no-op; callers wanting a 404 check existence first.
func (s *Store[T]) DeleteByID(ctx context.Context, id uint64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM "+s.meta.Table+" WHERE id = ?", id)
	return err
}

// assignments renders "col = ?" placeholders for an UPDATE statement.
func assignments(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c + " = ?"
	}
	return out
}

// collect drains rows through a scanner into a slice.
func collect[T any](rows *sql.Rows, scan func(Scanner) (T, error)) ([]T, error) {
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
