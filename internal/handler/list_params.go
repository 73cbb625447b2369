package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ostrauskas/desk-booking-api/internal/repository"
)

// errInvalidQuery marks malformed sort/range parameters; handlers map
// it to a 400 like any other client error.
var errInvalidQuery = errors.New("invalid query")

// listQuery reads the optional sort and range descriptors from the
// (already normalized) query string. sort is a field name plus ASC/DESC,
// range is an offset plus limit; each arrives as a repeated key with
// exactly two values. Nil means the parameter was not supplied.
func listQuery(c echo.Context) (*repository.Sort, *repository.Range, error) {
	params := c.QueryParams()

	var sort *repository.Sort
	if vals, ok := params["sort"]; ok {
		if len(vals) != 2 {
			return nil, nil, errInvalidQuery
		}
		sort = &repository.Sort{
			Field: vals[0],
			Dir:   repository.Direction(strings.ToUpper(vals[1])),
		}
	}

	var rng *repository.Range
	if vals, ok := params["range"]; ok {
		if len(vals) != 2 {
			return nil, nil, errInvalidQuery
		}
		offset, err := strconv.Atoi(vals[0])
		if err != nil {
			return nil, nil, errInvalidQuery
		}
		limit, err := strconv.Atoi(vals[1])
		if err != nil {
			return nil, nil, errInvalidQuery
		}
		rng = &repository.Range{Offset: offset, Limit: limit}
	}
	return sort, rng, nil
}

// listHeaders sets the Content-Range count header on a list response
// and exposes it to cross-origin callers, which is how the admin UI
// learns result counts.
func listHeaders(c echo.Context, count int) {
	h := c.Response().Header()
	h.Set("Content-Range", strconv.Itoa(count))
	h.Set(echo.HeaderAccessControlExposeHeaders, "Content-Range")
}
