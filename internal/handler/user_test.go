package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostrauskas/desk-booking-api/internal/repository"
)

func newUserTest(t *testing.T) (sqlmock.Sqlmock, *UserHandler) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := testCfg
	cfg.BcryptCost = 4
	return mock, NewUserHandler(cfg, repository.NewUserRepo(db))
}

func emptyUserRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "admin"})
}

func TestRegisterSuccess(t *testing.T) {
	mock, h := newUserTest(t)
	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(emptyUserRows())
	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(1).
		WillReturnRows(emptyUserRows().AddRow(1, "alice", "alice@example.com", "hash", false))

	rec := postJSON(t, h.Create, "/users",
		`{"username":"alice","email":"Alice@Example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	// The stored hash stays server-side.
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterTakenUsername(t *testing.T) {
	mock, h := newUserTest(t)
	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(emptyUserRows().AddRow(1, "alice", "alice@example.com", "hash", false))

	rec := postJSON(t, h.Create, "/users",
		`{"username":"alice","email":"other@example.com","password":"s3cret"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestRegisterMissingFields(t *testing.T) {
	_, h := newUserTest(t)
	rec := postJSON(t, h.Create, "/users", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUserSparse(t *testing.T) {
	mock, h := newUserTest(t)
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(3).
		WillReturnRows(emptyUserRows().AddRow(3, "alice", "alice@example.com", "hash", false))
	mock.ExpectExec("UPDATE users SET email").
		WithArgs("new@example.com", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(3).
		WillReturnRows(emptyUserRows().AddRow(3, "alice", "new@example.com", "hash", false))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/users/3",
		strings.NewReader(`{"email":"New@Example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:user_id")
	c.SetParamNames("user_id")
	c.SetParamValues("3")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new@example.com")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserNotFound(t *testing.T) {
	mock, h := newUserTest(t)
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(42).
		WillReturnRows(emptyUserRows())

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/users/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:user_id")
	c.SetParamNames("user_id")
	c.SetParamValues("42")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}
