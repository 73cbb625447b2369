package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostrauskas/desk-booking-api/internal/config"
	"github.com/ostrauskas/desk-booking-api/internal/repository"
	"github.com/ostrauskas/desk-booking-api/internal/utils"
)

var testCfg = config.Config{
	AccessSecret:  "test-access-secret",
	RefreshSecret: "test-refresh-secret",
	AccessTTLMin:  15,
	RefreshTTLMin: 1440,
}

func newAuthTest(t *testing.T) (sqlmock.Sqlmock, *AuthHandler) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, NewAuthHandler(testCfg, repository.NewUserRepo(db))
}

func postJSON(t *testing.T, h echo.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func userRow(hash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "admin"}).
		AddRow(1, "alice", "alice@example.com", hash, false)
}

func TestLoginSuccess(t *testing.T) {
	mock, h := newAuthTest(t)
	hash, err := utils.HashPassword("s3cret", 4) // low cost keeps the test fast
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id, username, email, password_hash, admin FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRow(hash))

	rec := postJSON(t, h.Login, "/login", `{"username":"alice","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)

	// The access token carries the username and verifies against the
	// access secret only.
	subject, err := utils.ParseToken(testCfg.AccessSecret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
	_, err = utils.ParseToken(testCfg.RefreshSecret, resp.AccessToken)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	subject, err = utils.ParseToken(testCfg.RefreshSecret, resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestLoginWrongPassword(t *testing.T) {
	mock, h := newAuthTest(t)
	hash, err := utils.HashPassword("s3cret", 4)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id, username, email, password_hash, admin FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRow(hash))

	rec := postJSON(t, h.Login, "/login", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	assert.Contains(t, rec.Body.String(), "incorrect username or password")
}

func TestLoginUnknownUser(t *testing.T) {
	mock, h := newAuthTest(t)
	mock.ExpectQuery("SELECT id, username, email, password_hash, admin FROM users WHERE username").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "admin"}))

	// Unknown user reads the same as wrong password.
	rec := postJSON(t, h.Login, "/login", `{"username":"ghost","password":"s3cret"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "incorrect username or password")
}

func TestLoginFormEncoded(t *testing.T) {
	mock, h := newAuthTest(t)
	hash, err := utils.HashPassword("s3cret", 4)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id, username, email, password_hash, admin FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRow(hash))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader("username=alice&password=s3cret"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshSuccess(t *testing.T) {
	mock, h := newAuthTest(t)
	refresh, err := utils.NewToken(testCfg.RefreshSecret, "alice", time.Hour)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id, username, email, password_hash, admin FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRow("x"))

	rec := postJSON(t, h.Refresh, "/refresh", `{"refresh_token":"`+refresh.Value+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	subject, err := utils.ParseToken(testCfg.AccessSecret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	_, h := newAuthTest(t)
	access, err := utils.NewToken(testCfg.AccessSecret, "alice", time.Hour)
	require.NoError(t, err)

	// An access token never passes the refresh verifier, even for a
	// real user. No query is expected.
	rec := postJSON(t, h.Refresh, "/refresh", `{"refresh_token":"`+access.Value+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid refresh token")
}

func TestRefreshDeletedUser(t *testing.T) {
	mock, h := newAuthTest(t)
	refresh, err := utils.NewToken(testCfg.RefreshSecret, "alice", time.Hour)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id, username, email, password_hash, admin FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "admin"}))

	rec := postJSON(t, h.Refresh, "/refresh", `{"refresh_token":"`+refresh.Value+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
