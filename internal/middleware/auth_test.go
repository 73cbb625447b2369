package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostrauskas/desk-booking-api/internal/model"
	"github.com/ostrauskas/desk-booking-api/internal/utils"
)

const testSecret = "unit-test-secret"

// fakeUsers satisfies PrincipalSource with an in-memory map.
type fakeUsers map[string]model.User

func (f fakeUsers) FindByUsername(_ context.Context, username string) (model.User, bool, error) {
	u, ok := f[username]
	return u, ok, nil
}

func okHandler(c echo.Context) error {
	p, _ := Principal(c)
	return c.JSON(http.StatusOK, p)
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/protected", okHandler, mw)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateValidToken(t *testing.T) {
	users := fakeUsers{"alice": {ID: 1, Username: "alice", Admin: false}}
	tok, err := utils.NewToken(testSecret, "alice", time.Minute)
	require.NoError(t, err)

	rec := doRequest(t, Authenticate(testSecret, users), "Bearer "+tok.Value)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	rec := doRequest(t, Authenticate(testSecret, fakeUsers{}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAuthenticateBadToken(t *testing.T) {
	rec := doRequest(t, Authenticate(testSecret, fakeUsers{}), "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAuthenticateDeletedUser(t *testing.T) {
	// The token is valid but its subject no longer resolves: the user
	// was removed after issuance.
	tok, err := utils.NewToken(testSecret, "ghost", time.Minute)
	require.NoError(t, err)

	rec := doRequest(t, Authenticate(testSecret, fakeUsers{}), "Bearer "+tok.Value)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func withPrincipal(p model.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	e.GET("/admin", okHandler, withPrincipal(model.User{ID: 2, Admin: false}), RequireAdmin())
	e.GET("/admin-ok", okHandler, withPrincipal(model.User{ID: 1, Admin: true}), RequireAdmin())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin-ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	tests := []struct {
		name      string
		principal model.User
		path      string
		want      int
	}{
		{"own record", model.User{ID: 7}, "/users/7", http.StatusOK},
		{"other record", model.User{ID: 7}, "/users/8", http.StatusForbidden},
		{"admin any record", model.User{ID: 1, Admin: true}, "/users/8", http.StatusOK},
		{"bad id", model.User{ID: 7}, "/users/abc", http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/users/:user_id", okHandler, withPrincipal(tc.principal), RequireSelfOrAdmin("user_id"))
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestIsOwnerOrAdmin(t *testing.T) {
	owner := model.User{ID: 3}
	other := model.User{ID: 4}
	admin := model.User{ID: 5, Admin: true}

	assert.True(t, IsOwnerOrAdmin(owner, 3))
	assert.False(t, IsOwnerOrAdmin(other, 3))
	assert.True(t, IsOwnerOrAdmin(admin, 3))
}
