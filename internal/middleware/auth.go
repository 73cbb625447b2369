package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ostrauskas/desk-booking-api/internal/model"
	"github.com/ostrauskas/desk-booking-api/internal/utils"
)

// principalKey is the context key under which Authenticate stores the
// resolved user.
const principalKey = "principal"

// PrincipalSource resolves a token subject back to its user record.
// *repository.UserRepo satisfies it; tests substitute fakes.
type PrincipalSource interface {
	FindByUsername(ctx context.Context, username string) (model.User, bool, error)
}

// challenge writes a 401 carrying the bearer challenge header, so
// clients know which authentication scheme the API expects.
func challenge(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}

// Authenticate validates the Bearer access token on each request and
// resolves its subject to a user record, which it stores in the request
// context for guards and handlers. Tokens are stateless, so a token
// whose user has since been deleted fails here at the lookup step.
func Authenticate(secret string, users PrincipalSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return challenge(c, "missing bearer token")
			}
			subject, err := utils.ParseToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return challenge(c, "invalid token")
			}
			u, ok, err := users.FindByUsername(c.Request().Context(), subject)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
			if !ok {
				return challenge(c, "could not validate credentials")
			}
			c.Set(principalKey, u)
			return next(c)
		}
	}
}

// Principal returns the user Authenticate stored for this request.
func Principal(c echo.Context) (model.User, bool) {
	u, ok := c.Get(principalKey).(model.User)
	return u, ok
}

// IsOwnerOrAdmin is the ownership predicate: a principal may act on a
// resource it owns, and an administrator may act on anything.
func IsOwnerOrAdmin(p model.User, ownerID uint64) bool {
	return p.Admin || p.ID == ownerID
}
