package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ostrauskas/desk-booking-api/internal/config"
	"github.com/ostrauskas/desk-booking-api/internal/middleware"
	"github.com/ostrauskas/desk-booking-api/internal/repository"
	"github.com/ostrauskas/desk-booking-api/internal/utils"
)

// AuthHandler bundles dependencies for the authentication endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

// loginReq binds both JSON bodies and OAuth2-style password form posts.
type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// unauthorized writes a 401 with the bearer challenge header.
func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}

// issuePair mints a fresh access+refresh pair for the subject. The two
// tokens are signed with independent secrets and independent TTLs.
func (h *AuthHandler) issuePair(subject string) (tokenResp, error) {
	access, err := utils.NewToken(h.Cfg.AccessSecret, subject,
		time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		return tokenResp{}, err
	}
	refresh, err := utils.NewToken(h.Cfg.RefreshSecret, subject,
		time.Duration(h.Cfg.RefreshTTLMin)*time.Minute)
	if err != nil {
		return tokenResp{}, err
	}
	return tokenResp{
		AccessToken:  access.Value,
		RefreshToken: refresh.Value,
		TokenType:    "bearer",
	}, nil
}

// Login verifies a username/password pair and returns a token pair.
// Unknown user and wrong password are indistinguishable to the client.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, ok, err := h.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return unauthorized(c, "incorrect username or password")
	}

	resp, err := h.issuePair(u.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a valid refresh token for a new pair. The subject
// must still resolve to a user; deleting an account invalidates its
// refresh tokens here even though the tokens themselves never expire
// early.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	subject, err := utils.ParseToken(h.Cfg.RefreshSecret, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return unauthorized(c, "invalid refresh token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, ok, err := h.Users.FindByUsername(ctx, subject)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return unauthorized(c, "invalid refresh token")
	}

	resp, err := h.issuePair(u.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated principal's own record.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return unauthorized(c, "missing bearer token")
	}
	return c.JSON(http.StatusOK, p)
}
