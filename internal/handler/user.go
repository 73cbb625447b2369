package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ostrauskas/desk-booking-api/internal/config"
	"github.com/ostrauskas/desk-booking-api/internal/repository"
)

// UserHandler bundles dependencies for the user CRUD endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

type createUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

type updateUserReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Admin    *bool   `json:"admin"`
}

// pathID parses the named numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil
}

// Create handles POST /users (and its /register alias): check the
// username is free, then insert. The pre-check gives a friendly 400;
// the unique index is what actually closes the race.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, exists, err := h.Users.FindByUsername(ctx, req.Username); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already registered"})
	}

	u, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, req.Admin, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// List handles GET /users with optional sort/range descriptors.
func (h *UserHandler) List(c echo.Context) error {
	sort, rng, err := listQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sort/range"})
	}
	users, err := h.Users.List(c.Request().Context(), sort, rng)
	if err != nil {
		if repository.IsInvalidSort(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	listHeaders(c, len(users))
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:user_id.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, found, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PATCH /users/:user_id with sparse semantics: only the
// fields present in the body change.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, found, err := h.Users.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}

	var diff repository.Diff
	if req.Username != nil {
		diff.Set("username", strings.TrimSpace(*req.Username))
	}
	if req.Email != nil {
		diff.Set("email", strings.ToLower(strings.TrimSpace(*req.Email)))
	}
	if req.Admin != nil {
		diff.Set("admin", *req.Admin)
	}

	u, _, err := h.Users.UpdateByDiff(ctx, id, &diff)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /users/:user_id. The existence check turns the
// engine's delete no-op into a proper 404 for the client.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, found, err := h.Users.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}
	if err := h.Users.DeleteByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
