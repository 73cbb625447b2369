package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ostrauskas/desk-booking-api/internal/repository"
)

// DeskHandler bundles dependencies for the desk endpoints.
type DeskHandler struct {
	Desks *repository.DeskRepo
}

func NewDeskHandler(desks *repository.DeskRepo) *DeskHandler {
	return &DeskHandler{Desks: desks}
}

type createDeskReq struct {
	Number int    `json:"number"`
	RoomID uint64 `json:"room_id"`
}

type updateDeskReq struct {
	Number *int    `json:"number"`
	RoomID *uint64 `json:"room_id"`
}

// Create handles POST /desks: the (room, number) pre-check gives the
// friendly 400, the unique index settles concurrent duplicates.
func (h *DeskHandler) Create(c echo.Context) error {
	var req createDeskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Number <= 0 || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and room_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, exists, err := h.Desks.FindByRoomAndNumber(ctx, req.RoomID, req.Number); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Desk already exists"})
	}

	desk, err := h.Desks.Create(ctx, req.Number, req.RoomID)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Desk already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create desk failed"})
	}
	return c.JSON(http.StatusOK, desk)
}

// List handles GET /desks with optional sort/range descriptors.
func (h *DeskHandler) List(c echo.Context) error {
	sort, rng, err := listQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sort/range"})
	}
	desks, err := h.Desks.List(c.Request().Context(), sort, rng)
	if err != nil {
		if repository.IsInvalidSort(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	listHeaders(c, len(desks))
	return c.JSON(http.StatusOK, desks)
}

// Get handles GET /desks/:desk_id.
func (h *DeskHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "desk_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	desk, found, err := h.Desks.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Desk not found"})
	}
	return c.JSON(http.StatusOK, desk)
}

// Update handles PATCH /desks/:desk_id.
func (h *DeskHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "desk_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateDeskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, found, err := h.Desks.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Desk not found"})
	}

	var diff repository.Diff
	if req.Number != nil {
		diff.Set("number", *req.Number)
	}
	if req.RoomID != nil {
		diff.Set("room_id", *req.RoomID)
	}

	desk, _, err := h.Desks.UpdateByDiff(ctx, id, &diff)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Desk already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, desk)
}

// Delete handles DELETE /desks/:desk_id.
func (h *DeskHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "desk_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, found, err := h.Desks.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Desk not found"})
	}
	if err := h.Desks.DeleteByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
