package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ostrauskas/desk-booking-api/internal/model"
	"github.com/ostrauskas/desk-booking-api/internal/repository"
)

// RoomHandler bundles dependencies for the room endpoints, including
// the nested desk and booking listings scoped to one room.
type RoomHandler struct {
	Rooms    *repository.RoomRepo
	Desks    *repository.DeskRepo
	Bookings *repository.BookingRepo
}

func NewRoomHandler(rooms *repository.RoomRepo, desks *repository.DeskRepo, bookings *repository.BookingRepo) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Desks: desks, Bookings: bookings}
}

type createRoomReq struct {
	Name string `json:"name"`
}

type updateRoomReq struct {
	Name *string `json:"name"`
}

// Create handles POST /rooms: unique-name pre-check, then insert.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, exists, err := h.Rooms.FindByName(ctx, name); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Room already exists"})
	}

	room, err := h.Rooms.Create(ctx, name)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Room already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusOK, room)
}

// List handles GET /rooms with optional sort/range descriptors.
func (h *RoomHandler) List(c echo.Context) error {
	sort, rng, err := listQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sort/range"})
	}
	rooms, err := h.Rooms.List(c.Request().Context(), sort, rng)
	if err != nil {
		if repository.IsInvalidSort(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	listHeaders(c, len(rooms))
	return c.JSON(http.StatusOK, rooms)
}

// Get handles GET /rooms/:room_id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	room, found, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}
	return c.JSON(http.StatusOK, room)
}

// Update handles PATCH /rooms/:room_id.
func (h *RoomHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, found, err := h.Rooms.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}

	var diff repository.Diff
	if req.Name != nil {
		diff.Set("name", strings.TrimSpace(*req.Name))
	}

	room, _, err := h.Rooms.UpdateByDiff(ctx, id, &diff)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Room already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, room)
}

// Delete handles DELETE /rooms/:room_id.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, found, err := h.Rooms.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}
	if err := h.Rooms.DeleteByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListDesks handles GET /rooms/:room_id/desks, the desks of one room
// with the usual sort/range semantics.
func (h *RoomHandler) ListDesks(c echo.Context) error {
	id, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	sort, rng, err := listQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sort/range"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, found, err := h.Rooms.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}

	desks, err := h.Desks.ListByRoom(ctx, id, sort, rng)
	if err != nil {
		if repository.IsInvalidSort(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	listHeaders(c, len(desks))
	return c.JSON(http.StatusOK, desks)
}

// ListBookings handles GET /rooms/:room_id/bookings/:date, every
// booking in the room on one calendar date.
func (h *RoomHandler) ListBookings(c echo.Context) error {
	id, ok := pathID(c, "room_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, found, err := h.Rooms.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}

	bookings, err := h.Bookings.ListByRoomAndDate(ctx, id, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	listHeaders(c, len(bookings))
	return c.JSON(http.StatusOK, bookings)
}
