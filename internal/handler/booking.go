package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ostrauskas/desk-booking-api/internal/middleware"
	"github.com/ostrauskas/desk-booking-api/internal/model"
	"github.com/ostrauskas/desk-booking-api/internal/queue"
	"github.com/ostrauskas/desk-booking-api/internal/repository"
	queue_publisher "github.com/ostrauskas/desk-booking-api/internal/service"
)

// BookingHandler bundles dependencies for the booking endpoints.
type BookingHandler struct {
	Bookings *repository.BookingRepo
}

func NewBookingHandler(bookings *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

type createBookingReq struct {
	UserID         uint64     `json:"user_id"`
	DeskID         uint64     `json:"desk_id"`
	Date           model.Date `json:"date"`
	ApprovedStatus bool       `json:"approved_status"`
}

type updateBookingReq struct {
	UserID         *uint64     `json:"user_id"`
	DeskID         *uint64     `json:"desk_id"`
	Date           *model.Date `json:"date"`
	ApprovedStatus *bool       `json:"approved_status"`
}

// Create handles POST /bookings. The desk+date pre-check gives the
// friendly 400; the unique index settles concurrent duplicates. On
// success a booking.created event goes to the broker; publish failures
// never fail the request.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 || req.DeskID == 0 || req.Date.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id, desk_id and date required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, exists, err := h.Bookings.FindByDeskAndDate(ctx, req.DeskID, req.Date); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking already exists"})
	}

	booking, err := h.Bookings.Create(ctx, req.UserID, req.DeskID, req.Date, req.ApprovedStatus)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	ev := queue.BookingCreatedEvent{
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		DeskID:         booking.DeskID,
		Date:           booking.Date.String(),
		ApprovedStatus: booking.ApprovedStatus,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishBookingCreated(pubCtx, ev)
	}()

	return c.JSON(http.StatusOK, booking)
}

// List handles GET /bookings with optional sort/range descriptors.
func (h *BookingHandler) List(c echo.Context) error {
	sort, rng, err := listQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sort/range"})
	}
	bookings, err := h.Bookings.List(c.Request().Context(), sort, rng)
	if err != nil {
		if repository.IsInvalidSort(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	listHeaders(c, len(bookings))
	return c.JSON(http.StatusOK, bookings)
}

// Get handles GET /bookings/:booking_id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "booking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	booking, found, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}
	return c.JSON(http.StatusOK, booking)
}

// Update handles PATCH /bookings/:booking_id. The owner is only known
// once the booking is loaded, so the ownership check is the first thing
// after the fetch: you may change your own booking, or be an admin.
func (h *BookingHandler) Update(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return unauthorized(c, "missing bearer token")
	}
	id, ok := pathID(c, "booking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, found, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}
	if !middleware.IsOwnerOrAdmin(p, booking.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var diff repository.Diff
	if req.UserID != nil {
		diff.Set("user_id", *req.UserID)
	}
	if req.DeskID != nil {
		diff.Set("desk_id", *req.DeskID)
	}
	if req.Date != nil {
		diff.Set("date", *req.Date)
	}
	if req.ApprovedStatus != nil {
		diff.Set("approved_status", *req.ApprovedStatus)
	}

	updated, _, err := h.Bookings.UpdateByDiff(ctx, id, &diff)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /bookings/:booking_id, with the same post-fetch
// ownership gate as Update.
func (h *BookingHandler) Delete(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return unauthorized(c, "missing bearer token")
	}
	id, ok := pathID(c, "booking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, found, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}
	if !middleware.IsOwnerOrAdmin(p, booking.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Bookings.DeleteByID(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /users/me/bookings, the authenticated user's own
// bookings with desk and room details, most recent date first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return unauthorized(c, "missing bearer token")
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	listHeaders(c, len(bookings))
	return c.JSON(http.StatusOK, bookings)
}
