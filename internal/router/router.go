package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/ostrauskas/desk-booking-api/internal/handler"
	"github.com/ostrauskas/desk-booking-api/internal/middleware"
)

// Handlers groups every handler the router wires up.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Room    *handler.RoomHandler
	Desk    *handler.DeskHandler
	Booking *handler.BookingHandler
}

// Register wires all routes onto the Echo instance. Three tiers of
// access exist: public (login, register, refresh, health), any
// authenticated user, and administrator-only. Booking mutation is
// registered on the authenticated tier because its ownership check
// needs the loaded booking and therefore lives in the handler.
// The cache middleware is attached only to room browse reads, whose
// responses are identical for every authenticated user.
func Register(e *echo.Echo, h Handlers, accessSecret string, users middleware.PrincipalSource, cache echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Unauthenticated endpoints: obtaining credentials and creating an
	// account.
	e.POST("/login", h.Auth.Login)
	e.POST("/refresh", h.Auth.Refresh)
	e.POST("/register", h.User.Create)
	e.POST("/users", h.User.Create)

	// Everything below requires a valid access token.
	auth := e.Group("", middleware.Authenticate(accessSecret, users))

	// Administrator-only tier.
	admin := e.Group("", middleware.Authenticate(accessSecret, users), middleware.RequireAdmin())

	// ---- Users ----
	admin.GET("/users", h.User.List)
	auth.GET("/users/me", h.Auth.Me)
	auth.GET("/users/me/bookings", h.Booking.ListMine)
	auth.GET("/users/:user_id", h.User.Get, middleware.RequireSelfOrAdmin("user_id"))
	auth.PATCH("/users/:user_id", h.User.Update, middleware.RequireSelfOrAdmin("user_id"))
	admin.DELETE("/users/:user_id", h.User.Delete)

	// ---- Rooms ----
	auth.POST("/rooms", h.Room.Create)
	auth.GET("/rooms", h.Room.List, cache)
	auth.GET("/rooms/:room_id", h.Room.Get, cache)
	auth.GET("/rooms/:room_id/desks", h.Room.ListDesks, cache)
	auth.GET("/rooms/:room_id/bookings/:date", h.Room.ListBookings)
	admin.PATCH("/rooms/:room_id", h.Room.Update)
	admin.DELETE("/rooms/:room_id", h.Room.Delete)

	// ---- Desks ----
	admin.POST("/desks", h.Desk.Create)
	admin.GET("/desks", h.Desk.List)
	auth.GET("/desks/:desk_id", h.Desk.Get)
	admin.PATCH("/desks/:desk_id", h.Desk.Update)
	admin.DELETE("/desks/:desk_id", h.Desk.Delete)

	// ---- Bookings ----
	// Creation is restricted to administrators while mutation checks the
	// booking's own user_id; ordinary users therefore cannot create
	// bookings through this endpoint even for themselves. Raised as a
	// product question, kept as documented behavior.
	admin.POST("/bookings", h.Booking.Create)
	admin.GET("/bookings", h.Booking.List)
	auth.GET("/bookings/:booking_id", h.Booking.Get)
	auth.PATCH("/bookings/:booking_id", h.Booking.Update)
	auth.DELETE("/bookings/:booking_id", h.Booking.Delete)
}
