package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ostrauskas/desk-booking-api/internal/config"
	"github.com/ostrauskas/desk-booking-api/internal/database"
	"github.com/ostrauskas/desk-booking-api/internal/handler"
	"github.com/ostrauskas/desk-booking-api/internal/middleware"
	"github.com/ostrauskas/desk-booking-api/internal/queue"
	"github.com/ostrauskas/desk-booking-api/internal/repository"
	"github.com/ostrauskas/desk-booking-api/internal/router"
)

func main() {
	// A local .env is optional; real deployments set the environment
	// directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	e := echo.New()
	e.HideBanner = true

	// Request pipeline, outermost first: panic recovery, correlation id,
	// request logging, CORS (the SPA reads Content-Range cross-origin),
	// then query normalization so every later stage sees flat
	// repeated-key parameters.
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders: []string{"Content-Range"},
	}))
	e.Use(middleware.NormalizeQuery())

	// Redis-backed extras degrade to pass-through when Redis is absent.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	rooms := repository.NewRoomRepo(db)
	desks := repository.NewDeskRepo(db)
	bookings := repository.NewBookingRepo(db)

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users),
		User:    handler.NewUserHandler(cfg, users),
		Room:    handler.NewRoomHandler(rooms, desks, bookings),
		Desk:    handler.NewDeskHandler(desks),
		Booking: handler.NewBookingHandler(bookings),
	}
	router.Register(e, h, cfg.AccessSecret, users, cache)

	// Consume booking.created events in the background; the consumer
	// keeps reconnecting on broker failures.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
