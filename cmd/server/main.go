package main // Entry point package

import (
	"os"
	"time"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/rs/zerolog"       // structured logging

	"github.com/renterra/boxrent/internal/config"
	"github.com/renterra/boxrent/internal/database"
	"github.com/renterra/boxrent/internal/handler"
	"github.com/renterra/boxrent/internal/lockpin"
	"github.com/renterra/boxrent/internal/metrics"
	"github.com/renterra/boxrent/internal/middleware"
	"github.com/renterra/boxrent/internal/queue"
	"github.com/renterra/boxrent/internal/repository"
	"github.com/renterra/boxrent/internal/router"
	"github.com/renterra/boxrent/internal/service"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	// .env is optional; in deployment the environment is injected.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()
	store := repository.NewStore(db)

	loc, err := time.LoadLocation(cfg.PinTimezone)
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.PinTimezone).Msg("invalid PIN provider timezone")
	}
	pins := lockpin.NewClient(cfg.PinTokenURL, cfg.PinAPIURL, cfg.PinClientID, cfg.PinClientSecret,
		loc, time.Duration(cfg.PinTimeoutSec)*time.Second, logger).WithVariance(cfg.PinVariance)

	bookings := service.NewBookingService(store, store, pins, logger)
	extensions := service.NewExtensionService(store, store, pins, logger)
	availability := service.NewAvailabilityService(store, logger)

	metrics.Register()

	e := echo.New()
	e.HideBanner = true

	// Redis-backed response cache and rate limiting; both degrade to
	// pass-through when Redis is unreachable at startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable; cache and rate limiting disabled")
	} else {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	router.RegisterRoutes(e, db)
	router.RegisterPublic(e, handler.NewAvailabilityHandler(availability))
	router.RegisterCustomer(e, handler.NewBookingHandler(bookings, store),
		handler.NewExtensionHandler(extensions), cfg.JWTSecret)
	router.RegisterOwner(e, handler.NewOwnerHandler(store), cfg.JWTSecret)

	// Background consumer writes the booking audit log; it reconnects on
	// broker failures and never takes the server down.
	queue.SetBrokerURL(cfg.AMQPURL)
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			logger.Error().Err(err).Msg("booking consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
