package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/config"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/database"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/handler"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/middleware"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/queue"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/router"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "theatre-service").Logger()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable, rate limiting disabled")
	}

	events := queue.NewPublisher(cfg.RabbitMQURL, logger)

	cinemas := repository.NewCinemaRepo(db)
	theatres := repository.NewTheatreRepo(db)
	screens := repository.NewScreenRepo(db)
	showtimes := repository.NewShowtimeRepo(db)

	handlers := router.Handlers{
		Cinemas:   handler.NewCinemaHandler(service.NewCinemaService(cinemas, events)),
		Theatres:  handler.NewTheatreHandler(service.NewTheatreService(theatres, cinemas, events)),
		Screens:   handler.NewScreenHandler(service.NewScreenService(screens, theatres, events)),
		Showtimes: handler.NewShowtimeHandler(service.NewShowtimeService(showtimes, screens, events)),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	if cfg.JWTSecret != "" {
		e.Use(middleware.Identity(cfg.JWTSecret))
	}

	router.RegisterRoutes(e, handlers)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
