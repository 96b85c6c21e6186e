package server

import (
	"errors"

	"move-timeline/internal/auth"
	"move-timeline/internal/config"
	"move-timeline/internal/logger"
	"move-timeline/internal/telemetry"
	"move-timeline/internal/timeline"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultErrorCode is the envelope code of every failed request.
const DefaultErrorCode = -1000

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	Source telemetry.Source
	Redis  *redis.Client
}

func NewServer(cfg config.Config, source telemetry.Source, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(func(c *fiber.Ctx) error {
		reqID := c.GetRespHeader(fiber.HeaderXRequestID)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), reqID))
		return c.Next()
	})
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${respHeader:X-Request-ID} ${status} - ${latency} ${method} ${path}\n",
	}))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		Source: source,
		Redis:  redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret, auth.NewSessions(s.Redis))

	timelineSvc := timeline.NewService(s.Source, timeline.ResolverConfig{
		EpochFloor:    s.Cfg.EpochFloor,
		PreviousLimit: s.Cfg.PreviousLimit,
	})
	timeline.RegisterRoutes(s.App.Group("/api/v1/timeline"), timelineSvc, jwtMiddleware)
}

// ErrorHandler renders every error as {status:{code}, error}. Errors that
// are not *fiber.Error become a 500 without leaking their message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	}

	if status >= fiber.StatusInternalServerError {
		logger.Ctx(c.UserContext()).Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
	}

	return c.Status(status).JSON(fiber.Map{
		"status": fiber.Map{"code": DefaultErrorCode},
		"error":  message,
	})
}
