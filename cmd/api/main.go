package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"move-timeline/internal/config"
	"move-timeline/internal/db"
	"move-timeline/internal/logger"
	"move-timeline/internal/server"
	"move-timeline/internal/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var errNoJWTSecret = errors.New("JWT_SECRET must be set")

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	if err := mainRunner(mainDepsProvider()); err != nil {
		os.Exit(1)
	}
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, Resources, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

// Resources are the long-lived clients Run shuts down on exit.
type Resources struct {
	Source   telemetry.Source
	Postgres *pgxpool.Pool
	Redis    *redis.Client
}

func realMain(deps mainDeps) error {
	cfg := deps.loadConfig()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTSecret == "" {
		logger.Log.Error().Err(errNoJWTSecret).Msg("invalid configuration")
		return errNoJWTSecret
	}

	res := Resources{Redis: deps.connectRedis(cfg)}
	switch cfg.TelemetrySource {
	case config.SourcePostgres:
		pg, err := deps.connectPostgres(cfg)
		if err != nil {
			logger.Log.Error().Err(err).Msg("postgres connection failed")
			return err
		}
		res.Postgres = pg
		res.Source = telemetry.NewPostgresSource(pg)
	case config.SourceMove, "":
		res.Source = telemetry.NewMoveClient(telemetry.MoveConfig{
			BaseURL:   cfg.MoveBaseURL,
			ProjectID: cfg.MoveProjectID,
			APIKey:    cfg.MoveAPIKey,
			Timeout:   cfg.MoveTimeout,
		}, nil)
	default:
		err := fmt.Errorf("unknown telemetry source %q", cfg.TelemetrySource)
		logger.Log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	logger.Log.Info().Str("port", cfg.ServerPort).Str("source", cfg.TelemetrySource).Msg("starting timeline api")
	if err := deps.run(context.Background(), cfg, res, signals, nil); err != nil {
		logger.Log.Error().Err(err).Msg("server exited with error")
		return err
	}
	return nil
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(ctx context.Context, app *fiber.App) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, res Resources, signals <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(cfg, res.Source, res.Redis)
	defer func() {
		if res.Postgres != nil {
			res.Postgres.Close()
		}
		if res.Redis != nil {
			_ = res.Redis.Close()
		}
	}()

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return shutdownFn(shutdownCtx, srv.App)
}
