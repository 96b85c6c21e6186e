package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	SourceMove     = "move"
	SourcePostgres = "postgres"
)

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`

	TelemetrySource string        `mapstructure:"TELEMETRY_SOURCE"`
	MoveBaseURL     string        `mapstructure:"MOVE_SDK_BASE_URL"`
	MoveProjectID   string        `mapstructure:"MOVE_PROJECT_ID"`
	MoveAPIKey      string        `mapstructure:"MOVE_SDK_API_KEY"`
	MoveTimeout     time.Duration `mapstructure:"MOVE_TIMEOUT"`

	// EpochFloor is the earliest start time (epoch seconds) the provider
	// keeps timeline data for.
	EpochFloor    int64 `mapstructure:"TIMELINE_EPOCH_FLOOR"`
	PreviousLimit int   `mapstructure:"TIMELINE_PREVIOUS_LIMIT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	// required; the api refuses to start without it
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TELEMETRY_SOURCE", SourceMove)
	v.SetDefault("MOVE_SDK_BASE_URL", "https://sdk.dolph.in")
	v.SetDefault("MOVE_PROJECT_ID", "")
	v.SetDefault("MOVE_SDK_API_KEY", "")
	v.SetDefault("MOVE_TIMEOUT", "10s")
	v.SetDefault("TIMELINE_EPOCH_FLOOR", 1546300800) // 2019-01-01T00:00:00Z
	v.SetDefault("TIMELINE_PREVIOUS_LIMIT", 50)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}
