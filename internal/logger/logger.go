package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

type ctxKey struct{}

var Log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global logger. format is "json" or "console".
func Init(level, format string) {
	InitWithWriter(os.Stdout, level, format)
}

func InitWithWriter(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	Log = zerolog.New(w).With().Timestamp().Logger().Level(lvl)
	zlog.Logger = Log
}

// WithRequestID stores a request id that Ctx attaches to every log line.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// Ctx returns a logger carrying the request id from ctx, if any.
func Ctx(ctx context.Context) *zerolog.Logger {
	if reqID, ok := ctx.Value(ctxKey{}).(string); ok && reqID != "" {
		l := Log.With().Str("request_id", reqID).Logger()
		return &l
	}
	return &Log
}
