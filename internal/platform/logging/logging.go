// Package logging builds the ledger's slog loggers and carries them through
// context so units of work and interceptors share one enriched logger.
//
//	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
//	ctx = logging.WithLogger(ctx, logger.With(slog.String("message_id", id)))
//	logging.FromContext(ctx).InfoContext(ctx, "events appended")
//
// Failures are logged with the operation, the stream involved and the
// wrapped error:
//
//	logger.ErrorContext(ctx, "append rejected",
//	    slog.String("operation", "CommandService.Execute"),
//	    slog.String("stream_id", streamID),
//	    slog.Any("error", err),
//	)
//
// Attributes that look like card numbers or secrets are masked before they
// reach the handler, see redact.go.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type loggerKey struct{}

// New returns a logger writing to w. Level accepts the slog level names in
// any case and falls back to info. Format "text" selects slog's text handler;
// anything else writes JSON. Debug loggers also record the call site.
func New(level, format string, w io.Writer) *slog.Logger {
	minLevel := levelOf(level)
	opts := &slog.HandlerOptions{
		Level:       minLevel,
		AddSource:   minLevel <= slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

func levelOf(name string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
