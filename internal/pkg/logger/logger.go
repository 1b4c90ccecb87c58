package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/dilg-calendar/calendar-backend-go/internal/config"
	"github.com/go-chi/httplog/v3"
)

// New builds the application logger. Attributes follow the ECS schema so
// request logs from httplog and application logs share field names.
func New(w io.Writer, logCfg config.LogConfig, app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(!strings.EqualFold(app.Env, "production"))
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(logCfg.Level),
		ReplaceAttr: logFormat.ReplaceAttr,
	}

	var handler slog.Handler
	if strings.EqualFold(logCfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("app", app.Name),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
