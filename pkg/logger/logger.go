package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/devraulu/bamsearch/pkg/config"
)

// InitLogger installs the process-wide slog handler. Logs go to stderr so
// that result rows printed on stdout stay machine readable.
func InitLogger(cfg *config.Config) {
	slog.SetDefault(New(cfg, os.Stderr))
}

func New(cfg *config.Config, w io.Writer) *slog.Logger {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Logging.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				// Only use bunyan levels if JSON
				if cfg.Logging.Format != "text" {
					level := a.Value.Any().(slog.Level)
					return slog.Int(a.Key, bunyanLevel(level))
				}
			}
			return a
		},
	}

	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		"name", "bamsearch",
		"pid", os.Getpid(),
		"hostname", hostname,
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func bunyanLevel(level slog.Level) int {
	switch {
	case level >= slog.LevelError:
		return 50
	case level >= slog.LevelWarn:
		return 40
	case level >= slog.LevelInfo:
		return 30
	case level >= slog.LevelDebug:
		return 20
	default:
		return 10
	}
}
