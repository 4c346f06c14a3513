package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/config"
)

// New builds a zerolog.Logger configured according to the provided logging
// config. The logger writes to stdout, as JSON or as human readable console
// lines depending on the configured format.
func New(cfg config.LoggingConfig) zerolog.Logger {
	var logger zerolog.Logger
	if strings.EqualFold(cfg.Format, "json") {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
			NoColor:    !cfg.Colored,
		})
	}

	logger = logger.Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	if cfg.IncludeCaller {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
