// Package logging builds the zerolog logger shared by the client, CLI and dev server.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/jrsteele09/go-church-admin/internal/config"
	"github.com/rs/zerolog"
)

// New returns a logger writing to w. DEV environments get human readable
// console output; everything else gets JSON lines.
func New(cfg config.EnvConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.GetLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.GetEnv(), "DEV") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("app", cfg.GetAppName()).Logger()
}
