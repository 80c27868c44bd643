package cmd

import (
	"fmt"
	"io"

	"github.com/rohmanhakim/site-mirror/internal/config"
	"github.com/rohmanhakim/site-mirror/internal/logging"
	"github.com/rs/zerolog"
)

// NewLogger builds the run logger from cfg. Console output goes to console;
// a configured log file is added as a rotated JSON sink.
func NewLogger(cfg config.Config, console io.Writer) (zerolog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel())
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: %s", config.ErrInvalidConfig, err)
	}
	format, err := logging.ParseFormat(cfg.LogFormat())
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: %s", config.ErrInvalidConfig, err)
	}

	builder := logging.NewBuilder().
		WithLevel(level).
		WithFormat(format).
		WithConsole(console)
	if cfg.LogFile() != "" {
		builder = builder.WithFile(cfg.LogFile(), cfg.LogMaxSizeMB(), cfg.LogMaxBackups())
	}
	return builder.Build()
}
