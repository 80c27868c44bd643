package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/site-mirror/pkg/fileutil"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

var (
	ErrInvalidLevel  = errors.New("invalid log level")
	ErrInvalidFormat = errors.New("invalid log format")
	ErrInvalidSize   = errors.New("log file size must be positive")
)

// ParseFormat accepts "console" or "json", case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatConsole:
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, name)
	}
}

func ParseLevel(name string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || name == "" {
		return zerolog.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
	return level, nil
}

/*
Builder assembles the process logger.

Console output always goes to the configured console writer (stderr by
default). When a log file is set, a rotating file writer is added next to
it; file output never carries terminal colors.
*/
type Builder struct {
	level      zerolog.Level
	format     Format
	console    io.Writer
	filePath   string
	maxSizeMB  int
	maxBackups int
}

func NewBuilder() *Builder {
	return &Builder{
		level:      zerolog.InfoLevel,
		format:     FormatConsole,
		console:    os.Stderr,
		maxSizeMB:  10,
		maxBackups: 3,
	}
}

func (b *Builder) WithLevel(level zerolog.Level) *Builder {
	b.level = level
	return b
}

func (b *Builder) WithFormat(format Format) *Builder {
	b.format = format
	return b
}

func (b *Builder) WithConsole(w io.Writer) *Builder {
	b.console = w
	return b
}

func (b *Builder) WithFile(path string, maxSizeMB int, maxBackups int) *Builder {
	b.filePath = path
	b.maxSizeMB = maxSizeMB
	b.maxBackups = maxBackups
	return b
}

func (b *Builder) Build() (zerolog.Logger, error) {
	var writers []io.Writer

	if b.console != nil {
		writers = append(writers, b.formatWriter(b.console, false))
	}

	if b.filePath != "" {
		if b.maxSizeMB <= 0 {
			return zerolog.Nop(), ErrInvalidSize
		}
		if err := fileutil.EnsureParentDir(b.filePath); err != nil {
			return zerolog.Nop(), err
		}
		rotating := &lumberjack.Logger{
			Filename:   b.filePath,
			MaxSize:    b.maxSizeMB,
			MaxBackups: b.maxBackups,
			LocalTime:  true,
		}
		writers = append(writers, b.formatWriter(rotating, true))
	}

	if len(writers) == 0 {
		return zerolog.Nop(), nil
	}

	// walks log from several goroutines
	return zerolog.New(zerolog.SyncWriter(zerolog.MultiLevelWriter(writers...))).
		Level(b.level).
		With().
		Timestamp().
		Logger(), nil
}

func (b *Builder) formatWriter(out io.Writer, noColor bool) io.Writer {
	if b.format == FormatJSON {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
	}
}
