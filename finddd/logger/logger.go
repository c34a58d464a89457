// Package logger builds the zerolog loggers used by the finddd command.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// FileConfig configures the optional rotating log file
type FileConfig struct {
	Path       string `mapstructure:"path"`       // Empty disables file logging
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`  // Size before rotation
	MaxBackups int    `mapstructure:"maxBackups"` // Rotated files kept
	MaxAgeDays int    `mapstructure:"maxAgeDays"` // Days rotated files are kept
	Compress   bool   `mapstructure:"compress"`   // Gzip rotated files
}

// Config configures a logger
type Config struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	File   FileConfig `mapstructure:"file"`
}

// DefaultConfig logs warnings and above to stderr only
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: FormatConsole,
		File: FileConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// ParseLevel converts a level name to a zerolog level
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// New builds a logger writing to out and, when configured, to a rotating
// file. The returned closer releases the file and is never nil.
func New(cfg Config, out io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var console io.Writer
	switch strings.ToLower(cfg.Format) {
	case "", FormatConsole:
		console = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(out),
		}
	case FormatJSON:
		console = out
	default:
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}

	if cfg.File.Path != "" {
		fileWriter, err := createFileWriter(cfg.File)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		writers = append(writers, fileWriter)
		closer = fileWriter
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return log, closer, nil
}

func createFileWriter(cfg FileConfig) (*lumberjack.Logger, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
