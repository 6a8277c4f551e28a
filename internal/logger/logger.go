// Package logger builds the logrus logger used for progress and diagnostics.
// Output goes to the given writer (stdout for the CLI) and, when a file is
// configured, to a size-rotated log file as well.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls level, format and the optional rotating file sink.
type Config struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

// New returns a logger writing to out and, if cfg.File is set, to a
// lumberjack-rotated file.
func New(cfg Config, out io.Writer) (*logrus.Logger, error) {
	levelName := cfg.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	l := logrus.New()
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:          true,
			DisableSorting:         true,
			DisableLevelTruncation: true,
			PadLevelText:           true,
			TimestampFormat:        "2006-01-02 15:04:05",
		})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", cfg.Format)
	}

	if out == nil {
		out = os.Stdout
	}
	if cfg.File == "" {
		l.SetOutput(out)
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	rotate := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    orDefault(cfg.MaxSize, 10),
		MaxAge:     orDefault(cfg.MaxAge, 28),
		MaxBackups: orDefault(cfg.MaxBackups, 3),
		Compress:   cfg.Compress,
	}
	l.SetOutput(io.MultiWriter(out, rotate))
	return l, nil
}

// Discard returns a logger that drops everything. Library packages fall
// back to it when no logger is injected.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithRun tags every entry of one invocation with a short run id so lines
// from concurrent CI jobs sharing a log file can be told apart.
func WithRun(l logrus.FieldLogger) *logrus.Entry {
	return l.WithField("run", uuid.NewString()[:8])
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
