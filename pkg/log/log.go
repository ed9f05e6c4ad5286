package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Logger is the global logger instance
	Logger zerolog.Logger

	// logFile is the currently open log file, closed and replaced on the
	// next Init that names a different path.
	logFile *os.File
)

// Level represents log level
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer

	// FilePath, when set, duplicates every line to the named file as
	// JSON (regardless of JSONOutput), appending if it exists. Pipeline
	// runs point this at a dated file in the workspace so each run
	// leaves a replayable log.
	FilePath string
}

// Init initializes the global logger. It may be called again to redirect
// output (the pipeline command re-initializes with a dated file path).
func Init(cfg Config) error {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case InfoLevel:
		level = zerolog.InfoLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	console := cfg.Output
	if console == nil {
		console = os.Stdout
	}
	if !cfg.JSONOutput {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	}

	writer := console
	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", cfg.FilePath, err)
		}
		if logFile != nil {
			logFile.Close()
		}
		logFile = f
		writer = zerolog.MultiLevelWriter(console, f)
	}

	Logger = zerolog.New(writer).With().Timestamp().Logger()
	return nil
}

// WithComponent creates a child logger with component field
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithMedium creates a child logger with medium field (floppy, hd, hdexternal)
func WithMedium(medium string) zerolog.Logger {
	return Logger.With().Str("medium", medium).Logger()
}

// WithStage creates a child logger with stage field
func WithStage(stage string) zerolog.Logger {
	return Logger.With().Str("stage", stage).Logger()
}
