package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSize = 10
	maxBack = 5
	maxAge  = 30
)

// NewLogger builds the service logger. Lines go to the console and, when
// filePath is set, to a rotated log file as JSON.
func NewLogger(filePath, serviceName, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    false,
	}

	writers := []io.Writer{consoleWriter}

	if filePath != "" {
		fileRotator := &lumberjack.Logger{
			Filename:   filePath, // log file location
			MaxSize:    maxSize,  // megabytes before rotation
			MaxBackups: maxBack,  // number of old files to retain
			MaxAge:     maxAge,   // days to retain rotated files
			Compress:   true,     // gzip old log files
		}
		writers = append(writers, fileRotator)
	}

	logger := newLogger(zerolog.MultiLevelWriter(writers...), serviceName, lvl)

	logger.Info().
		Str("logsFilePath", filePath).
		Str("serviceName", serviceName).
		Msg("Logger initialized with file rotation")

	return logger, nil
}

// NewWriterLogger is NewLogger for an arbitrary sink, without console output.
func NewWriterLogger(w io.Writer, serviceName string, level zerolog.Level) zerolog.Logger {
	return newLogger(w, serviceName, level)
}

func newLogger(w io.Writer, serviceName string, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger().
		Level(level)
}
