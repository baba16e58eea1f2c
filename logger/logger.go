// Package logger builds the zerolog loggers of every component.
//
// COMPOUND_LOGLEVEL picks the level (DEBUG, INFO, WARN, ERROR, FATAL, PANIC)
// and COMPOUND_LOGFORMAT=console switches from JSON lines to the human
// readable console writer used when running the CLI by hand.
package logger

import (
	"github.com/rs/zerolog"
	"io"
	"os"
	"strings"
)

const (
	LOG_LEVEL_DEBUG = "DEBUG"
	LOG_LEVEL_INFO  = "INFO"
	LOG_LEVEL_WARN  = "WARN"
	LOG_LEVEL_ERROR = "ERROR"
	LOG_LEVEL_FATAL = "FATAL"
	LOG_LEVEL_PANIC = "PANIC"

	LOG_FORMAT_JSON    = "json"
	LOG_FORMAT_CONSOLE = "console"
)

const (
	logLevelEnv  = "COMPOUND_LOGLEVEL"
	logFormatEnv = "COMPOUND_LOGFORMAT"
)

func SetupLogging() {
	zerolog.LevelFieldName = "level_name"
	zerolog.TimestampFieldName = "timestamp"
}

// ParseLevel maps one of the LOG_LEVEL_* names, in any case, to a zerolog
// level. Unknown names fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LOG_LEVEL_DEBUG:
		return zerolog.DebugLevel
	case LOG_LEVEL_WARN:
		return zerolog.WarnLevel
	case LOG_LEVEL_ERROR:
		return zerolog.ErrorLevel
	case LOG_LEVEL_FATAL:
		return zerolog.FatalLevel
	case LOG_LEVEL_PANIC:
		return zerolog.PanicLevel
	}
	return zerolog.InfoLevel
}

func output() io.Writer {
	if strings.EqualFold(os.Getenv(logFormatEnv), LOG_FORMAT_CONSOLE) {
		return zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return os.Stderr
}

func NewLogger(component string) zerolog.Logger {
	return newLogger(output(), component)
}

func newLogger(w io.Writer, component string) zerolog.Logger {
	level, ok := os.LookupEnv(logLevelEnv)
	if !ok {
		level = LOG_LEVEL_INFO
	}
	return zerolog.New(w).
		With().
		Str("component", component).
		Timestamp().
		Logger().
		Level(ParseLevel(level))
}
