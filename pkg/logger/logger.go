// Package logger provides component-tagged logging for reefbot.
//
// Every subsystem logs under a short component name ("discord", "agent",
// "weather", ...) so gateway output stays greppable. The backend is zerolog
// with a console writer.
package logger

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Level mirrors the zerolog levels the gateway actually uses.
type Level int8

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var base atomic.Pointer[zerolog.Logger]

func init() {
	l := newLogger(zerolog.InfoLevel)
	base.Store(&l)
}

func newLogger(lvl zerolog.Level) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// SetLevel adjusts the minimum level for all subsequent log calls.
func SetLevel(level Level) {
	var lvl zerolog.Level
	switch level {
	case DEBUG:
		lvl = zerolog.DebugLevel
	case INFO:
		lvl = zerolog.InfoLevel
	case WARN:
		lvl = zerolog.WarnLevel
	case ERROR:
		lvl = zerolog.ErrorLevel
	default:
		lvl = zerolog.InfoLevel
	}
	l := newLogger(lvl)
	base.Store(&l)
}

func logger() *zerolog.Logger {
	return base.Load()
}

// InfoC logs an info message for a component.
func InfoC(component, msg string) {
	logger().Info().Str("component", component).Msg(msg)
}

// InfoCF logs an info message for a component with structured fields.
func InfoCF(component, msg string, fields map[string]any) {
	logger().Info().Str("component", component).Fields(fields).Msg(msg)
}

// WarnC logs a warning for a component.
func WarnC(component, msg string) {
	logger().Warn().Str("component", component).Msg(msg)
}

// WarnCF logs a warning for a component with structured fields.
func WarnCF(component, msg string, fields map[string]any) {
	logger().Warn().Str("component", component).Fields(fields).Msg(msg)
}

// ErrorCF logs an error for a component with structured fields.
func ErrorCF(component, msg string, fields map[string]any) {
	logger().Error().Str("component", component).Fields(fields).Msg(msg)
}

// DebugCF logs a debug message for a component with structured fields.
func DebugCF(component, msg string, fields map[string]any) {
	logger().Debug().Str("component", component).Fields(fields).Msg(msg)
}
