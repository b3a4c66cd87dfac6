// Package logger wraps zerolog behind a small, config-driven API.
//
// Because this is a library, the logger never touches zerolog's global
// state: the level is set on the instance, and the zero-configuration
// default is a no-op logger that discards everything.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger.
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json (default), console
	Output io.Writer
}

// New creates a logger from cfg. A nil cfg yields a no-op logger.
func New(cfg *Config) *Logger {
	if cfg == nil {
		return Nop()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var zlog zerolog.Logger
	if cfg.Format == "console" {
		// Human-readable console output for development.
		zlog = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		})
	} else {
		// Structured JSON otherwise.
		zlog = zerolog.New(out)
	}
	zlog = zlog.Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards all events.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// With creates a child logger with additional fields.
func (l *Logger) With() *Context {
	return &Context{ctx: l.zlog.With()}
}

// Context wraps zerolog.Context for field chaining.
type Context struct {
	ctx zerolog.Context
}

func (c *Context) Str(key, val string) *Context {
	c.ctx = c.ctx.Str(key, val)
	return c
}

func (c *Context) Int(key string, val int) *Context {
	c.ctx = c.ctx.Int(key, val)
	return c
}

func (c *Context) Err(err error) *Context {
	c.ctx = c.ctx.Err(err)
	return c
}

func (c *Context) Logger() *Logger {
	return &Logger{zlog: c.ctx.Logger()}
}

// Logging methods.
func (l *Logger) Debug(msg string) {
	l.zlog.Debug().Msg(msg)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

func (l *Logger) Info(msg string) {
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

func (l *Logger) Warn(msg string) {
	l.zlog.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.zlog.Error().Msg(msg)
}

// ErrorWith logs an error event with the failure attached.
func (l *Logger) ErrorWith(msg string, err error) {
	l.zlog.Error().Err(err).Msg(msg)
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
