package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used throughout mpcalc. Library packages
// accept a Logger and default to Nop so they stay silent unless wired.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is a structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Err creates a field under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// ZerologAdapter implements Logger on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewDefaultLogger returns a console logger on stderr.
func NewDefaultLogger() Logger {
	return NewConsoleLogger(os.Stderr, zerolog.InfoLevel)
}

// NewConsoleLogger returns a human-readable logger writing to w that drops
// entries below level.
func NewConsoleLogger(w io.Writer, level zerolog.Level) Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	return NewZerologAdapter(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

// NewLogger returns a JSON logger writing to w, tagged with component.
func NewLogger(w io.Writer, component string) Logger {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// Info logs at info level.
func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	applyFields(z.logger.Info(), fields).Msg(msg)
}

// Error logs at error level with err attached.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

// Debug logs at debug level.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	applyFields(z.logger.Debug(), fields).Msg(msg)
}

// Printf logs a formatted message at info level.
func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msg(fmt.Sprintf(format, args...))
}

// Println logs its operands at info level.
func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msg(fmt.Sprint(args...))
}

func applyFields(e *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int32:
			e = e.Int32(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case uint64:
			e = e.Uint64(f.Key, v)
		case float64:
			e = e.Float64(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		case error:
			e = e.AnErr(f.Key, v)
		case fmt.Stringer:
			e = e.Stringer(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	return e
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewZerologAdapter(zerolog.Nop())
}
