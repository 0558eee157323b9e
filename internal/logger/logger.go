// Package logger wraps a process-wide zap logger.
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields are structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

var (
	log   *zap.Logger
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02T15:04:05.000-0700"))
}

func init() {
	log = build("console")
}

func build(encoding string) *zap.Logger {
	cfg := zap.Config{
		Encoding:         encoding,
		Level:            level,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			TimeKey:      "timestamp",
			CallerKey:    "caller",
			EncodeLevel:  zapcore.CapitalLevelEncoder,
			EncodeTime:   timeEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return l
}

// Init configures the logger for the environment. Production logs are JSON.
func Init(environment, lvl string) {
	SetLevel(lvl)
	if environment == "production" {
		log = build("json")
		return
	}
	log = build("console")
}

// SetLevel changes the minimum level at runtime. Unknown levels mean info.
func SetLevel(lvl string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(lvl)); err != nil {
		l = zapcore.InfoLevel
	}
	level.SetLevel(l)
}

// L returns the underlying zap logger.
func L() *zap.Logger {
	return log
}

// Replace swaps the underlying logger, typically for zap.NewNop in tests.
func Replace(l *zap.Logger) {
	log = l
}

func Sync() {
	_ = log.Sync()
}

func Debug(msg string, fields ...Fields) {
	log.Debug(msg, zapFields(fields)...)
}

func Info(msg string, fields ...Fields) {
	log.Info(msg, zapFields(fields)...)
}

func Warn(msg string, fields ...Fields) {
	log.Warn(msg, zapFields(fields)...)
}

func Error(msg string, fields ...Fields) {
	log.Error(msg, zapFields(fields)...)
}

func Fatal(msg string, fields ...Fields) {
	log.Fatal(msg, zapFields(fields)...)
}

func zapFields(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields[0]))
	for k, v := range fields[0] {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
