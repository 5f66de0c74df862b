// Package logger holds the process-wide zap logger. Components capture
// logger.Log at construction, so InitLogger must run before they are built.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cyphera/wallet-rpc/internal/constants"
)

const serviceName = "wallet-rpc"

var (
	// Log is the global logger instance
	Log = zap.NewNop()
)

// Config selects the encoding and verbosity of the service logger.
type Config struct {
	Level zapcore.Level
	Stage string
	// JSON switches to structured output with service and stage fields.
	JSON bool
}

// ConfigForStage derives the logger config for stage. LOG_LEVEL overrides
// the level; prod logs JSON, every other stage logs to a colored console.
func ConfigForStage(stage string) Config {
	level := zapcore.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = zapcore.InfoLevel
		}
	}
	return Config{
		Level: level,
		Stage: stage,
		JSON:  stage == constants.StageProd,
	}
}

// New builds a logger for cfg.
func New(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.JSON {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.TimeKey = "timestamp"
		zapConfig.EncoderConfig.MessageKey = "message"
		zapConfig.InitialFields = map[string]interface{}{
			"service": serviceName,
			"stage":   cfg.Stage,
		}
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(cfg.Level)
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// Stacktraces in prod only for debug runs.
	zapConfig.DisableStacktrace = cfg.Stage == constants.StageProd && cfg.Level > zapcore.DebugLevel

	return zapConfig.Build()
}

// InitLogger replaces Log with a logger for stage.
func InitLogger(stage string) {
	l, err := New(ConfigForStage(stage))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Log = l
}

// ForOrigin returns a child logger tagged with the requesting dapp origin.
func ForOrigin(base *zap.Logger, origin string, fields ...zap.Field) *zap.Logger {
	return base.With(append([]zap.Field{zap.String("origin", origin)}, fields...)...)
}

// Info logs a message at InfoLevel
func Info(msg string, fields ...zapcore.Field) {
	Log.Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(msg string, fields ...zapcore.Field) {
	Log.Error(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(msg string, fields ...zapcore.Field) {
	Log.Debug(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(msg string, fields ...zapcore.Field) {
	Log.Warn(msg, fields...)
}

// Fatal logs a message at FatalLevel
// and then calls os.Exit(1)
func Fatal(msg string, fields ...zapcore.Field) {
	Log.Fatal(msg, fields...)
}

// With creates a child logger and adds structured context to it
func With(fields ...zapcore.Field) *zap.Logger {
	return Log.With(fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Log.Sync()
}
